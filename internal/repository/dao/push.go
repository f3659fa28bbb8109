package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSubscriptionNotFound = errors.New("push subscription not found")

type PushSubscription struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex;not null"`
	Endpoint  string `gorm:"not null"`
	P256dh    string `gorm:"not null"`
	Auth      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PushDAO struct {
	db *gorm.DB
}

func NewPushDAO(db *gorm.DB) *PushDAO {
	return &PushDAO{
		db: db,
	}
}

// Upsert keeps a single subscription per user; re-subscribing replaces the
// endpoint and keys.
func (d *PushDAO) Upsert(ctx context.Context, sub PushSubscription) (PushSubscription, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"endpoint", "p256dh", "auth", "updated_at"}),
	}).Create(&sub)
	if result.Error != nil {
		return PushSubscription{}, result.Error
	}

	return sub, nil
}

func (d *PushDAO) FindByUserID(ctx context.Context, userID string) (PushSubscription, error) {
	var sub PushSubscription

	result := d.db.WithContext(ctx).First(&sub, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PushSubscription{}, ErrSubscriptionNotFound
		}

		return PushSubscription{}, result.Error
	}

	return sub, nil
}

func (d *PushDAO) DeleteByUserID(ctx context.Context, userID string) error {
	return d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&PushSubscription{}).Error
}
