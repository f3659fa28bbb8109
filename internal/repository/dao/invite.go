package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrInviteNotFound = errors.New("invite not found")

type Invite struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"uniqueIndex;not null"`
	CreatedBy  string `gorm:"index;not null"`
	MaxUses    int    `gorm:"default:1"`
	UsedCount  int    `gorm:"default:0"`
	ExpiresAt  *time.Time
	IsDisabled bool `gorm:"default:false"`
	CreatedAt  time.Time
}

type InviteRedemption struct {
	ID        uint   `gorm:"primaryKey"`
	InviteID  uint   `gorm:"index;not null"`
	UserID    string `gorm:"index;not null"`
	CreatedAt time.Time
}

type InviteDAO struct {
	db *gorm.DB
}

func NewInviteDAO(db *gorm.DB) *InviteDAO {
	return &InviteDAO{
		db: db,
	}
}

func (d *InviteDAO) Insert(ctx context.Context, invite Invite) (Invite, error) {
	result := d.db.WithContext(ctx).Create(&invite)
	if result.Error != nil {
		return Invite{}, result.Error
	}

	return invite, nil
}

func (d *InviteDAO) FindByCode(ctx context.Context, code string) (Invite, error) {
	var invite Invite

	result := d.db.WithContext(ctx).First(&invite, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Invite{}, ErrInviteNotFound
		}

		return Invite{}, result.Error
	}

	return invite, nil
}

func (d *InviteDAO) FindAll(ctx context.Context) ([]Invite, error) {
	var invites []Invite

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&invites)
	if result.Error != nil {
		return nil, result.Error
	}

	return invites, nil
}

func (d *InviteDAO) FindByCreator(ctx context.Context, userID string) ([]Invite, error) {
	var invites []Invite

	result := d.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&invites)
	if result.Error != nil {
		return nil, result.Error
	}

	return invites, nil
}

func (d *InviteDAO) Disable(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Model(&Invite{}).
		Where("id = ?", id).
		Update("is_disabled", true).Error
}

// Consume atomically burns one use of the code and records who redeemed it.
// Returns false when the code is unknown, disabled, expired or used up.
func (d *InviteDAO) Consume(ctx context.Context, code, userID string) (bool, error) {
	consumed := false

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Invite{}).
			Where("code = ? AND NOT is_disabled", code).
			Where("expires_at IS NULL OR expires_at > NOW()").
			Where("max_uses <= 0 OR used_count < max_uses").
			Update("used_count", gorm.Expr("used_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var invite Invite
		if err := tx.First(&invite, "code = ?", code).Error; err != nil {
			return err
		}

		if err := tx.Create(&InviteRedemption{InviteID: invite.ID, UserID: userID}).Error; err != nil {
			return err
		}

		consumed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return consumed, nil
}

func (d *InviteDAO) HasRedemption(ctx context.Context, userID string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&InviteRedemption{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
