package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrDonationNotFound = errors.New("donation not found")

type Donation struct {
	ID              uint `gorm:"primaryKey"`
	UserID          string
	Amount          float64 `gorm:"not null"`
	Message         string
	StripeSessionID string `gorm:"index"`
	PaymentStatus   string `gorm:"default:pending"`
	CreatedAt       time.Time
}

type DonationDAO struct {
	db *gorm.DB
}

func NewDonationDAO(db *gorm.DB) *DonationDAO {
	return &DonationDAO{
		db: db,
	}
}

func (d *DonationDAO) Insert(ctx context.Context, donation Donation) (Donation, error) {
	result := d.db.WithContext(ctx).Create(&donation)
	if result.Error != nil {
		return Donation{}, result.Error
	}

	return donation, nil
}

func (d *DonationDAO) FindBySessionID(ctx context.Context, sessionID string) (Donation, error) {
	var donation Donation

	result := d.db.WithContext(ctx).First(&donation, "stripe_session_id = ?", sessionID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Donation{}, ErrDonationNotFound
		}

		return Donation{}, result.Error
	}

	return donation, nil
}

func (d *DonationDAO) UpdateStatusBySessionID(ctx context.Context, sessionID, status string) error {
	return d.db.WithContext(ctx).Model(&Donation{}).
		Where("stripe_session_id = ?", sessionID).
		Update("payment_status", status).Error
}
