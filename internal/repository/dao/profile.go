package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProfileNotFound = errors.New("profile not found")

type PilgrimProfile struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"uniqueIndex;not null"`

	DisplayName string `gorm:"not null"`
	Language    string `gorm:"default:en"`
	Nationality string
	Bio         string
	PhotoURL    string

	TravelStartDate string
	TravelEndDate   string
	Cities          []string `gorm:"serializer:json"`

	PrefTransport int `gorm:"default:0"`
	PrefMeals     int `gorm:"default:0"`
	PrefHiking    int `gorm:"default:0"`
	PrefLodging   int `gorm:"default:0"`

	IsAdmin          bool `gorm:"default:false"`
	CanInvite        bool `gorm:"default:false"`
	IsSuspended      bool `gorm:"default:false"`
	SuspensionReason string

	AcceptedTermsAt *time.Time
	TermsVersion    string
	PrivacyVersion  string

	VerificationStatus      string `gorm:"default:unverified"`
	VerificationSubmittedAt *time.Time
	VerificationReviewedAt  *time.Time
	VerificationReviewedBy  string
	VerificationReason      string
	DocumentPath            string
	SelfiePath              string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProfileDAO struct {
	db *gorm.DB
}

func NewProfileDAO(db *gorm.DB) *ProfileDAO {
	return &ProfileDAO{
		db: db,
	}
}

func (d *ProfileDAO) FindByUserID(ctx context.Context, userID string) (PilgrimProfile, error) {
	var profile PilgrimProfile

	result := d.db.WithContext(ctx).First(&profile, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PilgrimProfile{}, ErrProfileNotFound
		}

		return PilgrimProfile{}, result.Error
	}

	return profile, nil
}

func (d *ProfileDAO) FindAll(ctx context.Context) ([]PilgrimProfile, error) {
	var profiles []PilgrimProfile

	result := d.db.WithContext(ctx).Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}

	return profiles, nil
}

// Upsert inserts the profile or, when the user already has one, overwrites
// the user-editable fields. Moderation and verification columns are never
// touched here.
func (d *ProfileDAO) Upsert(ctx context.Context, profile PilgrimProfile) (PilgrimProfile, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "language", "nationality", "bio", "photo_url",
			"travel_start_date", "travel_end_date", "cities",
			"pref_transport", "pref_meals", "pref_hiking", "pref_lodging",
			"updated_at",
		}),
	}).Create(&profile)
	if result.Error != nil {
		return PilgrimProfile{}, result.Error
	}

	return d.FindByUserID(ctx, profile.UserID)
}

func (d *ProfileDAO) UpdatePhoto(ctx context.Context, userID, photoURL string) error {
	return d.db.WithContext(ctx).Model(&PilgrimProfile{}).
		Where("user_id = ?", userID).
		Update("photo_url", photoURL).Error
}

func (d *ProfileDAO) AcceptTerms(ctx context.Context, userID, termsVersion, privacyVersion string) error {
	now := time.Now()
	return d.db.WithContext(ctx).Model(&PilgrimProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"accepted_terms_at": &now,
			"terms_version":     termsVersion,
			"privacy_version":   privacyVersion,
		}).Error
}

func (d *ProfileDAO) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	return d.db.WithContext(ctx).Model(&PilgrimProfile{}).
		Where("user_id = ?", userID).
		Update("is_admin", isAdmin).Error
}

func (d *ProfileDAO) SetCanInvite(ctx context.Context, userID string, canInvite bool) error {
	return d.db.WithContext(ctx).Model(&PilgrimProfile{}).
		Where("user_id = ?", userID).
		Update("can_invite", canInvite).Error
}

func (d *ProfileDAO) SetSuspended(ctx context.Context, userID string, suspended bool, reason string) error {
	return d.db.WithContext(ctx).Model(&PilgrimProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_suspended":      suspended,
			"suspension_reason": reason,
		}).Error
}

func (d *ProfileDAO) SubmitVerification(ctx context.Context, userID, documentPath, selfiePath string) error {
	now := time.Now()
	return d.db.WithContext(ctx).Model(&PilgrimProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"verification_status":       "pending",
			"verification_submitted_at": &now,
			"verification_reviewed_at":  nil,
			"verification_reason":       "",
			"document_path":             documentPath,
			"selfie_path":               selfiePath,
		}).Error
}

func (d *ProfileDAO) ReviewVerification(ctx context.Context, userID, reviewedBy, status, reason string) error {
	now := time.Now()
	return d.db.WithContext(ctx).Model(&PilgrimProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"verification_status":      status,
			"verification_reviewed_at": &now,
			"verification_reviewed_by": reviewedBy,
			"verification_reason":      reason,
		}).Error
}

func (d *ProfileDAO) FindByVerificationStatus(ctx context.Context, statuses []string) ([]PilgrimProfile, error) {
	var profiles []PilgrimProfile

	result := d.db.WithContext(ctx).
		Where("verification_status IN ?", statuses).
		Order("verification_submitted_at ASC").
		Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}

	return profiles, nil
}
