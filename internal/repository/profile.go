package repository

import (
	"context"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository/dao"
)

var ErrProfileNotFound = dao.ErrProfileNotFound

type ProfileDAO interface {
	FindByUserID(ctx context.Context, userID string) (dao.PilgrimProfile, error)
	FindAll(ctx context.Context) ([]dao.PilgrimProfile, error)
	Upsert(ctx context.Context, profile dao.PilgrimProfile) (dao.PilgrimProfile, error)
	UpdatePhoto(ctx context.Context, userID, photoURL string) error
	AcceptTerms(ctx context.Context, userID, termsVersion, privacyVersion string) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
	SetCanInvite(ctx context.Context, userID string, canInvite bool) error
	SetSuspended(ctx context.Context, userID string, suspended bool, reason string) error
	SubmitVerification(ctx context.Context, userID, documentPath, selfiePath string) error
	ReviewVerification(ctx context.Context, userID, reviewedBy, status, reason string) error
	FindByVerificationStatus(ctx context.Context, statuses []string) ([]dao.PilgrimProfile, error)
}

type ProfileRepository struct {
	dao ProfileDAO
}

func NewProfileRepository(dao ProfileDAO) *ProfileRepository {
	return &ProfileRepository{
		dao: dao,
	}
}

func (r *ProfileRepository) domainToDao(p domain.PilgrimProfile) dao.PilgrimProfile {
	return dao.PilgrimProfile{
		ID:              p.ID,
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		Language:        p.Language,
		Nationality:     p.Nationality,
		Bio:             p.Bio,
		PhotoURL:        p.PhotoURL,
		TravelStartDate: p.TravelStartDate,
		TravelEndDate:   p.TravelEndDate,
		Cities:          p.Cities,
		PrefTransport:   p.PrefTransport,
		PrefMeals:       p.PrefMeals,
		PrefHiking:      p.PrefHiking,
		PrefLodging:     p.PrefLodging,
	}
}

func (r *ProfileRepository) daoToDomain(p dao.PilgrimProfile) domain.PilgrimProfile {
	return domain.PilgrimProfile{
		ID:                      p.ID,
		UserID:                  p.UserID,
		DisplayName:             p.DisplayName,
		Language:                p.Language,
		Nationality:             p.Nationality,
		Bio:                     p.Bio,
		PhotoURL:                p.PhotoURL,
		TravelStartDate:         p.TravelStartDate,
		TravelEndDate:           p.TravelEndDate,
		Cities:                  p.Cities,
		PrefTransport:           p.PrefTransport,
		PrefMeals:               p.PrefMeals,
		PrefHiking:              p.PrefHiking,
		PrefLodging:             p.PrefLodging,
		IsAdmin:                 p.IsAdmin,
		CanInvite:               p.CanInvite,
		IsSuspended:             p.IsSuspended,
		SuspensionReason:        p.SuspensionReason,
		AcceptedTermsAt:         p.AcceptedTermsAt,
		TermsVersion:            p.TermsVersion,
		PrivacyVersion:          p.PrivacyVersion,
		VerificationStatus:      p.VerificationStatus,
		VerificationSubmittedAt: p.VerificationSubmittedAt,
		VerificationReviewedAt:  p.VerificationReviewedAt,
		VerificationReason:      p.VerificationReason,
		DocumentPath:            p.DocumentPath,
		SelfiePath:              p.SelfiePath,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (domain.PilgrimProfile, error) {
	profile, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return domain.PilgrimProfile{}, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daoToDomain(profile), nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]domain.PilgrimProfile, error) {
	profilesDAO, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	profiles := make([]domain.PilgrimProfile, len(profilesDAO))
	for i, p := range profilesDAO {
		profiles[i] = r.daoToDomain(p)
	}

	return profiles, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile domain.PilgrimProfile) (domain.PilgrimProfile, error) {
	saved, err := r.dao.Upsert(ctx, r.domainToDao(profile))
	if err != nil {
		return domain.PilgrimProfile{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *ProfileRepository) UpdatePhoto(ctx context.Context, userID, photoURL string) error {
	if err := r.dao.UpdatePhoto(ctx, userID, photoURL); err != nil {
		return fmt.Errorf("r.dao.UpdatePhoto -> %w", err)
	}
	return nil
}

func (r *ProfileRepository) AcceptTerms(ctx context.Context, userID, termsVersion, privacyVersion string) error {
	if err := r.dao.AcceptTerms(ctx, userID, termsVersion, privacyVersion); err != nil {
		return fmt.Errorf("r.dao.AcceptTerms -> %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	if err := r.dao.SetAdmin(ctx, userID, isAdmin); err != nil {
		return fmt.Errorf("r.dao.SetAdmin -> %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetCanInvite(ctx context.Context, userID string, canInvite bool) error {
	if err := r.dao.SetCanInvite(ctx, userID, canInvite); err != nil {
		return fmt.Errorf("r.dao.SetCanInvite -> %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetSuspended(ctx context.Context, userID string, suspended bool, reason string) error {
	if err := r.dao.SetSuspended(ctx, userID, suspended, reason); err != nil {
		return fmt.Errorf("r.dao.SetSuspended -> %w", err)
	}
	return nil
}

func (r *ProfileRepository) SubmitVerification(ctx context.Context, userID, documentPath, selfiePath string) error {
	if err := r.dao.SubmitVerification(ctx, userID, documentPath, selfiePath); err != nil {
		return fmt.Errorf("r.dao.SubmitVerification -> %w", err)
	}
	return nil
}

func (r *ProfileRepository) ReviewVerification(ctx context.Context, userID, reviewedBy, status, reason string) error {
	if err := r.dao.ReviewVerification(ctx, userID, reviewedBy, status, reason); err != nil {
		return fmt.Errorf("r.dao.ReviewVerification -> %w", err)
	}
	return nil
}

func (r *ProfileRepository) FindByVerificationStatus(ctx context.Context, statuses []string) ([]domain.PilgrimProfile, error) {
	profilesDAO, err := r.dao.FindByVerificationStatus(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByVerificationStatus -> %w", err)
	}

	profiles := make([]domain.PilgrimProfile, len(profilesDAO))
	for i, p := range profilesDAO {
		profiles[i] = r.daoToDomain(p)
	}

	return profiles, nil
}
