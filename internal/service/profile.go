package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository"
)

var (
	ErrProfileNotFound           = repository.ErrProfileNotFound
	ErrVerificationAlreadyFinal  = errors.New("verification already reviewed")
	ErrInvalidVerificationStatus = errors.New("invalid verification status")
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (domain.PilgrimProfile, error)
	FindAll(ctx context.Context) ([]domain.PilgrimProfile, error)
	Upsert(ctx context.Context, profile domain.PilgrimProfile) (domain.PilgrimProfile, error)
	UpdatePhoto(ctx context.Context, userID, photoURL string) error
	AcceptTerms(ctx context.Context, userID, termsVersion, privacyVersion string) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
	SetCanInvite(ctx context.Context, userID string, canInvite bool) error
	SetSuspended(ctx context.Context, userID string, suspended bool, reason string) error
	SubmitVerification(ctx context.Context, userID, documentPath, selfiePath string) error
	ReviewVerification(ctx context.Context, userID, reviewedBy, status, reason string) error
	FindByVerificationStatus(ctx context.Context, statuses []string) ([]domain.PilgrimProfile, error)
}

type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{
		repo: repo,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.PilgrimProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return domain.PilgrimProfile{}, ErrProfileNotFound
		}
		return domain.PilgrimProfile{}, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return profile, nil
}

// SaveProfile creates or fully overwrites the caller's profile. Moderation
// and verification fields are never touched here; the storage layer only
// writes the user-editable columns.
func (s *ProfileService) SaveProfile(ctx context.Context, profile domain.PilgrimProfile) (domain.PilgrimProfile, error) {
	saved, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		return domain.PilgrimProfile{}, fmt.Errorf("s.repo.Upsert -> %w", err)
	}

	return saved, nil
}

func (s *ProfileService) UpdatePhoto(ctx context.Context, userID, photoURL string) error {
	if err := s.repo.UpdatePhoto(ctx, userID, photoURL); err != nil {
		return fmt.Errorf("s.repo.UpdatePhoto -> %w", err)
	}
	return nil
}

func (s *ProfileService) AcceptTerms(ctx context.Context, userID, termsVersion, privacyVersion string) error {
	if err := s.repo.AcceptTerms(ctx, userID, termsVersion, privacyVersion); err != nil {
		return fmt.Errorf("s.repo.AcceptTerms -> %w", err)
	}
	return nil
}

// SubmitVerification stores the uploaded document paths and moves the
// profile to pending review. Resubmission after a rejection is allowed.
func (s *ProfileService) SubmitVerification(ctx context.Context, userID, documentPath, selfiePath string) error {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	if profile.VerificationStatus == domain.VerificationVerified {
		return ErrVerificationAlreadyFinal
	}

	if err := s.repo.SubmitVerification(ctx, userID, documentPath, selfiePath); err != nil {
		return fmt.Errorf("s.repo.SubmitVerification -> %w", err)
	}

	return nil
}

// ReviewVerification records an admin's verdict on a pending submission.
func (s *ProfileService) ReviewVerification(ctx context.Context, userID, reviewedBy, status, reason string) error {
	if status != domain.VerificationVerified && status != domain.VerificationRejected {
		return ErrInvalidVerificationStatus
	}

	if _, err := s.repo.FindByUserID(ctx, userID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	if err := s.repo.ReviewVerification(ctx, userID, reviewedBy, status, reason); err != nil {
		return fmt.Errorf("s.repo.ReviewVerification -> %w", err)
	}

	return nil
}

// ListVerifications returns every profile that has entered the verification
// flow, optionally narrowed to a single status.
func (s *ProfileService) ListVerifications(ctx context.Context, status string) ([]domain.PilgrimProfile, error) {
	statuses := []string{
		domain.VerificationPending,
		domain.VerificationVerified,
		domain.VerificationRejected,
	}

	if status != "" {
		switch status {
		case domain.VerificationPending, domain.VerificationVerified, domain.VerificationRejected:
			statuses = []string{status}
		default:
			return nil, ErrInvalidVerificationStatus
		}
	}

	profiles, err := s.repo.FindByVerificationStatus(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByVerificationStatus -> %w", err)
	}

	return profiles, nil
}
