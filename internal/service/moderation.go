package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository"
)

var (
	ErrInvalidReportReason = errors.New("invalid report reason")
	ErrInvalidReportStatus = errors.New("invalid report status")
	ErrSelfTarget          = errors.New("cannot target yourself")
)

type ModerationRepository interface {
	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
	BlockedIDs(ctx context.Context, blockerID string) ([]string, error)
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
	CreateReport(ctx context.Context, report domain.Report) (domain.Report, error)
	ListReports(ctx context.Context) ([]domain.Report, error)
	UpdateReportStatus(ctx context.Context, id uint, status, adminNotes string) error
}

type ModerationService struct {
	repo     ModerationRepository
	profiles ProfileRepository
}

func NewModerationService(repo ModerationRepository, profiles ProfileRepository) *ModerationService {
	return &ModerationService{
		repo:     repo,
		profiles: profiles,
	}
}

func (s *ModerationService) BlockUser(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrSelfTarget
	}

	if err := s.repo.Block(ctx, blockerID, blockedID); err != nil {
		return fmt.Errorf("s.repo.Block -> %w", err)
	}

	return nil
}

func (s *ModerationService) UnblockUser(ctx context.Context, blockerID, blockedID string) error {
	if err := s.repo.Unblock(ctx, blockerID, blockedID); err != nil {
		return fmt.Errorf("s.repo.Unblock -> %w", err)
	}
	return nil
}

// ListBlockedProfiles resolves the caller's block list to profiles. Blocked
// users who never saved a profile are skipped.
func (s *ModerationService) ListBlockedProfiles(ctx context.Context, blockerID string) ([]domain.PilgrimProfile, error) {
	ids, err := s.repo.BlockedIDs(ctx, blockerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.BlockedIDs -> %w", err)
	}

	profiles := make([]domain.PilgrimProfile, 0, len(ids))
	for _, id := range ids {
		profile, err := s.profiles.FindByUserID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				continue
			}
			return nil, fmt.Errorf("s.profiles.FindByUserID -> %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func (s *ModerationService) ReportUser(ctx context.Context, report domain.Report) (domain.Report, error) {
	if report.ReporterID == report.ReportedID {
		return domain.Report{}, ErrSelfTarget
	}
	if !domain.IsValidReportReason(report.Reason) {
		return domain.Report{}, ErrInvalidReportReason
	}

	created, err := s.repo.CreateReport(ctx, report)
	if err != nil {
		return domain.Report{}, fmt.Errorf("s.repo.CreateReport -> %w", err)
	}

	return created, nil
}

func (s *ModerationService) ListReports(ctx context.Context) ([]domain.Report, error) {
	reports, err := s.repo.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListReports -> %w", err)
	}

	return reports, nil
}

func (s *ModerationService) UpdateReport(ctx context.Context, id uint, status, adminNotes string) error {
	switch status {
	case domain.ReportOpen, domain.ReportReviewing, domain.ReportClosed:
	default:
		return ErrInvalidReportStatus
	}

	if err := s.repo.UpdateReportStatus(ctx, id, status, adminNotes); err != nil {
		return fmt.Errorf("s.repo.UpdateReportStatus -> %w", err)
	}

	return nil
}

func (s *ModerationService) SuspendUser(ctx context.Context, userID, reason string) error {
	if err := s.profiles.SetSuspended(ctx, userID, true, reason); err != nil {
		return fmt.Errorf("s.profiles.SetSuspended -> %w", err)
	}
	return nil
}

func (s *ModerationService) UnsuspendUser(ctx context.Context, userID string) error {
	if err := s.profiles.SetSuspended(ctx, userID, false, ""); err != nil {
		return fmt.Errorf("s.profiles.SetSuspended -> %w", err)
	}
	return nil
}

func (s *ModerationService) SetCanInvite(ctx context.Context, userID string, canInvite bool) error {
	if err := s.profiles.SetCanInvite(ctx, userID, canInvite); err != nil {
		return fmt.Errorf("s.profiles.SetCanInvite -> %w", err)
	}
	return nil
}

func (s *ModerationService) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	if err := s.profiles.SetAdmin(ctx, userID, isAdmin); err != nil {
		return fmt.Errorf("s.profiles.SetAdmin -> %w", err)
	}
	return nil
}
