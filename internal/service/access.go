package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository"
)

var (
	ErrInviteNotFound      = repository.ErrInviteNotFound
	ErrInviteNotRedeemable = errors.New("invite cannot be redeemed")
	ErrInviteForbidden     = errors.New("user may not manage this invite")
)

type InviteRepository interface {
	Create(ctx context.Context, invite domain.Invite) (domain.Invite, error)
	FindByCode(ctx context.Context, code string) (domain.Invite, error)
	FindAll(ctx context.Context) ([]domain.Invite, error)
	FindByCreator(ctx context.Context, userID string) ([]domain.Invite, error)
	Disable(ctx context.Context, id uint) error
	Consume(ctx context.Context, code, userID string) (bool, error)
	HasRedemption(ctx context.Context, userID string) (bool, error)
}

// AccessService owns the invite-gated onboarding state machine: suspended,
// needs_invite, needs_profile, needs_terms, active.
type AccessService struct {
	invites     InviteRepository
	profiles    ProfileRepository
	adminEmails map[string]bool
}

func NewAccessService(invites InviteRepository, profiles ProfileRepository, adminEmails []string) *AccessService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(e)] = true
	}

	return &AccessService{
		invites:     invites,
		profiles:    profiles,
		adminEmails: admins,
	}
}

func (s *AccessService) IsAdminEmail(email string) bool {
	return s.adminEmails[strings.ToLower(email)]
}

// IsAdminUser is true for configured admin e-mails and for profiles with
// the admin flag set.
func (s *AccessService) IsAdminUser(ctx context.Context, userID, email string) (bool, error) {
	if s.IsAdminEmail(email) {
		return true, nil
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("s.profiles.FindByUserID -> %w", err)
	}

	return profile.IsAdmin, nil
}

// Status resolves where the user stands in onboarding. Admin e-mails bypass
// the invite gate but still walk through profile and terms.
func (s *AccessService) Status(ctx context.Context, userID, email string) (domain.AccessStatus, error) {
	isAdmin := s.IsAdminEmail(email)

	var profile *domain.PilgrimProfile
	found, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		profile = &found
		isAdmin = isAdmin || found.IsAdmin
	case !errors.Is(err, repository.ErrProfileNotFound):
		return domain.AccessStatus{}, fmt.Errorf("s.profiles.FindByUserID -> %w", err)
	}

	if profile != nil && profile.IsSuspended {
		return domain.AccessStatus{
			Status:  domain.AccessSuspended,
			Reason:  profile.SuspensionReason,
			IsAdmin: isAdmin,
		}, nil
	}

	if !isAdmin {
		redeemed, err := s.invites.HasRedemption(ctx, userID)
		if err != nil {
			return domain.AccessStatus{}, fmt.Errorf("s.invites.HasRedemption -> %w", err)
		}
		if !redeemed {
			return domain.AccessStatus{Status: domain.AccessNeedsInvite}, nil
		}
	}

	if profile == nil {
		return domain.AccessStatus{
			Status:  domain.AccessNeedsProfile,
			IsAdmin: isAdmin,
		}, nil
	}

	if profile.AcceptedTermsAt == nil || profile.TermsVersion != domain.CurrentTermsVersion {
		return domain.AccessStatus{
			Status:  domain.AccessNeedsTerms,
			IsAdmin: isAdmin,
			Profile: profile,
		}, nil
	}

	return domain.AccessStatus{
		Status:  domain.AccessActive,
		IsAdmin: isAdmin,
		Profile: profile,
	}, nil
}

// ValidateInvite checks a code without consuming a use, so the client can
// show feedback before the user commits to redeeming.
func (s *AccessService) ValidateInvite(ctx context.Context, code string) (domain.Invite, error) {
	invite, err := s.invites.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInviteNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		return domain.Invite{}, fmt.Errorf("s.invites.FindByCode -> %w", err)
	}

	if !invite.Redeemable(time.Now()) {
		return domain.Invite{}, ErrInviteNotRedeemable
	}

	return invite, nil
}

// RedeemInvite burns one use of the code for the user.
func (s *AccessService) RedeemInvite(ctx context.Context, code, userID string) error {
	consumed, err := s.invites.Consume(ctx, code, userID)
	if err != nil {
		return fmt.Errorf("s.invites.Consume -> %w", err)
	}
	if consumed {
		return nil
	}

	// Distinguish an unknown code from one that is disabled, expired or
	// used up.
	if _, err := s.invites.FindByCode(ctx, code); err != nil {
		if errors.Is(err, ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("s.invites.FindByCode -> %w", err)
	}

	return ErrInviteNotRedeemable
}

// CreateInvite mints a fresh code. Only admins and users explicitly granted
// invite rights may create codes.
func (s *AccessService) CreateInvite(ctx context.Context, creatorID string, isAdmin bool, maxUses int, expiresAt *time.Time) (domain.Invite, error) {
	if !isAdmin {
		profile, err := s.profiles.FindByUserID(ctx, creatorID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return domain.Invite{}, ErrInviteForbidden
			}
			return domain.Invite{}, fmt.Errorf("s.profiles.FindByUserID -> %w", err)
		}
		if !profile.CanInvite {
			return domain.Invite{}, ErrInviteForbidden
		}
	}

	if maxUses <= 0 {
		maxUses = 1
	}

	code, err := generateInviteCode()
	if err != nil {
		return domain.Invite{}, fmt.Errorf("generateInviteCode -> %w", err)
	}

	invite, err := s.invites.Create(ctx, domain.Invite{
		Code:      code,
		CreatedBy: creatorID,
		MaxUses:   maxUses,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return domain.Invite{}, fmt.Errorf("s.invites.Create -> %w", err)
	}

	return invite, nil
}

// ListInvites shows admins every code, regular users only their own.
func (s *AccessService) ListInvites(ctx context.Context, userID string, isAdmin bool) ([]domain.Invite, error) {
	if isAdmin {
		invites, err := s.invites.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("s.invites.FindAll -> %w", err)
		}
		return invites, nil
	}

	invites, err := s.invites.FindByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.invites.FindByCreator -> %w", err)
	}

	return invites, nil
}

// DisableInvite turns a code off. Admins may disable any code, others only
// codes they created.
func (s *AccessService) DisableInvite(ctx context.Context, inviteID uint, userID string, isAdmin bool) error {
	if !isAdmin {
		own, err := s.invites.FindByCreator(ctx, userID)
		if err != nil {
			return fmt.Errorf("s.invites.FindByCreator -> %w", err)
		}

		mine := false
		for _, inv := range own {
			if inv.ID == inviteID {
				mine = true
				break
			}
		}
		if !mine {
			return ErrInviteForbidden
		}
	}

	if err := s.invites.Disable(ctx, inviteID); err != nil {
		return fmt.Errorf("s.invites.Disable -> %w", err)
	}

	return nil
}

var inviteEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func generateInviteCode() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return inviteEncoding.EncodeToString(buf), nil
}
