package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository"
)

var (
	ErrActivityNotFound     = repository.ErrActivityNotFound
	ErrIsCreator            = errors.New("creator is already an implicit member")
	ErrAlreadyMember        = errors.New("user already joined this activity")
	ErrNoSpotsAvailable     = errors.New("no spots available")
	ErrNotCreator           = errors.New("only the creator may do this")
	ErrNotMember            = errors.New("user is not a member of this activity")
	ErrInvalidActivityType  = errors.New("invalid activity type")
	ErrVerificationRequired = errors.New("identity verification required for this activity type")
)

type ActivityRepository interface {
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	GetByID(ctx context.Context, id uint) (domain.Activity, error)
	ListAll(ctx context.Context) ([]domain.AnnotatedActivity, error)
	ListMine(ctx context.Context, userID string) ([]domain.AnnotatedActivity, error)
	Delete(ctx context.Context, id uint) error
	CountParticipants(ctx context.Context, activityID uint) (int, error)
	ParticipantProfiles(ctx context.Context, activityID uint) ([]domain.PilgrimProfile, error)
	IsParticipant(ctx context.Context, activityID uint, userID string) (bool, error)
	AddParticipant(ctx context.Context, activityID uint, userID string) error
	RemoveParticipant(ctx context.Context, activityID uint, userID string) error
	CreateMessage(ctx context.Context, message domain.ChatMessage) (domain.ChatMessage, error)
	ListMessages(ctx context.Context, activityID uint) ([]domain.ChatMessage, error)
	CreateRating(ctx context.Context, rating domain.Rating) (domain.Rating, error)
	ListRatings(ctx context.Context, activityID uint) ([]domain.Rating, error)
	ListUserRankings(ctx context.Context) ([]domain.UserRanking, error)
}

type ActivityService struct {
	repo        ActivityRepository
	profileRepo ProfileRepository
}

func NewActivityService(repo ActivityRepository, profileRepo ProfileRepository) *ActivityService {
	return &ActivityService{
		repo:        repo,
		profileRepo: profileRepo,
	}
}

// CreateActivity inserts a new activity owned by the caller. Transport and
// lodging activities are only open to verified pilgrims; admins are exempt
// from the verification gate.
func (s *ActivityService) CreateActivity(ctx context.Context, activity domain.Activity, isAdmin bool) (domain.Activity, error) {
	if !activity.Type.IsValid() {
		return domain.Activity{}, ErrInvalidActivityType
	}

	if activity.Type.RequiresVerification() && !isAdmin {
		profile, err := s.profileRepo.FindByUserID(ctx, activity.CreatorID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return domain.Activity{}, ErrVerificationRequired
			}
			return domain.Activity{}, fmt.Errorf("s.profileRepo.FindByUserID -> %w", err)
		}
		if profile.VerificationStatus != domain.VerificationVerified {
			return domain.Activity{}, ErrVerificationRequired
		}
	}

	created, err := s.repo.Create(ctx, activity)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ActivityService) ListActivities(ctx context.Context) ([]domain.AnnotatedActivity, error) {
	activities, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListAll -> %w", err)
	}

	return activities, nil
}

func (s *ActivityService) ListMine(ctx context.Context, userID string) ([]domain.AnnotatedActivity, error) {
	activities, err := s.repo.ListMine(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListMine -> %w", err)
	}

	return activities, nil
}

// GetDetail builds the per-viewer view of one activity: annotated fields,
// viewer-relative flags and the full roster, creator first. A creator who
// never saved a profile is omitted from the roster rather than replaced
// with a placeholder.
func (s *ActivityService) GetDetail(ctx context.Context, activityID uint, viewerID string) (domain.ActivityDetail, error) {
	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return domain.ActivityDetail{}, ErrActivityNotFound
		}
		return domain.ActivityDetail{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	count, err := s.repo.CountParticipants(ctx, activityID)
	if err != nil {
		return domain.ActivityDetail{}, fmt.Errorf("s.repo.CountParticipants -> %w", err)
	}

	isParticipant, err := s.repo.IsParticipant(ctx, activityID, viewerID)
	if err != nil {
		return domain.ActivityDetail{}, fmt.Errorf("s.repo.IsParticipant -> %w", err)
	}

	participants, err := s.repo.ParticipantProfiles(ctx, activityID)
	if err != nil {
		return domain.ActivityDetail{}, fmt.Errorf("s.repo.ParticipantProfiles -> %w", err)
	}

	creatorName := domain.FallbackDisplayName
	roster := make([]domain.PilgrimProfile, 0, len(participants)+1)

	creator, err := s.profileRepo.FindByUserID(ctx, activity.CreatorID)
	switch {
	case err == nil:
		creatorName = creator.DisplayName
		roster = append(roster, creator)
	case !errors.Is(err, repository.ErrProfileNotFound):
		return domain.ActivityDetail{}, fmt.Errorf("s.profileRepo.FindByUserID -> %w", err)
	}

	roster = append(roster, participants...)

	return domain.ActivityDetail{
		AnnotatedActivity: domain.AnnotatedActivity{
			Activity:         activity,
			ParticipantCount: count + 1,
			CreatorName:      creatorName,
		},
		IsCreator:     activity.CreatorID == viewerID,
		IsParticipant: isParticipant,
		Participants:  roster,
	}, nil
}

// DeleteActivity removes an activity and its dependent rows. Only the
// creator, or an admin, may delete.
func (s *ActivityService) DeleteActivity(ctx context.Context, activityID uint, userID string, isAdmin bool) error {
	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if activity.CreatorID != userID && !isAdmin {
		return ErrNotCreator
	}

	if err := s.repo.Delete(ctx, activityID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// Join adds the caller to the activity's roster. The checks run in a fixed
// order so the caller always sees the most specific failure: unknown
// activity, own activity, duplicate join, then capacity. The final insert is
// a conditional write, so two racing joins can never exceed capacity even
// though the advisory capacity check above it reads a possibly stale count.
func (s *ActivityService) Join(ctx context.Context, activityID uint, userID string) error {
	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if activity.CreatorID == userID {
		return ErrIsCreator
	}

	isParticipant, err := s.repo.IsParticipant(ctx, activityID, userID)
	if err != nil {
		return fmt.Errorf("s.repo.IsParticipant -> %w", err)
	}
	if isParticipant {
		return ErrAlreadyMember
	}

	count, err := s.repo.CountParticipants(ctx, activityID)
	if err != nil {
		return fmt.Errorf("s.repo.CountParticipants -> %w", err)
	}
	if activity.EffectiveSpots()-(count+1) <= 0 {
		return ErrNoSpotsAvailable
	}

	if err := s.repo.AddParticipant(ctx, activityID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyJoined):
			return ErrAlreadyMember
		case errors.Is(err, repository.ErrActivityFull):
			return ErrNoSpotsAvailable
		}
		return fmt.Errorf("s.repo.AddParticipant -> %w", err)
	}

	return nil
}

// Leave removes the caller's membership row. Leaving an activity the caller
// never joined is a no-op, not an error.
func (s *ActivityService) Leave(ctx context.Context, activityID uint, userID string) error {
	if err := s.repo.RemoveParticipant(ctx, activityID, userID); err != nil {
		return fmt.Errorf("s.repo.RemoveParticipant -> %w", err)
	}
	return nil
}

// IsMember reports whether the user is the creator or a participant. Chat
// and rating access both derive from this single union.
func (s *ActivityService) IsMember(ctx context.Context, activityID uint, userID string) (bool, error) {
	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return false, ErrActivityNotFound
		}
		return false, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if activity.CreatorID == userID {
		return true, nil
	}

	isParticipant, err := s.repo.IsParticipant(ctx, activityID, userID)
	if err != nil {
		return false, fmt.Errorf("s.repo.IsParticipant -> %w", err)
	}

	return isParticipant, nil
}

func (s *ActivityService) GetUserRankings(ctx context.Context) ([]domain.UserRanking, error) {
	rankings, err := s.repo.ListUserRankings(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListUserRankings -> %w", err)
	}

	return rankings, nil
}
