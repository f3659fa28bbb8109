package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
)

var ErrInvalidScore = errors.New("score must be between 1 and 5")

type RatingService struct {
	repo       ActivityRepository
	activities *ActivityService
}

func NewRatingService(repo ActivityRepository, activities *ActivityService) *RatingService {
	return &RatingService{
		repo:       repo,
		activities: activities,
	}
}

// ListRatings returns an activity's ratings, newest first. Members only.
func (s *RatingService) ListRatings(ctx context.Context, activityID uint, viewerID string) ([]domain.Rating, error) {
	isMember, err := s.activities.IsMember(ctx, activityID, viewerID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("s.activities.IsMember -> %w", err)
	}
	if !isMember {
		return nil, ErrNotMember
	}

	ratings, err := s.repo.ListRatings(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListRatings -> %w", err)
	}

	return ratings, nil
}

// CreateRating records a member's score for the activity.
func (s *RatingService) CreateRating(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	if rating.Score < 1 || rating.Score > 5 {
		return domain.Rating{}, ErrInvalidScore
	}

	isMember, err := s.activities.IsMember(ctx, rating.ActivityID, rating.UserID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return domain.Rating{}, ErrActivityNotFound
		}
		return domain.Rating{}, fmt.Errorf("s.activities.IsMember -> %w", err)
	}
	if !isMember {
		return domain.Rating{}, ErrNotMember
	}

	created, err := s.repo.CreateRating(ctx, rating)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("s.repo.CreateRating -> %w", err)
	}

	return created, nil
}
