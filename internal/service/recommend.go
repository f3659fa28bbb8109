package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository"
)

// Ranking policy. The weights are additive; the own-activity penalty is far
// below the maximum reachable positive score (24), so a viewer's own
// activities never surface in their feed.
const (
	scoreCityMatch = 10

	scoreDateWithin1Day  = 8
	scoreDateWithin3Days = 5
	scoreDateWithin7Days = 2

	scoreOpenSpots   = 3
	scorePlentySpots = 1
	plentySpotsAbove = 2

	scoreTypeAffinity = 2
	affinityThreshold = 2

	penaltyOwnActivity = -100

	recommendLimit = 10
)

const activityDateLayout = "2006-01-02"

type RecommendService struct {
	activityRepo ActivityRepository
	profileRepo  ProfileRepository
}

func NewRecommendService(activityRepo ActivityRepository, profileRepo ProfileRepository) *RecommendService {
	return &RecommendService{
		activityRepo: activityRepo,
		profileRepo:  profileRepo,
	}
}

// scoreActivity computes the relevance of one activity for one viewer. Pure
// over its inputs; nothing is mutated.
func scoreActivity(profile domain.PilgrimProfile, activity domain.AnnotatedActivity, now time.Time) int {
	score := 0

	if profile.HasCity(activity.City) {
		score += scoreCityMatch
	}

	if date, err := time.Parse(activityDateLayout, activity.Date); err == nil {
		days := absDays(date, now)
		switch {
		case days <= 1:
			score += scoreDateWithin1Day
		case days <= 3:
			score += scoreDateWithin3Days
		case days <= 7:
			score += scoreDateWithin7Days
		}
	}

	spotsLeft := activity.SpotsLeft()
	if spotsLeft > 0 {
		score += scoreOpenSpots
	}
	if spotsLeft > plentySpotsAbove {
		score += scorePlentySpots
	}

	if profile.AffinityFor(activity.Type) > affinityThreshold {
		score += scoreTypeAffinity
	}

	if activity.CreatorID == profile.UserID {
		score += penaltyOwnActivity
	}

	return score
}

// absDays is the unsigned distance in whole days between a date and now. An
// activity a week in the past scores the same as one a week out.
func absDays(date, now time.Time) int {
	a := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}

	return days
}

// Recommend ranks every activity for the viewer and returns at most ten. A
// viewer without a saved profile gets the first ten in creation order,
// unscored.
func (s *RecommendService) Recommend(ctx context.Context, viewerID string) ([]domain.AnnotatedActivity, error) {
	activities, err := s.activityRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.activityRepo.ListAll -> %w", err)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return truncate(activities, recommendLimit), nil
		}
		return nil, fmt.Errorf("s.profileRepo.FindByUserID -> %w", err)
	}

	now := time.Now()
	scores := make(map[uint]int, len(activities))
	for _, a := range activities {
		scores[a.ID] = scoreActivity(profile, a, now)
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return scores[activities[i].ID] > scores[activities[j].ID]
	})

	return truncate(activities, recommendLimit), nil
}

func truncate(activities []domain.AnnotatedActivity, limit int) []domain.AnnotatedActivity {
	if len(activities) > limit {
		return activities[:limit]
	}
	return activities
}
