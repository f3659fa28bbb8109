package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository/dao"
)

var (
	ErrActivityNotFound = dao.ErrActivityNotFound
	ErrAlreadyJoined    = dao.ErrAlreadyJoined
	ErrActivityFull     = dao.ErrActivityFull
)

type ActivityDAO interface {
	Insert(ctx context.Context, activity dao.Activity) (dao.Activity, error)
	FindByID(ctx context.Context, id uint) (dao.Activity, error)
	FindAll(ctx context.Context) ([]dao.Activity, error)
	FindCreatedIDs(ctx context.Context, userID string) ([]uint, error)
	FindJoinedIDs(ctx context.Context, userID string) ([]uint, error)
	Delete(ctx context.Context, id uint) error
	CountParticipants(ctx context.Context, activityID uint) (int64, error)
	FindParticipants(ctx context.Context, activityID uint) ([]dao.ActivityParticipant, error)
	IsParticipant(ctx context.Context, activityID uint, userID string) (bool, error)
	InsertParticipant(ctx context.Context, activityID uint, userID string) error
	DeleteParticipant(ctx context.Context, activityID uint, userID string) error
	InsertMessage(ctx context.Context, message dao.ChatMessage) (dao.ChatMessage, error)
	FindMessages(ctx context.Context, activityID uint) ([]dao.ChatMessage, error)
	InsertRating(ctx context.Context, rating dao.Rating) (dao.Rating, error)
	FindRatings(ctx context.Context, activityID uint) ([]dao.Rating, error)
	CountCreatedByUser(ctx context.Context) (map[string]int, error)
	CountJoinedByUser(ctx context.Context) (map[string]int, error)
}

type ActivityRepository struct {
	dao      ActivityDAO
	profiles *ProfileRepository
}

func NewActivityRepository(dao ActivityDAO, profiles *ProfileRepository) *ActivityRepository {
	return &ActivityRepository{
		dao:      dao,
		profiles: profiles,
	}
}

func (r *ActivityRepository) domainToDao(a domain.Activity) dao.Activity {
	return dao.Activity{
		ID:               a.ID,
		CreatorID:        a.CreatorID,
		Title:            a.Title,
		Description:      a.Description,
		Type:             string(a.Type),
		City:             a.City,
		Date:             a.Date,
		Time:             a.Time,
		Spots:            a.Spots,
		Lat:              a.Lat,
		Lng:              a.Lng,
		TransportFrom:    a.TransportFrom,
		TransportTo:      a.TransportTo,
		TransportRouteID: a.TransportRouteID,
		CreatedAt:        a.CreatedAt,
	}
}

func (r *ActivityRepository) daoToDomain(a dao.Activity) domain.Activity {
	return domain.Activity{
		ID:               a.ID,
		CreatorID:        a.CreatorID,
		Title:            a.Title,
		Description:      a.Description,
		Type:             domain.ActivityType(a.Type),
		City:             a.City,
		Date:             a.Date,
		Time:             a.Time,
		Spots:            a.Spots,
		Lat:              a.Lat,
		Lng:              a.Lng,
		TransportFrom:    a.TransportFrom,
		TransportTo:      a.TransportTo,
		TransportRouteID: a.TransportRouteID,
		CreatedAt:        a.CreatedAt,
	}
}

func (r *ActivityRepository) Create(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(activity))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uint) (domain.Activity, error) {
	activity, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(activity), nil
}

// annotate attaches the derived roster fields. The creator always occupies
// one seat, so the count is stored rows + 1.
func (r *ActivityRepository) annotate(ctx context.Context, activity domain.Activity) (domain.AnnotatedActivity, error) {
	count, err := r.dao.CountParticipants(ctx, activity.ID)
	if err != nil {
		return domain.AnnotatedActivity{}, fmt.Errorf("r.dao.CountParticipants -> %w", err)
	}

	creatorName := domain.FallbackDisplayName
	creator, err := r.profiles.FindByUserID(ctx, activity.CreatorID)
	if err == nil {
		creatorName = creator.DisplayName
	} else if !errors.Is(err, ErrProfileNotFound) {
		return domain.AnnotatedActivity{}, fmt.Errorf("r.profiles.FindByUserID -> %w", err)
	}

	return domain.AnnotatedActivity{
		Activity:         activity,
		ParticipantCount: int(count) + 1,
		CreatorName:      creatorName,
	}, nil
}

// ListAll returns every activity, newest first, annotated with participant
// count and creator name.
func (r *ActivityRepository) ListAll(ctx context.Context) ([]domain.AnnotatedActivity, error) {
	activitiesDAO, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	annotated := make([]domain.AnnotatedActivity, 0, len(activitiesDAO))
	for _, a := range activitiesDAO {
		aa, err := r.annotate(ctx, r.daoToDomain(a))
		if err != nil {
			return nil, err
		}
		annotated = append(annotated, aa)
	}

	return annotated, nil
}

// ListMine returns the annotated activities the user created or joined.
func (r *ActivityRepository) ListMine(ctx context.Context, userID string) ([]domain.AnnotatedActivity, error) {
	created, err := r.dao.FindCreatedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCreatedIDs -> %w", err)
	}
	joined, err := r.dao.FindJoinedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindJoinedIDs -> %w", err)
	}

	mine := make(map[uint]bool, len(created)+len(joined))
	for _, id := range created {
		mine[id] = true
	}
	for _, id := range joined {
		mine[id] = true
	}

	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.AnnotatedActivity, 0, len(mine))
	for _, a := range all {
		if mine[a.ID] {
			filtered = append(filtered, a)
		}
	}

	return filtered, nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}
	return nil
}

func (r *ActivityRepository) CountParticipants(ctx context.Context, activityID uint) (int, error) {
	count, err := r.dao.CountParticipants(ctx, activityID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountParticipants -> %w", err)
	}

	return int(count), nil
}

// ParticipantProfiles resolves the joined participants' profiles in join
// order. Participants without a saved profile are skipped.
func (r *ActivityRepository) ParticipantProfiles(ctx context.Context, activityID uint) ([]domain.PilgrimProfile, error) {
	participants, err := r.dao.FindParticipants(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipants -> %w", err)
	}

	profiles := make([]domain.PilgrimProfile, 0, len(participants))
	for _, p := range participants {
		profile, err := r.profiles.FindByUserID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				continue
			}
			return nil, fmt.Errorf("r.profiles.FindByUserID -> %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func (r *ActivityRepository) IsParticipant(ctx context.Context, activityID uint, userID string) (bool, error) {
	ok, err := r.dao.IsParticipant(ctx, activityID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsParticipant -> %w", err)
	}

	return ok, nil
}

func (r *ActivityRepository) AddParticipant(ctx context.Context, activityID uint, userID string) error {
	if err := r.dao.InsertParticipant(ctx, activityID, userID); err != nil {
		if errors.Is(err, dao.ErrAlreadyJoined) || errors.Is(err, dao.ErrActivityFull) {
			return err
		}
		return fmt.Errorf("r.dao.InsertParticipant -> %w", err)
	}
	return nil
}

func (r *ActivityRepository) RemoveParticipant(ctx context.Context, activityID uint, userID string) error {
	if err := r.dao.DeleteParticipant(ctx, activityID, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteParticipant -> %w", err)
	}
	return nil
}

func (r *ActivityRepository) CreateMessage(ctx context.Context, message domain.ChatMessage) (domain.ChatMessage, error) {
	created, err := r.dao.InsertMessage(ctx, dao.ChatMessage{
		ActivityID: message.ActivityID,
		UserID:     message.UserID,
		Content:    message.Content,
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("r.dao.InsertMessage -> %w", err)
	}

	return domain.ChatMessage{
		ID:         created.ID,
		ActivityID: created.ActivityID,
		UserID:     created.UserID,
		Content:    created.Content,
		CreatedAt:  created.CreatedAt,
	}, nil
}

// ListMessages returns the activity's messages oldest first, annotated with
// each sender's display name and photo.
func (r *ActivityRepository) ListMessages(ctx context.Context, activityID uint) ([]domain.ChatMessage, error) {
	messagesDAO, err := r.dao.FindMessages(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMessages -> %w", err)
	}

	messages := make([]domain.ChatMessage, len(messagesDAO))
	for i, m := range messagesDAO {
		displayName := domain.FallbackDisplayName
		photoURL := ""
		profile, err := r.profiles.FindByUserID(ctx, m.UserID)
		if err == nil {
			displayName = profile.DisplayName
			photoURL = profile.PhotoURL
		} else if !errors.Is(err, ErrProfileNotFound) {
			return nil, fmt.Errorf("r.profiles.FindByUserID -> %w", err)
		}

		messages[i] = domain.ChatMessage{
			ID:          m.ID,
			ActivityID:  m.ActivityID,
			UserID:      m.UserID,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
			DisplayName: displayName,
			PhotoURL:    photoURL,
		}
	}

	return messages, nil
}

func (r *ActivityRepository) CreateRating(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	created, err := r.dao.InsertRating(ctx, dao.Rating{
		ActivityID: rating.ActivityID,
		UserID:     rating.UserID,
		Score:      rating.Score,
		Comment:    rating.Comment,
	})
	if err != nil {
		return domain.Rating{}, fmt.Errorf("r.dao.InsertRating -> %w", err)
	}

	return domain.Rating{
		ID:         created.ID,
		ActivityID: created.ActivityID,
		UserID:     created.UserID,
		Score:      created.Score,
		Comment:    created.Comment,
		CreatedAt:  created.CreatedAt,
	}, nil
}

func (r *ActivityRepository) ListRatings(ctx context.Context, activityID uint) ([]domain.Rating, error) {
	ratingsDAO, err := r.dao.FindRatings(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRatings -> %w", err)
	}

	ratings := make([]domain.Rating, len(ratingsDAO))
	for i, rt := range ratingsDAO {
		displayName := domain.FallbackDisplayName
		profile, err := r.profiles.FindByUserID(ctx, rt.UserID)
		if err == nil {
			displayName = profile.DisplayName
		} else if !errors.Is(err, ErrProfileNotFound) {
			return nil, fmt.Errorf("r.profiles.FindByUserID -> %w", err)
		}

		ratings[i] = domain.Rating{
			ID:          rt.ID,
			ActivityID:  rt.ActivityID,
			UserID:      rt.UserID,
			Score:       rt.Score,
			Comment:     rt.Comment,
			CreatedAt:   rt.CreatedAt,
			DisplayName: displayName,
		}
	}

	return ratings, nil
}

// ListUserRankings builds the leaderboard: profiles ordered by activities
// created plus activities joined.
func (r *ActivityRepository) ListUserRankings(ctx context.Context) ([]domain.UserRanking, error) {
	createdCounts, err := r.dao.CountCreatedByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountCreatedByUser -> %w", err)
	}
	joinedCounts, err := r.dao.CountJoinedByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountJoinedByUser -> %w", err)
	}

	profiles, err := r.profiles.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.profiles.FindAll -> %w", err)
	}

	rankings := make([]domain.UserRanking, 0, len(profiles))
	for _, p := range profiles {
		created := createdCounts[p.UserID]
		joined := joinedCounts[p.UserID]
		rankings = append(rankings, domain.UserRanking{
			UserID:       p.UserID,
			DisplayName:  p.DisplayName,
			PhotoURL:     p.PhotoURL,
			Nationality:  p.Nationality,
			CreatedCount: created,
			JoinedCount:  joined,
			Total:        created + joined,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Total > rankings[j].Total
	})

	return rankings, nil
}
