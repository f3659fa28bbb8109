package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadyJoined    = errors.New("already joined")
	ErrActivityFull     = errors.New("no spots available")
)

type Activity struct {
	ID          uint   `gorm:"primaryKey"`
	CreatorID   string `gorm:"index;not null"`
	Title       string `gorm:"not null"`
	Description string
	Type        string `gorm:"not null"`
	City        string `gorm:"not null"`
	Date        string `gorm:"not null"`
	Time        string
	Spots       int `gorm:"default:4"`
	Lat         *float64
	Lng         *float64

	TransportFrom    string
	TransportTo      string
	TransportRouteID string

	CreatedAt time.Time
}

type ActivityParticipant struct {
	ID         uint   `gorm:"primaryKey"`
	ActivityID uint   `gorm:"not null;uniqueIndex:idx_participant_activity_user"`
	UserID     string `gorm:"not null;uniqueIndex:idx_participant_activity_user"`
	JoinedAt   time.Time
}

type ChatMessage struct {
	ID         uint   `gorm:"primaryKey"`
	ActivityID uint   `gorm:"index;not null"`
	UserID     string `gorm:"not null"`
	Content    string `gorm:"not null"`
	CreatedAt  time.Time
}

type Rating struct {
	ID         uint   `gorm:"primaryKey"`
	ActivityID uint   `gorm:"index;not null"`
	UserID     string `gorm:"not null"`
	Score      int    `gorm:"not null"`
	Comment    string
	CreatedAt  time.Time
}

type ActivityDAO struct {
	db *gorm.DB
}

func NewActivityDAO(db *gorm.DB) *ActivityDAO {
	return &ActivityDAO{
		db: db,
	}
}

func (d *ActivityDAO) Insert(ctx context.Context, activity Activity) (Activity, error) {
	result := d.db.WithContext(ctx).Create(&activity)
	if result.Error != nil {
		return Activity{}, result.Error
	}

	return activity, nil
}

func (d *ActivityDAO) FindByID(ctx context.Context, id uint) (Activity, error) {
	var activity Activity

	result := d.db.WithContext(ctx).First(&activity, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Activity{}, ErrActivityNotFound
		}

		return Activity{}, result.Error
	}

	return activity, nil
}

func (d *ActivityDAO) FindAll(ctx context.Context) ([]Activity, error) {
	var activities []Activity

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&activities)
	if result.Error != nil {
		return nil, result.Error
	}

	return activities, nil
}

func (d *ActivityDAO) FindCreatedIDs(ctx context.Context, userID string) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).Model(&Activity{}).
		Where("creator_id = ?", userID).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *ActivityDAO) FindJoinedIDs(ctx context.Context, userID string) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).Model(&ActivityParticipant{}).
		Where("user_id = ?", userID).
		Pluck("activity_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

// Delete removes the activity and its dependent rows. The children go first
// so no orphans survive a partial failure.
func (d *ActivityDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", id).Delete(&ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", id).Delete(&ActivityParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Activity{}, id).Error
	})
}

func (d *ActivityDAO) CountParticipants(ctx context.Context, activityID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&ActivityParticipant{}).
		Where("activity_id = ?", activityID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *ActivityDAO) FindParticipants(ctx context.Context, activityID uint) ([]ActivityParticipant, error) {
	var participants []ActivityParticipant

	result := d.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("joined_at ASC").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *ActivityDAO) IsParticipant(ctx context.Context, activityID uint, userID string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&ActivityParticipant{}).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// InsertParticipant adds the membership row only while a seat is free. The
// activity row is locked for the duration of the check-then-insert, so
// concurrent joins serialize and cannot overbook; the unique index on
// (activity_id, user_id) rejects duplicate joins.
func (d *ActivityDAO) InsertParticipant(ctx context.Context, activityID uint, userID string) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spots int
		result := tx.Raw(
			`SELECT COALESCE(NULLIF(spots, 0), 4) FROM activities WHERE id = ? FOR UPDATE`,
			activityID).Scan(&spots)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrActivityNotFound
		}

		var count int64
		if err := tx.Model(&ActivityParticipant{}).
			Where("activity_id = ?", activityID).
			Count(&count).Error; err != nil {
			return err
		}
		if count+1 >= int64(spots) {
			return ErrActivityFull
		}

		return tx.Create(&ActivityParticipant{
			ActivityID: activityID,
			UserID:     userID,
			JoinedAt:   time.Now(),
		}).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyJoined
		}

		return err
	}

	return nil
}

// DeleteParticipant is a no-op when the membership row does not exist.
func (d *ActivityDAO) DeleteParticipant(ctx context.Context, activityID uint, userID string) error {
	return d.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Delete(&ActivityParticipant{}).Error
}

func (d *ActivityDAO) InsertMessage(ctx context.Context, message ChatMessage) (ChatMessage, error) {
	result := d.db.WithContext(ctx).Create(&message)
	if result.Error != nil {
		return ChatMessage{}, result.Error
	}

	return message, nil
}

func (d *ActivityDAO) FindMessages(ctx context.Context, activityID uint) ([]ChatMessage, error) {
	var messages []ChatMessage

	result := d.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}

	return messages, nil
}

func (d *ActivityDAO) InsertRating(ctx context.Context, rating Rating) (Rating, error) {
	result := d.db.WithContext(ctx).Create(&rating)
	if result.Error != nil {
		return Rating{}, result.Error
	}

	return rating, nil
}

func (d *ActivityDAO) FindRatings(ctx context.Context, activityID uint) ([]Rating, error) {
	var ratings []Rating

	result := d.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at DESC").
		Find(&ratings)
	if result.Error != nil {
		return nil, result.Error
	}

	return ratings, nil
}

type userCount struct {
	UserID string
	Count  int
}

// CountCreatedByUser groups activities by creator.
func (d *ActivityDAO) CountCreatedByUser(ctx context.Context) (map[string]int, error) {
	var rows []userCount

	result := d.db.WithContext(ctx).Model(&Activity{}).
		Select("creator_id AS user_id, count(*) AS count").
		Group("creator_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}

	return counts, nil
}

// CountJoinedByUser groups participant rows by user.
func (d *ActivityDAO) CountJoinedByUser(ctx context.Context) (map[string]int, error) {
	var rows []userCount

	result := d.db.WithContext(ctx).Model(&ActivityParticipant{}).
		Select("user_id, count(*) AS count").
		Group("user_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}

	return counts, nil
}
