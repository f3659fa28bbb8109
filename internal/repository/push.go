package repository

import (
	"context"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository/dao"
)

var ErrSubscriptionNotFound = dao.ErrSubscriptionNotFound

type PushDAO interface {
	Upsert(ctx context.Context, sub dao.PushSubscription) (dao.PushSubscription, error)
	FindByUserID(ctx context.Context, userID string) (dao.PushSubscription, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type PushRepository struct {
	dao PushDAO
}

func NewPushRepository(dao PushDAO) *PushRepository {
	return &PushRepository{
		dao: dao,
	}
}

func (r *PushRepository) daoToDomain(s dao.PushSubscription) domain.PushSubscription {
	return domain.PushSubscription{
		ID:        s.ID,
		UserID:    s.UserID,
		Endpoint:  s.Endpoint,
		P256dh:    s.P256dh,
		Auth:      s.Auth,
		CreatedAt: s.CreatedAt,
	}
}

func (r *PushRepository) Save(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	saved, err := r.dao.Upsert(ctx, dao.PushSubscription{
		UserID:   sub.UserID,
		Endpoint: sub.Endpoint,
		P256dh:   sub.P256dh,
		Auth:     sub.Auth,
	})
	if err != nil {
		return domain.PushSubscription{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *PushRepository) FindByUserID(ctx context.Context, userID string) (domain.PushSubscription, error) {
	sub, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return domain.PushSubscription{}, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daoToDomain(sub), nil
}

func (r *PushRepository) Delete(ctx context.Context, userID string) error {
	if err := r.dao.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteByUserID -> %w", err)
	}
	return nil
}
