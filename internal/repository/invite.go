package repository

import (
	"context"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository/dao"
)

var ErrInviteNotFound = dao.ErrInviteNotFound

type InviteDAO interface {
	Insert(ctx context.Context, invite dao.Invite) (dao.Invite, error)
	FindByCode(ctx context.Context, code string) (dao.Invite, error)
	FindAll(ctx context.Context) ([]dao.Invite, error)
	FindByCreator(ctx context.Context, userID string) ([]dao.Invite, error)
	Disable(ctx context.Context, id uint) error
	Consume(ctx context.Context, code, userID string) (bool, error)
	HasRedemption(ctx context.Context, userID string) (bool, error)
}

type InviteRepository struct {
	dao InviteDAO
}

func NewInviteRepository(dao InviteDAO) *InviteRepository {
	return &InviteRepository{
		dao: dao,
	}
}

func (r *InviteRepository) daoToDomain(i dao.Invite) domain.Invite {
	return domain.Invite{
		ID:         i.ID,
		Code:       i.Code,
		CreatedBy:  i.CreatedBy,
		MaxUses:    i.MaxUses,
		UsedCount:  i.UsedCount,
		ExpiresAt:  i.ExpiresAt,
		IsDisabled: i.IsDisabled,
		CreatedAt:  i.CreatedAt,
	}
}

func (r *InviteRepository) Create(ctx context.Context, invite domain.Invite) (domain.Invite, error) {
	created, err := r.dao.Insert(ctx, dao.Invite{
		Code:      invite.Code,
		CreatedBy: invite.CreatedBy,
		MaxUses:   invite.MaxUses,
		ExpiresAt: invite.ExpiresAt,
	})
	if err != nil {
		return domain.Invite{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *InviteRepository) FindByCode(ctx context.Context, code string) (domain.Invite, error) {
	invite, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.Invite{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return r.daoToDomain(invite), nil
}

func (r *InviteRepository) FindAll(ctx context.Context) ([]domain.Invite, error) {
	invitesDAO, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	invites := make([]domain.Invite, len(invitesDAO))
	for i, inv := range invitesDAO {
		invites[i] = r.daoToDomain(inv)
	}

	return invites, nil
}

func (r *InviteRepository) FindByCreator(ctx context.Context, userID string) ([]domain.Invite, error) {
	invitesDAO, err := r.dao.FindByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCreator -> %w", err)
	}

	invites := make([]domain.Invite, len(invitesDAO))
	for i, inv := range invitesDAO {
		invites[i] = r.daoToDomain(inv)
	}

	return invites, nil
}

func (r *InviteRepository) Disable(ctx context.Context, id uint) error {
	if err := r.dao.Disable(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Disable -> %w", err)
	}
	return nil
}

func (r *InviteRepository) Consume(ctx context.Context, code, userID string) (bool, error) {
	consumed, err := r.dao.Consume(ctx, code, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Consume -> %w", err)
	}

	return consumed, nil
}

func (r *InviteRepository) HasRedemption(ctx context.Context, userID string) (bool, error) {
	ok, err := r.dao.HasRedemption(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasRedemption -> %w", err)
	}

	return ok, nil
}
