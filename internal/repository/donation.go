package repository

import (
	"context"
	"fmt"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository/dao"
)

var ErrDonationNotFound = dao.ErrDonationNotFound

type DonationDAO interface {
	Insert(ctx context.Context, donation dao.Donation) (dao.Donation, error)
	FindBySessionID(ctx context.Context, sessionID string) (dao.Donation, error)
	UpdateStatusBySessionID(ctx context.Context, sessionID, status string) error
}

type DonationRepository struct {
	dao DonationDAO
}

func NewDonationRepository(dao DonationDAO) *DonationRepository {
	return &DonationRepository{
		dao: dao,
	}
}

func (r *DonationRepository) daoToDomain(d dao.Donation) domain.Donation {
	return domain.Donation{
		ID:              d.ID,
		UserID:          d.UserID,
		Amount:          d.Amount,
		Message:         d.Message,
		StripeSessionID: d.StripeSessionID,
		PaymentStatus:   d.PaymentStatus,
		CreatedAt:       d.CreatedAt,
	}
}

func (r *DonationRepository) Create(ctx context.Context, donation domain.Donation) (domain.Donation, error) {
	created, err := r.dao.Insert(ctx, dao.Donation{
		UserID:          donation.UserID,
		Amount:          donation.Amount,
		Message:         donation.Message,
		StripeSessionID: donation.StripeSessionID,
		PaymentStatus:   donation.PaymentStatus,
	})
	if err != nil {
		return domain.Donation{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *DonationRepository) FindBySessionID(ctx context.Context, sessionID string) (domain.Donation, error) {
	donation, err := r.dao.FindBySessionID(ctx, sessionID)
	if err != nil {
		return domain.Donation{}, fmt.Errorf("r.dao.FindBySessionID -> %w", err)
	}

	return r.daoToDomain(donation), nil
}

func (r *DonationRepository) MarkPaid(ctx context.Context, sessionID string) error {
	if err := r.dao.UpdateStatusBySessionID(ctx, sessionID, domain.DonationPaid); err != nil {
		return fmt.Errorf("r.dao.UpdateStatusBySessionID -> %w", err)
	}
	return nil
}
