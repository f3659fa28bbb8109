package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/payment"
	"github.com/caminho-companion/api/internal/repository"
)

var (
	ErrDonationNotFound    = repository.ErrDonationNotFound
	ErrInvalidAmount       = errors.New("donation amount must be at least 1")
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

type DonationRepository interface {
	Create(ctx context.Context, donation domain.Donation) (domain.Donation, error)
	FindBySessionID(ctx context.Context, sessionID string) (domain.Donation, error)
	MarkPaid(ctx context.Context, sessionID string) error
}

type PaymentClient interface {
	CreateDonationSession(amountCents int64, userID string) (payment.CheckoutSession, error)
	GetSession(sessionID string) (payment.CheckoutSession, error)
}

type DonationService struct {
	repo     DonationRepository
	payments PaymentClient
}

func NewDonationService(repo DonationRepository, payments PaymentClient) *DonationService {
	return &DonationService{
		repo:     repo,
		payments: payments,
	}
}

// StartDonation opens a hosted checkout session and records the donation as
// pending. Returns the URL the caller should be redirected to.
func (s *DonationService) StartDonation(ctx context.Context, userID string, amount float64, message string) (string, error) {
	if amount < 1 {
		return "", ErrInvalidAmount
	}

	session, err := s.payments.CreateDonationSession(int64(math.Round(amount*100)), userID)
	if err != nil {
		return "", fmt.Errorf("s.payments.CreateDonationSession -> %w", err)
	}

	_, err = s.repo.Create(ctx, domain.Donation{
		UserID:          userID,
		Amount:          amount,
		Message:         message,
		StripeSessionID: session.ID,
		PaymentStatus:   domain.DonationPending,
	})
	if err != nil {
		return "", fmt.Errorf("s.repo.Create -> %w", err)
	}

	return session.URL, nil
}

// ConfirmDonation verifies with the payment processor that the session was
// paid and marks the stored donation accordingly. Safe to call repeatedly.
func (s *DonationService) ConfirmDonation(ctx context.Context, sessionID string) (domain.Donation, error) {
	donation, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrDonationNotFound) {
			return domain.Donation{}, ErrDonationNotFound
		}
		return domain.Donation{}, fmt.Errorf("s.repo.FindBySessionID -> %w", err)
	}

	if donation.PaymentStatus == domain.DonationPaid {
		return donation, nil
	}

	session, err := s.payments.GetSession(sessionID)
	if err != nil {
		return domain.Donation{}, fmt.Errorf("s.payments.GetSession -> %w", err)
	}
	if !session.Paid {
		return domain.Donation{}, ErrPaymentNotCompleted
	}

	if err := s.repo.MarkPaid(ctx, sessionID); err != nil {
		return domain.Donation{}, fmt.Errorf("s.repo.MarkPaid -> %w", err)
	}

	donation.PaymentStatus = domain.DonationPaid

	return donation, nil
}
