package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/payment"
	"github.com/caminho-companion/api/internal/repository"
)

type fakeDonationRepo struct {
	bySessionID map[string]domain.Donation
	nextID      uint
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{bySessionID: map[string]domain.Donation{}}
}

func (f *fakeDonationRepo) Create(_ context.Context, donation domain.Donation) (domain.Donation, error) {
	f.nextID++
	donation.ID = f.nextID
	f.bySessionID[donation.StripeSessionID] = donation
	return donation, nil
}

func (f *fakeDonationRepo) FindBySessionID(_ context.Context, sessionID string) (domain.Donation, error) {
	donation, ok := f.bySessionID[sessionID]
	if !ok {
		return domain.Donation{}, repository.ErrDonationNotFound
	}
	return donation, nil
}

func (f *fakeDonationRepo) MarkPaid(_ context.Context, sessionID string) error {
	donation, ok := f.bySessionID[sessionID]
	if !ok {
		return repository.ErrDonationNotFound
	}
	donation.PaymentStatus = domain.DonationPaid
	f.bySessionID[sessionID] = donation
	return nil
}

type fakePaymentClient struct {
	paid            bool
	lastAmountCents int64
	getSessionCalls int
}

func (f *fakePaymentClient) CreateDonationSession(amountCents int64, userID string) (payment.CheckoutSession, error) {
	f.lastAmountCents = amountCents
	return payment.CheckoutSession{
		ID:  "cs_test_" + userID,
		URL: "https://checkout.example.com/cs_test_" + userID,
	}, nil
}

func (f *fakePaymentClient) GetSession(sessionID string) (payment.CheckoutSession, error) {
	f.getSessionCalls++
	return payment.CheckoutSession{ID: sessionID, Paid: f.paid}, nil
}

func TestDonationService_StartDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("amounts under one euro are rejected", func(t *testing.T) {
		svc := NewDonationService(newFakeDonationRepo(), &fakePaymentClient{})

		_, err := svc.StartDonation(ctx, "u1", 0.5, "")

		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("opens a checkout session and records a pending donation", func(t *testing.T) {
		repo := newFakeDonationRepo()
		payments := &fakePaymentClient{}
		svc := NewDonationService(repo, payments)

		url, err := svc.StartDonation(ctx, "u1", 12.5, "bom caminho")
		require.NoError(t, err)

		assert.Equal(t, "https://checkout.example.com/cs_test_u1", url)
		assert.Equal(t, int64(1250), payments.lastAmountCents)

		donation, err := repo.FindBySessionID(ctx, "cs_test_u1")
		require.NoError(t, err)
		assert.Equal(t, domain.DonationPending, donation.PaymentStatus)
		assert.Equal(t, "bom caminho", donation.Message)
	})

	t.Run("cents are rounded, not truncated", func(t *testing.T) {
		payments := &fakePaymentClient{}
		svc := NewDonationService(newFakeDonationRepo(), payments)

		_, err := svc.StartDonation(ctx, "u1", 10.556, "")
		require.NoError(t, err)

		assert.Equal(t, int64(1056), payments.lastAmountCents)
	})
}

func TestDonationService_ConfirmDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		svc := NewDonationService(newFakeDonationRepo(), &fakePaymentClient{})

		_, err := svc.ConfirmDonation(ctx, "cs_missing")

		assert.ErrorIs(t, err, ErrDonationNotFound)
	})

	t.Run("unpaid session stays pending", func(t *testing.T) {
		repo := newFakeDonationRepo()
		svc := NewDonationService(repo, &fakePaymentClient{paid: false})
		_, err := svc.StartDonation(ctx, "u1", 5, "")
		require.NoError(t, err)

		_, err = svc.ConfirmDonation(ctx, "cs_test_u1")
		assert.ErrorIs(t, err, ErrPaymentNotCompleted)

		donation, err := repo.FindBySessionID(ctx, "cs_test_u1")
		require.NoError(t, err)
		assert.Equal(t, domain.DonationPending, donation.PaymentStatus)
	})

	t.Run("paid session is marked and the check is idempotent", func(t *testing.T) {
		repo := newFakeDonationRepo()
		payments := &fakePaymentClient{paid: true}
		svc := NewDonationService(repo, payments)
		_, err := svc.StartDonation(ctx, "u1", 5, "")
		require.NoError(t, err)

		donation, err := svc.ConfirmDonation(ctx, "cs_test_u1")
		require.NoError(t, err)
		assert.Equal(t, domain.DonationPaid, donation.PaymentStatus)

		// A second confirm does not hit the payment processor again.
		_, err = svc.ConfirmDonation(ctx, "cs_test_u1")
		require.NoError(t, err)
		assert.Equal(t, 1, payments.getSessionCalls)
	})
}
