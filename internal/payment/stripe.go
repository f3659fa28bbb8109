package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"

	"github.com/caminho-companion/api/internal/config"
)

// CheckoutSession is the slice of a payment-processor session the rest of
// the app cares about.
type CheckoutSession struct {
	ID   string
	URL  string
	Paid bool
}

// StripeClient wraps the hosted-checkout flow for donations.
type StripeClient struct {
	baseURL string
}

func NewStripeClient(conf *config.StripeConfig, baseURL string) *StripeClient {
	stripe.Key = conf.SecretKey

	return &StripeClient{
		baseURL: baseURL,
	}
}

// donationSessionParams builds the checkout parameters for a one-off
// donation. Donations are charged in BRL centavos.
func donationSessionParams(amountCents int64, userID, baseURL string) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyBRL)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Doação Caminho Companion"),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(baseURL + "/donate/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(baseURL + "/donate"),
	}
	params.AddMetadata("user_id", userID)

	return params
}

// CreateDonationSession opens a hosted checkout page for the given amount in
// centavos and returns the redirect URL.
func (c *StripeClient) CreateDonationSession(amountCents int64, userID string) (CheckoutSession, error) {
	s, err := session.New(donationSessionParams(amountCents, userID, c.baseURL))
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("session.New -> %w", err)
	}

	return CheckoutSession{
		ID:  s.ID,
		URL: s.URL,
	}, nil
}

// GetSession fetches the session and reports whether payment completed.
func (c *StripeClient) GetSession(sessionID string) (CheckoutSession, error) {
	s, err := session.Get(sessionID, nil)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("session.Get -> %w", err)
	}

	return CheckoutSession{
		ID:   s.ID,
		URL:  s.URL,
		Paid: s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}, nil
}
