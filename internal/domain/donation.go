package domain

import "time"

const (
	DonationPending = "pending"
	DonationPaid    = "paid"
)

type Donation struct {
	ID              uint      `json:"id"`
	UserID          string    `json:"user_id"`
	Amount          float64   `json:"amount"`
	Message         string    `json:"message,omitempty"`
	StripeSessionID string    `json:"-"`
	PaymentStatus   string    `json:"payment_status"`
	CreatedAt       time.Time `json:"created_at"`
}
