package domain

import "time"

// PushSubscription is one browser's web-push endpoint for a user.
type PushSubscription struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// PushPayload is the small JSON document handed to the delivery service.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
