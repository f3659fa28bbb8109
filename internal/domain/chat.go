package domain

import "time"

type ChatMessage struct {
	ID         uint      `json:"id"`
	ActivityID uint      `json:"activity_id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`

	// Sender annotations, resolved at read time.
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}
