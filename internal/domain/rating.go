package domain

import "time"

type Rating struct {
	ID         uint      `json:"id"`
	ActivityID uint      `json:"activity_id"`
	UserID     string    `json:"user_id"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	DisplayName string `json:"display_name,omitempty"`
}
