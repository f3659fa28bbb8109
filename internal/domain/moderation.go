package domain

import "time"

// ReportReasons is the closed set of reasons a user may report another.
var ReportReasons = []string{"harassment", "spam", "inappropriate", "scam", "other"}

func IsValidReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

const (
	ReportOpen      = "open"
	ReportReviewing = "reviewing"
	ReportClosed    = "closed"
)

type Report struct {
	ID         uint      `json:"id"`
	ReporterID string    `json:"reporter_id"`
	ReportedID string    `json:"reported_id"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details,omitempty"`
	ActivityID *uint     `json:"activity_id,omitempty"`
	MessageID  *uint     `json:"message_id,omitempty"`
	Status     string    `json:"status"`
	AdminNotes string    `json:"admin_notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Block struct {
	ID        uint      `json:"id"`
	BlockerID string    `json:"blocker_id"`
	BlockedID string    `json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}
