package domain

import "time"

// Verification states for a pilgrim's identity documents.
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

type PilgrimProfile struct {
	ID          uint     `json:"id"`
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Language    string   `json:"language"`
	Nationality string   `json:"nationality"`
	Bio         string   `json:"bio"`
	PhotoURL    string   `json:"photo_url"`
	Cities      []string `json:"cities"`

	TravelStartDate string `json:"travel_start_date"`
	TravelEndDate   string `json:"travel_end_date"`

	// Affinity per activity type, 0..5. Zero means "no preference".
	PrefTransport int `json:"pref_transport"`
	PrefMeals     int `json:"pref_meals"`
	PrefHiking    int `json:"pref_hiking"`
	PrefLodging   int `json:"pref_lodging"`

	IsAdmin          bool   `json:"is_admin"`
	CanInvite        bool   `json:"can_invite"`
	IsSuspended      bool   `json:"is_suspended"`
	SuspensionReason string `json:"suspension_reason,omitempty"`

	AcceptedTermsAt *time.Time `json:"accepted_terms_at,omitempty"`
	TermsVersion    string     `json:"terms_version,omitempty"`
	PrivacyVersion  string     `json:"privacy_version,omitempty"`

	VerificationStatus      string     `json:"verification_status"`
	VerificationSubmittedAt *time.Time `json:"verification_submitted_at,omitempty"`
	VerificationReviewedAt  *time.Time `json:"verification_reviewed_at,omitempty"`
	VerificationReason      string     `json:"verification_reason,omitempty"`
	DocumentPath            string     `json:"-"`
	SelfiePath              string     `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCity reports whether the profile's planned route includes the city.
func (p PilgrimProfile) HasCity(city string) bool {
	for _, c := range p.Cities {
		if c == city {
			return true
		}
	}
	return false
}

// AffinityFor returns the profile's preference score for an activity type.
func (p PilgrimProfile) AffinityFor(t ActivityType) int {
	switch t {
	case ActivityTransport:
		return p.PrefTransport
	case ActivityMeal:
		return p.PrefMeals
	case ActivityHike:
		return p.PrefHiking
	case ActivityLodging:
		return p.PrefLodging
	}
	return 0
}

type UserRanking struct {
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name"`
	PhotoURL     string `json:"photo_url"`
	Nationality  string `json:"nationality"`
	CreatedCount int    `json:"created_count"`
	JoinedCount  int    `json:"joined_count"`
	Total        int    `json:"total"`
}
