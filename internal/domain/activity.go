package domain

import "time"

type ActivityType string

const (
	ActivityTransport ActivityType = "transport"
	ActivityMeal      ActivityType = "meal"
	ActivityHike      ActivityType = "hike"
	ActivityLodging   ActivityType = "lodging"
)

// DefaultSpots is the capacity assumed when an activity declares none.
const DefaultSpots = 4

// FallbackDisplayName stands in for members whose profile is missing.
const FallbackDisplayName = "Peregrino"

type Activity struct {
	ID          uint         `json:"id"`
	CreatorID   string       `json:"creator_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        ActivityType `json:"type"`
	City        string       `json:"city"`
	Date        string       `json:"date"`
	Time        string       `json:"time,omitempty"`
	Spots       int          `json:"spots"`
	Lat         *float64     `json:"lat,omitempty"`
	Lng         *float64     `json:"lng,omitempty"`

	TransportFrom    string `json:"transport_from,omitempty"`
	TransportTo      string `json:"transport_to,omitempty"`
	TransportRouteID string `json:"transport_route_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// EffectiveSpots returns the declared capacity, falling back to the default.
func (a Activity) EffectiveSpots() int {
	if a.Spots <= 0 {
		return DefaultSpots
	}
	return a.Spots
}

// RequiresVerification reports whether creating this type of activity is
// gated on identity verification.
func (t ActivityType) RequiresVerification() bool {
	return t == ActivityTransport || t == ActivityLodging
}

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTransport, ActivityMeal, ActivityHike, ActivityLodging:
		return true
	}
	return false
}

// AnnotatedActivity is an activity enriched with the roster-derived fields
// every list view needs. ParticipantCount always includes the creator's
// implicit seat.
type AnnotatedActivity struct {
	Activity
	ParticipantCount int    `json:"participant_count"`
	CreatorName      string `json:"creator_name"`
}

// SpotsLeft is how many non-creator pilgrims may still join.
func (a AnnotatedActivity) SpotsLeft() int {
	return a.EffectiveSpots() - a.ParticipantCount
}

// ActivityDetail is the per-viewer view of one activity. Participants is the
// full roster, creator first; the creator is omitted when they never saved a
// profile.
type ActivityDetail struct {
	AnnotatedActivity
	IsCreator     bool             `json:"is_creator"`
	IsParticipant bool             `json:"is_participant"`
	Participants  []PilgrimProfile `json:"participants"`
}

// IsMember reports whether the viewer the detail was built for belongs to
// the activity. Creator and participants are both members; chat and rating
// access derive from this single union.
func (d ActivityDetail) IsMember() bool {
	return d.IsCreator || d.IsParticipant
}
