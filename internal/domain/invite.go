package domain

import "time"

type Invite struct {
	ID         uint       `json:"id"`
	Code       string     `json:"code"`
	CreatedBy  string     `json:"created_by"`
	MaxUses    int        `json:"max_uses"`
	UsedCount  int        `json:"used_count"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	IsDisabled bool       `json:"is_disabled"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Redeemable reports whether the invite can still be consumed at the given
// time.
func (i Invite) Redeemable(now time.Time) bool {
	if i.IsDisabled {
		return false
	}
	if i.ExpiresAt != nil && now.After(*i.ExpiresAt) {
		return false
	}
	if i.MaxUses > 0 && i.UsedCount >= i.MaxUses {
		return false
	}
	return true
}

// AccessStatus is the state machine gating entry into the app.
type AccessStatus struct {
	Status  string          `json:"status"` // suspended, needs_invite, needs_profile, needs_terms, active
	Reason  string          `json:"reason,omitempty"`
	IsAdmin bool            `json:"is_admin"`
	Profile *PilgrimProfile `json:"profile,omitempty"`
}

const (
	AccessSuspended    = "suspended"
	AccessNeedsInvite  = "needs_invite"
	AccessNeedsProfile = "needs_profile"
	AccessNeedsTerms   = "needs_terms"
	AccessActive       = "active"
)

// Versions a user must have accepted before the app unlocks.
const (
	CurrentTermsVersion   = "2025-06"
	CurrentPrivacyVersion = "2025-06"
)
