package model

import "time"

// Profile links an application user to a LeetCode account.
// The session cookie, when uploaded, is stored sealed (never plaintext).
type Profile struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"user_id"`
	LeetcodeUsername    string     `json:"leetcode_username"`
	SealedSessionCookie string     `json:"-"` // Never serialize
	CookieValid         bool       `json:"cookie_valid"`
	LastSyncedAt        *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// HasSessionCookie returns true if a session cookie has been uploaded.
func (p *Profile) HasSessionCookie() bool {
	return p.SealedSessionCookie != ""
}

// SyncEligible returns true if the profile can be synced at all, which
// only requires a linked LeetCode username. Profiles without a usable
// cookie still sync, they just fall back to the public recent page.
func (p *Profile) SyncEligible() bool {
	return p.LeetcodeUsername != ""
}
