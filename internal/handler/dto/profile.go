// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/leetboard/leetboard/internal/model"
)

// UpdateSettingsRequest represents the request body for updating profile settings.
type UpdateSettingsRequest struct {
	LeetcodeUsername string `json:"leetcode_username"`

	// SessionCookie is optional: omitted keeps the stored cookie,
	// empty string clears it. The value is never echoed back.
	SessionCookie *string `json:"session_cookie,omitempty"`
}

// SettingsResponse represents profile settings in API responses.
// The session cookie itself is never included.
type SettingsResponse struct {
	ProfileID        string     `json:"profile_id"`
	LeetcodeUsername string     `json:"leetcode_username"`
	CookieUploaded   bool       `json:"cookie_uploaded"`
	CookieValid      bool       `json:"cookie_valid"`
	LastSyncedAt     *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// MemberResponse represents a group member in the directory listing.
type MemberResponse struct {
	ProfileID        string     `json:"profile_id"`
	LeetcodeUsername string     `json:"leetcode_username"`
	LastSyncedAt     *time.Time `json:"last_synced_at,omitempty"`
}

// MemberListResponse wraps the member directory.
type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
	Count   int              `json:"count"`
}

// ToSettingsResponse converts a Profile model to SettingsResponse DTO.
func ToSettingsResponse(profile *model.Profile) *SettingsResponse {
	return &SettingsResponse{
		ProfileID:        profile.ID,
		LeetcodeUsername: profile.LeetcodeUsername,
		CookieUploaded:   profile.HasSessionCookie(),
		CookieValid:      profile.CookieValid,
		LastSyncedAt:     profile.LastSyncedAt,
		CreatedAt:        profile.CreatedAt,
		UpdatedAt:        profile.UpdatedAt,
	}
}

// ToMemberListResponse converts profiles to the member directory DTO.
func ToMemberListResponse(profiles []*model.Profile) *MemberListResponse {
	members := make([]MemberResponse, len(profiles))
	for i, p := range profiles {
		members[i] = MemberResponse{
			ProfileID:        p.ID,
			LeetcodeUsername: p.LeetcodeUsername,
			LastSyncedAt:     p.LastSyncedAt,
		}
	}
	return &MemberListResponse{
		Members: members,
		Count:   len(members),
	}
}
