package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/leetboard/leetboard/internal/model"
)

// Common errors for profile repository operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameExists  = errors.New("leetcode username already linked")
)

// CreateProfile inserts a new profile into the database.
func (r *Repository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, leetcode_username, sealed_session_cookie, cookie_valid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.LeetcodeUsername,
		profile.SealedSessionCookie,
		profile.CookieValid,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetProfileByID retrieves a profile by its ID.
func (r *Repository) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	query := `
		SELECT id, user_id, leetcode_username, sealed_session_cookie, cookie_valid, last_synced_at, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	return r.scanProfile(r.pool.QueryRow(ctx, query, id))
}

// GetProfileByUserID retrieves the profile owned by a user.
func (r *Repository) GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `
		SELECT id, user_id, leetcode_username, sealed_session_cookie, cookie_valid, last_synced_at, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	return r.scanProfile(r.pool.QueryRow(ctx, query, userID))
}

// ListProfiles retrieves all profiles, ordered by creation time.
// The group is small by design, so no pagination.
func (r *Repository) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	query := `
		SELECT id, user_id, leetcode_username, sealed_session_cookie, cookie_valid, last_synced_at, created_at, updated_at
		FROM profiles
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		profile, err := r.scanProfileFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// UpdateProfileSettings updates the linked username and sealed cookie.
// Uploading a fresh cookie resets the cookie_valid flag.
func (r *Repository) UpdateProfileSettings(ctx context.Context, profile *model.Profile) error {
	query := `
		UPDATE profiles
		SET leetcode_username = $2, sealed_session_cookie = $3, cookie_valid = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.LeetcodeUsername,
		profile.SealedSessionCookie,
		profile.CookieValid,
		time.Now().UTC(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to update profile settings: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// MarkCookieInvalid flags a profile's stored cookie as rejected.
func (r *Repository) MarkCookieInvalid(ctx context.Context, id string) error {
	query := `
		UPDATE profiles
		SET cookie_valid = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark cookie invalid: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// TouchLastSynced records a completed sync for a profile.
func (r *Repository) TouchLastSynced(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE profiles
		SET last_synced_at = $2
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to touch last synced: %w", err)
	}

	return nil
}

// scanProfile scans a single row into a Profile model.
func (r *Repository) scanProfile(row pgx.Row) (*model.Profile, error) {
	var profile model.Profile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.LeetcodeUsername,
		&profile.SealedSessionCookie,
		&profile.CookieValid,
		&profile.LastSyncedAt,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	return &profile, nil
}

// scanProfileFromRows scans a row from pgx.Rows into a Profile model.
func (r *Repository) scanProfileFromRows(rows pgx.Rows) (*model.Profile, error) {
	var profile model.Profile
	err := rows.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.LeetcodeUsername,
		&profile.SealedSessionCookie,
		&profile.CookieValid,
		&profile.LastSyncedAt,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	return &profile, err
}
