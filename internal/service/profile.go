package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/leetboard/leetboard/internal/cache"
	"github.com/leetboard/leetboard/internal/model"
	"github.com/leetboard/leetboard/internal/repository"
	"github.com/leetboard/leetboard/internal/secret"
	syncpkg "github.com/leetboard/leetboard/internal/sync"
)

// Profile service errors.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidUsername = errors.New("invalid leetcode username")
	ErrUsernameTaken   = errors.New("leetcode username already linked to another profile")
	ErrCookieTooLong   = errors.New("session cookie too long")
	ErrSyncCooldown    = errors.New("sync was triggered recently, try again later")
)

// LeetCode usernames: 1-30 chars, letters, digits, hyphen, underscore.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,30}$`)

const maxCookieLength = 4096

// ProfileService manages linked LeetCode profiles and their settings.
type ProfileService struct {
	repo      *repository.Repository
	cache     *cache.Cache
	box       *secret.Box
	publisher *syncpkg.Publisher
	cooldown  time.Duration
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo *repository.Repository, cache *cache.Cache, box *secret.Box, publisher *syncpkg.Publisher, cooldown time.Duration) *ProfileService {
	return &ProfileService{
		repo:      repo,
		cache:     cache,
		box:       box,
		publisher: publisher,
		cooldown:  cooldown,
	}
}

// GetSettings returns the caller's profile.
func (s *ProfileService) GetSettings(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateSettingsInput defines input for updating profile settings.
type UpdateSettingsInput struct {
	LeetcodeUsername string
	SessionCookie    *string // nil keeps the stored cookie; "" clears it
}

// UpdateSettings links or relinks a LeetCode account. A first call
// creates the profile. An uploaded cookie is sealed before it touches
// the database; the plaintext is never stored or returned.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID string, input UpdateSettingsInput) (*model.Profile, error) {
	if !usernameRegex.MatchString(input.LeetcodeUsername) {
		return nil, ErrInvalidUsername
	}

	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, err
	}

	creating := profile == nil
	if creating {
		now := time.Now().UTC()
		profile = &model.Profile{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	profile.LeetcodeUsername = input.LeetcodeUsername

	if input.SessionCookie != nil {
		cookie := *input.SessionCookie
		if len(cookie) > maxCookieLength {
			return nil, ErrCookieTooLong
		}
		if cookie == "" {
			profile.SealedSessionCookie = ""
			profile.CookieValid = false
		} else {
			sealed, err := s.box.Seal(cookie)
			if err != nil {
				return nil, fmt.Errorf("seal cookie: %w", err)
			}
			profile.SealedSessionCookie = sealed
			// A fresh upload is trusted until LeetCode says otherwise.
			profile.CookieValid = true
		}
	}

	if creating {
		if err := s.repo.CreateProfile(ctx, profile); err != nil {
			if errors.Is(err, repository.ErrUsernameExists) {
				return nil, ErrUsernameTaken
			}
			return nil, err
		}
	} else {
		if err := s.repo.UpdateProfileSettings(ctx, profile); err != nil {
			if errors.Is(err, repository.ErrUsernameExists) {
				return nil, ErrUsernameTaken
			}
			if errors.Is(err, repository.ErrProfileNotFound) {
				return nil, ErrProfileNotFound
			}
			return nil, err
		}
	}

	return profile, nil
}

// TriggerSync enqueues a manual sync for the caller's profile.
// Manual triggers are throttled per profile.
func (s *ProfileService) TriggerSync(ctx context.Context, userID string) error {
	profile, err := s.GetSettings(ctx, userID)
	if err != nil {
		return err
	}

	throttled, err := s.cache.InSyncCooldown(ctx, profile.ID)
	if err != nil {
		// Fail open: a Redis hiccup should not block a manual sync.
		throttled = false
	}
	if throttled {
		return ErrSyncCooldown
	}

	job := syncpkg.JobPayload{
		ProfileID:   profile.ID,
		Trigger:     syncpkg.TriggerManual,
		RequestedAt: time.Now().UnixMilli(),
	}
	if _, err := s.publisher.Publish(ctx, job); err != nil {
		return fmt.Errorf("enqueue sync: %w", err)
	}

	// Best effort: the job is already queued, a missing cooldown mark
	// only allows an extra manual trigger.
	_ = s.cache.MarkSyncCooldown(ctx, profile.ID, s.cooldown)

	return nil
}

// ListMembers returns every linked profile, for the member directory.
func (s *ProfileService) ListMembers(ctx context.Context) ([]*model.Profile, error) {
	return s.repo.ListProfiles(ctx)
}
