package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	syncLockPrefix     = "sync:lock:"
	syncCooldownPrefix = "sync:cooldown:"

	// syncLockTTL bounds how long a crashed worker can hold a
	// profile's sync lock.
	syncLockTTL = 10 * time.Minute
)

// AcquireSyncLock takes the per-profile sync lock.
// Returns false if another worker is already syncing the profile.
func (c *Cache) AcquireSyncLock(ctx context.Context, profileID string) (bool, error) {
	key := syncLockPrefix + profileID

	ok, err := c.client.SetNX(ctx, key, "1", syncLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}

	return ok, nil
}

// ReleaseSyncLock releases the per-profile sync lock.
func (c *Cache) ReleaseSyncLock(ctx context.Context, profileID string) error {
	key := syncLockPrefix + profileID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}

	return nil
}

// MarkSyncCooldown starts the manual-trigger cooldown for a profile.
func (c *Cache) MarkSyncCooldown(ctx context.Context, profileID string, cooldown time.Duration) error {
	if cooldown <= 0 {
		return nil
	}

	key := syncCooldownPrefix + profileID
	if err := c.client.SetEx(ctx, key, "1", cooldown).Err(); err != nil {
		return fmt.Errorf("failed to set sync cooldown: %w", err)
	}

	return nil
}

// InSyncCooldown reports whether a profile's manual sync is throttled.
func (c *Cache) InSyncCooldown(ctx context.Context, profileID string) (bool, error) {
	key := syncCooldownPrefix + profileID

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check sync cooldown: %w", err)
	}

	return exists > 0, nil
}
