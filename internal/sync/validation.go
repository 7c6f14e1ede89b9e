package sync

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maxJobFuture rejects jobs stamped implausibly far in the future,
// which would indicate clock skew or a corrupted payload.
const maxJobFuture = time.Hour

// ValidateJobPayload validates sync job payload fields.
func ValidateJobPayload(job JobPayload) error {
	if job.ProfileID == "" {
		return fmt.Errorf("profile_id is required")
	}
	if _, err := uuid.Parse(job.ProfileID); err != nil {
		return fmt.Errorf("profile_id must be a UUID")
	}
	if job.Trigger != TriggerManual && job.Trigger != TriggerScheduled {
		return fmt.Errorf("unknown trigger %q", job.Trigger)
	}
	if job.RequestedAt <= 0 {
		return fmt.Errorf("requested_at must be set")
	}
	if time.UnixMilli(job.RequestedAt).After(time.Now().Add(maxJobFuture)) {
		return fmt.Errorf("requested_at is in the future")
	}
	return nil
}
