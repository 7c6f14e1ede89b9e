package model

import "time"

// Submission status values as reported by LeetCode.
const (
	StatusAccepted   = "Accepted"
	StatusNotStarted = "Not Started"
)

// Submission represents an accepted LeetCode submission recorded for a
// profile against a catalog problem.
type Submission struct {
	ID            string    `json:"id"`
	ProfileID     string    `json:"profile_id"`
	ProblemSlug   string    `json:"problem_slug"`
	Status        string    `json:"status"`
	Language      string    `json:"language"`
	Runtime       string    `json:"runtime"`
	Memory        string    `json:"memory"`
	SubmissionURL string    `json:"submission_url"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// RoadmapSnapshot stores the ordered list of recently accepted slugs as
// last observed for a profile. The sync engine diffs the live list
// against this to decide between a cheap append and a full resync.
type RoadmapSnapshot struct {
	ProfileID string    `json:"profile_id"`
	Slugs     []string  `json:"slugs"`
	UpdatedAt time.Time `json:"updated_at"`
}
