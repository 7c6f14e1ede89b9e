package leetcode

import (
	"encoding/json"
	"strconv"
	"time"
)

// graphqlRequest is the JSON body posted to the GraphQL endpoint.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse is the generic GraphQL envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// SubmissionEntry is a single submission as reported by LeetCode.
// Both the recent and the full-history queries produce this shape.
type SubmissionEntry struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title,omitempty"`
	TitleSlug     string `json:"titleSlug"`
	StatusDisplay string `json:"statusDisplay"`
	Timestamp     string `json:"timestamp"` // Unix seconds, as a string
	Lang          string `json:"lang"`
	Runtime       string `json:"runtime"`
	Memory        string `json:"memory"`
	URL           string `json:"url"`
}

// Accepted returns true if the submission passed.
func (s SubmissionEntry) Accepted() bool {
	return s.StatusDisplay == "Accepted"
}

// SubmittedAt parses the Unix timestamp. Returns the zero time if the
// field is missing or malformed.
func (s SubmissionEntry) SubmittedAt() time.Time {
	sec, err := strconv.ParseInt(s.Timestamp, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// AbsoluteURL resolves the submission's relative URL against the
// public site.
func (s SubmissionEntry) AbsoluteURL() string {
	if s.URL == "" {
		return ""
	}
	return "https://leetcode.com" + s.URL
}

// recentAcceptedData is the data payload of the recent query.
type recentAcceptedData struct {
	RecentAcSubmissionList []SubmissionEntry `json:"recentAcSubmissionList"`
}

// submissionListData is the data payload of the paginated history query.
type submissionListData struct {
	SubmissionList struct {
		HasNext     bool              `json:"hasNext"`
		Submissions []SubmissionEntry `json:"submissions"`
	} `json:"submissionList"`
}
