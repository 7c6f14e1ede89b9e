package dto

// SetGoalRequest represents the request body for pledging this week's goal.
type SetGoalRequest struct {
	Slugs []string `json:"slugs"`
}
