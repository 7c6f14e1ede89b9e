package model

import "time"

// WeeklyGoal is a set of problems a profile commits to solving in a
// given week. WeekStart is always the Monday of that week, at midnight UTC.
type WeeklyGoal struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	WeekStart time.Time `json:"week_start"`
	Slugs     []string  `json:"slugs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GoalProgress summarizes completion of a weekly goal.
type GoalProgress struct {
	CompletedSlugs []string `json:"completed_slugs"`
	TotalPledged   int      `json:"total_pledged"`
}

// WeekStartOf normalizes t to the Monday of its week, midnight UTC.
func WeekStartOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	// time.Weekday numbers Sunday as 0; shift so Monday is the anchor.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekEnd returns the exclusive end of the goal's week.
func (g *WeeklyGoal) WeekEnd() time.Time {
	return g.WeekStart.AddDate(0, 0, 7)
}

// Covers returns true if ts falls within the goal's week.
func (g *WeeklyGoal) Covers(ts time.Time) bool {
	ts = ts.UTC()
	return !ts.Before(g.WeekStart) && ts.Before(g.WeekEnd())
}
