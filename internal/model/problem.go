package model

// Difficulty represents a problem's difficulty rating.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsValid checks if the difficulty is one of the known ratings.
func (d Difficulty) IsValid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Problem represents a curated roadmap problem.
// The slug is the canonical identifier assigned by LeetCode.
type Problem struct {
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Topic      string     `json:"topic"`
}
