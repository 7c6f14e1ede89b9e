package model

import (
	"testing"
	"time"
)

func TestWeekStartOf_Normalizes(t *testing.T) {
	t.Parallel()

	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday itself", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"monday evening", time.Date(2024, 3, 4, 23, 59, 59, 0, time.UTC)},
		{"wednesday", time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := WeekStartOf(tt.in)
			if !got.Equal(monday) {
				t.Errorf("WeekStartOf(%v) = %v, want %v", tt.in, got, monday)
			}
		})
	}
}

func TestWeekStartOf_AlwaysMonday(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 15, 4, 5, 0, time.UTC)
	for i := 0; i < 21; i++ {
		day := start.AddDate(0, 0, i)
		got := WeekStartOf(day)
		if got.Weekday() != time.Monday {
			t.Errorf("WeekStartOf(%v).Weekday() = %v, want Monday", day, got.Weekday())
		}
		if got.After(day) {
			t.Errorf("WeekStartOf(%v) = %v is in the future", day, got)
		}
	}
}

func TestWeeklyGoal_Covers(t *testing.T) {
	t.Parallel()

	goal := &WeeklyGoal{
		WeekStart: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{"week start", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"midweek", time.Date(2024, 3, 7, 18, 0, 0, 0, time.UTC), true},
		{"last second", time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), true},
		{"next monday", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), false},
		{"before week", time.Date(2024, 3, 3, 23, 59, 59, 0, time.UTC), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := goal.Covers(tt.ts); got != tt.want {
				t.Errorf("Covers(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestWeeklyGoal_WeekEnd(t *testing.T) {
	t.Parallel()

	goal := &WeeklyGoal{
		WeekStart: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	}

	want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := goal.WeekEnd(); !got.Equal(want) {
		t.Errorf("WeekEnd() = %v, want %v", got, want)
	}
}
