// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import "time"

// # Domain Entities

// Log is one recorded exercise within a training session.
type Log struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	Level           int       `json:"level"`
	ExerciseKey     string    `json:"exercise_key"`
	SetsCompleted   int       `json:"sets_completed"`
	RepsOrDuration  string    `json:"reps_or_duration"`
	HoldTimeSeconds *int      `json:"hold_time_seconds"`
	Notes           string    `json:"notes"`
	SessionDate     time.Time `json:"session_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// Graduation records that a member completed a level's exit criteria.
type Graduation struct {
	Level       int       `json:"level"`
	GraduatedAt time.Time `json:"graduated_at"`
}

// # Aggregation Types

// HeatmapDay is one cell of the yearly activity heatmap.
type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// WeeklyVolume summarizes one ISO week of training.
type WeeklyVolume struct {
	Week      string `json:"week"`
	Sessions  int    `json:"sessions"`
	Sets      int    `json:"sets"`
	WeekStart string `json:"week_start"`
}

// PersonalBest is a member's best recorded effort for one exercise.
type PersonalBest struct {
	ExerciseKey     string `json:"exercise_key"`
	BestHoldSeconds *int   `json:"best_hold_seconds"`
	BestSets        int    `json:"best_sets"`
	AchievedAt      string `json:"achieved_at"`
}

// LevelMilestone pairs a level's first training date with its graduation.
type LevelMilestone struct {
	Level       int        `json:"level"`
	StartedAt   string     `json:"started_at"`
	GraduatedAt *time.Time `json:"graduated_at"`
}

// ExerciseCount ranks exercises by how often they were logged.
type ExerciseCount struct {
	ExerciseKey string `json:"exercise_key"`
	Name        string `json:"name"`
	TotalLogs   int    `json:"total_logs"`
}

// Totals holds lifetime training counters.
type Totals struct {
	TotalSessions   int `json:"totalSessions"`
	TotalSets       int `json:"totalSets"`
	TotalLogs       int `json:"totalLogs"`
	MemberSinceDays int `json:"memberSinceDays"`
}

// Streak holds the current and longest consecutive-day training runs.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// # Streak Arithmetic

// CurrentStreak counts consecutive training days ending today or yesterday.
//
// Dates must be distinct calendar days in descending order. The rule works in
// UTC so the answer does not depend on server timezone: the newest date may
// be at most one day behind the expected day, and each earlier date at most
// one day behind its successor.
func CurrentStreak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	expected := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	streak := 0

	for _, date := range dates {
		day := time.Date(date.UTC().Year(), date.UTC().Month(), date.UTC().Day(), 0, 0, 0, 0, time.UTC)
		gap := int(expected.Sub(day).Hours() / 24)
		if gap > 1 || gap < 0 {
			break
		}
		streak++
		expected = day
	}

	return streak
}
