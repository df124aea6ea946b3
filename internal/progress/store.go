// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"time"
)

// Repository defines the data access contract for training progress.
//
// Every method is scoped by userID; the storage layer never trusts a
// client-supplied identity.
type Repository interface {

	// InsertLog persists a new session log and hydrates its ID and CreatedAt.
	InsertLog(context context.Context, log *Log) error

	// DeleteLog removes one log owned by the user.
	// Returns apperr.NotFound when no row matched.
	DeleteLog(context context.Context, userID, logID string) error

	// RecentLogs returns the newest logs for the dashboard.
	RecentLogs(context context.Context, userID string, limit int) ([]Log, error)

	// LevelLogs returns the user's logs for one level, newest first.
	LevelLogs(context context.Context, userID string, level, limit, offset int) ([]Log, error)

	// CountLevelLogs returns the total number of logs for one level.
	CountLevelLogs(context context.Context, userID string, level int) (int, error)

	// Graduations returns the user's graduations ordered by level.
	Graduations(context context.Context, userID string) ([]Graduation, error)

	// Graduation returns the graduation for one level, nil when absent.
	Graduation(context context.Context, userID string, level int) (*Graduation, error)

	// Graduate records a graduation; recording the same level twice is a no-op.
	Graduate(context context.Context, userID string, level int) error

	// SessionDates returns the user's distinct session dates, newest first.
	SessionDates(context context.Context, userID string, limit int) ([]time.Time, error)

	// Heatmap returns daily log counts for the trailing year.
	Heatmap(context context.Context, userID string) ([]HeatmapDay, error)

	// WeeklyVolume returns per-ISO-week training volume for the trailing 12 weeks.
	WeeklyVolume(context context.Context, userID string) ([]WeeklyVolume, error)

	// PersonalBests returns the best hold and set counts per exercise.
	PersonalBests(context context.Context, userID string) ([]PersonalBest, error)

	// LevelTimeline returns first-log and graduation dates per level.
	LevelTimeline(context context.Context, userID string) ([]LevelMilestone, error)

	// ExerciseBreakdown returns the most practiced exercises (top 10).
	ExerciseBreakdown(context context.Context, userID string) ([]ExerciseCount, error)

	// Totals returns lifetime counters (sessions, sets, logs).
	Totals(context context.Context, userID string) (Totals, error)

	// LongestStreak returns the longest consecutive-day run, computed in SQL.
	LongestStreak(context context.Context, userID string) (int, error)

	// DeleteAllForUser removes every log and graduation the user owns.
	DeleteAllForUser(context context.Context, userID string) error
}
