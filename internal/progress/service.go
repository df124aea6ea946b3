// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"time"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/users/auth"
	"github.com/taibuivan/handstand/pkg/pagination"
)

// # Constants

const (
	// dashboardRecentLogs is how many logs the dashboard shows.
	dashboardRecentLogs = 20

	// streakLookbackDays bounds the current-streak scan. A 60-day run with a
	// gap inside it would have broken the streak anyway.
	streakLookbackDays = 60
)

// # Service

// Service implements training progress use cases.
type Service struct {
	repository Repository
	users      auth.UserRepository
}

// NewService constructs a progress [Service].
func NewService(repository Repository, users auth.UserRepository) *Service {
	return &Service{repository: repository, users: users}
}

// currentUser resolves the session's user, mapping a dangling reference to
// Unauthorized the same way the credential service does.
func (service *Service) currentUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Session user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// # Dashboard

// DashboardData is the landing-page aggregation.
type DashboardData struct {
	User          *auth.User   `json:"user"`
	Graduations   []Graduation `json:"graduations"`
	RecentLogs    []Log        `json:"recentLogs"`
	TotalSessions int          `json:"totalSessions"`
	Streak        int          `json:"streak"`
}

/*
Dashboard assembles the member's landing-page data.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *DashboardData: User, graduations, recent logs, totals, current streak
  - err: Unauthorized (dangling session user) or storage failures
*/
func (service *Service) Dashboard(context context.Context, userID string) (*DashboardData, error) {
	user, err := service.currentUser(context, userID)
	if err != nil {
		return nil, err
	}

	graduations, err := service.repository.Graduations(context, userID)
	if err != nil {
		return nil, err
	}

	recentLogs, err := service.repository.RecentLogs(context, userID, dashboardRecentLogs)
	if err != nil {
		return nil, err
	}

	totals, err := service.repository.Totals(context, userID)
	if err != nil {
		return nil, err
	}

	streak, err := service.streak(context, userID)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		User:          user,
		Graduations:   graduations,
		RecentLogs:    recentLogs,
		TotalSessions: totals.TotalSessions,
		Streak:        streak,
	}, nil
}

// StatsData is the rich analytics payload for the progress dashboard.
type StatsData struct {
	Heatmap           []HeatmapDay     `json:"heatmap"`
	WeeklyVolume      []WeeklyVolume   `json:"weeklyVolume"`
	PersonalBests     []PersonalBest   `json:"personalBests"`
	LevelTimeline     []LevelMilestone `json:"levelTimeline"`
	ExerciseBreakdown []ExerciseCount  `json:"exerciseBreakdown"`
	Totals            Totals           `json:"totals"`
	Streak            Streak           `json:"streak"`
}

/*
Stats assembles the analytics payload: heatmap, weekly volume, personal
bests, level timeline, exercise breakdown, lifetime totals, and streaks.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *StatsData: Full analytics payload
  - err: Unauthorized or storage failures
*/
func (service *Service) Stats(context context.Context, userID string) (*StatsData, error) {
	user, err := service.currentUser(context, userID)
	if err != nil {
		return nil, err
	}

	heatmap, err := service.repository.Heatmap(context, userID)
	if err != nil {
		return nil, err
	}

	weekly, err := service.repository.WeeklyVolume(context, userID)
	if err != nil {
		return nil, err
	}

	bests, err := service.repository.PersonalBests(context, userID)
	if err != nil {
		return nil, err
	}

	timeline, err := service.repository.LevelTimeline(context, userID)
	if err != nil {
		return nil, err
	}

	breakdown, err := service.repository.ExerciseBreakdown(context, userID)
	if err != nil {
		return nil, err
	}

	totals, err := service.repository.Totals(context, userID)
	if err != nil {
		return nil, err
	}
	totals.MemberSinceDays = int(time.Since(user.CreatedAt).Hours() / 24)

	longest, err := service.repository.LongestStreak(context, userID)
	if err != nil {
		return nil, err
	}

	current, err := service.streak(context, userID)
	if err != nil {
		return nil, err
	}

	return &StatsData{
		Heatmap:           heatmap,
		WeeklyVolume:      weekly,
		PersonalBests:     bests,
		LevelTimeline:     timeline,
		ExerciseBreakdown: breakdown,
		Totals:            totals,
		Streak:            Streak{Current: current, Longest: longest},
	}, nil
}

// streak computes the current consecutive-day run.
func (service *Service) streak(context context.Context, userID string) (int, error) {
	dates, err := service.repository.SessionDates(context, userID, streakLookbackDays)
	if err != nil {
		return 0, err
	}
	return CurrentStreak(dates, time.Now()), nil
}

// # Logs & Graduations

// LevelHistory is one level's log listing with its graduation state.
type LevelHistory struct {
	Logs      []Log           `json:"logs"`
	Graduated *Graduation     `json:"graduated"`
	Meta      pagination.Meta `json:"meta"`
}

/*
LevelLogs returns the paginated log history for one level.

Parameters:
  - context: context.Context
  - userID: string
  - level: int
  - params: pagination.Params

Returns:
  - *LevelHistory: Logs, graduation state, pagination metadata
  - err: Storage failures
*/
func (service *Service) LevelLogs(context context.Context, userID string, level int, params pagination.Params) (*LevelHistory, error) {
	logs, err := service.repository.LevelLogs(context, userID, level, params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}

	total, err := service.repository.CountLevelLogs(context, userID, level)
	if err != nil {
		return nil, err
	}

	graduated, err := service.repository.Graduation(context, userID, level)
	if err != nil {
		return nil, err
	}

	return &LevelHistory{
		Logs:      logs,
		Graduated: graduated,
		Meta:      pagination.NewMeta(params.Page, params.Limit, total),
	}, nil
}

// AddLogInput carries a new session log entry.
type AddLogInput struct {
	Level           int
	ExerciseKey     string
	SetsCompleted   int
	RepsOrDuration  string
	HoldTimeSeconds *int
	Notes           string
}

// AddLog records one exercise for today's session.
func (service *Service) AddLog(context context.Context, userID string, input AddLogInput) (*Log, error) {
	log := &Log{
		UserID:          userID,
		Level:           input.Level,
		ExerciseKey:     input.ExerciseKey,
		SetsCompleted:   input.SetsCompleted,
		RepsOrDuration:  input.RepsOrDuration,
		HoldTimeSeconds: input.HoldTimeSeconds,
		Notes:           input.Notes,
	}

	if err := service.repository.InsertLog(context, log); err != nil {
		return nil, err
	}

	return log, nil
}

// DeleteLog removes one of the member's own logs.
func (service *Service) DeleteLog(context context.Context, userID, logID string) error {
	return service.repository.DeleteLog(context, userID, logID)
}

/*
Graduate records a level graduation and advances the member.

Description: Recording is idempotent; the member's current level moves to
the completed level plus one, capped at the final level.

Parameters:
  - context: context.Context
  - userID: string
  - level: int

Returns:
  - int: The member's new current level
  - err: Storage failures
*/
func (service *Service) Graduate(context context.Context, userID string, level int) (int, error) {
	if err := service.repository.Graduate(context, userID, level); err != nil {
		return 0, err
	}

	nextLevel := level + 1
	if nextLevel > auth.MaxLevel {
		nextLevel = auth.MaxLevel
	}

	if err := service.users.UpdateLevel(context, userID, nextLevel); err != nil {
		return 0, err
	}

	return nextLevel, nil
}

/*
ResetProgress wipes the member's training history.

Description: Deletes every log and graduation and returns the member to
level 1. Destructive and self-service only; the identity comes from the
session.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Storage failures
*/
func (service *Service) ResetProgress(context context.Context, userID string) error {
	if err := service.repository.DeleteAllForUser(context, userID); err != nil {
		return err
	}
	return service.users.UpdateLevel(context, userID, auth.MinLevel)
}
