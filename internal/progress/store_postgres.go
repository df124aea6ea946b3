// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const logColumns = `id, user_id, level, exercise_key, sets_completed, reps_or_duration, hold_time_seconds, notes, session_date, created_at`

// scanLogs hydrates log rows.
func scanLogs(rows pgx.Rows) ([]Log, error) {
	defer rows.Close()

	logs := []Log{}
	for rows.Next() {
		var log Log
		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Level,
			&log.ExerciseKey,
			&log.SetsCompleted,
			&log.RepsOrDuration,
			&log.HoldTimeSeconds,
			&log.Notes,
			&log.SessionDate,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_progress_scan_failed: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

/*
InsertLog persists a new session log.

Description: Session date defaults to today in the database; ID is assigned
here (UUIDv7, time-sortable).

Parameters:
  - context: context.Context
  - log: *Log

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) InsertLog(context context.Context, log *Log) error {
	const query = `
		INSERT INTO progress_logs (id, user_id, level, exercise_key, sets_completed, reps_or_duration, hold_time_seconds, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING session_date, created_at`

	log.ID = uuid.New()
	err := repository.pool.QueryRow(context, query,
		log.ID,
		log.UserID,
		log.Level,
		log.ExerciseKey,
		log.SetsCompleted,
		log.RepsOrDuration,
		log.HoldTimeSeconds,
		log.Notes,
	).Scan(&log.SessionDate, &log.CreatedAt)

	if err != nil {
		return fmt.Errorf("postgres_progress_insert_failed: %w", err)
	}

	return nil
}

/*
DeleteLog removes one log owned by the user.

Description: Ownership is part of the predicate, so deleting another member's
log reads as NotFound rather than leaking its existence.

Parameters:
  - context: context.Context
  - userID: string
  - logID: string

Returns:
  - error: apperr.NotFound or deletion failures
*/
func (repository *PostgresRepository) DeleteLog(context context.Context, userID, logID string) error {
	const query = `DELETE FROM progress_logs WHERE id = $1 AND user_id = $2`

	tag, err := repository.pool.Exec(context, query, logID, userID)
	if err != nil {
		return fmt.Errorf("postgres_progress_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Log")
	}

	return nil
}

// RecentLogs returns the newest logs for the dashboard.
func (repository *PostgresRepository) RecentLogs(context context.Context, userID string, limit int) ([]Log, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM progress_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, logColumns)

	rows, err := repository.pool.Query(context, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_recent_failed: %w", err)
	}
	return scanLogs(rows)
}

// LevelLogs returns the user's logs for one level, newest first.
func (repository *PostgresRepository) LevelLogs(context context.Context, userID string, level, limit, offset int) ([]Log, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM progress_logs
		WHERE user_id = $1 AND level = $2
		ORDER BY session_date DESC, created_at DESC
		LIMIT $3 OFFSET $4`, logColumns)

	rows, err := repository.pool.Query(context, query, userID, level, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_level_logs_failed: %w", err)
	}
	return scanLogs(rows)
}

// CountLevelLogs returns the total log count for one level.
func (repository *PostgresRepository) CountLevelLogs(context context.Context, userID string, level int) (int, error) {
	const query = `SELECT COUNT(*) FROM progress_logs WHERE user_id = $1 AND level = $2`

	var total int
	if err := repository.pool.QueryRow(context, query, userID, level).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_progress_count_failed: %w", err)
	}
	return total, nil
}

// Graduations returns the user's graduations ordered by level.
func (repository *PostgresRepository) Graduations(context context.Context, userID string) ([]Graduation, error) {
	const query = `SELECT level, graduated_at FROM graduations WHERE user_id = $1 ORDER BY level`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_graduations_failed: %w", err)
	}
	defer rows.Close()

	graduations := []Graduation{}
	for rows.Next() {
		var g Graduation
		if err := rows.Scan(&g.Level, &g.GraduatedAt); err != nil {
			return nil, fmt.Errorf("postgres_progress_graduations_scan_failed: %w", err)
		}
		graduations = append(graduations, g)
	}

	return graduations, rows.Err()
}

// Graduation returns the graduation for one level, nil when absent.
func (repository *PostgresRepository) Graduation(context context.Context, userID string, level int) (*Graduation, error) {
	const query = `SELECT level, graduated_at FROM graduations WHERE user_id = $1 AND level = $2`

	g := &Graduation{}
	err := repository.pool.QueryRow(context, query, userID, level).Scan(&g.Level, &g.GraduatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_progress_graduation_failed: %w", err)
	}

	return g, nil
}

/*
Graduate records a level graduation.

Description: ON CONFLICT DO NOTHING makes re-graduating a level idempotent.

Parameters:
  - context: context.Context
  - userID: string
  - level: int

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Graduate(context context.Context, userID string, level int) error {
	const query = `
		INSERT INTO graduations (user_id, level)
		VALUES ($1, $2)
		ON CONFLICT (user_id, level) DO NOTHING`

	if _, err := repository.pool.Exec(context, query, userID, level); err != nil {
		return fmt.Errorf("postgres_progress_graduate_failed: %w", err)
	}
	return nil
}

// SessionDates returns the user's distinct session dates, newest first.
func (repository *PostgresRepository) SessionDates(context context.Context, userID string, limit int) ([]time.Time, error) {
	const query = `
		SELECT DISTINCT session_date FROM progress_logs
		WHERE user_id = $1
		ORDER BY session_date DESC
		LIMIT $2`

	rows, err := repository.pool.Query(context, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_dates_failed: %w", err)
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("postgres_progress_dates_scan_failed: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// Heatmap returns daily log counts for the trailing year.
func (repository *PostgresRepository) Heatmap(context context.Context, userID string) ([]HeatmapDay, error) {
	const query = `
		SELECT session_date::text, COUNT(*)::int
		FROM progress_logs
		WHERE user_id = $1 AND session_date >= CURRENT_DATE - INTERVAL '365 days'
		GROUP BY session_date
		ORDER BY session_date`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_heatmap_failed: %w", err)
	}
	defer rows.Close()

	days := []HeatmapDay{}
	for rows.Next() {
		var day HeatmapDay
		if err := rows.Scan(&day.Date, &day.Count); err != nil {
			return nil, fmt.Errorf("postgres_progress_heatmap_scan_failed: %w", err)
		}
		days = append(days, day)
	}

	return days, rows.Err()
}

// WeeklyVolume returns per-ISO-week volume for the trailing 12 weeks.
func (repository *PostgresRepository) WeeklyVolume(context context.Context, userID string) ([]WeeklyVolume, error) {
	const query = `
		SELECT to_char(session_date, 'IYYY-"W"IW'),
		       COUNT(DISTINCT session_date)::int,
		       COALESCE(SUM(sets_completed), 0)::int,
		       date_trunc('week', MIN(session_date))::date::text
		FROM progress_logs
		WHERE user_id = $1 AND session_date >= CURRENT_DATE - INTERVAL '12 weeks'
		GROUP BY 1
		ORDER BY 1`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_weekly_failed: %w", err)
	}
	defer rows.Close()

	weeks := []WeeklyVolume{}
	for rows.Next() {
		var week WeeklyVolume
		if err := rows.Scan(&week.Week, &week.Sessions, &week.Sets, &week.WeekStart); err != nil {
			return nil, fmt.Errorf("postgres_progress_weekly_scan_failed: %w", err)
		}
		weeks = append(weeks, week)
	}

	return weeks, rows.Err()
}

// PersonalBests returns the best hold and set counts per exercise.
func (repository *PostgresRepository) PersonalBests(context context.Context, userID string) ([]PersonalBest, error) {
	const query = `
		WITH maxes AS (
			SELECT exercise_key,
			       MAX(hold_time_seconds)::int AS best_hold_seconds,
			       MAX(sets_completed)::int AS best_sets
			FROM progress_logs WHERE user_id = $1 GROUP BY exercise_key
		)
		SELECT m.exercise_key, m.best_hold_seconds, m.best_sets,
			(SELECT session_date::text FROM progress_logs
			 WHERE user_id = $1 AND exercise_key = m.exercise_key
			 ORDER BY hold_time_seconds DESC NULLS LAST, sets_completed DESC, session_date DESC
			 LIMIT 1)
		FROM maxes m
		ORDER BY m.best_hold_seconds DESC NULLS LAST`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_bests_failed: %w", err)
	}
	defer rows.Close()

	bests := []PersonalBest{}
	for rows.Next() {
		var best PersonalBest
		if err := rows.Scan(&best.ExerciseKey, &best.BestHoldSeconds, &best.BestSets, &best.AchievedAt); err != nil {
			return nil, fmt.Errorf("postgres_progress_bests_scan_failed: %w", err)
		}
		bests = append(bests, best)
	}

	return bests, rows.Err()
}

// LevelTimeline returns first-log and graduation dates per level.
func (repository *PostgresRepository) LevelTimeline(context context.Context, userID string) ([]LevelMilestone, error) {
	const query = `
		SELECT p.level,
		       MIN(p.session_date)::text,
		       g.graduated_at
		FROM progress_logs p
		LEFT JOIN graduations g ON g.user_id = p.user_id AND g.level = p.level
		WHERE p.user_id = $1
		GROUP BY p.level, g.graduated_at
		ORDER BY p.level`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_timeline_failed: %w", err)
	}
	defer rows.Close()

	timeline := []LevelMilestone{}
	for rows.Next() {
		var milestone LevelMilestone
		if err := rows.Scan(&milestone.Level, &milestone.StartedAt, &milestone.GraduatedAt); err != nil {
			return nil, fmt.Errorf("postgres_progress_timeline_scan_failed: %w", err)
		}
		timeline = append(timeline, milestone)
	}

	return timeline, rows.Err()
}

// ExerciseBreakdown returns the most practiced exercises (top 10).
func (repository *PostgresRepository) ExerciseBreakdown(context context.Context, userID string) ([]ExerciseCount, error) {
	const query = `
		SELECT exercise_key, COUNT(*)::int
		FROM progress_logs WHERE user_id = $1
		GROUP BY exercise_key
		ORDER BY 2 DESC
		LIMIT 10`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_progress_breakdown_failed: %w", err)
	}
	defer rows.Close()

	breakdown := []ExerciseCount{}
	for rows.Next() {
		var count ExerciseCount
		if err := rows.Scan(&count.ExerciseKey, &count.TotalLogs); err != nil {
			return nil, fmt.Errorf("postgres_progress_breakdown_scan_failed: %w", err)
		}
		count.Name = ExerciseName(count.ExerciseKey)
		breakdown = append(breakdown, count)
	}

	return breakdown, rows.Err()
}

// Totals returns lifetime counters.
func (repository *PostgresRepository) Totals(context context.Context, userID string) (Totals, error) {
	const query = `
		SELECT COUNT(DISTINCT session_date)::int,
		       COALESCE(SUM(sets_completed), 0)::int,
		       COUNT(*)::int
		FROM progress_logs WHERE user_id = $1`

	var totals Totals
	err := repository.pool.QueryRow(context, query, userID).
		Scan(&totals.TotalSessions, &totals.TotalSets, &totals.TotalLogs)
	if err != nil {
		return Totals{}, fmt.Errorf("postgres_progress_totals_failed: %w", err)
	}

	return totals, nil
}

// LongestStreak returns the longest consecutive-day run, computed with the
// gaps-and-islands technique.
func (repository *PostgresRepository) LongestStreak(context context.Context, userID string) (int, error) {
	const query = `
		WITH dates AS (
			SELECT DISTINCT session_date FROM progress_logs
			WHERE user_id = $1
		),
		grouped AS (
			SELECT session_date,
			       session_date - (ROW_NUMBER() OVER (ORDER BY session_date))::int AS grp
			FROM dates
		)
		SELECT COALESCE(MAX(cnt), 0)::int
		FROM (SELECT COUNT(*)::int AS cnt FROM grouped GROUP BY grp) sub`

	var longest int
	if err := repository.pool.QueryRow(context, query, userID).Scan(&longest); err != nil {
		return 0, fmt.Errorf("postgres_progress_streak_failed: %w", err)
	}

	return longest, nil
}

// DeleteAllForUser removes every log and graduation the user owns.
func (repository *PostgresRepository) DeleteAllForUser(context context.Context, userID string) error {
	if _, err := repository.pool.Exec(context, `DELETE FROM progress_logs WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("postgres_progress_reset_logs_failed: %w", err)
	}
	if _, err := repository.pool.Exec(context, `DELETE FROM graduations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("postgres_progress_reset_graduations_failed: %w", err)
	}
	return nil
}
