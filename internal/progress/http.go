// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP delivery layer for the training program.

It serves the level catalog, session logging, graduations, and the
dashboard analytics endpoints. Everything except the catalog requires an
authenticated session.
*/

package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/platform/middleware"
	requestutil "github.com/taibuivan/handstand/internal/platform/request"
	"github.com/taibuivan/handstand/internal/platform/respond"
	"github.com/taibuivan/handstand/internal/platform/validate"
	"github.com/taibuivan/handstand/internal/users/auth"
	"github.com/taibuivan/handstand/pkg/pagination"
	"github.com/taibuivan/handstand/pkg/uuid"
)

// # Definitions & Constructors

// Handler implements training progress HTTP endpoints.
type Handler struct {
	progressService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{progressService: service}
}

// Routes returns a [chi.Router] for the training program endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public catalog
	router.Get("/levels", handler.levels)

	// Member endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/dashboard", handler.dashboard)
		r.Get("/dashboard/stats", handler.stats)
		r.Get("/levels/{num}/logs", handler.levelLogs)
		r.Post("/log", handler.addLog)
		r.Delete("/log/{id}", handler.deleteLog)
		r.Post("/graduate", handler.graduate)
		r.Post("/reset-progress", handler.resetProgress)
	})

	return router
}

// # Request Payloads

type addLogRequest struct {
	Level           int    `json:"level"`
	ExerciseKey     string `json:"exercise_key"`
	SetsCompleted   int    `json:"sets_completed"`
	RepsOrDuration  string `json:"reps_or_duration"`
	HoldTimeSeconds *int   `json:"hold_time_seconds"`
	Notes           string `json:"notes"`
}

type graduateRequest struct {
	Level int `json:"level"`
}

// # Handlers

/*
Levels returns the full training program catalog.

GET /api/levels

Description: Static content; no session required.

Response:
  - 200: {levels}
*/
func (handler *Handler) levels(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{"levels": Levels})
}

/*
Dashboard returns the member's landing-page aggregation.

GET /api/dashboard

Response:
  - 200: {user, graduations, recentLogs, totalSessions, streak}
  - 401: Unauthenticated or dangling session user
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	data, err := handler.progressService.Dashboard(request.Context(), session.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, data)
}

/*
Stats returns the member's analytics payload.

GET /api/dashboard/stats

Response:
  - 200: {heatmap, weeklyVolume, personalBests, levelTimeline,
    exerciseBreakdown, totals, streak}
  - 401: Unauthenticated or dangling session user
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	data, err := handler.progressService.Stats(request.Context(), session.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, data)
}

/*
LevelLogs returns the paginated log history for one level.

GET /api/levels/{num}/logs?page=&limit=

Response:
  - 200: {logs, graduated, meta}
  - 400: Level outside the program range
  - 401: Unauthenticated
*/
func (handler *Handler) levelLogs(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	level, err := requestutil.IntParam(request, "num")
	if err != nil || level < auth.MinLevel || level > auth.MaxLevel {
		respond.Error(writer, request, apperr.ValidationError("Invalid level"))
		return
	}

	history, err := handler.progressService.LevelLogs(
		request.Context(), session.UserID, level, pagination.FromRequest(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, history)
}

/*
AddLog records one exercise entry for today's session.

POST /api/log

Request:
  - Body: addLogRequest (Level, ExerciseKey, SetsCompleted, ...)

Response:
  - 201: {log}
  - 400: Validation failure
  - 401: Unauthenticated
*/
func (handler *Handler) addLog(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addLogRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Range(auth.FieldLevel, input.Level, auth.MinLevel, auth.MaxLevel).
		Required("exercise_key", input.ExerciseKey)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	log, err := handler.progressService.AddLog(request.Context(), session.UserID, AddLogInput{
		Level:           input.Level,
		ExerciseKey:     input.ExerciseKey,
		SetsCompleted:   input.SetsCompleted,
		RepsOrDuration:  input.RepsOrDuration,
		HoldTimeSeconds: input.HoldTimeSeconds,
		Notes:           input.Notes,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{"log": log})
}

/*
DeleteLog removes one of the member's own logs.

DELETE /api/log/{id}

Response:
  - 200: {ok:true}
  - 401: Unauthenticated
  - 404: Log not found or owned by another member
*/
func (handler *Handler) deleteLog(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	logID := requestutil.Param(request, "id")
	if logID == "" {
		respond.Error(writer, request, apperr.ValidationError("Log id is required"))
		return
	}
	// A malformed id would otherwise surface as a uuid cast error from Postgres.
	if !uuid.IsValid(logID) {
		respond.Error(writer, request, apperr.NotFound("Log"))
		return
	}

	if err := handler.progressService.DeleteLog(request.Context(), session.UserID, logID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"ok": true})
}

/*
Graduate records a level graduation and advances the member.

POST /api/graduate

Request:
  - Body: graduateRequest (Level)

Response:
  - 200: {ok:true, nextLevel}
  - 400: Level outside the program range
  - 401: Unauthenticated
*/
func (handler *Handler) graduate(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input graduateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Range(auth.FieldLevel, input.Level, auth.MinLevel, auth.MaxLevel)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	nextLevel, err := handler.progressService.Graduate(request.Context(), session.UserID, input.Level)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"ok": true, "nextLevel": nextLevel})
}

/*
ResetProgress wipes the member's training history.

POST /api/reset-progress

Description: Deletes every log and graduation and returns the member to
level 1. The identity comes strictly from the session.

Response:
  - 200: {ok:true}
  - 401: Unauthenticated
*/
func (handler *Handler) resetProgress(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.progressService.ResetProgress(request.Context(), session.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"ok": true})
}
