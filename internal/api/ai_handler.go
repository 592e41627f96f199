package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthapp/hearth-api/internal/api/shared"
	"github.com/hearthapp/hearth-api/internal/domain/urgency"
	"github.com/hearthapp/hearth-api/internal/insight"
	"github.com/hearthapp/hearth-api/internal/platform/logger"
)

// PriorityAdviceRequest represents the request body for a priority rating
type PriorityAdviceRequest struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

// RecurrenceCheckRequest represents the request body for a recurrence check
type RecurrenceCheckRequest struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
}

// RecurrenceCheckResponse reports whether the described task reads as a
// weekly-recurring obligation.
type RecurrenceCheckResponse struct {
	Recurring bool `json:"recurring"`
}

// RecurrenceChecker is the slice of the recurrence oracle this handler
// needs. It is satisfied by recurrence.Oracle.
type RecurrenceChecker interface {
	IsRecurring(ctx context.Context, title, description string) bool
}

// AIHandler handles assistant-backed HTTP requests: priority advice,
// recurrence checks, and the weekly summary.
type AIHandler struct {
	insightService    insight.Service
	recurrenceChecker RecurrenceChecker
	logger            *slog.Logger
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(
	insightService insight.Service,
	recurrenceChecker RecurrenceChecker,
	logger *slog.Logger,
) *AIHandler {
	if insightService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("insightService cannot be nil for AIHandler")
	}
	if recurrenceChecker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("recurrenceChecker cannot be nil for AIHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AIHandler{
		insightService:    insightService,
		recurrenceChecker: recurrenceChecker,
		logger:            logger.With(slog.String("component", "ai_handler")),
	}
}

// SuggestPriority handles POST /api/ai/priority requests. The advice comes
// from the assistant when it is reachable and from the local urgency rules
// otherwise, so this endpoint never fails on assistant problems.
func (h *AIHandler) SuggestPriority(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req PriorityAdviceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	advice := h.insightService.SuggestPriority(r.Context(), urgency.Input{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}, time.Now())

	log.Debug("priority advice served",
		slog.String("user_id", userID.String()),
		slog.String("source", advice.Source))
	shared.RespondWithJSON(w, r, http.StatusOK, advice)
}

// CheckRecurrence handles POST /api/ai/recurrence requests
func (h *AIHandler) CheckRecurrence(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req RecurrenceCheckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	recurring := h.recurrenceChecker.IsRecurring(r.Context(), req.Title, req.Description)

	log.Debug("recurrence check served",
		slog.String("user_id", userID.String()),
		slog.Bool("recurring", recurring))
	shared.RespondWithJSON(w, r, http.StatusOK, RecurrenceCheckResponse{Recurring: recurring})
}

// Summarize handles GET /api/ai/summary requests
func (h *AIHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	summary, err := h.insightService.Summarize(r.Context(), userID, time.Now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build summary")
		return
	}

	log.Debug("summary served",
		slog.String("user_id", userID.String()),
		slog.String("source", summary.Source))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
