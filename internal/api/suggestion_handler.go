package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthapp/hearth-api/internal/api/shared"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/platform/logger"
	"github.com/hearthapp/hearth-api/internal/service"
)

// SuggestionResponse represents the response data for a recurrence draft
type SuggestionResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SourceTaskID string    `json:"source_task_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	DueDate      string    `json:"due_date,omitempty"`
	Priority     string    `json:"priority"`
	ReminderDays int       `json:"reminder_days"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ScanAcceptedResponse acknowledges a scan request that will run in the
// background.
type ScanAcceptedResponse struct {
	Status string `json:"status"`
}

// SuggestionHandler handles recurrence-suggestion HTTP requests
type SuggestionHandler struct {
	suggestionService service.SuggestionService
	logger            *slog.Logger
}

// NewSuggestionHandler creates a new SuggestionHandler
func NewSuggestionHandler(
	suggestionService service.SuggestionService,
	logger *slog.Logger,
) *SuggestionHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &SuggestionHandler{
		suggestionService: suggestionService,
		logger:            logger.With(slog.String("component", "suggestion_handler")),
	}
}

// Scan handles POST /api/suggestions/scan requests. The scan itself runs on
// the background job runner, so the response only acknowledges the request.
func (h *SuggestionHandler) Scan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.suggestionService.EnqueueScan(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to request suggestion scan")
		return
	}

	log.Debug("suggestion scan accepted", slog.String("user_id", userID.String()))

	// Processing happens asynchronously, so acknowledge with 202 Accepted
	shared.RespondWithJSON(w, r, http.StatusAccepted, ScanAcceptedResponse{Status: "accepted"})
}

// ListSuggestions handles GET /api/suggestions requests, returning the
// user's proposed drafts.
func (h *SuggestionHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	suggestions, err := h.suggestionService.ListSuggestions(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list suggestions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, suggestionsToResponse(suggestions))
}

// AcceptSuggestion handles POST /api/suggestions/{id}/accept requests.
// Accepting creates a real task from the draft and returns it.
func (h *SuggestionHandler) AcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, suggestionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.suggestionService.AcceptSuggestion(r.Context(), userID, suggestionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to accept suggestion")
		return
	}

	log.Debug("suggestion accepted",
		slog.String("user_id", userID.String()),
		slog.String("suggestion_id", suggestionID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// DismissSuggestion handles POST /api/suggestions/{id}/dismiss requests.
func (h *SuggestionHandler) DismissSuggestion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, suggestionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.suggestionService.DismissSuggestion(r.Context(), userID, suggestionID); err != nil {
		HandleAPIError(w, r, err, "Failed to dismiss suggestion")
		return
	}

	log.Debug("suggestion dismissed",
		slog.String("user_id", userID.String()),
		slog.String("suggestion_id", suggestionID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// suggestionToResponse converts a domain.Suggestion to a SuggestionResponse
func suggestionToResponse(s domain.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		ID:           s.ID.String(),
		UserID:       s.UserID.String(),
		SourceTaskID: s.SourceTaskID.String(),
		Title:        s.Title,
		Description:  s.Description,
		Category:     s.Category,
		DueDate:      s.DueDate,
		Priority:     string(s.Priority),
		ReminderDays: s.ReminderDays,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// suggestionsToResponse converts a batch of suggestions, never returning nil
// so an empty listing serializes as [].
func suggestionsToResponse(suggestions []domain.Suggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, suggestionToResponse(s))
	}
	return out
}
