package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthapp/hearth-api/internal/api/shared"
	"github.com/hearthapp/hearth-api/internal/insight"
	"github.com/hearthapp/hearth-api/internal/platform/logger"
)

// StatsHandler serves the task statistics endpoint.
type StatsHandler struct {
	insightService insight.Service
	logger         *slog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(insightService insight.Service, logger *slog.Logger) *StatsHandler {
	if insightService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("insightService cannot be nil for StatsHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsHandler{
		insightService: insightService,
		logger:         logger.With(slog.String("component", "stats_handler")),
	}
}

// GetStats handles GET /api/stats requests
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	stats, err := h.insightService.Stats(r.Context(), userID, time.Now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute task statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
