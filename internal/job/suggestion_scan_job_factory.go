package job

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SuggestionScanJobFactory builds suggestion scan jobs with their
// dependencies already wired.
type SuggestionScanJobFactory struct {
	scanner SuggestionScanner
	logger  *slog.Logger
}

// NewSuggestionScanJobFactory creates a factory for suggestion scan jobs.
func NewSuggestionScanJobFactory(scanner SuggestionScanner, logger *slog.Logger) *SuggestionScanJobFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestionScanJobFactory{
		scanner: scanner,
		logger:  logger,
	}
}

// CreateJob builds a new scan job for the given user.
func (f *SuggestionScanJobFactory) CreateJob(userID uuid.UUID) (Job, error) {
	return NewSuggestionScanJob(userID, f.scanner, f.logger)
}

// HydrateJob rebuilds a scan job from a persisted payload, for use as
// the Registry entry under TypeSuggestionScan.
func (f *SuggestionScanJobFactory) HydrateJob(payload []byte) (Job, error) {
	var p suggestionScanPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion scan payload: %w", err)
	}
	if p.UserID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	return NewSuggestionScanJob(p.UserID, f.scanner, f.logger)
}
