package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobRequestEvent is a request to run a background job. It names the job
// type and carries the job-specific data as raw JSON, so emitters need no
// knowledge of the job package's types.
type JobRequestEvent struct {
	// ID uniquely identifies this event instance.
	ID uuid.UUID `json:"id"`

	// Type names the kind of job being requested.
	Type string `json:"type"`

	// Payload holds the job-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt records when the event was emitted.
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *JobRequestEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewJobRequestEvent creates a JobRequestEvent of the given type with the
// payload serialized to JSON.
func NewJobRequestEvent(jobType string, payload any) (*JobRequestEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job payload: %w", err)
	}

	return &JobRequestEvent{
		ID:        uuid.New(),
		Type:      jobType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler is implemented by components that react to job requests.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *JobRequestEvent) error
}

// EventEmitter is implemented by components that publish job requests.
// Services emit through this interface without knowing which handlers are
// subscribed.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *JobRequestEvent) error
}
