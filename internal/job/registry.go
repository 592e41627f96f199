package job

import (
	"fmt"
	"sync"
)

// HydrateFunc rebuilds a runnable Job from a persisted payload.
type HydrateFunc func(payload []byte) (Job, error)

// Registry maps job types to hydration functions. The Runner uses it to
// turn JobRecords loaded during recovery back into executable jobs.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]HydrateFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]HydrateFunc),
	}
}

// Register binds a job type to its hydration function. Registering the
// same type twice replaces the earlier binding.
func (r *Registry) Register(jobType string, fn HydrateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[jobType] = fn
}

// Hydrate rebuilds a runnable job of the given type from its payload.
// It fails when no factory is registered for the type.
func (r *Registry) Hydrate(jobType string, payload []byte) (Job, error) {
	r.mu.RLock()
	fn, ok := r.factories[jobType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no factory registered for job type %q", jobType)
	}
	return fn(payload)
}
