package memory

import (
	"context"
	"sync"
)

// Recorder implements ports.RecordPersister by keeping the persisted topic
// data in memory. It stands in for the medical record system until a real
// EMR integration lands, and doubles as a test double.
type Recorder struct {
	mu      sync.RWMutex
	records map[string]map[string]any
}

// NewRecorder creates an empty in-memory recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		records: make(map[string]map[string]any),
	}
}

// Persist stores the collected topic data under the session ID.
func (r *Recorder) Persist(ctx context.Context, sessionID string, topics map[string]any) error {
	copied := make(map[string]any, len(topics))
	for k, v := range topics {
		copied[k] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[sessionID] = copied
	return nil
}

// Record returns the persisted topics for a session, if any.
func (r *Recorder) Record(sessionID string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[sessionID]
	return rec, ok
}
