package ports

import "context"

// RecordPersister hands the collected intake data to the medical record
// system once a conversation completes.
//
// TODO: no EMR integration exists yet. The engine calls this at the terminal
// node; production deployments currently run the no-op or in-memory stub.
type RecordPersister interface {
	// Persist writes the session's collected topic data to the record system.
	Persist(ctx context.Context, sessionID string, topics map[string]any) error
}
