package ports

import (
	"context"

	"github.com/carebridge/intake/pkg/domain"
)

// StateStore persists session snapshots. Snapshots cover the collected
// topics, not the live node descriptors; they exist for inspection and
// recovery tooling, not for resuming a half-finished turn.
type StateStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snap *domain.SessionSnapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of every stored session.
	List(ctx context.Context) ([]string, error)
}
