// Package ports declares the interfaces the engine consumes from external
// collaborators: session snapshot persistence, distributed locking, and the
// medical-record sink. Adapters live under pkg/adapters and
// internal/adapters.
package ports
