// Package middleware provides StateStore wrappers for data protection:
// masking of sensitive topic fields before they reach the store, and
// encryption at rest for the snapshot payload. Intake snapshots carry
// health information; deployments decide per environment which layers to
// stack on the raw store.
package middleware

import "github.com/carebridge/intake/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies middlewares so the first listed is the outermost wrapper.
func Chain(store ports.StateStore, middlewares ...Middleware) ports.StateStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
