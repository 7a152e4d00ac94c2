// Package session serializes access to per-conversation state. Each session
// gets its own mutex, reference-counted so idle entries are garbage
// collected; an optional distributed locker extends the guarantee across
// replicas.
package session
