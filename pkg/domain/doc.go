// Package domain holds the core types of the intake dialogue engine:
// node descriptors, per-conversation session state, and the side-effect
// directives handed to the host runtime.
//
// The types here carry no I/O. Nodes are produced by
// factories, installed into a session by the runtime engine, and rendered
// by an external host (the LLM tool-call layer).
package domain
