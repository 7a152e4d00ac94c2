// Package schema declares the per-node field schemas checked at the handler
// boundary. Validation is lenient: a missing or mistyped field
// is coerced to a safe zero value and reported as an advisory error, never
// as a failed turn. Re-prompting is the language-model layer's judgment call,
// not ours.
package schema
