// Package registry implements the process-wide specialty catalog. It is
// populated once at startup, before any session begins, and read-only
// thereafter.
package registry

import (
	"strings"
	"sync"

	"github.com/carebridge/intake/pkg/domain"
)

// Specialty is a pluggable, topic-specific sub-flow selected by keyword
// match on the stated complaint.
type Specialty interface {
	// Name identifies the specialty (e.g. "chest_pain"). Unique per registry.
	Name() string

	// TriggerPhrases returns the static substrings that select this specialty.
	TriggerPhrases() []string

	// AssessmentNode produces the specialty's structured-collection step,
	// including its own emergency-detection logic.
	AssessmentNode() *domain.Node

	// TransitionNode produces the short intermediate node that utters message
	// and then unconditionally advances to the assessment.
	TransitionNode(message string) *domain.Node
}

// Registry manages the registered specialties. Registration order is
// preserved because match ties break on it.
type Registry struct {
	mu      sync.RWMutex
	entries []Specialty
	names   map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		names: make(map[string]struct{}),
	}
}

// Register appends a specialty. Registering the same name twice is a
// configuration error and must abort startup.
func (r *Registry) Register(s Specialty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if name == "" {
		return &domain.ConfigError{Component: "registry", Reason: "specialty without a name"}
	}
	if _, exists := r.names[name]; exists {
		return &domain.ConfigError{Component: "registry", Reason: "duplicate specialty: " + name}
	}
	r.names[name] = struct{}{}
	r.entries = append(r.entries, s)
	return nil
}

// Match selects the specialty for a complaint via case-insensitive substring
// match against each entry's trigger phrases. The first registered entry
// with any matching phrase wins; ties break on registration order, not
// specificity. Returns nil when nothing matches, which signals the caller to
// fall back to the general intake path.
//
// TODO: replace substring matching with semantic similarity once an
// embedding backend is wired in; the first-match contract must survive that.
func (r *Registry) Match(complaint string) Specialty {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lower := strings.ToLower(complaint)
	for _, entry := range r.entries {
		for _, phrase := range entry.TriggerPhrases() {
			if strings.Contains(lower, strings.ToLower(phrase)) {
				return entry
			}
		}
	}
	return nil
}

// Names returns the registered specialty names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.Name())
	}
	return out
}
