// Package specialty implements the pluggable topic-specific sub-flows.
// Each specialty advertises its trigger phrases, produces its own assessment
// node and classifies its structured result against a static emergency
// indicator set.
package specialty

import (
	"fmt"
	"strings"

	"github.com/carebridge/intake/pkg/domain"
)

// detectEmergency reports whether any indicator appears as a case-insensitive
// substring in the free-text severity/description field or in any element of
// the associated-symptoms list. A false positive escalates to staff; a false
// negative must not happen.
//
// TODO: swap the keyword scan for a classifier once one is validated; the
// any-indicator-matches contract must stay the floor, never the ceiling.
func detectEmergency(description string, symptoms []string, indicators []string) bool {
	lowerDesc := strings.ToLower(description)
	for _, indicator := range indicators {
		if strings.Contains(lowerDesc, indicator) {
			return true
		}
		for _, symptom := range symptoms {
			if strings.Contains(strings.ToLower(symptom), indicator) {
				return true
			}
		}
	}
	return false
}

// transitionNode builds the short announcement step shared by all
// specialties: it utters message, then unconditionally advances to the
// assessment node.
func transitionNode(name string, message string, assessment func() *domain.Node) *domain.Node {
	n := &domain.Node{
		Name: name + "_intro",
		TaskMessages: []domain.Message{
			domain.SystemMessage(fmt.Sprintf("Say: '%s'", message)),
		},
		FunctionName:        "continue_to_" + name,
		FunctionDescription: fmt.Sprintf("Continue to the %s assessment", name),
		Handler: func(args map[string]any) (any, error) {
			return struct{}{}, nil
		},
		OnResult: func(args map[string]any, result any, sess *domain.Session) (*domain.Outcome, error) {
			return domain.Advance(assessment()), nil
		},
	}
	if err := n.Validate(); err != nil {
		panic(fmt.Sprintf("specialty: %v", err))
	}
	return n
}

// mustNode panics on malformed static node content; specialties are wired at
// startup, so this surfaces immediately in any test run.
func mustNode(n *domain.Node) *domain.Node {
	if err := n.Validate(); err != nil {
		panic(fmt.Sprintf("specialty: %v", err))
	}
	return n
}
