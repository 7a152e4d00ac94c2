// Package flow builds the general intake sequence: consent entry, chief
// complaint, medical history, wrap-up, emergency escalation and the terminal
// node. Node factories are pure; all session mutation happens inside the
// OnResult transitions they embed.
package flow

import (
	"fmt"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/registry"
)

// Persona is the static identity the agent speaks with.
type Persona struct {
	AgentName   string `yaml:"agent_name" json:"agent_name"`
	ClinicName  string `yaml:"clinic_name" json:"clinic_name"`
	PatientName string `yaml:"patient_name" json:"patient_name"`
}

// Settings carries flow-level tuning the host applies between nodes.
type Settings struct {
	// ContextStrategy tells the host how to manage LLM context on node
	// change (e.g. "reset_with_summary").
	ContextStrategy string `yaml:"context_strategy" json:"context_strategy"`

	// SummaryPrompt is used when the strategy summarizes prior turns.
	SummaryPrompt string `yaml:"summary_prompt" json:"summary_prompt"`
}

// DefaultSettings mirror the production flow configuration.
func DefaultSettings() Settings {
	return Settings{
		ContextStrategy: "reset_with_summary",
		SummaryPrompt: "Summarize the key medical information collected so far, " +
			"focusing on symptoms, history, and any red flags.",
	}
}

// Flow produces the node descriptors of the general intake sequence.
// One Flow serves any number of sessions; it holds no per-session state.
type Flow struct {
	persona  Persona
	settings Settings
	reg      *registry.Registry
}

// New validates the static configuration and builds a Flow. A missing
// persona field is a startup failure, not something to discover mid-call.
func New(persona Persona, settings Settings, reg *registry.Registry) (*Flow, error) {
	if persona.AgentName == "" {
		return nil, &domain.ConfigError{Component: "flow", Reason: "missing agent name"}
	}
	if persona.ClinicName == "" {
		return nil, &domain.ConfigError{Component: "flow", Reason: "missing clinic name"}
	}
	if persona.PatientName == "" {
		return nil, &domain.ConfigError{Component: "flow", Reason: "missing patient name"}
	}
	if reg == nil {
		return nil, &domain.ConfigError{Component: "flow", Reason: "missing specialty registry"}
	}
	if settings.ContextStrategy == "" {
		settings = DefaultSettings()
	}
	return &Flow{persona: persona, settings: settings, reg: reg}, nil
}

// Settings returns the flow-level host tuning.
func (f *Flow) Settings() Settings {
	return f.settings
}

// Registry exposes the specialty registry the flow routes through.
func (f *Flow) Registry() *registry.Registry {
	return f.reg
}

// mustNode panics on malformed static node content. Factories are only fed
// compile-time constants plus the validated persona, so a failure here is a
// programming error caught by the test suite, not a runtime condition.
func mustNode(n *domain.Node) *domain.Node {
	if err := n.Validate(); err != nil {
		panic(fmt.Sprintf("flow: %v", err))
	}
	return n
}
