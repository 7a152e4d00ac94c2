package domain

import (
	"github.com/carebridge/intake/pkg/schema"
)

// Message is a single system-level directive rendered to the language model
// when a node becomes active.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// HandlerFunc normalizes raw tool-call arguments into a typed result.
// Handlers must be pure: same args, same result, no session access.
type HandlerFunc func(args map[string]any) (any, error)

// TransitionFunc decides the next step after a handler produced its result.
// It is the only place session mutation and routing happen.
type TransitionFunc func(args map[string]any, result any, sess *Session) (*Outcome, error)

// Node describes one turn-group of the conversation: what to utter, which
// structured fields to elicit, and how to move on once they arrive.
// Nodes are immutable after creation and discarded once a successor is
// installed; everything worth keeping lands in the Session.
type Node struct {
	// Name identifies the node in session history (e.g. "chief_complaint").
	Name string

	// RoleMessages set or reset the agent persona. Optional.
	RoleMessages []Message

	// TaskMessages carry the instructions for this step.
	TaskMessages []Message

	// FunctionName is the tool name the host registers for this node.
	// Empty for terminal nodes.
	FunctionName string

	// FunctionDescription is the human-readable tool description.
	FunctionDescription string

	// Fields is the schema of arguments the tool call must supply.
	Fields schema.Schema

	// Handler validates and shapes the inbound arguments. Nil on terminal nodes.
	Handler HandlerFunc

	// OnResult routes to the next node(s). Nil on terminal nodes.
	OnResult TransitionFunc

	// PreActions and PostActions are fire-and-forget directives for the host,
	// executed before/after the node is active.
	PreActions  []Action
	PostActions []Action

	// Terminal marks a sink node. No handler is ever invoked on it.
	Terminal bool
}

// Validate reports malformed static content. Factories call this once at
// construction so configuration mistakes surface at startup, never mid-call.
func (n *Node) Validate() error {
	if n.Name == "" {
		return &ConfigError{Component: "node", Reason: "missing name"}
	}
	if len(n.TaskMessages) == 0 {
		return &ConfigError{Component: "node " + n.Name, Reason: "no task messages"}
	}
	for _, m := range n.TaskMessages {
		if m.Content == "" {
			return &ConfigError{Component: "node " + n.Name, Reason: "empty task message"}
		}
	}
	if !n.Terminal {
		if n.Handler == nil {
			return &ConfigError{Component: "node " + n.Name, Reason: "non-terminal node without handler"}
		}
		if n.OnResult == nil {
			return &ConfigError{Component: "node " + n.Name, Reason: "non-terminal node without transition"}
		}
		if n.FunctionName == "" {
			return &ConfigError{Component: "node " + n.Name, Reason: "non-terminal node without function name"}
		}
	}
	return nil
}

// Outcome is the set of nodes a transition installs, in order. The last one
// becomes the session's current node; earlier entries exist so the host can
// utter an intermediate message (the specialty intro) before the next
// structured step.
type Outcome struct {
	Next []*Node
}

// Advance builds an Outcome from an ordered list of nodes.
func Advance(nodes ...*Node) *Outcome {
	return &Outcome{Next: nodes}
}
