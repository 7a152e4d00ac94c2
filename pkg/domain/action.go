package domain

// Action is a tagged side-effect directive interpreted by the host runtime.
// The core only ever appends well-known tags; it never executes them.
type Action struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// Standard action types.
const (
	// ActionAlertStaff asks the host to notify clinic staff immediately.
	ActionAlertStaff = "alert_staff"

	// ActionEndConversation asks the host to tear down the session transport.
	ActionEndConversation = "end_conversation"
)

// AlertStaff builds the staff-alert directive carrying the escalation reason.
func AlertStaff(reason string) Action {
	return Action{Type: ActionAlertStaff, Reason: reason}
}

// EndConversation builds the transport-teardown directive.
func EndConversation() Action {
	return Action{Type: ActionEndConversation}
}
