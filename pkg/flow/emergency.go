package flow

import (
	"fmt"
	"time"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/schema"
)

// NodeEmergency is the escalation sink reachable from any specialty
// assessment. It preempts the normal sequence and always leads to the end.
const NodeEmergency = "emergency"

const unspecifiedEmergency = "Unspecified emergency"

const holdTheLineMessage = "Please stay on the line while I transfer you to our medical staff."

// EmergencyResult is the typed outcome of the escalation step.
type EmergencyResult struct {
	Reason string `json:"emergency_reason"`
}

// EmergencyNode creates the escalation node. The reason travels both in the
// staff-alert directive and, as a fallback, into the recorded emergency
// topic.
func (f *Flow) EmergencyNode(reason string) *domain.Node {
	if reason == "" {
		reason = unspecifiedEmergency
	}
	return mustNode(&domain.Node{
		Name: NodeEmergency,
		TaskMessages: []domain.Message{
			domain.SystemMessage(
				"Based on what you've told me, I need to transfer you to our medical staff immediately. " +
					"Please stay on the line while I connect you. If you're experiencing severe symptoms, " +
					"please consider calling emergency services or going to the nearest emergency room."),
		},
		FunctionName:        "handle_emergency",
		FunctionDescription: "Handle emergency routing",
		Fields: schema.Schema{
			"emergency_reason": {Type: schema.String(), Description: "Reason for the emergency"},
		},
		Handler:    handleEmergency(reason),
		OnResult:   f.handleEmergencyTransition,
		PreActions: []domain.Action{domain.AlertStaff(reason)},
	})
}

// handleEmergency binds the escalation reason known at routing time as the
// fallback when the model supplies none. The returned handler stays a pure
// function of its arguments.
func handleEmergency(fallback string) domain.HandlerFunc {
	return func(args map[string]any) (any, error) {
		reason, _ := args["emergency_reason"].(string)
		if reason == "" {
			reason = fallback
		}
		return EmergencyResult{Reason: reason}, nil
	}
}

func (f *Flow) handleEmergencyTransition(args map[string]any, result any, sess *domain.Session) (*domain.Outcome, error) {
	emergency, ok := result.(EmergencyResult)
	if !ok {
		return nil, fmt.Errorf("emergency: unexpected result type %T", result)
	}

	record := domain.EmergencyRecord{
		Reason:    emergency.Reason,
		Timestamp: time.Now(),
	}
	if err := sess.Record(domain.TopicEmergency, record); err != nil {
		return nil, err
	}

	return domain.Advance(f.EndNode(holdTheLineMessage)), nil
}
