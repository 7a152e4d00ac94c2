package flow

import (
	"fmt"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/schema"
)

// NodeChiefComplaint collects the main reason for the visit.
const NodeChiefComplaint = "chief_complaint"

// ChiefComplaintResult is the typed outcome of the chief complaint step.
type ChiefComplaintResult struct {
	Complaint string `json:"complaint"`
	Duration  string `json:"duration"`
}

// ChiefComplaintNode creates the chief complaint collection node.
func (f *Flow) ChiefComplaintNode() *domain.Node {
	return mustNode(&domain.Node{
		Name: NodeChiefComplaint,
		TaskMessages: []domain.Message{
			domain.SystemMessage(
				"Ask: 'Could you please tell me the main reason for your appointment?' " +
					"After their response, ask about duration: 'How long have you been experiencing these symptoms?'"),
		},
		FunctionName:        "collect_chief_complaint",
		FunctionDescription: "Collect chief complaint information",
		Fields: schema.Schema{
			"complaint": {Type: schema.String(), Description: "Main complaint or symptoms", Required: true},
			"duration":  {Type: schema.String(), Description: "How long they've had the symptoms", Required: true},
		},
		Handler:  collectChiefComplaint,
		OnResult: f.handleChiefComplaint,
	})
}

func collectChiefComplaint(args map[string]any) (any, error) {
	var result ChiefComplaintResult
	if err := schema.Decode(args, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *Flow) handleChiefComplaint(args map[string]any, result any, sess *domain.Session) (*domain.Outcome, error) {
	complaint, ok := result.(ChiefComplaintResult)
	if !ok {
		return nil, fmt.Errorf("chief_complaint: unexpected result type %T", result)
	}

	if err := sess.Record(domain.TopicChiefComplaint, complaint); err != nil {
		return nil, err
	}

	// TODO: kick off a background check against prior medical records so the
	// agent learns about known risk factors before the specialty questions.

	if sp := f.reg.Match(complaint.Complaint); sp != nil {
		message := fmt.Sprintf(
			"I understand you've been experiencing %s for %s. "+
				"I'd like to ask a few more specific questions about this to help the doctor "+
				"better prepare for your appointment.",
			complaint.Complaint, complaint.Duration)
		// Two-step install: the intro is uttered first, then the assessment
		// becomes the active structured step.
		return domain.Advance(sp.TransitionNode(message), sp.AssessmentNode()), nil
	}

	return domain.Advance(f.MedicalHistoryNode()), nil
}
