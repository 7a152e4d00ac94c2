package flow

import (
	"fmt"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/schema"
)

// NodeEntry is the fixed start of every conversation.
const NodeEntry = "entry"

// ConsentResult is the typed outcome of the consent step.
type ConsentResult struct {
	ConsentGiven bool `json:"consent_given"`
}

const declineMessage = "I understand. I'll have a staff member contact you directly. Thank you for your time."

// EntryNode creates the initial greeting and consent node.
func (f *Flow) EntryNode() *domain.Node {
	return mustNode(&domain.Node{
		Name: NodeEntry,
		RoleMessages: []domain.Message{
			domain.SystemMessage(fmt.Sprintf(
				"You are %s, an agent for the %s. Your job is to collect important "+
					"information from the user before their doctor visit. You're talking to %s. "+
					"You should address the user by their first name and be polite and professional. "+
					"You're not a medical professional, so you shouldn't provide any advice. "+
					"Keep your responses short. Your job is to collect information to give to a doctor. "+
					"Don't make assumptions about what values to plug into functions. "+
					"Ask for clarification if a user response is ambiguous. "+
					"Maintain a professional, friendly, and empathetic tone. "+
					"Speak naturally and clearly as this is a voice conversation.",
				f.persona.AgentName, f.persona.ClinicName, f.persona.PatientName)),
		},
		TaskMessages: []domain.Message{
			domain.SystemMessage(
				"Start by introducing yourself as an automated assistant from the medical office. " +
					"Explain that you're calling to gather some information before their upcoming appointment. " +
					"Ask for their consent to collect health information."),
		},
		FunctionName:        "process_consent",
		FunctionDescription: "Process patient consent",
		Fields: schema.Schema{
			"consent": {Type: schema.Bool(), Description: "Did the patient give consent?", Required: true},
		},
		Handler:  verifyConsent,
		OnResult: f.handleConsent,
	})
}

// verifyConsent normalizes the consent answer. The field schema already
// coerced it to a bool; anything else counts as refusal.
func verifyConsent(args map[string]any) (any, error) {
	given, _ := args["consent"].(bool)
	return ConsentResult{ConsentGiven: given}, nil
}

func (f *Flow) handleConsent(args map[string]any, result any, sess *domain.Session) (*domain.Outcome, error) {
	consent, ok := result.(ConsentResult)
	if !ok {
		return nil, fmt.Errorf("entry: unexpected result type %T", result)
	}

	if !consent.ConsentGiven {
		// No topic data is ever collected without consent.
		return domain.Advance(f.EndNode(declineMessage)), nil
	}

	sess.GrantConsent()
	return domain.Advance(f.ChiefComplaintNode()), nil
}
