package flow

import (
	"fmt"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/schema"
)

// NodeMedicalHistory collects the general medical history.
const NodeMedicalHistory = "medical_history"

// Medication is one structured medication record.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// MedicalHistoryResult is the typed outcome of the medical history step.
type MedicalHistoryResult struct {
	Conditions  []string     `json:"conditions"`
	Medications []Medication `json:"medications"`
	Allergies   []string     `json:"allergies"`
	Surgeries   []string     `json:"surgeries"`
}

// MedicalHistoryNode creates the node collecting conditions, medications,
// allergies and past surgeries.
func (f *Flow) MedicalHistoryNode() *domain.Node {
	return mustNode(&domain.Node{
		Name: NodeMedicalHistory,
		TaskMessages: []domain.Message{
			domain.SystemMessage(
				"Now I'd like to ask about your general medical history. Ask about:\n" +
					"1. Any existing medical conditions\n" +
					"2. Current medications\n" +
					"3. Any allergies\n" +
					"4. Past surgeries\n" +
					"Ask these questions one at a time, naturally."),
		},
		FunctionName:        "collect_medical_history",
		FunctionDescription: "Collect patient's medical history",
		Fields: schema.Schema{
			"conditions": {Type: schema.StringList(), Description: "List of medical conditions", Required: true},
			"medications": {
				Type: schema.RecordList(map[string]schema.Type{
					"name":      schema.String(),
					"dosage":    schema.String(),
					"frequency": schema.String(),
				}),
				Description: "List of current medications",
				Required:    true,
			},
			"allergies": {Type: schema.StringList(), Description: "List of allergies", Required: true},
			"surgeries": {Type: schema.StringList(), Description: "List of past surgeries"},
		},
		Handler:  collectMedicalHistory,
		OnResult: f.handleMedicalHistory,
	})
}

func collectMedicalHistory(args map[string]any) (any, error) {
	var result MedicalHistoryResult
	if err := schema.Decode(args, &result); err != nil {
		return nil, err
	}
	if result.Conditions == nil {
		result.Conditions = []string{}
	}
	if result.Medications == nil {
		result.Medications = []Medication{}
	}
	if result.Allergies == nil {
		result.Allergies = []string{}
	}
	if result.Surgeries == nil {
		result.Surgeries = []string{}
	}
	return result, nil
}

func (f *Flow) handleMedicalHistory(args map[string]any, result any, sess *domain.Session) (*domain.Outcome, error) {
	history, ok := result.(MedicalHistoryResult)
	if !ok {
		return nil, fmt.Errorf("medical_history: unexpected result type %T", result)
	}

	if err := sess.Record(domain.TopicMedicalHistory, history); err != nil {
		return nil, err
	}

	return domain.Advance(f.WrapUpNode()), nil
}
