package specialty

import (
	"fmt"
	"strings"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/flow"
	"github.com/carebridge/intake/pkg/schema"
)

// TopicChestPain is the session key the chest pain assessment writes.
const TopicChestPain = "chest_pain_assessment"

const cardiacEmergencyReason = "Potential cardiac emergency detected"

// chestPainIndicators is the static emergency keyword set for this
// specialty. Matched as substrings, case-insensitive.
var chestPainIndicators = []string{
	"severe",
	"crushing",
	"extremely painful",
	"unbearable",
	"difficulty breathing",
	"shortness of breath",
	"sweating",
	"nausea",
	"radiating to arm",
}

// ChestPainResult is the typed outcome of the chest pain assessment.
type ChestPainResult struct {
	PainLocation       string   `json:"pain_location"`
	PainQuality        string   `json:"pain_quality"`
	Radiation          string   `json:"radiation"`
	AssociatedSymptoms []string `json:"associated_symptoms"`
	Severity           string   `json:"severity"`
	AggravatingFactors []string `json:"aggravating_factors"`
	RelievingFactors   []string `json:"relieving_factors"`
	RequiresEmergency  bool     `json:"requires_emergency"`
	EmergencyReason    string   `json:"emergency_reason,omitempty"`
}

// ChestPain is the specialty handling cardiac-adjacent complaints.
type ChestPain struct {
	flow *flow.Flow
}

// NewChestPain wires the specialty to the general flow it routes back into.
func NewChestPain(f *flow.Flow) *ChestPain {
	return &ChestPain{flow: f}
}

func (s *ChestPain) Name() string { return "chest_pain" }

func (s *ChestPain) TriggerPhrases() []string {
	return []string{
		"chest pain",
		"chest pressure",
		"chest tightness",
		"heart pain",
		"angina",
	}
}

// TransitionNode announces the switch into the chest pain assessment.
func (s *ChestPain) TransitionNode(message string) *domain.Node {
	return transitionNode(s.Name(), message, s.AssessmentNode)
}

// AssessmentNode produces the structured chest pain collection step.
func (s *ChestPain) AssessmentNode() *domain.Node {
	return mustNode(&domain.Node{
		Name: s.Name() + "_assessment",
		RoleMessages: []domain.Message{
			domain.SystemMessage("You are assessing chest pain symptoms. Be alert for signs of emergency."),
		},
		TaskMessages: []domain.Message{
			domain.SystemMessage(
				"Carefully assess chest pain characteristics. Ask about:\n" +
					"1. Location and radiation of pain\n" +
					"2. Quality of pain (sharp, dull, pressure, etc.)\n" +
					"3. Severity (1-10 scale)\n" +
					"4. Associated symptoms\n" +
					"5. What makes it better or worse"),
		},
		FunctionName:        "assess_chest_pain",
		FunctionDescription: "Assess chest pain symptoms",
		Fields: schema.Schema{
			"pain_location":       {Type: schema.String(), Description: "Location of chest pain", Required: true},
			"pain_quality":        {Type: schema.String(), Description: "Quality of the pain (sharp, dull, etc.)", Required: true},
			"radiation":           {Type: schema.String(), Description: "Where the pain radiates to"},
			"associated_symptoms": {Type: schema.StringList(), Description: "Other symptoms occurring with chest pain"},
			"severity":            {Type: schema.String(), Description: "Pain severity (1-10)", Required: true},
			"aggravating_factors": {Type: schema.StringList(), Description: "What makes the pain worse"},
			"relieving_factors":   {Type: schema.StringList(), Description: "What makes the pain better"},
		},
		Handler:  assessChestPain,
		OnResult: s.handleAssessment,
	})
}

// assessChestPain shapes the raw arguments and runs emergency detection.
func assessChestPain(args map[string]any) (any, error) {
	var result ChestPainResult
	if err := schema.Decode(args, &result); err != nil {
		return nil, err
	}
	result.Severity = strings.ToLower(result.Severity)
	if result.AssociatedSymptoms == nil {
		result.AssociatedSymptoms = []string{}
	}
	if result.AggravatingFactors == nil {
		result.AggravatingFactors = []string{}
	}
	if result.RelievingFactors == nil {
		result.RelievingFactors = []string{}
	}

	if detectEmergency(result.Severity, result.AssociatedSymptoms, chestPainIndicators) {
		result.RequiresEmergency = true
		result.EmergencyReason = cardiacEmergencyReason
	}
	return result, nil
}

func (s *ChestPain) handleAssessment(args map[string]any, result any, sess *domain.Session) (*domain.Outcome, error) {
	assessment, ok := result.(ChestPainResult)
	if !ok {
		return nil, fmt.Errorf("chest_pain: unexpected result type %T", result)
	}

	if err := sess.Record(TopicChestPain, assessment); err != nil {
		return nil, err
	}

	if assessment.RequiresEmergency {
		return domain.Advance(s.flow.EmergencyNode(assessment.EmergencyReason)), nil
	}
	return domain.Advance(s.flow.MedicalHistoryNode()), nil
}
