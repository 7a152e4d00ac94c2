package specialty

import (
	"fmt"
	"strings"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/flow"
	"github.com/carebridge/intake/pkg/schema"
)

// TopicRespiratory is the session key the respiratory assessment writes.
const TopicRespiratory = "respiratory_assessment"

const respiratoryEmergencyReason = "Severe respiratory distress detected"

var respiratoryIndicators = []string{
	"severe difficulty",
	"can't breathe",
	"unable to breathe",
	"blue lips",
	"chest pain",
	"dizzy",
	"confused",
}

// RespiratoryResult is the typed outcome of the respiratory assessment.
type RespiratoryResult struct {
	BreathingDifficulty string   `json:"breathing_difficulty"`
	CoughType           string   `json:"cough_type"`
	CoughDuration       string   `json:"cough_duration"`
	SputumPresence      bool     `json:"sputum_presence"`
	SputumDescription   string   `json:"sputum_description"`
	AssociatedSymptoms  []string `json:"associated_symptoms"`
	RequiresEmergency   bool     `json:"requires_emergency"`
	EmergencyReason     string   `json:"emergency_reason,omitempty"`
}

// Respiratory is the specialty handling breathing-related complaints.
type Respiratory struct {
	flow *flow.Flow
}

// NewRespiratory wires the specialty to the general flow it routes back into.
func NewRespiratory(f *flow.Flow) *Respiratory {
	return &Respiratory{flow: f}
}

func (s *Respiratory) Name() string { return "respiratory" }

func (s *Respiratory) TriggerPhrases() []string {
	return []string{
		"breathing problem",
		"shortness of breath",
		"difficulty breathing",
		"cough",
		"respiratory",
		"breathing difficulty",
	}
}

// TransitionNode announces the switch into the respiratory assessment.
func (s *Respiratory) TransitionNode(message string) *domain.Node {
	return transitionNode(s.Name(), message, s.AssessmentNode)
}

// AssessmentNode produces the structured respiratory collection step.
func (s *Respiratory) AssessmentNode() *domain.Node {
	return mustNode(&domain.Node{
		Name: s.Name() + "_assessment",
		TaskMessages: []domain.Message{
			domain.SystemMessage(
				"Continue gathering information about their breathing symptoms naturally. Ask about:\n" +
					"1. Difficulty breathing - when it occurs, severity\n" +
					"2. Cough - type (dry/wet), duration\n" +
					"3. Any mucus or phlegm\n" +
					"4. Associated symptoms\n" +
					"Ask these questions conversationally, one at a time."),
		},
		FunctionName:        "assess_respiratory",
		FunctionDescription: "Collect detailed respiratory information",
		Fields: schema.Schema{
			"breathing_difficulty": {Type: schema.String(), Description: "Description of breathing difficulty", Required: true},
			"cough_type":           {Type: schema.String(), Description: "Type of cough (dry/wet)", Required: true},
			"cough_duration":       {Type: schema.String(), Description: "How long they've had the cough", Required: true},
			"sputum_presence":      {Type: schema.Bool(), Description: "Presence of mucus/phlegm"},
			"sputum_description":   {Type: schema.String(), Description: "Description of mucus/phlegm if present"},
			"associated_symptoms":  {Type: schema.StringList(), Description: "Additional symptoms"},
		},
		Handler:  assessRespiratory,
		OnResult: s.handleAssessment,
	})
}

func assessRespiratory(args map[string]any) (any, error) {
	var result RespiratoryResult
	if err := schema.Decode(args, &result); err != nil {
		return nil, err
	}
	result.BreathingDifficulty = strings.ToLower(result.BreathingDifficulty)
	if result.AssociatedSymptoms == nil {
		result.AssociatedSymptoms = []string{}
	}

	if detectEmergency(result.BreathingDifficulty, result.AssociatedSymptoms, respiratoryIndicators) {
		result.RequiresEmergency = true
		result.EmergencyReason = respiratoryEmergencyReason
	}
	return result, nil
}

func (s *Respiratory) handleAssessment(args map[string]any, result any, sess *domain.Session) (*domain.Outcome, error) {
	assessment, ok := result.(RespiratoryResult)
	if !ok {
		return nil, fmt.Errorf("respiratory: unexpected result type %T", result)
	}

	if err := sess.Record(TopicRespiratory, assessment); err != nil {
		return nil, err
	}

	if assessment.RequiresEmergency {
		return domain.Advance(s.flow.EmergencyNode(assessment.EmergencyReason)), nil
	}
	return domain.Advance(s.flow.MedicalHistoryNode()), nil
}
