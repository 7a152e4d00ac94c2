package specialty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/intake/pkg/flow"
	"github.com/carebridge/intake/pkg/registry"
)

func newTestFlow(t *testing.T) *flow.Flow {
	t.Helper()
	f, err := flow.New(flow.Persona{
		AgentName:   "Alice",
		ClinicName:  "Test Clinic",
		PatientName: "Pat",
	}, flow.DefaultSettings(), registry.New())
	require.NoError(t, err)
	return f
}

func TestDetectEmergency(t *testing.T) {
	indicators := []string{"severe", "sweating"}

	tests := []struct {
		name        string
		description string
		symptoms    []string
		want        bool
	}{
		{"indicator in description", "SEVERE crushing pressure", nil, true},
		{"indicator in symptom", "dull ache", []string{"Sweating heavily"}, true},
		{"no indicator", "mild discomfort", []string{"fatigue"}, false},
		{"empty input", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectEmergency(tt.description, tt.symptoms, indicators)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionNodeAdvancesToAssessment(t *testing.T) {
	f := newTestFlow(t)
	sp := NewChestPain(f)

	intro := sp.TransitionNode("Let me ask a few more questions.")
	require.NotNil(t, intro)
	assert.Equal(t, "chest_pain_intro", intro.Name)
	assert.Equal(t, "continue_to_chest_pain", intro.FunctionName)

	result, err := intro.Handler(map[string]any{})
	require.NoError(t, err)

	out, err := intro.OnResult(map[string]any{}, result, nil)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)
	assert.Equal(t, "chest_pain_assessment", out.Next[0].Name)
}
