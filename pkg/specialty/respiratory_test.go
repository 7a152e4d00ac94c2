package specialty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/flow"
)

func TestAssessRespiratoryEmergency(t *testing.T) {
	result, err := assessRespiratory(map[string]any{
		"breathing_difficulty": "I CAN'T BREATHE when lying down",
		"cough_type":           "dry",
		"cough_duration":       "3 days",
	})
	require.NoError(t, err)

	assessment := result.(RespiratoryResult)
	assert.True(t, assessment.RequiresEmergency)
	assert.Equal(t, respiratoryEmergencyReason, assessment.EmergencyReason)
}

func TestAssessRespiratoryClean(t *testing.T) {
	result, err := assessRespiratory(map[string]any{
		"breathing_difficulty": "slight wheeze after exercise",
		"cough_type":           "wet",
		"cough_duration":       "a week",
		"sputum_presence":      true,
		"sputum_description":   "clear",
	})
	require.NoError(t, err)

	assessment := result.(RespiratoryResult)
	assert.False(t, assessment.RequiresEmergency)
	assert.True(t, assessment.SputumPresence)
	assert.NotNil(t, assessment.AssociatedSymptoms)
}

func TestRespiratoryHandleAssessmentRoutes(t *testing.T) {
	f := newTestFlow(t)
	sp := NewRespiratory(f)
	sess := domain.NewSession("s1")

	result, err := assessRespiratory(map[string]any{
		"breathing_difficulty": "blue lips and confusion",
		"cough_type":           "dry",
		"cough_duration":       "today",
	})
	require.NoError(t, err)

	out, err := sp.handleAssessment(nil, result, sess)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)
	assert.Equal(t, flow.NodeEmergency, out.Next[0].Name)

	_, ok := sess.Topic(TopicRespiratory)
	assert.True(t, ok)
}
