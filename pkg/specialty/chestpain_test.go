package specialty

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/flow"
)

func chestPainArgs(severity string, symptoms []any) map[string]any {
	return map[string]any{
		"pain_location":       "center of chest",
		"pain_quality":        "pressure",
		"severity":            severity,
		"associated_symptoms": symptoms,
	}
}

func TestAssessChestPainEmergency(t *testing.T) {
	result, err := assessChestPain(chestPainArgs("Severe crushing pressure", nil))
	require.NoError(t, err)

	assessment := result.(ChestPainResult)
	assert.True(t, assessment.RequiresEmergency)
	assert.Equal(t, cardiacEmergencyReason, assessment.EmergencyReason)
	assert.Equal(t, "severe crushing pressure", assessment.Severity)
}

func TestAssessChestPainEmergencyViaSymptom(t *testing.T) {
	result, err := assessChestPain(chestPainArgs("about a 4", []any{"shortness of breath"}))
	require.NoError(t, err)

	assessment := result.(ChestPainResult)
	assert.True(t, assessment.RequiresEmergency)
}

func TestAssessChestPainClean(t *testing.T) {
	result, err := assessChestPain(chestPainArgs("mild, about a 3", nil))
	require.NoError(t, err)

	assessment := result.(ChestPainResult)
	assert.False(t, assessment.RequiresEmergency)
	assert.Empty(t, assessment.EmergencyReason)

	// Absent lists come back empty, never nil.
	assert.NotNil(t, assessment.AssociatedSymptoms)
	assert.NotNil(t, assessment.AggravatingFactors)
	assert.NotNil(t, assessment.RelievingFactors)
}

func TestAssessChestPainIdempotent(t *testing.T) {
	args := chestPainArgs("Severe crushing pressure", []any{"sweating"})

	first, err := assessChestPain(args)
	require.NoError(t, err)
	second, err := assessChestPain(args)
	require.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("handler is not idempotent: %v vs %v", first, second)
	}
}

func TestHandleAssessmentEscalates(t *testing.T) {
	f := newTestFlow(t)
	sp := NewChestPain(f)
	sess := domain.NewSession("s1")

	result, err := assessChestPain(chestPainArgs("Severe crushing pressure", nil))
	require.NoError(t, err)

	out, err := sp.handleAssessment(nil, result, sess)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)

	emergency := out.Next[0]
	assert.Equal(t, flow.NodeEmergency, emergency.Name)
	require.Len(t, emergency.PreActions, 1)
	assert.Equal(t, domain.ActionAlertStaff, emergency.PreActions[0].Type)
	assert.Equal(t, cardiacEmergencyReason, emergency.PreActions[0].Reason)

	recorded, ok := sess.Topic(TopicChestPain)
	require.True(t, ok)
	assert.True(t, recorded.(ChestPainResult).RequiresEmergency)
}

func TestHandleAssessmentCleanPath(t *testing.T) {
	f := newTestFlow(t)
	sp := NewChestPain(f)
	sess := domain.NewSession("s1")

	result, err := assessChestPain(chestPainArgs("mild, about a 2", nil))
	require.NoError(t, err)

	out, err := sp.handleAssessment(nil, result, sess)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)
	assert.Equal(t, flow.NodeMedicalHistory, out.Next[0].Name)
}

func TestHandleAssessmentRejectsSecondWrite(t *testing.T) {
	f := newTestFlow(t)
	sp := NewChestPain(f)
	sess := domain.NewSession("s1")

	result, err := assessChestPain(chestPainArgs("mild", nil))
	require.NoError(t, err)

	_, err = sp.handleAssessment(nil, result, sess)
	require.NoError(t, err)

	_, err = sp.handleAssessment(nil, result, sess)
	assert.True(t, errors.Is(err, domain.ErrTopicRecorded))
}
