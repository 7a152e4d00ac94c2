package flow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/registry"
)

func testPersona() Persona {
	return Persona{
		AgentName:   "Alice",
		ClinicName:  "Test Clinic",
		PatientName: "Pat",
	}
}

func newTestFlow(t *testing.T) *Flow {
	t.Helper()
	f, err := New(testPersona(), DefaultSettings(), registry.New())
	require.NoError(t, err)
	return f
}

func TestNewRejectsIncompletePersona(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Persona)
	}{
		{"missing agent name", func(p *Persona) { p.AgentName = "" }},
		{"missing clinic name", func(p *Persona) { p.ClinicName = "" }},
		{"missing patient name", func(p *Persona) { p.PatientName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPersona()
			tt.mutate(&p)
			_, err := New(p, DefaultSettings(), registry.New())
			var cfgErr *domain.ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestNewRejectsNilRegistry(t *testing.T) {
	var cfgErr *domain.ConfigError
	_, err := New(testPersona(), DefaultSettings(), nil)
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewDefaultsEmptySettings(t *testing.T) {
	f, err := New(testPersona(), Settings{}, registry.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), f.Settings())
}

func TestEntryNodePersona(t *testing.T) {
	f := newTestFlow(t)
	entry := f.EntryNode()

	require.Len(t, entry.RoleMessages, 1)
	role := entry.RoleMessages[0].Content
	assert.Contains(t, role, "Alice")
	assert.Contains(t, role, "Test Clinic")
	assert.Contains(t, role, "Pat")
	assert.Equal(t, "process_consent", entry.FunctionName)
}

func TestConsentGrantedAdvancesToChiefComplaint(t *testing.T) {
	f := newTestFlow(t)
	entry := f.EntryNode()
	sess := domain.NewSession("s1")
	sess.Install(entry)

	result, err := entry.Handler(map[string]any{"consent": true})
	require.NoError(t, err)

	out, err := entry.OnResult(map[string]any{"consent": true}, result, sess)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)
	assert.Equal(t, NodeChiefComplaint, out.Next[0].Name)
	assert.True(t, sess.ConsentGiven)
}

func TestConsentRefusedEndsDirectly(t *testing.T) {
	f := newTestFlow(t)
	entry := f.EntryNode()
	sess := domain.NewSession("s1")
	sess.Install(entry)

	result, err := entry.Handler(map[string]any{"consent": false})
	require.NoError(t, err)

	out, err := entry.OnResult(map[string]any{"consent": false}, result, sess)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)

	end := out.Next[0]
	assert.Equal(t, NodeEnd, end.Name)
	assert.True(t, end.Terminal)
	assert.False(t, sess.ConsentGiven)
	assert.Empty(t, sess.Topics)
}

func TestChiefComplaintFallsBackWithoutSpecialty(t *testing.T) {
	f := newTestFlow(t)
	node := f.ChiefComplaintNode()
	sess := domain.NewSession("s1")

	args := map[string]any{"complaint": "headache", "duration": "a week"}
	result, err := node.Handler(args)
	require.NoError(t, err)

	out, err := node.OnResult(args, result, sess)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)
	assert.Equal(t, NodeMedicalHistory, out.Next[0].Name)

	recorded, ok := sess.Topic(domain.TopicChiefComplaint)
	require.True(t, ok)
	assert.Equal(t, "headache", recorded.(ChiefComplaintResult).Complaint)
}

// echoSpecialty captures the transition message the flow hands over.
type echoSpecialty struct {
	lastMessage string
}

func (e *echoSpecialty) Name() string             { return "echo" }
func (e *echoSpecialty) TriggerPhrases() []string { return []string{"chest pain"} }

func (e *echoSpecialty) AssessmentNode() *domain.Node {
	return &domain.Node{Name: "echo_assessment"}
}

func (e *echoSpecialty) TransitionNode(message string) *domain.Node {
	e.lastMessage = message
	return &domain.Node{Name: "echo_intro"}
}

func TestChiefComplaintRoutesToSpecialty(t *testing.T) {
	reg := registry.New()
	sp := &echoSpecialty{}
	require.NoError(t, reg.Register(sp))

	f, err := New(testPersona(), DefaultSettings(), reg)
	require.NoError(t, err)

	node := f.ChiefComplaintNode()
	sess := domain.NewSession("s1")

	args := map[string]any{"complaint": "I have chest pain", "duration": "2 days"}
	result, err := node.Handler(args)
	require.NoError(t, err)

	out, err := node.OnResult(args, result, sess)
	require.NoError(t, err)

	// Two-step install: intro first, assessment becomes the active node.
	require.Len(t, out.Next, 2)
	assert.Equal(t, "echo_intro", out.Next[0].Name)
	assert.Equal(t, "echo_assessment", out.Next[1].Name)

	// The intro message echoes both the complaint and the duration.
	assert.Contains(t, sp.lastMessage, "I have chest pain")
	assert.Contains(t, sp.lastMessage, "2 days")
}

func TestMedicalHistoryAdvancesToWrapUp(t *testing.T) {
	f := newTestFlow(t)
	node := f.MedicalHistoryNode()
	sess := domain.NewSession("s1")

	args := map[string]any{
		"conditions":  []any{"asthma"},
		"medications": []any{map[string]any{"name": "albuterol", "dosage": "90mcg", "frequency": "as needed"}},
		"allergies":   []any{},
	}
	result, err := node.Handler(args)
	require.NoError(t, err)

	history := result.(MedicalHistoryResult)
	require.Len(t, history.Medications, 1)
	assert.Equal(t, "albuterol", history.Medications[0].Name)
	assert.NotNil(t, history.Surgeries)

	out, err := node.OnResult(args, result, sess)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)
	assert.Equal(t, NodeWrapUp, out.Next[0].Name)

	_, ok := sess.Topic(domain.TopicMedicalHistory)
	assert.True(t, ok)
}

func TestWrapUpEndsWithFarewell(t *testing.T) {
	f := newTestFlow(t)
	node := f.WrapUpNode()

	result, err := node.Handler(map[string]any{})
	require.NoError(t, err)

	out, err := node.OnResult(map[string]any{}, result, nil)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)

	end := out.Next[0]
	assert.True(t, end.Terminal)
	require.Len(t, end.PostActions, 1)
	assert.Equal(t, domain.ActionEndConversation, end.PostActions[0].Type)
	assert.True(t, strings.Contains(end.TaskMessages[0].Content, farewellMessage))
}

func TestEmergencyNodeRecordsAndEnds(t *testing.T) {
	f := newTestFlow(t)
	node := f.EmergencyNode("Potential cardiac emergency detected")
	sess := domain.NewSession("s1")

	require.Len(t, node.PreActions, 1)
	assert.Equal(t, domain.ActionAlertStaff, node.PreActions[0].Type)

	result, err := node.Handler(map[string]any{"emergency_reason": ""})
	require.NoError(t, err)

	// Empty model-supplied reason falls back to the routing-time one.
	assert.Equal(t, "Potential cardiac emergency detected", result.(EmergencyResult).Reason)

	out, err := node.OnResult(map[string]any{}, result, sess)
	require.NoError(t, err)
	require.Len(t, out.Next, 1)
	assert.Equal(t, NodeEnd, out.Next[0].Name)

	recorded, ok := sess.Topic(domain.TopicEmergency)
	require.True(t, ok)
	record := recorded.(domain.EmergencyRecord)
	assert.Equal(t, "Potential cardiac emergency detected", record.Reason)
	assert.False(t, record.Timestamp.IsZero())
}

func TestEmergencyNodeDefaultsReason(t *testing.T) {
	f := newTestFlow(t)
	node := f.EmergencyNode("")
	assert.Equal(t, unspecifiedEmergency, node.PreActions[0].Reason)
}
