package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/intake/pkg/flow"
	"github.com/carebridge/intake/pkg/registry"
	"github.com/carebridge/intake/pkg/specialty"
)

func testFlow(t *testing.T) *flow.Flow {
	t.Helper()

	reg := registry.New()
	f, err := flow.New(flow.Persona{
		AgentName:   "Alice",
		ClinicName:  "Test Clinic",
		PatientName: "Pat",
	}, flow.DefaultSettings(), reg)
	require.NoError(t, err)
	require.NoError(t, reg.Register(specialty.NewChestPain(f)))
	return f
}

func TestGenerateMermaidStaticGraph(t *testing.T) {
	out := GenerateMermaid(testFlow(t), nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))

	// General path plus the registered specialty pair.
	assert.Contains(t, out, `entry(("entry"))`)
	assert.Contains(t, out, `entry -- "consent" --> chief_complaint`)
	assert.Contains(t, out, `entry -- "refused" --> end`)
	assert.Contains(t, out, `chief_complaint -. "chest_pain" .-> chest_pain_intro`)
	assert.Contains(t, out, `chest_pain_intro --> chest_pain_assessment`)
	assert.Contains(t, out, `chest_pain_assessment -. "emergency" .-> emergency`)
	assert.Contains(t, out, `medical_history --> wrap_up`)
	assert.Contains(t, out, `emergency --> end`)

	assert.NotContains(t, out, "Overlay Styles")
}

func TestGenerateMermaidOverlay(t *testing.T) {
	out := GenerateMermaid(testFlow(t), &Overlay{
		VisitedNodes: []string{"entry", "chief_complaint", "chief_complaint"},
		CurrentNode:  "chest_pain_assessment",
	})

	assert.Contains(t, out, "class entry visited;")
	assert.Contains(t, out, "class chest_pain_assessment current;")

	// Repeated history entries are styled once.
	assert.Equal(t, 1, strings.Count(out, "class chief_complaint visited;"))
}
