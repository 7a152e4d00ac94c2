package intake_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/intake"
	"github.com/carebridge/intake/pkg/adapters/memory"
	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/flow"
)

func TestNewDefaults(t *testing.T) {
	engine, err := intake.New()
	require.NoError(t, err)
	require.NotNil(t, engine)

	// Both production specialties are registered, chest pain first.
	names := engine.Flow().Registry().Names()
	assert.Equal(t, []string{"chest_pain", "respiratory"}, names)
	assert.Equal(t, "reset_with_summary", engine.Flow().Settings().ContextStrategy)
}

func TestNewRejectsIncompletePersona(t *testing.T) {
	_, err := intake.New(intake.WithPersona(flow.Persona{AgentName: "Alice"}))
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewWithCustomCollaborators(t *testing.T) {
	store := memory.NewStore()
	recorder := memory.NewRecorder()

	engine, err := intake.New(
		intake.WithStore(store),
		intake.WithPersister(recorder),
		intake.WithPersona(flow.Persona{
			AgentName:   "Dana",
			ClinicName:  "North Clinic",
			PatientName: "Sam",
		}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	reply, err := engine.Start(ctx, "s1")
	require.NoError(t, err)

	// The persona flows into the entry role message.
	role := reply.Installed[0].RoleMessages[0].Content
	assert.Contains(t, role, "Dana")
	assert.Contains(t, role, "North Clinic")

	// Snapshots land in the provided store.
	snap, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, flow.NodeEntry, snap.CurrentNode)

	// The provided persister receives the record at the terminal node.
	_, err = engine.Invoke(ctx, "s1", map[string]any{"consent": false})
	require.NoError(t, err)

	_, ok := recorder.Record("s1")
	assert.True(t, ok)
}

// The complaint matches triggers of both specialties ("chest pain" and
// "cough"); registration order decides, so the cardiac assessment must win.
func TestChestPainOutranksRespiratory(t *testing.T) {
	engine, err := intake.New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = engine.Start(ctx, "s1")
	require.NoError(t, err)
	_, err = engine.Invoke(ctx, "s1", map[string]any{"consent": true})
	require.NoError(t, err)

	reply, err := engine.Invoke(ctx, "s1", map[string]any{
		"complaint": "chest pain and a bit of a cough",
		"duration":  "a day",
	})
	require.NoError(t, err)
	require.Len(t, reply.Installed, 2)
	assert.Equal(t, "chest_pain_assessment", reply.Installed[1].Name)
}
