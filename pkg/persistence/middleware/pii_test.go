package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/intake/pkg/adapters/memory"
	"github.com/carebridge/intake/pkg/domain"
)

func TestPIIMaskMatchingTopics(t *testing.T) {
	inner := memory.NewStore()
	store := NewPIIMask([]string{"_assessment$", "^medical_history$"})(inner)
	ctx := context.Background()

	sess := domain.NewSession("s1")
	require.NoError(t, sess.Record(domain.TopicChiefComplaint, "chest pain"))
	require.NoError(t, sess.Record("chest_pain_assessment", map[string]any{"severity": "8"}))
	require.NoError(t, sess.Record(domain.TopicMedicalHistory, map[string]any{"allergies": []any{"penicillin"}}))

	require.NoError(t, store.Save(ctx, "s1", sess.Snapshot()))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "chest pain", loaded.Topics[domain.TopicChiefComplaint])
	assert.Equal(t, "***", loaded.Topics["chest_pain_assessment"])
	assert.Equal(t, "***", loaded.Topics[domain.TopicMedicalHistory])
}

func TestPIIMaskNestedKeys(t *testing.T) {
	inner := memory.NewStore()
	store := NewPIIMask([]string{"^medications$"})(inner)
	ctx := context.Background()

	sess := domain.NewSession("s1")
	require.NoError(t, sess.Record(domain.TopicMedicalHistory, map[string]any{
		"conditions":  []any{"asthma"},
		"medications": []any{map[string]any{"name": "albuterol"}},
	}))

	require.NoError(t, store.Save(ctx, "s1", sess.Snapshot()))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	history := loaded.Topics[domain.TopicMedicalHistory].(map[string]any)
	assert.Equal(t, "***", history["medications"])
	assert.Equal(t, []any{"asthma"}, history["conditions"])
}

func TestPIIMaskDoesNotMutateEngineSnapshot(t *testing.T) {
	inner := memory.NewStore()
	store := NewPIIMask([]string{"^chief_complaint$"})(inner)
	ctx := context.Background()

	sess := domain.NewSession("s1")
	require.NoError(t, sess.Record(domain.TopicChiefComplaint, "chest pain"))

	snap := sess.Snapshot()
	require.NoError(t, store.Save(ctx, "s1", snap))

	// The caller's snapshot is untouched; only the stored copy is masked.
	assert.Equal(t, "chest pain", snap.Topics[domain.TopicChiefComplaint])
}
