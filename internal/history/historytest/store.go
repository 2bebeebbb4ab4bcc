// Package historytest checks history.Store implementations.
package historytest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-ssdt-lifecycle/internal/history"
)

// TestStore runs the behaviour every store must share against an empty store.
func TestStore(t *testing.T, store history.Store) {
	t.Helper()

	ctx := context.Background()
	start := time.Unix(1_700_000_000, 0)

	first := history.Run{
		ID:        uuid.New(),
		Kind:      "scaffolding",
		Project:   "/src/Database/Database.sqlproj",
		Result:    "pending",
		StartedAt: start,
	}
	second := history.Run{
		ID:        uuid.New(),
		Kind:      "script creation",
		Project:   "/src/Database/Database.sqlproj",
		Result:    "pending",
		StartedAt: start.Add(time.Hour),
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	require.NoError(t, store.CreateRun(ctx, first))
	require.NoError(t, store.CreateRun(ctx, second))

	require.NoError(t, store.AddStage(ctx, first.ID, history.Stage{From: "Initialized", To: "SqlProjectPropertiesLoaded", Elapsed: time.Millisecond}))
	require.NoError(t, store.AddStage(ctx, first.ID, history.Stage{From: "SqlProjectPropertiesLoaded", To: "FormattedTargetVersionLoaded", Elapsed: 2 * time.Millisecond}))
	require.NoError(t, store.FinishRun(ctx, first.ID, "1.0.0.0", "succeeded", time.Second))

	got, err := store.GetRun(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "scaffolding", got.Kind)
	assert.Equal(t, "1.0.0.0", got.Version)
	assert.Equal(t, "succeeded", got.Result)
	assert.True(t, got.Finished)
	assert.Equal(t, time.Second, got.Elapsed)
	assert.True(t, start.Equal(got.StartedAt))
	assert.Equal(t, []history.Stage{
		{Position: 1, From: "Initialized", To: "SqlProjectPropertiesLoaded", Elapsed: time.Millisecond},
		{Position: 2, From: "SqlProjectPropertiesLoaded", To: "FormattedTargetVersionLoaded", Elapsed: 2 * time.Millisecond},
	}, got.Stages)

	got, err = store.GetRun(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, got.Finished)
	assert.Empty(t, got.Stages)

	runs, err = store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
	assert.Empty(t, runs[1].Stages)

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second.ID, runs[0].ID)

	missing := uuid.New()
	_, err = store.GetRun(ctx, missing)
	assert.ErrorIs(t, err, history.ErrRunNotFound)
	assert.ErrorIs(t, store.AddStage(ctx, missing, history.Stage{From: "a", To: "b"}), history.ErrRunNotFound)
	assert.ErrorIs(t, store.FinishRun(ctx, missing, "", "failed", 0), history.ErrRunNotFound)
}
