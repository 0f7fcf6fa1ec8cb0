package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_SaveAndLoadRun(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()
	id := uuid.New()

	gs := &state.GameState{MapRisk: 40, Relics: []string{"ether_compass"}}
	require.NoError(t, m.SaveRun(ctx, id, gs))

	gs.Relics[0] = "changed"

	loaded, err := m.LoadRun(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 40, loaded.MapRisk)
	assert.Equal(t, []string{"ether_compass"}, loaded.Relics)
}

func TestMemoryStorage_LoadMissingRun(t *testing.T) {
	m := NewMemoryStorage()
	loaded, err := m.LoadRun(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStorage_DeleteRun(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, m.SaveRun(ctx, id, &state.GameState{}))
	require.NoError(t, m.DeleteRun(ctx, id))

	loaded, err := m.LoadRun(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStorage_SaveNilRun(t *testing.T) {
	assert.Error(t, NewMemoryStorage().SaveRun(context.Background(), uuid.New(), nil))
}

func TestMemoryStorage_Blobs(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()

	b, err := m.LoadBlob(ctx, "meta-progress")
	require.NoError(t, err)
	assert.Nil(t, b)

	require.NoError(t, m.SaveBlob(ctx, "meta-progress", []byte(`{"version":1}`)))
	b, err = m.LoadBlob(ctx, "meta-progress")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(b))
}

func TestMemoryStorage_Ping(t *testing.T) {
	m := NewMemoryStorage()
	assert.NoError(t, m.Ping(context.Background()))
	m.SetPingError(errors.New("down"))
	assert.Error(t, m.Ping(context.Background()))
}
