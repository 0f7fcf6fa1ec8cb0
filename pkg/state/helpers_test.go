package state

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/jwebster45206/ether-engine/pkg/dungeon"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/telemetry"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testMap has every node type on the first layer, all selectable.
func testMap(*rand.Rand) []mapgraph.Node {
	return []mapgraph.Node{
		{ID: "battle-1", Type: mapgraph.NodeBattle, Selectable: true, Connections: []string{"event-2"}, Layer: 0},
		{ID: "event-1", Type: mapgraph.NodeEvent, Selectable: true, Connections: []string{"event-2"}, Layer: 0},
		{ID: "rest-1", Type: mapgraph.NodeRest, Selectable: true, Connections: []string{"event-2", "shop-2"}, Layer: 0},
		{ID: "shop-1", Type: mapgraph.NodeShop, Selectable: true, Connections: []string{"shop-2"}, Layer: 0},
		{ID: "dungeon-1", Type: mapgraph.NodeDungeon, Selectable: true, Connections: []string{"event-2", "shop-2"}, Layer: 0},
		{ID: "event-2", Type: mapgraph.NodeEvent, Connections: []string{"rest-3"}, Layer: 1},
		{ID: "shop-2", Type: mapgraph.NodeShop, Connections: []string{"rest-3"}, Layer: 1},
		{ID: "rest-3", Type: mapgraph.NodeRest, Layer: 2},
	}
}

// lineDungeon is entrance -> hall (treasure) -> exit.
type lineDungeon struct{}

func (lineDungeon) Generate(_ *rand.Rand, nodeID string, _ int) *dungeon.Data {
	entrance, hall, exit := nodeID+"/entrance", nodeID+"/hall", nodeID+"/exit"
	return &dungeon.Data{
		CurrentNodeID: entrance,
		Nodes: []dungeon.Node{
			{ID: entrance, Type: dungeon.RoomEntrance, Connections: []string{hall}, Visited: true, Cleared: true},
			{ID: hall, Type: dungeon.RoomTreasure, Connections: []string{exit}},
			{ID: exit, Type: dungeon.RoomExit},
		},
	}
}

type fixture struct {
	lib      *content.Library
	engine   *Engine
	recorder *telemetry.Memory
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	lib, err := content.Default()
	require.NoError(t, err)
	rec := telemetry.NewMemory("test-run")
	e := NewEngine(lib, testLogger()).
		WithSeed(42).
		WithMapGenerator(mapgraph.GeneratorFunc(testMap)).
		WithDungeonGenerator(lineDungeon{}).
		WithTravelResolver(dungeon.TableResolver{EventPool: []string{"ruin_echo"}, Treasure: dungeonTreasure}).
		WithRecorder(rec)
	return fixture{lib: lib, engine: e, recorder: rec}
}

var dungeonTreasure = resources.Resources{Gold: 25}

// accept reduces a and fails the test when it is rejected.
func (f fixture) accept(t *testing.T, gs *GameState, a Action) *GameState {
	t.Helper()
	next, changed := f.engine.Reduce(gs, a)
	require.True(t, changed, "expected %s to be accepted", a.Type())
	require.NotSame(t, gs, next)
	return next
}

// reject reduces a and fails the test unless the same snapshot comes back.
func (f fixture) reject(t *testing.T, gs *GameState, a Action) {
	t.Helper()
	next, changed := f.engine.Reduce(gs, a)
	require.False(t, changed, "expected %s to be rejected", a.Type())
	require.Same(t, gs, next)
}
