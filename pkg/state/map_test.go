package state

import (
	"testing"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/telemetry"
	"github.com/jwebster45206/ether-engine/pkg/traits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMapRisk(t *testing.T) {
	f := newFixture(t)
	gs := f.engine.NewRun()
	require.Equal(t, mapgraph.RiskDefault, gs.MapRisk)

	tests := []struct {
		name  string
		value int
		want  int
	}{
		{"below band", -5, 20},
		{"lower edge", 20, 20},
		{"in band", 63, 63},
		{"upper edge", 80, 80},
		{"above band", 200, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := f.engine.Reduce(gs, SetMapRisk{Value: tt.value})
			assert.Equal(t, tt.want, next.MapRisk)
		})
	}

	f.reject(t, gs, SetMapRisk{Value: mapgraph.RiskDefault})
}

func TestSelectNode_SilentRejections(t *testing.T) {
	f := newFixture(t)
	fresh := f.engine.NewRun()

	busy := fresh.next()
	busy.ActiveBattle = &battle.ActiveBattle{NodeID: "battle-0"}

	cleared := fresh.next()
	cleared.Map = mapgraph.Clone(fresh.Map)
	cleared.Map[0].Cleared = true

	inDungeon := fresh.next()
	inDungeon.ActiveDungeon = &ActiveDungeon{NodeID: "dungeon-1"}

	tests := []struct {
		name   string
		gs     *GameState
		nodeID string
	}{
		{"unknown node", fresh, "nowhere"},
		{"not selectable", fresh, "event-2"},
		{"already cleared", cleared, "battle-1"},
		{"battle in progress", busy, "rest-1"},
		{"dungeon in progress", inDungeon, "rest-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.reject(t, tt.gs, SelectNode{NodeID: tt.nodeID})
		})
	}
}

func TestSelectNode_RestAdvancesMap(t *testing.T) {
	f := newFixture(t)
	gs := f.engine.NewRun()

	next := f.accept(t, gs, SelectNode{NodeID: "rest-1"})

	assert.Equal(t, "rest-1", next.CurrentNodeID)
	require.NotNil(t, next.ActiveRest)
	assert.Equal(t, "rest-1", next.ActiveRest.NodeID)
	assert.Equal(t, MemoryPerMove, next.Resources.Memory)
	assert.Equal(t, 1, next.Stats.NodesVisited)
	assert.ElementsMatch(t, []string{"event-2", "shop-2"}, mapgraph.Selectable(next.Map))

	i, _ := mapgraph.Find(next.Map, "rest-1")
	assert.True(t, next.Map[i].Cleared)

	// the input snapshot is untouched
	j, _ := mapgraph.Find(gs.Map, "rest-1")
	assert.False(t, gs.Map[j].Cleared)
	assert.Equal(t, 0, gs.Resources.Memory)
}

func TestSelectNode_Activation(t *testing.T) {
	f := newFixture(t)
	gs := f.engine.NewRun()

	t.Run("battle", func(t *testing.T) {
		next := f.accept(t, gs, SelectNode{NodeID: "battle-1"})
		require.NotNil(t, next.ActiveBattle)
		assert.Equal(t, "battle-1", next.ActiveBattle.NodeID)
		assert.Equal(t, battle.SourceMap, next.ActiveBattle.Source)
		assert.NotEmpty(t, next.ActiveBattle.Payload)
	})

	t.Run("event", func(t *testing.T) {
		before := f.recorder.Count(telemetry.EventTypeEventStarted)
		next := f.accept(t, gs, SelectNode{NodeID: "event-1"})
		require.NotNil(t, next.ActiveEvent)
		assert.Contains(t, f.lib.MapEvents(), next.ActiveEvent.ID)
		assert.False(t, next.ActiveEvent.Resolved)
		assert.Equal(t, before+1, f.recorder.Count(telemetry.EventTypeEventStarted))
	})

	t.Run("shop", func(t *testing.T) {
		next := f.accept(t, gs, SelectNode{NodeID: "shop-1"})
		require.NotNil(t, next.ActiveShop)
		assert.Equal(t, DefaultMerchant, next.ActiveShop.MerchantType)
	})

	t.Run("dungeon is not cleared on select", func(t *testing.T) {
		next := f.accept(t, gs, SelectNode{NodeID: "dungeon-1"})
		i, _ := mapgraph.Find(next.Map, "dungeon-1")
		assert.False(t, next.Map[i].Cleared)
		assert.Equal(t, &ActiveDungeon{NodeID: "dungeon-1"}, next.ActiveDungeon)
	})
}

func TestSelectNode_PrefersUncompletedEvents(t *testing.T) {
	f := newFixture(t)
	gs := f.engine.NewRun()
	pool := f.lib.MapEvents()
	gs.CompletedEvents = pool[1:]

	next := f.accept(t, gs, SelectNode{NodeID: "event-1"})
	require.NotNil(t, next.ActiveEvent)
	assert.Equal(t, pool[0], next.ActiveEvent.ID)
}

func TestSelectNode_RelicEtherAndBuffReset(t *testing.T) {
	f := newFixture(t)
	gs := f.engine.NewRun()
	gs.Relics = []string{"ether_compass", "lost_relic"}
	gs.ItemBuffs = map[traits.Stat]int{traits.StatStrength: 2}

	next := f.accept(t, gs, SelectNode{NodeID: "rest-1"})
	assert.Equal(t, gs.Resources.EtherPts+2, next.Resources.EtherPts)
	assert.Empty(t, next.ItemBuffs)
	assert.Equal(t, 2, gs.ItemBuffs[traits.StatStrength])
}

func TestNewRun_DefaultGeneratorFrontier(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(f.lib, testLogger()).WithSeed(7)
	gs := e.NewRun()

	require.NotEmpty(t, gs.Map)
	for _, id := range mapgraph.Selectable(gs.Map) {
		i, _ := mapgraph.Find(gs.Map, id)
		assert.Equal(t, 0, gs.Map[i].Layer)
	}
	assert.Equal(t, StartingResources, gs.Resources)
	assert.Equal(t, f.lib.StartingDeck(), gs.Player.Cards)
}
