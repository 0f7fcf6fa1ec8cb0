package dungeon

import (
	"math/rand/v2"
	"testing"

	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineDungeon() *Data {
	return &Data{
		Nodes: []Node{
			{ID: "a", Type: RoomEntrance, Connections: []string{"b"}, Visited: true, Cleared: true},
			{ID: "b", Type: RoomBattle, Connections: []string{"c"}},
			{ID: "c", Type: RoomExit},
		},
		CurrentNodeID: "a",
	}
}

func TestNavigate(t *testing.T) {
	d := lineDungeon()

	next, ok := d.Navigate("b")
	require.True(t, ok)
	assert.Equal(t, "b", next.CurrentNodeID)
	assert.Equal(t, 1, next.TimeElapsed)
	b, _ := next.Node("b")
	assert.True(t, b.Visited)

	assert.Equal(t, "a", d.CurrentNodeID, "receiver must not change")
	assert.Equal(t, 0, d.TimeElapsed)
}

func TestNavigate_RejectsUnconnected(t *testing.T) {
	d := lineDungeon()

	for _, target := range []string{"c", "a", "missing", ""} {
		next, ok := d.Navigate(target)
		assert.False(t, ok, target)
		assert.Same(t, d, next)
		assert.Equal(t, 0, next.TimeElapsed)
	}
}

func TestNavigate_TimeCountsSuccessfulMovesOnly(t *testing.T) {
	d := lineDungeon()
	moves := []string{"c", "b", "b", "c", "a"}
	successes := 0
	for _, m := range moves {
		var ok bool
		d, ok = d.Navigate(m)
		if ok {
			successes++
		}
	}
	assert.Equal(t, 2, successes)
	assert.Equal(t, successes, d.TimeElapsed)
	assert.True(t, d.AtExit())
}

func TestClearCurrent(t *testing.T) {
	d, _ := lineDungeon().Navigate("b")
	cleared := d.ClearCurrent()
	b, _ := cleared.Node("b")
	assert.True(t, b.Cleared)

	orig, _ := d.Node("b")
	assert.False(t, orig.Cleared)

	assert.Same(t, cleared, cleared.ClearCurrent(), "already cleared returns receiver")
}

func TestGridGenerator(t *testing.T) {
	g := DefaultGenerator()
	d := g.Generate(rand.New(rand.NewPCG(7, 7)), "dungeon-1", 50)

	require.Len(t, d.Nodes, g.Width*g.Depth)
	require.Len(t, d.Grid, g.Depth)

	cur, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, RoomEntrance, cur.Type)
	assert.True(t, cur.Visited)

	exits := 0
	for _, n := range d.Nodes {
		if n.Type == RoomExit {
			exits++
		}
		for _, c := range n.Connections {
			_, ok := d.Node(c)
			assert.True(t, ok, "dangling room link %s -> %s", n.ID, c)
		}
	}
	assert.Equal(t, 1, exits)
}

func TestTableResolver(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	r := TableResolver{EventPool: []string{"whispering_well"}, Treasure: resources.Resources{Loot: 1}}

	assert.Equal(t, EncounterBattle, r.Resolve(rng, Node{Type: RoomBattle}, 50).Kind)

	ev := r.Resolve(rng, Node{Type: RoomEvent}, 50)
	assert.Equal(t, EncounterEvent, ev.Kind)
	assert.Equal(t, "whispering_well", ev.EventID)

	tr := r.Resolve(rng, Node{Type: RoomTreasure}, 50)
	assert.Equal(t, EncounterTreasure, tr.Kind)
	assert.Equal(t, resources.Resources{Loot: 1, Gold: 10}, tr.Reward)

	assert.Equal(t, EncounterNone, r.Resolve(rng, Node{Type: RoomBattle, Cleared: true}, 50).Kind)
	assert.Equal(t, EncounterNone, TableResolver{}.Resolve(rng, Node{Type: RoomEvent}, 50).Kind)
}
