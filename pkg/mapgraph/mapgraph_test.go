package mapgraph

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap() []Node {
	return []Node{
		{ID: "battle-1", Type: NodeBattle, Layer: 0, Selectable: true, Connections: []string{"event-1", "dungeon-1"}},
		{ID: "battle-2", Type: NodeBattle, Layer: 0, Selectable: true, Connections: []string{"dungeon-1"}},
		{ID: "event-1", Type: NodeEvent, Layer: 1, Connections: []string{"rest-1"}},
		{ID: "dungeon-1", Type: NodeDungeon, Layer: 1, Connections: []string{"rest-1"}},
		{ID: "rest-1", Type: NodeRest, Layer: 2},
	}
}

func TestClampRisk(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-100, RiskMin},
		{19, RiskMin},
		{20, 20},
		{55, 55},
		{80, 80},
		{81, RiskMax},
		{1000, RiskMax},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampRisk(tt.in), "ClampRisk(%d)", tt.in)
	}
}

func TestClearAndAdvance(t *testing.T) {
	nodes := testMap()

	out, ok := ClearAndAdvance(nodes, "battle-1")
	require.True(t, ok)

	assert.False(t, nodes[0].Cleared, "input must not be modified")

	i, _ := Find(out, "battle-1")
	assert.True(t, out[i].Cleared)
	assert.False(t, out[i].Selectable)

	assert.Equal(t, []string{"event-1", "dungeon-1"}, Selectable(out))

	_, ok = ClearAndAdvance(nodes, "missing")
	assert.False(t, ok)
}

func TestClearAndAdvance_SkipsClearedSuccessors(t *testing.T) {
	nodes := testMap()
	nodes[2].Cleared = true

	out, _ := ClearAndAdvance(nodes, "battle-1")
	assert.Equal(t, []string{"dungeon-1"}, Selectable(out))
}

func TestPredecessors(t *testing.T) {
	assert.Equal(t, []string{"battle-1", "battle-2"}, Predecessors(testMap(), "dungeon-1"))
	assert.Empty(t, Predecessors(testMap(), "battle-1"))
}

func TestLayeredGenerator(t *testing.T) {
	g := DefaultGenerator()
	nodes := g.Generate(rand.New(rand.NewPCG(1, 2)))
	require.NotEmpty(t, nodes)

	ids := map[string]bool{}
	for _, n := range nodes {
		assert.False(t, ids[n.ID], "duplicate id %s", n.ID)
		ids[n.ID] = true
		assert.True(t, n.Type.Valid())
		assert.Equal(t, n.Layer == 0, n.Selectable, "only the first layer starts selectable")
	}

	for _, n := range nodes {
		for _, c := range n.Connections {
			j, ok := Find(nodes, c)
			require.True(t, ok, "dangling connection %s -> %s", n.ID, c)
			assert.Equal(t, n.Layer+1, nodes[j].Layer)
		}
		if n.Layer > 0 {
			assert.NotEmpty(t, Predecessors(nodes, n.ID), "%s is unreachable", n.ID)
		}
	}

	last := nodes[len(nodes)-1]
	assert.Equal(t, NodeDungeon, last.Type)
	assert.Equal(t, g.Layers-1, last.Layer)
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(testMap(), "battle-1", "Test Run")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = RenderPDF(nil, "", "")
	assert.Error(t, err)
}
