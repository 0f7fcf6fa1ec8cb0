package mapgraph

import (
	"fmt"
	"math/rand/v2"
)

// Generator builds the map for a new run.
type Generator interface {
	Generate(rng *rand.Rand) []Node
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(rng *rand.Rand) []Node

func (f GeneratorFunc) Generate(rng *rand.Rand) []Node { return f(rng) }

// LayeredGenerator produces Layers rows of between MinWidth and MaxWidth
// nodes. Every node connects to one to two nodes in the next layer and every
// node past the first layer has at least one predecessor. The first layer is
// selectable; the last layer is a single dungeon.
type LayeredGenerator struct {
	Layers   int
	MinWidth int
	MaxWidth int
	Weights  map[NodeType]int
}

// DefaultGenerator returns the generator used by new runs.
func DefaultGenerator() LayeredGenerator {
	return LayeredGenerator{
		Layers:   8,
		MinWidth: 2,
		MaxWidth: 4,
		Weights: map[NodeType]int{
			NodeBattle:  45,
			NodeEvent:   25,
			NodeShop:    10,
			NodeRest:    12,
			NodeDungeon: 8,
		},
	}
}

func (g LayeredGenerator) Generate(rng *rand.Rand) []Node {
	layers := max(g.Layers, 2)
	minW := max(g.MinWidth, 1)
	maxW := max(g.MaxWidth, minW)

	rows := make([][]Node, layers)
	counters := map[NodeType]int{}
	nextID := func(t NodeType) string {
		counters[t]++
		return fmt.Sprintf("%s-%d", t, counters[t])
	}

	for layer := range layers {
		width := minW + rng.IntN(maxW-minW+1)
		if layer == layers-1 {
			width = 1
		}
		row := make([]Node, width)
		for i := range row {
			t := g.pick(rng)
			switch {
			case layer == 0:
				t = NodeBattle
			case layer == layers-1:
				t = NodeDungeon
			}
			row[i] = Node{ID: nextID(t), Type: t, Layer: layer, Selectable: layer == 0}
		}
		rows[layer] = row
	}

	for layer := 0; layer < layers-1; layer++ {
		cur, next := rows[layer], rows[layer+1]
		covered := make([]bool, len(next))
		for i := range cur {
			// Spread edges so columns roughly line up.
			target := i * len(next) / len(cur)
			cur[i].Connections = append(cur[i].Connections, next[target].ID)
			covered[target] = true
			if len(next) > 1 && rng.IntN(2) == 0 {
				alt := min(target+1, len(next)-1)
				if alt == target {
					alt = target - 1
				}
				cur[i].Connections = append(cur[i].Connections, next[alt].ID)
				covered[alt] = true
			}
		}
		for j, ok := range covered {
			if !ok {
				src := rng.IntN(len(cur))
				cur[src].Connections = append(cur[src].Connections, next[j].ID)
			}
		}
	}

	var nodes []Node
	for _, row := range rows {
		nodes = append(nodes, row...)
	}
	return nodes
}

func (g LayeredGenerator) pick(rng *rand.Rand) NodeType {
	order := []NodeType{NodeBattle, NodeEvent, NodeShop, NodeRest, NodeDungeon}
	total := 0
	for _, t := range order {
		total += g.Weights[t]
	}
	if total <= 0 {
		return NodeBattle
	}
	roll := rng.IntN(total)
	for _, t := range order {
		roll -= g.Weights[t]
		if roll < 0 {
			return t
		}
	}
	return NodeBattle
}
