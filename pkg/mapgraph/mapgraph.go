// Package mapgraph models the run map: a layered DAG of nodes the player
// travels through. Exactly the frontier of the most recently cleared node is
// selectable at any time.
package mapgraph

import "slices"

// NodeType identifies which subsystem a map node activates.
type NodeType string

const (
	NodeBattle  NodeType = "battle"
	NodeEvent   NodeType = "event"
	NodeShop    NodeType = "shop"
	NodeRest    NodeType = "rest"
	NodeDungeon NodeType = "dungeon"
)

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	switch t {
	case NodeBattle, NodeEvent, NodeShop, NodeRest, NodeDungeon:
		return true
	}
	return false
}

// Risk dial band. The dial is a difficulty tunable, not a hazard.
const (
	RiskMin     = 20
	RiskMax     = 80
	RiskDefault = 50
)

// ClampRisk pins v into [RiskMin, RiskMax].
func ClampRisk(v int) int {
	if v < RiskMin {
		return RiskMin
	}
	if v > RiskMax {
		return RiskMax
	}
	return v
}

// Node is one traversable map location.
type Node struct {
	ID          string   `json:"id"`
	Type        NodeType `json:"type"`
	Cleared     bool     `json:"cleared"`
	Selectable  bool     `json:"selectable"`
	Connections []string `json:"connections,omitempty"`
	Layer       int      `json:"layer"`
}

// Find returns the index of the node with the given id.
func Find(nodes []Node, id string) (int, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of nodes.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Connections = slices.Clone(n.Connections)
		out[i] = n
	}
	return out
}

// ClearAndAdvance marks id cleared, locks every other non-cleared node and
// unlocks the cleared node's connections. The input slice is not modified.
// The second value is false when id is not on the map.
func ClearAndAdvance(nodes []Node, id string) ([]Node, bool) {
	idx, ok := Find(nodes, id)
	if !ok {
		return nodes, false
	}
	out := Clone(nodes)
	out[idx].Cleared = true
	out[idx].Selectable = false
	for i := range out {
		if !out[i].Cleared {
			out[i].Selectable = false
		}
	}
	for _, next := range out[idx].Connections {
		if j, ok := Find(out, next); ok && !out[j].Cleared {
			out[j].Selectable = true
		}
	}
	return out, true
}

// Selectable returns the ids of every selectable node in map order.
func Selectable(nodes []Node) []string {
	var ids []string
	for _, n := range nodes {
		if n.Selectable && !n.Cleared {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Predecessors returns the ids of nodes that connect to id.
func Predecessors(nodes []Node, id string) []string {
	var ids []string
	for _, n := range nodes {
		if slices.Contains(n.Connections, id) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
