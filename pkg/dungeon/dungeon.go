// Package dungeon holds the secondary graph a player explores after entering a
// dungeon map node. The graph is generated once, lazily, when the dungeon is
// confirmed; traversal only follows the current room's connections.
package dungeon

import "slices"

// RoomType is the content class of a dungeon room.
type RoomType string

const (
	RoomEntrance RoomType = "entrance"
	RoomEmpty    RoomType = "empty"
	RoomBattle   RoomType = "battle"
	RoomEvent    RoomType = "event"
	RoomTreasure RoomType = "treasure"
	RoomExit     RoomType = "exit"
)

// Node is one room in the dungeon graph.
type Node struct {
	ID          string   `json:"id"`
	Type        RoomType `json:"type"`
	Connections []string `json:"connections,omitempty"`
	Visited     bool     `json:"visited"`
	Cleared     bool     `json:"cleared"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
}

// Data is the generated dungeon body.
type Data struct {
	Nodes         []Node     `json:"nodes"`
	CurrentNodeID string     `json:"currentNodeId"`
	TimeElapsed   int        `json:"timeElapsed"`
	Grid          [][]string `json:"grid,omitempty"`
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	out := *d
	out.Nodes = make([]Node, len(d.Nodes))
	for i, n := range d.Nodes {
		n.Connections = slices.Clone(n.Connections)
		out.Nodes[i] = n
	}
	if d.Grid != nil {
		out.Grid = make([][]string, len(d.Grid))
		for i, row := range d.Grid {
			out.Grid[i] = slices.Clone(row)
		}
	}
	return &out
}

// Node returns the room with the given id.
func (d *Data) Node(id string) (Node, bool) {
	if d == nil {
		return Node{}, false
	}
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Current returns the room the player stands in.
func (d *Data) Current() (Node, bool) {
	if d == nil {
		return Node{}, false
	}
	return d.Node(d.CurrentNodeID)
}

func (d *Data) index(id string) int {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Navigate moves to target when it is connected to the current room. A move
// costs exactly one unit of elapsed time and marks target visited. The
// receiver is never modified; ok is false on rejection.
func (d *Data) Navigate(target string) (next *Data, ok bool) {
	cur, found := d.Current()
	if !found || !slices.Contains(cur.Connections, target) {
		return d, false
	}
	i := d.index(target)
	if i < 0 {
		return d, false
	}
	next = d.Clone()
	next.CurrentNodeID = target
	next.TimeElapsed++
	next.Nodes[i].Visited = true
	return next, true
}

// ClearCurrent marks the current room cleared. The receiver is not modified.
func (d *Data) ClearCurrent() *Data {
	i := d.index(d.CurrentNodeID)
	if i < 0 || d.Nodes[i].Cleared {
		return d
	}
	next := d.Clone()
	next.Nodes[i].Cleared = true
	return next
}

// AtExit reports whether the player stands on the exit room.
func (d *Data) AtExit() bool {
	cur, ok := d.Current()
	return ok && cur.Type == RoomExit
}
