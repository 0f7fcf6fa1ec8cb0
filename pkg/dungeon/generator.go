package dungeon

import (
	"fmt"
	"math/rand/v2"
)

// Generator builds a dungeon body for the map node nodeID. risk is the
// current map risk dial and may be used to weight room contents.
type Generator interface {
	Generate(rng *rand.Rand, nodeID string, risk int) *Data
}

// GridGenerator lays rooms on a Width x Depth grid. Each room links forward
// to the room ahead and sideways to its neighbour, so every room past the
// entrance is reachable and the exit sits on the last row.
type GridGenerator struct {
	Width int
	Depth int
}

// DefaultGenerator returns the generator used when confirming a dungeon.
func DefaultGenerator() GridGenerator {
	return GridGenerator{Width: 3, Depth: 4}
}

func (g GridGenerator) Generate(rng *rand.Rand, nodeID string, risk int) *Data {
	width := max(g.Width, 1)
	depth := max(g.Depth, 2)

	grid := make([][]string, depth)
	var nodes []Node
	id := func(x, y int) string { return fmt.Sprintf("%s/r%d-%d", nodeID, y, x) }

	entranceX := width / 2
	for y := range depth {
		grid[y] = make([]string, width)
		for x := range width {
			rid := id(x, y)
			grid[y][x] = rid
			n := Node{ID: rid, X: x, Y: y, Type: g.roomType(rng, risk)}
			switch {
			case y == 0 && x == entranceX:
				n.Type = RoomEntrance
				n.Visited = true
				n.Cleared = true
			case y == depth-1 && x == entranceX:
				n.Type = RoomExit
			}
			if y < depth-1 {
				n.Connections = append(n.Connections, id(x, y+1))
			}
			if x+1 < width {
				n.Connections = append(n.Connections, id(x+1, y))
			}
			if x > 0 {
				n.Connections = append(n.Connections, id(x-1, y))
			}
			nodes = append(nodes, n)
		}
	}

	return &Data{
		Nodes:         nodes,
		CurrentNodeID: id(entranceX, 0),
		Grid:          grid,
	}
}

// roomType weights battles up as risk climbs.
func (g GridGenerator) roomType(rng *rand.Rand, risk int) RoomType {
	roll := rng.IntN(100)
	battle := 20 + risk/2
	switch {
	case roll < battle:
		return RoomBattle
	case roll < battle+20:
		return RoomEvent
	case roll < battle+35:
		return RoomTreasure
	}
	return RoomEmpty
}
