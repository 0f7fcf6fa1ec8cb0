package state

import (
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

func (e *Engine) selectNode(gs *GameState, a SelectNode) *GameState {
	if gs.Busy() {
		return e.reject(a.Type(), "battle in progress")
	}
	if gs.ActiveDungeon != nil {
		return e.reject(a.Type(), "dungeon in progress")
	}
	i, ok := mapgraph.Find(gs.Map, a.NodeID)
	if !ok {
		return e.reject(a.Type(), "unknown node", "node_id", a.NodeID)
	}
	node := gs.Map[i]
	if !node.Selectable || node.Cleared {
		return e.reject(a.Type(), "node not selectable", "node_id", a.NodeID)
	}

	next := gs.next()
	next.CurrentNodeID = node.ID
	next.Stats.NodesVisited++
	next.ActiveEvent = nil
	next.ActiveRest = nil
	next.ActiveShop = nil
	next.ItemBuffs = map[traits.Stat]int{}

	next.Resources = next.Resources.Add(moveGain(e, gs.Relics))

	switch node.Type {
	case mapgraph.NodeDungeon:
		next.ActiveDungeon = &ActiveDungeon{NodeID: node.ID}
		return next
	case mapgraph.NodeBattle:
		e.startBattle(next, node.ID, battle.SourceMap)
	case mapgraph.NodeEvent:
		e.startEvent(next, e.pickMapEvent(next))
	case mapgraph.NodeRest:
		next.ActiveRest = &ActiveRest{NodeID: node.ID}
	case mapgraph.NodeShop:
		e.openMerchant(next, e.merchant)
	default:
		e.logger.Warn("Unknown map node type", "node_id", node.ID, "type", node.Type)
	}

	next.Map, _ = mapgraph.ClearAndAdvance(gs.Map, node.ID)
	return next
}

func (e *Engine) setMapRisk(gs *GameState, a SetMapRisk) *GameState {
	v := mapgraph.ClampRisk(a.Value)
	if v == gs.MapRisk {
		return nil
	}
	next := gs.next()
	next.MapRisk = v
	return next
}

// pickMapEvent draws an event for a map event node, preferring ones not yet
// completed this run.
func (e *Engine) pickMapEvent(gs *GameState) string {
	pool := e.lib.MapEvents()
	var fresh []string
	for _, id := range pool {
		if !slices.Contains(gs.CompletedEvents, id) {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) > 0 {
		pool = fresh
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[e.rng.IntN(len(pool))]
}

// startBattle asks the battle setup for an encounter and installs it on gs,
// which must already be a fresh snapshot.
func (e *Engine) startBattle(gs *GameState, nodeID string, source battle.Source) {
	ab, err := e.battles.Build(battle.Request{
		NodeID: nodeID,
		Source: source,
		Risk:   gs.MapRisk,
		Player: gs.Player,
		Relics: gs.Relics,
	})
	if err != nil {
		e.logger.Warn("Failed to set up battle", "node_id", nodeID, "error", err)
		return
	}
	gs.ActiveBattle = &ab
}
