package state

import (
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/dungeon"
	"github.com/jwebster45206/ether-engine/pkg/growth"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

// Selectors are pure reads over a snapshot. None of them allocate ledger
// entries or otherwise touch gs.

// CardGrowth returns the growth record for id, or the zero record.
func CardGrowth(gs *GameState, id string) growth.CardGrowth {
	return gs.CardGrowth.Get(id)
}

// SelectableNodes lists the ids of the map frontier.
func SelectableNodes(gs *GameState) []string {
	return mapgraph.Selectable(gs.Map)
}

// CanAfford reports whether the run's balance covers cost.
func CanAfford(gs *GameState, cost resources.Resources) bool {
	return gs.Resources.CanAfford(cost)
}

// CanAwaken reports whether an awakening would be accepted now.
func CanAwaken(gs *GameState) bool {
	return gs.ActiveRest != nil && gs.Resources.Memory >= traits.AwakenCost
}

// CurrentRoom returns the dungeon room the player stands in.
func CurrentRoom(gs *GameState) (dungeon.Node, bool) {
	if gs.ActiveDungeon == nil {
		return dungeon.Node{}, false
	}
	return gs.ActiveDungeon.Data.Current()
}

// RoomExits lists the rooms reachable from the current dungeon room.
func RoomExits(gs *GameState) []string {
	room, ok := CurrentRoom(gs)
	if !ok {
		return nil
	}
	return slices.Clone(room.Connections)
}

// FreeItemSlots counts empty item slots.
func FreeItemSlots(gs *GameState) int {
	n := 0
	for _, id := range gs.Items {
		if id == "" {
			n++
		}
	}
	return n
}

// HasRelic reports whether the run owns id.
func HasRelic(gs *GameState, id string) bool {
	return slices.Contains(gs.Relics, id)
}

// Phase names what the player is currently doing, for display.
func Phase(gs *GameState) string {
	switch {
	case gs.RunOver:
		return "over"
	case gs.ActiveBattle != nil:
		return "battle"
	case gs.ActiveEvent != nil && !gs.ActiveEvent.Resolved:
		return "event"
	case gs.ActiveShop != nil:
		return "shop"
	case gs.ActiveRest != nil:
		return "rest"
	case gs.ActiveDungeon != nil:
		return "dungeon"
	}
	return "map"
}
