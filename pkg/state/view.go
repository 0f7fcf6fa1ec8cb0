package state

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/growth"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/player"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

// View is a read-only handle on one snapshot. Accessors hand out copies, so
// nothing a consumer does to a returned value can reach the store.
type View struct {
	gs *GameState
}

// NewView wraps gs. The caller must not modify gs afterwards.
func NewView(gs *GameState) View {
	return View{gs: gs}
}

// Same reports whether both views wrap the identical snapshot.
func (v View) Same(other View) bool {
	return v.gs == other.gs
}

// Snapshot returns a deep copy of the whole state.
func (v View) Snapshot() *GameState {
	return v.gs.Clone()
}

func (v View) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.gs)
}

func (v View) Resources() resources.Resources { return v.gs.Resources }
func (v View) Player() player.Player          { return v.gs.Player.Clone() }
func (v View) Map() []mapgraph.Node           { return mapgraph.Clone(v.gs.Map) }
func (v View) CurrentNodeID() string          { return v.gs.CurrentNodeID }
func (v View) MapRisk() int                   { return v.gs.MapRisk }
func (v View) Items() [ItemSlots]string       { return v.gs.Items }
func (v View) Relics() []string               { return slices.Clone(v.gs.Relics) }
func (v View) CompletedEvents() []string      { return slices.Clone(v.gs.CompletedEvents) }
func (v View) PendingNextEvent() string       { return v.gs.PendingNextEvent }
func (v View) Stats() RunStats                { return v.gs.Stats }
func (v View) RunOver() bool                  { return v.gs.RunOver }
func (v View) Growth() growth.Pyramid         { return v.gs.Growth.Clone() }
func (v View) Phase() string                  { return Phase(v.gs) }
func (v View) SelectableNodes() []string      { return SelectableNodes(v.gs) }
func (v View) RoomExits() []string            { return RoomExits(v.gs) }

func (v View) ItemBuffs() map[traits.Stat]int { return maps.Clone(v.gs.ItemBuffs) }

func (v View) CardGrowth(id string) growth.CardGrowth { return CardGrowth(v.gs, id) }

func (v View) EffectiveStat(stat traits.Stat) int { return v.gs.EffectiveStat(stat) }

// Node returns a copy of the map node id.
func (v View) Node(id string) (mapgraph.Node, bool) {
	i, ok := mapgraph.Find(v.gs.Map, id)
	if !ok {
		return mapgraph.Node{}, false
	}
	n := v.gs.Map[i]
	n.Connections = slices.Clone(n.Connections)
	return n, true
}

func (v View) ActiveDungeon() *ActiveDungeon {
	if v.gs.ActiveDungeon == nil {
		return nil
	}
	d := *v.gs.ActiveDungeon
	d.Data = v.gs.ActiveDungeon.Data.Clone()
	return &d
}

func (v View) ActiveEvent() *ActiveEvent {
	if v.gs.ActiveEvent == nil {
		return nil
	}
	e := *v.gs.ActiveEvent
	return &e
}

func (v View) ActiveBattle() *battle.ActiveBattle {
	if v.gs.ActiveBattle == nil {
		return nil
	}
	b := *v.gs.ActiveBattle
	b.Payload = slices.Clone(v.gs.ActiveBattle.Payload)
	return &b
}

func (v View) ActiveRest() *ActiveRest {
	if v.gs.ActiveRest == nil {
		return nil
	}
	r := *v.gs.ActiveRest
	return &r
}

func (v View) ActiveShop() *ActiveShop {
	if v.gs.ActiveShop == nil {
		return nil
	}
	s := *v.gs.ActiveShop
	s.Entries = slices.Clone(v.gs.ActiveShop.Entries)
	return &s
}

func (v View) LastBattleResult() *battle.Outcome {
	if v.gs.LastBattleResult == nil {
		return nil
	}
	o := *v.gs.LastBattleResult
	return &o
}
