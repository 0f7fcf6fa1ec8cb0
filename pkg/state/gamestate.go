package state

import (
	"maps"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/jwebster45206/ether-engine/pkg/dungeon"
	"github.com/jwebster45206/ether-engine/pkg/growth"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/player"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

const (
	// MemoryPerMove is the memory granted on every map move.
	MemoryPerMove = 10
	// ItemSlots is the number of consumable slots.
	ItemSlots = 3
	// RestHealPercent is the share of max HP restored by resting.
	RestHealPercent = 30
)

// ActiveDungeon tracks a dungeon entered from a map node. Data is generated
// on the first confirm.
type ActiveDungeon struct {
	NodeID    string        `json:"nodeId"`
	Revealed  bool          `json:"revealed"`
	Confirmed bool          `json:"confirmed"`
	Data      *dungeon.Data `json:"dungeonData,omitempty"`
}

// ActiveEvent is an event in progress. Once Resolved no choice may change it.
type ActiveEvent struct {
	ID           string                  `json:"id"`
	Definition   content.EventDefinition `json:"definition"`
	CurrentStage string                  `json:"currentStage,omitempty"`
	Resolved     bool                    `json:"resolved"`
	Outcome      string                  `json:"outcome,omitempty"`
}

// ActiveRest is an open rest site.
type ActiveRest struct {
	NodeID string `json:"nodeId"`
}

// ShopEntry is one purchasable line of an open shop.
type ShopEntry struct {
	Kind  content.StockKind `json:"kind"`
	ID    string            `json:"id"`
	Price int               `json:"price"`
	Sold  bool              `json:"sold"`
}

// ActiveShop is an open shop.
type ActiveShop struct {
	MerchantType string      `json:"merchantType"`
	Entries      []ShopEntry `json:"entries"`
}

// RunStats counts what happened during the run.
type RunStats struct {
	NodesVisited      int `json:"nodesVisited"`
	BattlesWon        int `json:"battlesWon"`
	BattlesLost       int `json:"battlesLost"`
	EventsResolved    int `json:"eventsResolved"`
	DungeonsCompleted int `json:"dungeonsCompleted"`
}

// GameState is one immutable snapshot of a run. Reducers never modify a
// snapshot in place: they shallow-copy it and replace the containers of the
// branches they change, so untouched branches are shared between snapshots.
type GameState struct {
	Resources        resources.Resources  `json:"resources"`
	Player           player.Player        `json:"player"`
	Map              []mapgraph.Node      `json:"map"`
	CurrentNodeID    string               `json:"currentNodeId,omitempty"`
	MapRisk          int                  `json:"mapRisk"`
	ActiveDungeon    *ActiveDungeon       `json:"activeDungeon"`
	ActiveEvent      *ActiveEvent         `json:"activeEvent"`
	ActiveBattle     *battle.ActiveBattle `json:"activeBattle"`
	ActiveRest       *ActiveRest          `json:"activeRest"`
	ActiveShop       *ActiveShop          `json:"activeShop"`
	CardGrowth       growth.Ledger        `json:"cardGrowth"`
	Growth           growth.Pyramid       `json:"growth"`
	Items            [ItemSlots]string    `json:"items"`
	ItemBuffs        map[traits.Stat]int  `json:"itemBuffs"`
	Relics           []string             `json:"relics"`
	CompletedEvents  []string             `json:"completedEvents"`
	PendingNextEvent string               `json:"pendingNextEvent,omitempty"`
	LastBattleResult *battle.Outcome      `json:"lastBattleResult,omitempty"`
	Stats            RunStats             `json:"stats"`
	RunOver          bool                 `json:"runOver"`

	// Step counts accepted actions.
	Step int `json:"step"`
}

// next returns a shallow copy for a reducer to modify.
func (gs *GameState) next() *GameState {
	c := *gs
	return &c
}

// Clone returns a deep copy sharing nothing with gs.
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Player = gs.Player.Clone()
	c.Map = mapgraph.Clone(gs.Map)
	if gs.ActiveDungeon != nil {
		d := *gs.ActiveDungeon
		d.Data = gs.ActiveDungeon.Data.Clone()
		c.ActiveDungeon = &d
	}
	if gs.ActiveEvent != nil {
		e := *gs.ActiveEvent
		c.ActiveEvent = &e
	}
	if gs.ActiveBattle != nil {
		b := *gs.ActiveBattle
		b.Payload = slices.Clone(gs.ActiveBattle.Payload)
		c.ActiveBattle = &b
	}
	if gs.ActiveRest != nil {
		r := *gs.ActiveRest
		c.ActiveRest = &r
	}
	if gs.ActiveShop != nil {
		s := *gs.ActiveShop
		s.Entries = slices.Clone(gs.ActiveShop.Entries)
		c.ActiveShop = &s
	}
	c.CardGrowth = make(growth.Ledger, len(gs.CardGrowth))
	for id := range gs.CardGrowth {
		c.CardGrowth[id] = gs.CardGrowth.Get(id)
	}
	c.Growth = gs.Growth.Clone()
	c.ItemBuffs = maps.Clone(gs.ItemBuffs)
	c.Relics = slices.Clone(gs.Relics)
	c.CompletedEvents = slices.Clone(gs.CompletedEvents)
	if gs.LastBattleResult != nil {
		o := *gs.LastBattleResult
		c.LastBattleResult = &o
	}
	return &c
}

// EffectiveStat is the player's stat including ego effects and active item
// buffs.
func (gs *GameState) EffectiveStat(stat traits.Stat) int {
	return gs.Player.Stat(stat) + gs.ItemBuffs[stat]
}

// Busy reports whether a battle is in progress.
func (gs *GameState) Busy() bool {
	return gs.ActiveBattle != nil
}
