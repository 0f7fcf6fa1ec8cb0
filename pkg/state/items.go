package state

import (
	"maps"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/traits"
)

func itemAt(gs *GameState, slot int) (string, bool) {
	if slot < 0 || slot >= ItemSlots || gs.Items[slot] == "" {
		return "", false
	}
	return gs.Items[slot], true
}

// addItem puts id in the first empty slot. A full bar is a no-op.
func (e *Engine) addItem(gs *GameState, a AddItem) *GameState {
	if _, ok := e.lib.Item(a.ItemID); !ok {
		e.logger.Warn("Unknown item id", "item_id", a.ItemID, "action", a.Type())
		return nil
	}
	slot := slices.Index(gs.Items[:], "")
	if slot < 0 {
		return e.reject(a.Type(), "item slots full")
	}
	next := gs.next()
	next.Items[slot] = a.ItemID
	return next
}

// useItem consumes the item in slot. Buffs last until the next map move.
func (e *Engine) useItem(gs *GameState, a UseItem) *GameState {
	id, ok := itemAt(gs, a.Slot)
	if !ok {
		return e.reject(a.Type(), "empty slot", "slot", a.Slot)
	}
	def, ok := e.lib.Item(id)
	if !ok {
		e.logger.Warn("Unknown item id", "item_id", id, "action", a.Type())
		return nil
	}
	next := gs.next()
	next.Items[a.Slot] = ""
	next.Player = gs.Player.Heal(def.Effect.Heal)
	next.Resources = gs.Resources.Add(def.Effect.Resources)
	if len(def.Effect.Buffs) > 0 {
		buffs := maps.Clone(gs.ItemBuffs)
		if buffs == nil {
			buffs = map[traits.Stat]int{}
		}
		for stat, v := range def.Effect.Buffs {
			buffs[stat] += v
		}
		next.ItemBuffs = buffs
	}
	return next
}

func (e *Engine) removeItem(gs *GameState, a RemoveItem) *GameState {
	if _, ok := itemAt(gs, a.Slot); !ok {
		return e.reject(a.Type(), "empty slot", "slot", a.Slot)
	}
	next := gs.next()
	next.Items[a.Slot] = ""
	return next
}
