package state

import (
	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/dungeon"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
)

// withDungeon returns a fresh snapshot whose ActiveDungeon is a copy safe to
// modify.
func withDungeon(gs *GameState) (*GameState, *ActiveDungeon) {
	next := gs.next()
	d := *gs.ActiveDungeon
	next.ActiveDungeon = &d
	return next, &d
}

func (e *Engine) revealDungeon(gs *GameState) *GameState {
	if gs.ActiveDungeon == nil || gs.ActiveDungeon.Revealed {
		return e.reject(ActionRevealDungeon, "no unrevealed dungeon")
	}
	next, d := withDungeon(gs)
	d.Revealed = true
	return next
}

// confirmDungeon flips Confirmed and generates the dungeon body the first
// time it runs without one.
func (e *Engine) confirmDungeon(gs *GameState) *GameState {
	ad := gs.ActiveDungeon
	if ad == nil {
		return e.reject(ActionConfirmDungeon, "no active dungeon")
	}
	if ad.Confirmed && ad.Data != nil {
		return nil
	}
	next, d := withDungeon(gs)
	d.Confirmed = true
	if d.Data == nil {
		d.Data = e.dungeons.Generate(e.rng, d.NodeID, gs.MapRisk)
	}
	return next
}

func (e *Engine) enterDungeon(gs *GameState) *GameState {
	ad := gs.ActiveDungeon
	switch {
	case ad == nil || ad.Data == nil:
		return e.reject(ActionEnterDungeon, "dungeon not confirmed")
	case gs.Busy():
		return e.reject(ActionEnterDungeon, "battle in progress")
	case gs.ActiveEvent != nil && !gs.ActiveEvent.Resolved:
		return e.reject(ActionEnterDungeon, "event in progress")
	}
	room, ok := ad.Data.Current()
	if !ok || room.Cleared {
		return e.reject(ActionEnterDungeon, "room already cleared")
	}

	enc := e.travel.Resolve(e.rng, room, gs.MapRisk)

	next, d := withDungeon(gs)
	d.Data = ad.Data.ClearCurrent()

	switch enc.Kind {
	case dungeon.EncounterBattle:
		e.startBattle(next, room.ID, battle.SourceDungeon)
	case dungeon.EncounterEvent:
		e.startEvent(next, enc.EventID)
	case dungeon.EncounterTreasure:
		next.Resources = next.Resources.Add(enc.Reward)
	}
	return next
}

func (e *Engine) navigateDungeonNode(gs *GameState, a NavigateDungeonNode) *GameState {
	ad := gs.ActiveDungeon
	if ad == nil || ad.Data == nil {
		return e.reject(a.Type(), "dungeon not confirmed")
	}
	if gs.Busy() {
		return e.reject(a.Type(), "battle in progress")
	}
	data, ok := ad.Data.Navigate(a.Target)
	if !ok {
		return e.reject(a.Type(), "room not connected", "target", a.Target)
	}
	next, d := withDungeon(gs)
	d.Data = data
	return next
}

func (e *Engine) applyDungeonTimePenalty(gs *GameState, a ApplyDungeonTimePenalty) *GameState {
	if a.Decay <= 0 {
		return nil
	}
	res, _ := gs.Resources.ApplyEtherDelta(-a.Decay)
	if res == gs.Resources {
		return nil
	}
	next := gs.next()
	next.Resources = res
	return next
}

// exitDungeon is shared by complete, bypass and skip. Only completion is
// counted and reported.
func (e *Engine) exitDungeon(gs *GameState, completed bool) *GameState {
	ad := gs.ActiveDungeon
	if ad == nil {
		return e.reject(ActionCompleteDungeon, "no active dungeon")
	}
	if gs.Busy() {
		return e.reject(ActionCompleteDungeon, "battle in progress")
	}

	next := gs.next()
	next.ActiveDungeon = nil
	next.Map, _ = mapgraph.ClearAndAdvance(gs.Map, ad.NodeID)

	if completed {
		elapsed := 0
		if ad.Data != nil {
			elapsed = ad.Data.TimeElapsed
		}
		next.Stats.DungeonsCompleted++
		e.recorder.DungeonCompleted(ad.NodeID, elapsed)
	}
	return next
}
