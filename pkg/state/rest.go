package state

import (
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

// awakenAtRest spends memory on one trait and closes the rest site. Unknown
// or "random" choices draw uniformly from the six awakenings.
func (e *Engine) awakenAtRest(gs *GameState, a AwakenAtRest) *GameState {
	if gs.ActiveRest == nil {
		return e.reject(a.Type(), "no active rest")
	}
	if gs.Resources.Memory < traits.AwakenCost {
		return e.reject(a.Type(), "not enough memory")
	}
	aw, ok := traits.LookupAwakening(a.ChoiceID)
	if !ok {
		all := traits.Awakenings()
		aw = all[e.rng.IntN(len(all))]
	}

	next := gs.next()
	next.Resources = gs.Resources.Pay(resources.Resources{Memory: traits.AwakenCost})
	next.Player = gs.Player.GainTrait(aw.Trait)
	if p, changed := gs.Growth.Sync(next.Player.TraitsGained); changed {
		next.Growth = p
	}
	next.ActiveRest = nil
	return next
}

func (e *Engine) healAtRest(gs *GameState) *GameState {
	if gs.ActiveRest == nil {
		return e.reject(ActionHealAtRest, "no active rest")
	}
	next := gs.next()
	next.Player = gs.Player.Heal(gs.Player.MaxHP * RestHealPercent / 100)
	next.ActiveRest = nil
	return next
}

func (e *Engine) closeRest(gs *GameState) *GameState {
	if gs.ActiveRest == nil {
		return e.reject(ActionCloseRest, "no active rest")
	}
	next := gs.next()
	next.ActiveRest = nil
	return next
}
