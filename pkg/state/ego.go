package state

import "github.com/jwebster45206/ether-engine/pkg/traits"

// formEgo consumes five traits into an ego. The pyramid follows
// TraitsGained, so shrinking the pool does not slow progression.
func (e *Engine) formEgo(gs *GameState, a FormEgo) *GameState {
	remaining, ego, ok := traits.FormEgo(gs.Player.Traits, a.Traits)
	if !ok {
		return e.reject(a.Type(), "traits not available")
	}
	next := gs.next()
	next.Player = gs.Player.Clone()
	next.Player.Traits = remaining
	next.Player.Egos = append(next.Player.Egos, ego)
	return next
}
