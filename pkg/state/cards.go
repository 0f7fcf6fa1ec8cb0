package state

import "github.com/jwebster45206/ether-engine/pkg/growth"

// knownCard reports whether id is in the catalog or the player's deck.
func (e *Engine) knownCard(gs *GameState, id string) bool {
	if gs.Player.HasCard(id) {
		return true
	}
	_, ok := e.lib.Card(id)
	return ok
}

func (e *Engine) enhanceCard(gs *GameState, a EnhanceCard) *GameState {
	if !e.knownCard(gs, a.CardID) {
		e.logger.Warn("Unknown card id", "card_id", a.CardID, "action", a.Type())
		return nil
	}
	g, ok := gs.CardGrowth.Get(a.CardID).Enhance()
	if !ok {
		return e.reject(a.Type(), "card cannot grow further", "card_id", a.CardID)
	}
	return setCardGrowth(gs, a.CardID, g)
}

func (e *Engine) specializeCard(gs *GameState, a SpecializeCard) *GameState {
	if !e.knownCard(gs, a.CardID) {
		e.logger.Warn("Unknown card id", "card_id", a.CardID, "action", a.Type())
		return nil
	}
	g, ok := gs.CardGrowth.Get(a.CardID).Specialize(a.Traits)
	if !ok {
		return e.reject(a.Type(), "card cannot be specialized", "card_id", a.CardID)
	}
	return setCardGrowth(gs, a.CardID, g)
}

func setCardGrowth(gs *GameState, id string, g growth.CardGrowth) *GameState {
	next := gs.next()
	next.CardGrowth = gs.CardGrowth.Set(id, g)
	return next
}
