package state

import "github.com/jwebster45206/ether-engine/pkg/growth"

func setGrowth(gs *GameState, p growth.Pyramid) *GameState {
	next := gs.next()
	next.Growth = p
	return next
}

func (e *Engine) unlockGrowthNode(gs *GameState, a UnlockGrowthNode) *GameState {
	def, ok := e.lib.PyramidNode(a.NodeID)
	if !ok {
		e.logger.Warn("Unknown pyramid node", "node_id", a.NodeID)
		return nil
	}
	p, ok := gs.Growth.Unlock(def)
	if !ok {
		return e.reject(a.Type(), "node locked", "node_id", a.NodeID)
	}
	return setGrowth(gs, p)
}

func (e *Engine) selectNodeChoice(gs *GameState, a SelectNodeChoice) *GameState {
	pending := gs.Growth.PendingNodeSelection
	if pending == nil {
		return e.reject(a.Type(), "no pending selection")
	}
	def, ok := e.lib.PyramidNode(pending.NodeID)
	if !ok {
		e.logger.Warn("Unknown pyramid node", "node_id", pending.NodeID)
		return nil
	}
	p, ok := gs.Growth.SelectChoice(def, a.ChoiceID)
	if !ok {
		return e.reject(a.Type(), "unknown choice", "choice_id", a.ChoiceID)
	}
	return setGrowth(gs, p)
}

func (e *Engine) selectIdentity(gs *GameState, a SelectIdentity) *GameState {
	if !e.lib.HasIdentity(a.ID) {
		e.logger.Warn("Unknown identity", "identity", a.ID)
		return nil
	}
	p, ok := gs.Growth.SelectIdentity(a.ID)
	if !ok {
		return e.reject(a.Type(), "identity unavailable", "identity", a.ID)
	}
	return setGrowth(gs, p)
}

func (e *Engine) upgradeLogos(gs *GameState, a UpgradeLogos) *GameState {
	def, ok := e.lib.Logos(a.ID)
	if !ok {
		e.logger.Warn("Unknown logos", "logos_id", a.ID)
		return nil
	}
	p, ok := gs.Growth.UpgradeLogos(def)
	if !ok {
		return e.reject(a.Type(), "logos cannot be upgraded", "logos_id", a.ID)
	}
	return setGrowth(gs, p)
}

func (e *Engine) equipPathos(gs *GameState, a EquipPathos) *GameState {
	p, ok := gs.Growth.EquipPathos(a.ID)
	if !ok {
		return e.reject(a.Type(), "pathos cannot be equipped", "pathos_id", a.ID)
	}
	return setGrowth(gs, p)
}

func (e *Engine) unequipPathos(gs *GameState, a UnequipPathos) *GameState {
	p, ok := gs.Growth.UnequipPathos(a.ID)
	if !ok {
		return e.reject(a.Type(), "pathos not equipped", "pathos_id", a.ID)
	}
	return setGrowth(gs, p)
}
