package state

func (e *Engine) addResources(gs *GameState, a AddResources) *GameState {
	res := gs.Resources.Add(a.Deltas)
	if res == gs.Resources {
		return nil
	}
	next := gs.next()
	next.Resources = res
	return next
}

// applyEtherDelta skips publication entirely when nothing would change.
func (e *Engine) applyEtherDelta(gs *GameState, a ApplyEtherDelta) *GameState {
	res, changed := gs.Resources.ApplyEtherDelta(a.Delta)
	if !changed || res == gs.Resources {
		return nil
	}
	next := gs.next()
	next.Resources = res
	return next
}
