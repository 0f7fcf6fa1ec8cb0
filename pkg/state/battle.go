package state

import "github.com/jwebster45206/ether-engine/pkg/battle"

// resolveBattle applies the simulator's outcome: HP is clamped into
// [0, MaxHP], victory pays the battle rewards and leaves at least 1 HP, and a
// defeat at 0 HP ends the run.
func (e *Engine) resolveBattle(gs *GameState, a ResolveBattle) *GameState {
	ab := gs.ActiveBattle
	if ab == nil {
		return e.reject(a.Type(), "no active battle")
	}
	if !a.Outcome.Valid() {
		e.logger.Warn("Invalid battle outcome", "result", a.Outcome.Result)
		return nil
	}

	next := gs.next()
	next.ActiveBattle = nil
	next.Player.HP = gs.Player.ClampHP(a.Outcome.FinalHP)
	outcome := a.Outcome
	next.LastBattleResult = &outcome

	switch a.Outcome.Result {
	case battle.Victory:
		next.Resources = gs.Resources.Add(ab.Rewards)
		next.Stats.BattlesWon++
		next.Player.HP = max(next.Player.HP, min(1, next.Player.MaxHP))
	case battle.Defeat:
		next.Stats.BattlesLost++
		next.RunOver = next.Player.HP == 0
	}
	return next
}

func (e *Engine) clearBattle(gs *GameState) *GameState {
	if gs.ActiveBattle == nil {
		return e.reject(ActionClearBattle, "no active battle")
	}
	next := gs.next()
	next.ActiveBattle = nil
	return next
}
