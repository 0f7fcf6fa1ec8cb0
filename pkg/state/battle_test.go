package state

import (
	"errors"
	"testing"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSetup struct{}

func (failingSetup) Build(battle.Request) (battle.ActiveBattle, error) {
	return battle.ActiveBattle{}, errors.New("simulator offline")
}

func inBattle(t *testing.T, f fixture) *GameState {
	t.Helper()
	gs := f.accept(t, f.engine.NewRun(), SelectNode{NodeID: "battle-1"})
	require.NotNil(t, gs.ActiveBattle)
	return gs
}

func TestResolveBattle_Victory(t *testing.T) {
	f := newFixture(t)
	gs := inBattle(t, f)
	rewards := gs.ActiveBattle.Rewards

	next := f.accept(t, gs, ResolveBattle{Outcome: battle.Outcome{Result: battle.Victory, FinalHP: 70, DamageDealt: 40}})
	assert.Nil(t, next.ActiveBattle)
	assert.Equal(t, 70, next.Player.HP)
	assert.Equal(t, gs.Resources.Add(rewards), next.Resources)
	assert.Equal(t, 1, next.Stats.BattlesWon)
	require.NotNil(t, next.LastBattleResult)
	assert.Equal(t, 40, next.LastBattleResult.DamageDealt)
	assert.False(t, next.RunOver)
}

func TestResolveBattle_ClampsHP(t *testing.T) {
	f := newFixture(t)
	gs := inBattle(t, f)

	high := f.accept(t, gs, ResolveBattle{Outcome: battle.Outcome{Result: battle.Victory, FinalHP: 500}})
	assert.Equal(t, 100, high.Player.HP)

	low := f.accept(t, gs, ResolveBattle{Outcome: battle.Outcome{Result: battle.Victory, FinalHP: -20}})
	assert.Equal(t, 1, low.Player.HP)
}

func TestResolveBattle_DefeatEndsRun(t *testing.T) {
	f := newFixture(t)
	gs := inBattle(t, f)

	next := f.accept(t, gs, ResolveBattle{Outcome: battle.Outcome{Result: battle.Defeat, FinalHP: 0}})
	assert.True(t, next.RunOver)
	assert.Equal(t, 1, next.Stats.BattlesLost)
	assert.Equal(t, gs.Resources, next.Resources)

	f.reject(t, next, AddResources{Deltas: resources.Resources{Gold: 5}})
	f.reject(t, next, SelectNode{NodeID: "event-2"})
}

func TestResolveBattle_DefeatWithHPLeft(t *testing.T) {
	f := newFixture(t)
	next := f.accept(t, inBattle(t, f), ResolveBattle{Outcome: battle.Outcome{Result: battle.Defeat, FinalHP: 12}})
	assert.False(t, next.RunOver)
	assert.Equal(t, 12, next.Player.HP)
}

func TestResolveBattle_Rejections(t *testing.T) {
	f := newFixture(t)
	f.reject(t, f.engine.NewRun(), ResolveBattle{Outcome: battle.Outcome{Result: battle.Victory}})
	f.reject(t, inBattle(t, f), ResolveBattle{Outcome: battle.Outcome{Result: "draw"}})
}

func TestClearBattle(t *testing.T) {
	f := newFixture(t)
	gs := inBattle(t, f)
	f.reject(t, gs, SelectNode{NodeID: "event-2"})

	next := f.accept(t, gs, ClearBattle{})
	assert.Nil(t, next.ActiveBattle)
	assert.Equal(t, gs.Player.HP, next.Player.HP)
	f.reject(t, next, ClearBattle{})
}

func TestSelectNode_BattleSetupFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.engine.WithBattleSetup(failingSetup{})

	next := f.accept(t, f.engine.NewRun(), SelectNode{NodeID: "battle-1"})
	assert.Nil(t, next.ActiveBattle)
	i, _ := mapgraph.Find(next.Map, "battle-1")
	assert.True(t, next.Map[i].Cleared)
}

func TestLedgerActions(t *testing.T) {
	f := newFixture(t)
	gs := f.engine.NewRun()

	f.reject(t, gs, ApplyEtherDelta{Delta: 0})
	f.reject(t, gs, AddResources{})

	next := f.accept(t, gs, AddResources{Deltas: resources.Resources{Gold: -500, Loot: 2}})
	assert.Equal(t, 0, next.Resources.Gold)
	assert.Equal(t, 2, next.Resources.Loot)

	next = f.accept(t, next, ApplyEtherDelta{Delta: -50})
	assert.Equal(t, 0, next.Resources.EtherPts)
	f.reject(t, next, ApplyEtherDelta{Delta: -1})
}
