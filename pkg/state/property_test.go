package state

import (
	"math/rand/v2"
	"testing"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/stretchr/testify/require"
)

// randomAction draws from the whole action surface, weighted toward moves
// that are likely to be accepted in the current phase.
func randomAction(rng *rand.Rand, gs *GameState) Action {
	pick := func(ids []string) string {
		if len(ids) == 0 {
			return "none"
		}
		return ids[rng.IntN(len(ids))]
	}
	switch rng.IntN(16) {
	case 0, 1:
		return SelectNode{NodeID: pick(SelectableNodes(gs))}
	case 2:
		if gs.ActiveEvent != nil {
			var ids []string
			for _, c := range gs.ActiveEvent.Definition.ChoicesAt(gs.ActiveEvent.CurrentStage) {
				ids = append(ids, c.ID)
			}
			return ChooseEvent{ChoiceID: pick(ids)}
		}
		return CloseEvent{}
	case 3:
		return ResolveBattle{Outcome: battle.Outcome{Result: battle.Victory, FinalHP: rng.IntN(120)}}
	case 4:
		return ConfirmDungeon{}
	case 5:
		return NavigateDungeonNode{Target: pick(RoomExits(gs))}
	case 6:
		return EnterDungeon{}
	case 7:
		return CompleteDungeon{}
	case 8:
		return ApplyDungeonTimePenalty{Decay: rng.IntN(30) - 5}
	case 9:
		return AddResources{Deltas: resources.Resources{
			Gold:     rng.IntN(200) - 100,
			Intel:    rng.IntN(20) - 10,
			Loot:     rng.IntN(6) - 3,
			Material: rng.IntN(6) - 3,
			EtherPts: rng.IntN(60) - 30,
			Memory:   rng.IntN(200) - 100,
		}}
	case 10:
		return InvokePrayer{Cost: rng.IntN(30)}
	case 11:
		return BuyShopEntry{Index: rng.IntN(6)}
	case 12:
		return AwakenAtRest{ChoiceID: "random"}
	case 13:
		return UseItem{Slot: rng.IntN(ItemSlots)}
	case 14:
		return ApplyEtherDelta{Delta: rng.IntN(40) - 20}
	default:
		return CloseEvent{}
	}
}

func TestProperty_ResourcesNeverNegative(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewPCG(2024, 11))

	for run := range 30 {
		gs := f.engine.NewRun()
		for step := range 200 {
			a := randomAction(rng, gs)
			next, changed := f.engine.Reduce(gs, a)
			if !changed {
				require.Same(t, gs, next, "run %d step %d: rejected %s must return the same snapshot", run, step, a.Type())
				continue
			}
			gs = next

			r := gs.Resources
			for _, k := range resources.Keys() {
				require.GreaterOrEqual(t, r.Get(k), 0, "run %d step %d after %s: %s negative", run, step, a.Type(), k)
			}
			require.GreaterOrEqual(t, gs.Player.HP, 0)
			require.LessOrEqual(t, gs.Player.HP, gs.Player.MaxHP)
			require.GreaterOrEqual(t, gs.MapRisk, mapgraph.RiskMin)
			require.LessOrEqual(t, gs.MapRisk, mapgraph.RiskMax)
		}
	}
}
