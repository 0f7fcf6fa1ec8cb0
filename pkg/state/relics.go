package state

import (
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/resources"
)

// moveGain is what every map move pays: the memory trickle plus passive
// per-move relic ether.
func moveGain(e *Engine, relics []string) resources.Resources {
	gain := resources.Resources{Memory: MemoryPerMove}
	for _, id := range relics {
		def, ok := e.lib.Relic(id)
		if !ok {
			e.logger.Warn("Unknown relic id", "relic_id", id)
			continue
		}
		gain.EtherPts += def.OnMoveEther
	}
	return gain
}

func (e *Engine) addRelic(gs *GameState, a AddRelic) *GameState {
	if _, ok := e.lib.Relic(a.RelicID); !ok {
		e.logger.Warn("Unknown relic id", "relic_id", a.RelicID, "action", a.Type())
		return nil
	}
	if slices.Contains(gs.Relics, a.RelicID) {
		return e.reject(a.Type(), "relic already owned", "relic_id", a.RelicID)
	}
	next := gs.next()
	next.Relics = append(slices.Clone(gs.Relics), a.RelicID)
	return next
}

func (e *Engine) removeRelic(gs *GameState, a RemoveRelic) *GameState {
	i := slices.Index(gs.Relics, a.RelicID)
	if i < 0 {
		return e.reject(a.Type(), "relic not owned", "relic_id", a.RelicID)
	}
	next := gs.next()
	next.Relics = slices.Delete(slices.Clone(gs.Relics), i, i+1)
	return next
}
