package state

import (
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

// startEvent installs event id on gs, which must already be a fresh
// snapshot. Unknown ids are logged and ignored.
func (e *Engine) startEvent(gs *GameState, id string) {
	if id == "" {
		return
	}
	def, ok := e.lib.Event(id)
	if !ok {
		e.logger.Warn("Unknown event id", "event_id", id)
		return
	}
	gs.ActiveEvent = &ActiveEvent{ID: id, Definition: def}
	e.recorder.EventStarted(id)
}

// eligible reports whether choice may be taken right now.
func (e *Engine) eligible(gs *GameState, c content.Choice) bool {
	if !gs.Resources.CanAfford(c.Cost.Resources) {
		return false
	}
	return c.Requirements.Met(
		gs.EffectiveStat(traits.StatStrength),
		gs.EffectiveStat(traits.StatAgility),
		gs.EffectiveStat(traits.StatInsight),
	)
}

// EligibleChoices lists the ids of the choices the player can take now.
func (e *Engine) EligibleChoices(gs *GameState) []string {
	ev := gs.ActiveEvent
	if ev == nil || ev.Resolved {
		return nil
	}
	var out []string
	for _, c := range ev.Definition.ChoicesAt(ev.CurrentStage) {
		if e.eligible(gs, c) {
			out = append(out, c.ID)
		}
	}
	return out
}

func (e *Engine) chooseEvent(gs *GameState, a ChooseEvent) *GameState {
	ev := gs.ActiveEvent
	if ev == nil || ev.Resolved {
		return e.reject(a.Type(), "no unresolved event")
	}
	choice, ok := ev.Definition.Choice(ev.CurrentStage, a.ChoiceID)
	if !ok {
		return e.reject(a.Type(), "choice not in active set", "choice_id", a.ChoiceID)
	}
	if !e.eligible(gs, choice) {
		return e.reject(a.Type(), "choice not eligible", "choice_id", a.ChoiceID)
	}

	next := gs.next()
	next.Resources = gs.Resources.Pay(choice.Cost.Resources)
	if loss := choice.Cost.HPLoss(gs.Player.MaxHP); loss > 0 {
		next.Player = next.Player.Damage(loss, 1)
	}

	next.Resources = next.Resources.Add(choice.Rewards.Resources.Roll(e.rng))
	if grant := choice.Rewards.Card; grant != nil {
		if id, ok := grant.Pick(e.rng, e.lib.CardIDs(), gs.Player.Cards); ok {
			next.Player = next.Player.Clone()
			next.Player.Cards = append(next.Player.Cards, id)
		}
	}

	updated := *ev
	next.ActiveEvent = &updated

	if choice.NextStage != "" && ev.Definition.HasStage(choice.NextStage) {
		updated.CurrentStage = choice.NextStage
		return next
	}

	updated.Resolved = true
	updated.Outcome = choice.Outcome
	if choice.OpenShop != "" {
		if updated.Outcome == "" {
			updated.Outcome = "shop"
		}
		e.openMerchant(next, choice.OpenShop)
	} else if choice.NextEvent != "" {
		if e.lib.HasEvent(choice.NextEvent) {
			next.PendingNextEvent = choice.NextEvent
		} else {
			e.logger.Debug("Dropping unknown follow-up event", "event_id", choice.NextEvent)
		}
	}

	if !slices.Contains(gs.CompletedEvents, ev.ID) {
		next.CompletedEvents = append(slices.Clone(gs.CompletedEvents), ev.ID)
	}
	next.Stats.EventsResolved++
	e.recorder.EventResolved(ev.ID, choice.ID, updated.Outcome)
	return next
}

// closeEvent dismisses a resolved event and starts the queued follow-up.
func (e *Engine) closeEvent(gs *GameState) *GameState {
	if gs.ActiveEvent == nil || !gs.ActiveEvent.Resolved {
		return e.reject(ActionCloseEvent, "no resolved event")
	}
	next := gs.next()
	next.ActiveEvent = nil
	if pending := gs.PendingNextEvent; pending != "" {
		next.PendingNextEvent = ""
		e.startEvent(next, pending)
	}
	return next
}

// invokePrayer converts ether to intel at 2:1, rounding in the player's
// favour.
func (e *Engine) invokePrayer(gs *GameState, a InvokePrayer) *GameState {
	if a.Cost <= 0 || gs.Resources.EtherPts < a.Cost {
		return e.reject(a.Type(), "not enough ether", "cost", a.Cost)
	}
	next := gs.next()
	next.Resources.EtherPts -= a.Cost
	next.Resources.Intel += (a.Cost + 1) / 2
	return next
}
