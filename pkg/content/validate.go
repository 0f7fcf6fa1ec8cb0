package content

import (
	"fmt"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/growth"
	"github.com/jwebster45206/ether-engine/pkg/resources"
)

// Validate cross-checks every reference in the library.
func (l *Library) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, id := range l.startingDeck {
		if _, ok := l.cards[id]; !ok {
			addf("starting deck: unknown card %q", id)
		}
	}
	for _, id := range l.mapEvents {
		if _, ok := l.events[id]; !ok {
			addf("map events: unknown event %q", id)
		}
	}

	for _, id := range l.EventIDs() {
		e := l.events[id]
		if id == "" {
			addf("event with empty id")
		}
		if len(e.Choices) == 0 {
			addf("event %s: no root choices", id)
		}
		l.validateChoices(e, "", e.Choices, addf)
		for stageID, st := range e.Stages {
			if len(st.Choices) == 0 {
				addf("event %s stage %s: no choices", id, stageID)
			}
			l.validateChoices(e, stageID, st.Choices, addf)
		}
	}

	for id, it := range l.items {
		if it.Price < 0 {
			addf("item %s: negative price", id)
		}
		if it.Effect.Heal < 0 {
			addf("item %s: negative heal", id)
		}
		for stat := range it.Effect.Buffs {
			if !stat.Valid() {
				addf("item %s: unknown buff stat %q", id, stat)
			}
		}
	}
	for id, r := range l.relics {
		if r.OnMoveEther < 0 {
			addf("relic %s: negative onMoveEther", id)
		}
		if r.RunStart.Add(resources.Resources{}) != r.RunStart {
			addf("relic %s: negative runStart resources", id)
		}
	}
	for id, m := range l.merchants {
		if len(m.Stock) == 0 {
			addf("merchant %s: empty stock", id)
		}
		for i, e := range m.Stock {
			var ok bool
			switch e.Kind {
			case StockItem:
				_, ok = l.items[e.ID]
			case StockRelic:
				_, ok = l.relics[e.ID]
			case StockCard:
				_, ok = l.cards[e.ID]
			default:
				addf("merchant %s stock[%d]: unknown kind %q", id, i, e.Kind)
				continue
			}
			if !ok {
				addf("merchant %s stock[%d]: unknown %s %q", id, i, e.Kind, e.ID)
			}
			if l.Price(e) <= 0 {
				addf("merchant %s stock[%d]: no price", id, i)
			}
		}
	}

	for id, n := range l.nodes {
		if n.Tier < 1 {
			addf("pyramid node %s: tier must be at least 1", id)
		}
		for _, req := range n.Requires {
			if _, ok := l.nodes[req]; !ok {
				addf("pyramid node %s: unknown prerequisite %q", id, req)
			}
		}
		switch n.Kind {
		case growth.KindEthos, growth.KindPathos:
			if n.Grants == "" {
				addf("pyramid node %s: nothing granted", id)
			}
		case growth.KindChoice:
			if len(n.Choices) < 2 {
				addf("pyramid node %s: choice node needs at least two options", id)
			}
		default:
			addf("pyramid node %s: unknown kind %q", id, n.Kind)
		}
	}
	for id, lg := range l.logos {
		if !slices.Contains(l.identities, lg.Identity) {
			addf("logos %s: unknown identity %q", id, lg.Identity)
		}
		if lg.MaxLevel < 1 {
			addf("logos %s: maxLevel must be at least 1", id)
		}
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (l *Library) validateChoices(e EventDefinition, stage string, choices []Choice, addf func(string, ...any)) {
	where := "event " + e.ID
	if stage != "" {
		where += " stage " + stage
	}
	seen := map[string]bool{}
	for _, c := range choices {
		if c.ID == "" {
			addf("%s: choice with empty id", where)
		}
		if seen[c.ID] {
			addf("%s: duplicate choice %q", where, c.ID)
		}
		seen[c.ID] = true

		if c.Cost.HP < 0 || c.Cost.HPPercent < 0 || c.Cost.HPPercent > 100 {
			addf("%s choice %s: hp cost out of range", where, c.ID)
		}
		if c.Cost.Resources.Add(resources.Resources{}) != c.Cost.Resources {
			addf("%s choice %s: negative resource cost", where, c.ID)
		}
		c.Rewards.Resources.each(func(k resources.Key, a Amount) {
			if a.Max < a.Min {
				addf("%s choice %s: %s range has max below min", where, c.ID, k)
			}
		})
		if g := c.Rewards.Card; g != nil {
			switch g.Mode {
			case CardGrantFixed:
				if _, ok := l.cards[g.CardID]; !ok {
					addf("%s choice %s: unknown card %q", where, c.ID, g.CardID)
				}
			case CardGrantRandom:
				for _, id := range g.Pool {
					if _, ok := l.cards[id]; !ok {
						addf("%s choice %s: unknown card %q in pool", where, c.ID, id)
					}
				}
			default:
				addf("%s choice %s: unknown card grant mode %q", where, c.ID, g.Mode)
			}
		}
		if c.NextStage != "" && !e.HasStage(c.NextStage) {
			addf("%s choice %s: unknown stage %q", where, c.ID, c.NextStage)
		}
		if c.OpenShop != "" {
			if _, ok := l.merchants[c.OpenShop]; !ok {
				addf("%s choice %s: unknown merchant %q", where, c.ID, c.OpenShop)
			}
		}
		if c.NextEvent != "" {
			if _, ok := l.events[c.NextEvent]; !ok {
				addf("%s choice %s: unknown next event %q", where, c.ID, c.NextEvent)
			}
		}
	}
}
