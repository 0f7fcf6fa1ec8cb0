package content

import (
	"math/rand/v2"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/resources"
)

// Cost is what a choice charges. HP and HPPercent are both floored so the
// player always survives with at least 1 HP.
type Cost struct {
	Resources resources.Resources `json:"resources,omitzero" yaml:"resources"`
	HP        int                 `json:"hp,omitempty" yaml:"hp"`
	HPPercent int                 `json:"hpPercent,omitempty" yaml:"hpPercent"`
}

// HPLoss returns the total HP a choice charges for a character with maxHP.
func (c Cost) HPLoss(maxHP int) int {
	return c.HP + maxHP*c.HPPercent/100
}

// Requirements are stat floors.
type Requirements struct {
	Strength int `json:"strength,omitempty" yaml:"strength"`
	Agility  int `json:"agility,omitempty" yaml:"agility"`
	Insight  int `json:"insight,omitempty" yaml:"insight"`
}

// Met reports whether the given stats clear every floor.
func (r Requirements) Met(strength, agility, insight int) bool {
	return strength >= r.Strength && agility >= r.Agility && insight >= r.Insight
}

// CardGrantMode selects how a reward card is chosen.
type CardGrantMode string

const (
	CardGrantFixed  CardGrantMode = "fixed"
	CardGrantRandom CardGrantMode = "random"
)

// CardGrant awards one card. Random grants draw from Pool, or from the whole
// card catalog when Pool is empty. Cards already owned are skipped.
type CardGrant struct {
	Mode   CardGrantMode `json:"mode" yaml:"mode"`
	CardID string        `json:"cardId,omitempty" yaml:"cardId"`
	Pool   []string      `json:"pool,omitempty" yaml:"pool"`
}

// Pick returns the card to grant, or false when every candidate is owned.
func (g CardGrant) Pick(rng *rand.Rand, catalog, owned []string) (string, bool) {
	if g.Mode == CardGrantFixed {
		if g.CardID == "" || slices.Contains(owned, g.CardID) {
			return "", false
		}
		return g.CardID, true
	}
	pool := g.Pool
	if len(pool) == 0 {
		pool = catalog
	}
	var candidates []string
	for _, id := range pool {
		if !slices.Contains(owned, id) && !slices.Contains(candidates, id) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	if rng == nil {
		return candidates[0], true
	}
	return candidates[rng.IntN(len(candidates))], true
}

// Rewards are granted when a choice is accepted.
type Rewards struct {
	Resources ResourceAmounts `json:"resources,omitzero" yaml:"resources"`
	Card      *CardGrant      `json:"card,omitempty" yaml:"card"`
}

// Choice is one option in an event.
type Choice struct {
	ID           string       `json:"id" yaml:"id"`
	Label        string       `json:"label,omitempty" yaml:"label"`
	Cost         Cost         `json:"cost,omitzero" yaml:"cost"`
	Requirements Requirements `json:"requirements,omitzero" yaml:"requirements"`
	Rewards      Rewards      `json:"rewards,omitzero" yaml:"rewards"`

	// Exactly one continuation applies, checked in this order. With none
	// set the event resolves with Outcome.
	NextStage string `json:"nextStage,omitempty" yaml:"nextStage"`
	OpenShop  string `json:"openShop,omitempty" yaml:"openShop"`
	NextEvent string `json:"nextEvent,omitempty" yaml:"nextEvent"`
	Outcome   string `json:"outcome,omitempty" yaml:"outcome"`
}

// Stage is a named step of a multi-stage event.
type Stage struct {
	Text    string   `json:"text,omitempty" yaml:"text"`
	Choices []Choice `json:"choices" yaml:"choices"`
}

// EventDefinition is a choice tree, optionally staged.
type EventDefinition struct {
	ID      string           `json:"id" yaml:"id"`
	Title   string           `json:"title,omitempty" yaml:"title"`
	Text    string           `json:"text,omitempty" yaml:"text"`
	Choices []Choice         `json:"choices" yaml:"choices"`
	Stages  map[string]Stage `json:"stages,omitempty" yaml:"stages"`
}

// ChoicesAt returns the active choice set: the root choices when stage is
// empty, otherwise that stage's choices.
func (d EventDefinition) ChoicesAt(stage string) []Choice {
	if stage == "" {
		return d.Choices
	}
	return d.Stages[stage].Choices
}

// Choice finds a choice in the active set.
func (d EventDefinition) Choice(stage, id string) (Choice, bool) {
	for _, c := range d.ChoicesAt(stage) {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// HasStage reports whether the definition declares the stage.
func (d EventDefinition) HasStage(id string) bool {
	_, ok := d.Stages[id]
	return ok
}
