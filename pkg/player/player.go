// Package player holds the character sheet carried through a run.
package player

import (
	"maps"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/traits"
)

// Starting values for a fresh run.
const (
	StartingHP       = 100
	StartingStrength = 0
	StartingAgility  = 0
	StartingInsight  = 0
)

// Player is the run's character sheet.
type Player struct {
	HP              int          `json:"hp"`
	MaxHP           int          `json:"maxHp"`
	Strength        int          `json:"strength"`
	Agility         int          `json:"agility"`
	Insight         int          `json:"insight"`
	SubSpecialSlots int          `json:"subSpecialSlots"`
	SpeedBonus      int          `json:"speedBonus"`
	EnergyBonus     int          `json:"energyBonus"`
	Traits          []string     `json:"traits"`
	TraitsGained    int          `json:"traitsGained"`
	Egos            []traits.Ego `json:"egos"`
	Cards           []string     `json:"cards"`
}

// New returns a fresh character with the given starting deck.
func New(cards []string) Player {
	return Player{
		HP:       StartingHP,
		MaxHP:    StartingHP,
		Strength: StartingStrength,
		Agility:  StartingAgility,
		Insight:  StartingInsight,
		Traits:   []string{},
		Egos:     []traits.Ego{},
		Cards:    slices.Clone(cards),
	}
}

// Clone returns a deep copy of p.
func (p Player) Clone() Player {
	p.Traits = slices.Clone(p.Traits)
	p.Cards = slices.Clone(p.Cards)
	egos := make([]traits.Ego, len(p.Egos))
	for i, e := range p.Egos {
		e.ConsumedTraits = slices.Clone(e.ConsumedTraits)
		e.Effects = maps.Clone(e.Effects)
		egos[i] = e
	}
	p.Egos = egos
	return p
}

// ClampHP pins hp into [0, MaxHP].
func (p Player) ClampHP(hp int) int {
	return min(max(hp, 0), p.MaxHP)
}

// Heal restores amount HP up to MaxHP.
func (p Player) Heal(amount int) Player {
	if amount <= 0 {
		return p
	}
	p.HP = p.ClampHP(p.HP + amount)
	return p
}

// Damage removes amount HP but never drops below floor.
func (p Player) Damage(amount, floor int) Player {
	if amount <= 0 {
		return p
	}
	p.HP = max(p.HP-amount, min(floor, p.HP))
	return p
}

// ApplyEffects adds a stat effect bundle. Max HP increases top up current HP
// in proportion to the fraction the player had before the increase.
func (p Player) ApplyEffects(effects map[traits.Stat]int) Player {
	for stat, v := range effects {
		switch stat {
		case traits.StatStrength:
			p.Strength += v
		case traits.StatAgility:
			p.Agility += v
		case traits.StatInsight:
			p.Insight += v
		case traits.StatSubSpecialSlots:
			p.SubSpecialSlots += v
		case traits.StatSpeedBonus:
			p.SpeedBonus += v
		case traits.StatEnergyBonus:
			p.EnergyBonus += v
		case traits.StatMaxHP:
			p = p.raiseMaxHP(v)
		}
	}
	return p
}

func (p Player) raiseMaxHP(v int) Player {
	oldMax := p.MaxHP
	p.MaxHP = max(p.MaxHP+v, 1)
	if oldMax <= 0 {
		p.HP = p.MaxHP
		return p
	}
	p.HP = p.ClampHP(p.HP * p.MaxHP / oldMax)
	return p
}

// Stat returns the value of stat including every ego bonus.
func (p Player) Stat(stat traits.Stat) int {
	base := 0
	switch stat {
	case traits.StatStrength:
		base = p.Strength
	case traits.StatAgility:
		base = p.Agility
	case traits.StatInsight:
		base = p.Insight
	case traits.StatSubSpecialSlots:
		base = p.SubSpecialSlots
	case traits.StatSpeedBonus:
		base = p.SpeedBonus
	case traits.StatEnergyBonus:
		base = p.EnergyBonus
	case traits.StatMaxHP:
		base = p.MaxHP
	}
	for _, e := range p.Egos {
		base += e.Effects[stat]
	}
	return base
}

// GainTrait adds trait to the pool and its stat effect to the sheet.
// TraitsGained counts every awakening, including traits later folded into
// an ego.
func (p Player) GainTrait(trait string) Player {
	p = p.Clone()
	p.Traits = append(p.Traits, trait)
	p.TraitsGained++
	return p.ApplyEffects(traits.Effects(trait))
}

// HasCard reports whether the deck holds id.
func (p Player) HasCard(id string) bool {
	return slices.Contains(p.Cards, id)
}
