// Package traits defines the permanent player traits gained through
// awakening, their fixed stat effects, and the ego formation rules that fold
// five traits into one composite bonus.
package traits

import (
	"maps"
	"slices"
)

// Stat is a player attribute a trait can modify.
type Stat string

const (
	StatStrength        Stat = "strength"
	StatAgility         Stat = "agility"
	StatInsight         Stat = "insight"
	StatMaxHP           Stat = "maxHp"
	StatSubSpecialSlots Stat = "subSpecialSlots"
	StatSpeedBonus      Stat = "speedBonus"
	StatEnergyBonus     Stat = "energyBonus"
)

// Valid reports whether s is a known stat.
func (s Stat) Valid() bool {
	switch s {
	case StatStrength, StatAgility, StatInsight, StatMaxHP,
		StatSubSpecialSlots, StatSpeedBonus, StatEnergyBonus:
		return true
	}
	return false
}

// Trait names as stored in the player's trait list.
const (
	Brave      = "용맹함"
	Sturdy     = "굳건함"
	Cool       = "냉철함"
	Thorough   = "철저함"
	Passionate = "열정적"
	Lively     = "활력적"
)

// AwakenCost is the memory spent per awakening.
const AwakenCost = 100

// Awakening maps a rest choice id to the trait it grants.
type Awakening struct {
	ChoiceID string
	Trait    string
}

// awakenings is ordered; random draws index into it.
var awakenings = []Awakening{
	{ChoiceID: "brave", Trait: Brave},
	{ChoiceID: "sturdy", Trait: Sturdy},
	{ChoiceID: "cool", Trait: Cool},
	{ChoiceID: "thorough", Trait: Thorough},
	{ChoiceID: "passionate", Trait: Passionate},
	{ChoiceID: "lively", Trait: Lively},
}

// Awakenings returns the six valid awakening choices in table order.
func Awakenings() []Awakening {
	return slices.Clone(awakenings)
}

// LookupAwakening resolves a choice id. Unknown ids and "random" report false
// so the caller can draw one uniformly.
func LookupAwakening(choiceID string) (Awakening, bool) {
	for _, a := range awakenings {
		if a.ChoiceID == choiceID {
			return a, true
		}
	}
	return Awakening{}, false
}

var traitEffects = map[string]map[Stat]int{
	Brave:      {StatStrength: 1},
	Sturdy:     {StatMaxHP: 10},
	Cool:       {StatInsight: 1},
	Thorough:   {StatSubSpecialSlots: 1},
	Passionate: {StatSpeedBonus: 5},
	Lively:     {StatEnergyBonus: 1},
}

// Effects returns a copy of the stat effect of trait. Unknown traits have no effect.
func Effects(trait string) map[Stat]int {
	return maps.Clone(traitEffects[trait])
}

// Known reports whether trait has an effect table entry.
func Known(trait string) bool {
	_, ok := traitEffects[trait]
	return ok
}
