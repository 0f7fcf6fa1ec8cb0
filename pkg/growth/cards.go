// Package growth implements the two persistent progression tracks of a run:
// per-card growth (enhancement and specialization) and the player's skill
// pyramid.
package growth

import (
	"maps"
	"slices"
)

// Rarity is the card tier derived from its growth count.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RaritySpecial   Rarity = "special"
	RarityLegendary Rarity = "legendary"
)

var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityRare:      1,
	RaritySpecial:   2,
	RarityLegendary: 3,
}

// MaxEnhancement caps enhancementLevel; MaxGrowth caps the growth count.
const (
	MaxEnhancement = 5
	MaxGrowth      = 5
)

// RarityForGrowth maps a growth count onto the rarity step function.
func RarityForGrowth(count int) Rarity {
	switch {
	case count >= 5:
		return RarityLegendary
	case count >= 3:
		return RaritySpecial
	case count >= 1:
		return RarityRare
	}
	return RarityCommon
}

// CardGrowth is the growth record for one card id.
type CardGrowth struct {
	Rarity              Rarity   `json:"rarity"`
	GrowthCount         int      `json:"growthCount"`
	EnhancementLevel    int      `json:"enhancementLevel"`
	SpecializationCount int      `json:"specializationCount"`
	Traits              []string `json:"traits"`
}

// Zero returns the record of a card that has never grown.
func Zero() CardGrowth {
	return CardGrowth{Rarity: RarityCommon, Traits: []string{}}
}

func (c CardGrowth) promote() CardGrowth {
	next := RarityForGrowth(c.GrowthCount)
	if rarityRank[next] > rarityRank[c.Rarity] {
		c.Rarity = next
	}
	return c
}

// Enhance raises the enhancement level by one. It is a no-op once the
// enhancement level or the growth count is capped.
func (c CardGrowth) Enhance() (CardGrowth, bool) {
	if c.EnhancementLevel >= MaxEnhancement || c.GrowthCount >= MaxGrowth {
		return c, false
	}
	c.Traits = slices.Clone(c.Traits)
	c.EnhancementLevel++
	c.GrowthCount++
	return c.promote(), true
}

// Specialize appends traits and spends one unit of growth. An empty trait
// list still counts. It is a no-op once the growth count is capped.
func (c CardGrowth) Specialize(traits []string) (CardGrowth, bool) {
	if c.GrowthCount >= MaxGrowth {
		return c, false
	}
	c.Traits = append(slices.Clone(c.Traits), traits...)
	c.SpecializationCount++
	c.GrowthCount++
	return c.promote(), true
}

// Bonus is the stat bonus granted by an enhancement level.
type Bonus struct {
	Damage int `json:"damage"`
	Block  int `json:"block"`
	Speed  int `json:"speed"`
}

var enhancementBonuses = [MaxEnhancement + 1]Bonus{
	{},
	{Damage: 1, Block: 1},
	{Damage: 2, Block: 2},
	{Damage: 3, Block: 3, Speed: -1},
	{Damage: 5, Block: 4, Speed: -1},
	{Damage: 7, Block: 6, Speed: -2},
}

// EnhancementBonus returns the cumulative bonus for level, clamped to [0,5].
func EnhancementBonus(level int) Bonus {
	level = min(max(level, 0), MaxEnhancement)
	return enhancementBonuses[level]
}

// Ledger maps card ids to growth records. Ledgers are treated as immutable;
// Set returns a new map.
type Ledger map[string]CardGrowth

// Get returns the record for id, or the zero record. It never inserts.
func (l Ledger) Get(id string) CardGrowth {
	if c, ok := l[id]; ok {
		c.Traits = slices.Clone(c.Traits)
		return c
	}
	return Zero()
}

// Set returns a copy of l with id set to c.
func (l Ledger) Set(id string, c CardGrowth) Ledger {
	out := make(Ledger, len(l)+1)
	maps.Copy(out, l)
	out[id] = c
	return out
}
