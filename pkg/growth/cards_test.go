package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRarityForGrowth(t *testing.T) {
	tests := []struct {
		count int
		want  Rarity
	}{
		{0, RarityCommon},
		{1, RarityRare},
		{2, RarityRare},
		{3, RaritySpecial},
		{4, RaritySpecial},
		{5, RarityLegendary},
		{9, RarityLegendary},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RarityForGrowth(tt.count), "count %d", tt.count)
	}
}

func TestCardGrowth_EnhanceCapsAtFive(t *testing.T) {
	c := Zero()
	for i := range 8 {
		next, ok := c.Enhance()
		assert.Equal(t, i < MaxEnhancement, ok, "call %d", i+1)
		c = next
	}
	assert.Equal(t, 5, c.EnhancementLevel)
	assert.Equal(t, 5, c.GrowthCount)
	assert.Equal(t, RarityLegendary, c.Rarity)
}

func TestCardGrowth_MixedSequenceKeepsInvariant(t *testing.T) {
	ops := []string{"e", "s", "e", "s", "s", "e", "e", "s"}
	c := Zero()
	for _, op := range ops {
		if op == "e" {
			c, _ = c.Enhance()
		} else {
			c, _ = c.Specialize([]string{"pierce"})
		}
		require.Equal(t, c.EnhancementLevel+c.SpecializationCount, c.GrowthCount)
		require.LessOrEqual(t, c.EnhancementLevel, MaxEnhancement)
		require.LessOrEqual(t, c.GrowthCount, MaxGrowth)
		require.Equal(t, RarityForGrowth(c.GrowthCount), c.Rarity)
	}
	assert.Equal(t, 2, c.EnhancementLevel)
	assert.Equal(t, 3, c.SpecializationCount)
	assert.Len(t, c.Traits, 3)
}

func TestCardGrowth_SpecializeWithoutTraitsStillGrows(t *testing.T) {
	c, ok := Zero().Specialize(nil)
	assert.True(t, ok)
	assert.Equal(t, 1, c.SpecializationCount)
	assert.Equal(t, 1, c.GrowthCount)
	assert.Equal(t, RarityRare, c.Rarity)
	assert.Empty(t, c.Traits)
}

func TestCardGrowth_DoesNotAliasTraits(t *testing.T) {
	a, _ := Zero().Specialize([]string{"burn"})
	b, _ := a.Specialize([]string{"chain"})
	assert.Equal(t, []string{"burn"}, a.Traits)
	assert.Equal(t, []string{"burn", "chain"}, b.Traits)
}

func TestEnhancementBonus(t *testing.T) {
	assert.Equal(t, Bonus{}, EnhancementBonus(0))
	assert.Equal(t, Bonus{}, EnhancementBonus(-3))
	assert.Equal(t, EnhancementBonus(5), EnhancementBonus(12))
	assert.Greater(t, EnhancementBonus(3).Damage, EnhancementBonus(2).Damage)
}

func TestLedger_GetDoesNotInsert(t *testing.T) {
	l := Ledger{}
	got := l.Get("strike")
	assert.Equal(t, Zero(), got)
	assert.Empty(t, l)

	next := l.Set("strike", CardGrowth{Rarity: RarityRare, GrowthCount: 1, EnhancementLevel: 1})
	assert.Empty(t, l, "Set must not modify the receiver")
	assert.Equal(t, 1, next.Get("strike").EnhancementLevel)
}
