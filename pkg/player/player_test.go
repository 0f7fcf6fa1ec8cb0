package player

import (
	"testing"

	"github.com/jwebster45206/ether-engine/pkg/traits"
	"github.com/stretchr/testify/assert"
)

func TestApplyEffects_MaxHPTopsUpProportionally(t *testing.T) {
	tests := []struct {
		name      string
		hp, max   int
		wantHP    int
		wantMaxHP int
	}{
		{"full health", 100, 100, 110, 110},
		{"half health", 50, 100, 55, 110},
		{"low health", 9, 90, 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(nil)
			p.HP, p.MaxHP = tt.hp, tt.max
			p = p.ApplyEffects(traits.Effects(traits.Sturdy))
			assert.Equal(t, tt.wantMaxHP, p.MaxHP)
			assert.Equal(t, tt.wantHP, p.HP)
		})
	}
}

func TestApplyEffects_Stats(t *testing.T) {
	p := New(nil)
	p = p.ApplyEffects(traits.Effects(traits.Brave))
	p = p.ApplyEffects(traits.Effects(traits.Passionate))
	p = p.ApplyEffects(traits.Effects(traits.Lively))
	p = p.ApplyEffects(traits.Effects(traits.Thorough))
	p = p.ApplyEffects(traits.Effects(traits.Cool))

	assert.Equal(t, 1, p.Strength)
	assert.Equal(t, 5, p.SpeedBonus)
	assert.Equal(t, 1, p.EnergyBonus)
	assert.Equal(t, 1, p.SubSpecialSlots)
	assert.Equal(t, 1, p.Insight)
}

func TestDamage_RespectsFloor(t *testing.T) {
	p := New(nil)
	assert.Equal(t, 80, p.Damage(20, 1).HP)
	assert.Equal(t, 1, p.Damage(500, 1).HP)
	assert.Equal(t, 0, p.Damage(500, 0).HP)

	p.HP = 1
	assert.Equal(t, 1, p.Damage(5, 1).HP)
}

func TestHeal(t *testing.T) {
	p := New(nil)
	p.HP = 40
	assert.Equal(t, 70, p.Heal(30).HP)
	assert.Equal(t, 100, p.Heal(300).HP)
	assert.Equal(t, 40, p.Heal(-5).HP)
}

func TestStat_IncludesEgos(t *testing.T) {
	p := New(nil)
	p.Strength = 2
	p.Egos = []traits.Ego{{Name: "영웅", Effects: map[traits.Stat]int{traits.StatStrength: 3}}}
	assert.Equal(t, 5, p.Stat(traits.StatStrength))
	assert.Equal(t, 0, p.Stat(traits.StatInsight))
}

func TestClone_DoesNotAlias(t *testing.T) {
	p := New([]string{"strike"})
	p.Traits = []string{traits.Brave}
	c := p.Clone()
	c.Traits[0] = traits.Cool
	c.Cards = append(c.Cards, "guard")
	assert.Equal(t, []string{traits.Brave}, p.Traits)
	assert.Equal(t, []string{"strike"}, p.Cards)
}

func TestGainTrait(t *testing.T) {
	p := New(nil)
	next := p.GainTrait(traits.Brave)

	assert.Equal(t, []string{traits.Brave}, next.Traits)
	assert.Equal(t, 1, next.TraitsGained)
	assert.Equal(t, 1, next.Strength)
	assert.Empty(t, p.Traits)
	assert.Zero(t, p.TraitsGained)
}
