package content

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/jwebster45206/ether-engine/pkg/resources"
	"gopkg.in/yaml.v3"
)

// Amount is a reward quantity written either as a flat number or as an
// inclusive {min, max} range.
type Amount struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Flat returns a fixed amount.
func Flat(n int) Amount { return Amount{Min: n, Max: n} }

// Range returns an inclusive range.
func Range(lo, hi int) Amount { return Amount{Min: lo, Max: hi} }

// IsRange reports whether the amount needs a roll.
func (a Amount) IsRange() bool { return a.Max > a.Min }

// Roll draws uniformly from [Min, Max]. Flat amounts never touch rng.
func (a Amount) Roll(rng *rand.Rand) int {
	if !a.IsRange() || rng == nil {
		return a.Min
	}
	return a.Min + rng.IntN(a.Max-a.Min+1)
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var n int
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("amount must be an integer or {min, max}: %w", err)
		}
		*a = Flat(n)
		return nil
	}
	type plain Amount
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = Amount(p)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.IsRange() {
		return json.Marshal(a.Min)
	}
	type plain Amount
	return json.Marshal(plain(a))
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*a = Flat(n)
		return nil
	}
	type plain Amount
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("amount must be an integer or {min, max}: %w", err)
	}
	*a = Amount(p)
	return nil
}

// ResourceAmounts is a reward table over the closed currency set.
type ResourceAmounts struct {
	Gold     Amount `json:"gold,omitzero" yaml:"gold"`
	Intel    Amount `json:"intel,omitzero" yaml:"intel"`
	Loot     Amount `json:"loot,omitzero" yaml:"loot"`
	Material Amount `json:"material,omitzero" yaml:"material"`
	EtherPts Amount `json:"etherPts,omitzero" yaml:"etherPts"`
	Memory   Amount `json:"memory,omitzero" yaml:"memory"`
}

// Roll resolves every range in a fixed key order so seeded runs replay.
func (r ResourceAmounts) Roll(rng *rand.Rand) resources.Resources {
	return resources.Resources{
		Gold:     r.Gold.Roll(rng),
		Intel:    r.Intel.Roll(rng),
		Loot:     r.Loot.Roll(rng),
		Material: r.Material.Roll(rng),
		EtherPts: r.EtherPts.Roll(rng),
		Memory:   r.Memory.Roll(rng),
	}
}

func (r ResourceAmounts) each(fn func(resources.Key, Amount)) {
	fn(resources.Gold, r.Gold)
	fn(resources.Intel, r.Intel)
	fn(resources.Loot, r.Loot)
	fn(resources.Material, r.Material)
	fn(resources.EtherPts, r.EtherPts)
	fn(resources.Memory, r.Memory)
}
