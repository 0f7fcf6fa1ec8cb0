// Package resources implements the run currency ledger. Every counter is
// clamped at zero on write; callers gate spending with CanAfford before Pay.
package resources

import (
	"fmt"
	"strings"
)

// Key names one currency counter.
type Key string

const (
	Gold     Key = "gold"
	Intel    Key = "intel"
	Loot     Key = "loot"
	Material Key = "material"
	EtherPts Key = "etherPts"
	Memory   Key = "memory"
)

// Keys returns every currency key in display order.
func Keys() []Key {
	return []Key{Gold, Intel, Loot, Material, EtherPts, Memory}
}

// ParseKey resolves a key name, accepting "ether" as an alias for etherPts.
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gold":
		return Gold, nil
	case "intel":
		return Intel, nil
	case "loot":
		return Loot, nil
	case "material":
		return Material, nil
	case "etherpts", "ether", "ether_pts":
		return EtherPts, nil
	case "memory":
		return Memory, nil
	}
	return "", fmt.Errorf("unknown resource key %q", s)
}

// Resources is a fixed-shape record of currency counters. The same shape is
// used for balances, deltas (which may be negative) and costs.
type Resources struct {
	Gold     int `json:"gold" yaml:"gold,omitempty"`
	Intel    int `json:"intel" yaml:"intel,omitempty"`
	Loot     int `json:"loot" yaml:"loot,omitempty"`
	Material int `json:"material" yaml:"material,omitempty"`
	EtherPts int `json:"etherPts" yaml:"etherPts,omitempty"`
	Memory   int `json:"memory" yaml:"memory,omitempty"`
}

// Get returns the counter for k. Unknown keys read as zero.
func (r Resources) Get(k Key) int {
	switch k {
	case Gold:
		return r.Gold
	case Intel:
		return r.Intel
	case Loot:
		return r.Loot
	case Material:
		return r.Material
	case EtherPts:
		return r.EtherPts
	case Memory:
		return r.Memory
	}
	return 0
}

// With returns a copy of r with k set to v. The value is not clamped so the
// same helper can build negative deltas.
func (r Resources) With(k Key, v int) Resources {
	switch k {
	case Gold:
		r.Gold = v
	case Intel:
		r.Intel = v
	case Loot:
		r.Loot = v
	case Material:
		r.Material = v
	case EtherPts:
		r.EtherPts = v
	case Memory:
		r.Memory = v
	}
	return r
}

// IsZero reports whether every counter is zero.
func (r Resources) IsZero() bool {
	return r == Resources{}
}

// Add applies each delta additively and clamps every resulting counter to >= 0.
// Zero-valued delta fields leave their counters untouched.
func (r Resources) Add(delta Resources) Resources {
	return Resources{
		Gold:     clamp(r.Gold + delta.Gold),
		Intel:    clamp(r.Intel + delta.Intel),
		Loot:     clamp(r.Loot + delta.Loot),
		Material: clamp(r.Material + delta.Material),
		EtherPts: clamp(r.EtherPts + delta.EtherPts),
		Memory:   clamp(r.Memory + delta.Memory),
	}
}

// CanAfford reports whether r covers every positive field of cost.
func (r Resources) CanAfford(cost Resources) bool {
	for _, k := range Keys() {
		c := cost.Get(k)
		if c > 0 && r.Get(k) < c {
			return false
		}
	}
	return true
}

// Pay subtracts cost from r. It does not re-check affordability; callers must
// gate with CanAfford first. Negative cost fields are ignored.
func (r Resources) Pay(cost Resources) Resources {
	neg := Resources{}
	for _, k := range Keys() {
		if c := cost.Get(k); c > 0 {
			neg = neg.With(k, -c)
		}
	}
	return r.Add(neg)
}

// ApplyEtherDelta adjusts the ether counter. The second return value is false
// when the delta is zero and r is returned unchanged.
func (r Resources) ApplyEtherDelta(delta int) (Resources, bool) {
	if delta == 0 {
		return r, false
	}
	r.EtherPts = clamp(r.EtherPts + delta)
	return r, true
}

// Scale multiplies every counter by num/den, truncating toward zero.
func (r Resources) Scale(num, den int) Resources {
	if den == 0 {
		return Resources{}
	}
	out := Resources{}
	for _, k := range Keys() {
		out = out.With(k, r.Get(k)*num/den)
	}
	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
