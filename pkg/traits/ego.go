package traits

import "slices"

// EgoSize is the exact number of traits an ego consumes.
const EgoSize = 5

// FallbackEgoName is used when no pairing rule scores.
const FallbackEgoName = "각성"

// Ego is a composite bonus formed by consuming five traits.
type Ego struct {
	Name           string       `json:"name"`
	ConsumedTraits []string     `json:"consumedTraits"`
	Effects        map[Stat]int `json:"effects"`
}

// EgoRule names the ego produced when traits A and B co-occur.
type EgoRule struct {
	Name string
	A, B string
}

// egoRules is in priority order; ties go to the earlier rule.
var egoRules = []EgoRule{
	{Name: "영웅", A: Brave, B: Sturdy},
	{Name: "투사", A: Brave, B: Passionate},
	{Name: "철벽", A: Sturdy, B: Thorough},
	{Name: "현자", A: Cool, B: Thorough},
	{Name: "질풍", A: Lively, B: Cool},
	{Name: "광휘", A: Passionate, B: Lively},
	{Name: "폭군", A: Brave, B: Brave},
	{Name: "요새", A: Sturdy, B: Sturdy},
}

// EgoRules returns the pairing table in priority order.
func EgoRules() []EgoRule {
	return slices.Clone(egoRules)
}

func countTraits(ts []string) map[string]int {
	counts := make(map[string]int, len(ts))
	for _, t := range ts {
		counts[t]++
	}
	return counts
}

// score is the co-occurrence count of the rule's pair within counts.
func (r EgoRule) score(counts map[string]int) int {
	if r.A == r.B {
		return counts[r.A] / 2
	}
	return min(counts[r.A], counts[r.B])
}

// EgoName picks the highest-scoring rule for selected.
func EgoName(selected []string) string {
	counts := countTraits(selected)
	best, bestScore := FallbackEgoName, 0
	for _, r := range egoRules {
		if s := r.score(counts); s > bestScore {
			best, bestScore = r.Name, s
		}
	}
	return best
}

// FormEgo consumes selected from pool. It requires exactly EgoSize traits,
// each present in pool as many times as it is selected. On success it
// returns the remaining pool (one occurrence removed per selection) and the
// ego; on failure pool is returned untouched and ok is false.
func FormEgo(pool, selected []string) (remaining []string, ego Ego, ok bool) {
	if len(selected) != EgoSize {
		return pool, Ego{}, false
	}
	have := countTraits(pool)
	for t, n := range countTraits(selected) {
		if have[t] < n {
			return pool, Ego{}, false
		}
	}

	remaining = slices.Clone(pool)
	for _, t := range selected {
		i := slices.Index(remaining, t)
		remaining = slices.Delete(remaining, i, i+1)
	}

	effects := map[Stat]int{}
	for _, t := range selected {
		for stat, v := range traitEffects[t] {
			effects[stat] += v
		}
	}

	return remaining, Ego{
		Name:           EgoName(selected),
		ConsumedTraits: slices.Clone(selected),
		Effects:        effects,
	}, true
}
