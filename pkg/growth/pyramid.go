package growth

import (
	"maps"
	"slices"
)

// NodeKind is what unlocking a pyramid node grants.
type NodeKind string

const (
	KindEthos  NodeKind = "ethos"
	KindPathos NodeKind = "pathos"
	KindChoice NodeKind = "choice"
)

// Limits on pyramid state.
const (
	MaxEquippedPathos = 3
	MaxIdentities     = 2
)

// levelThresholds[i] is the trait count needed for pyramid level i+1.
var levelThresholds = []int{1, 3, 5, 8, 12}

// LevelForTraitCount maps an accumulated trait count to a pyramid level.
func LevelForTraitCount(n int) int {
	level := 0
	for i, need := range levelThresholds {
		if n >= need {
			level = i + 1
		}
	}
	return level
}

// NodeChoice is one option of a choice node.
type NodeChoice struct {
	ID     string   `json:"id" yaml:"id"`
	Kind   NodeKind `json:"kind" yaml:"kind"`
	Grants string   `json:"grants" yaml:"grants"`
}

// NodeDef describes one pyramid node.
type NodeDef struct {
	ID       string       `json:"id" yaml:"id"`
	Tier     int          `json:"tier" yaml:"tier"`
	Kind     NodeKind     `json:"kind" yaml:"kind"`
	Grants   string       `json:"grants,omitempty" yaml:"grants,omitempty"`
	Requires []string     `json:"requires,omitempty" yaml:"requires,omitempty"`
	Choices  []NodeChoice `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Choice returns the option with the given id.
func (d NodeDef) Choice(id string) (NodeChoice, bool) {
	for _, c := range d.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return NodeChoice{}, false
}

// LogosDef describes a leveled skill tied to an identity.
type LogosDef struct {
	ID       string `json:"id" yaml:"id"`
	Identity string `json:"identity" yaml:"identity"`
	MaxLevel int    `json:"maxLevel" yaml:"maxLevel"`
}

// PendingSelection is a choice node waiting for SelectChoice.
type PendingSelection struct {
	NodeID string   `json:"nodeId"`
	Type   NodeKind `json:"type"`
}

// Pyramid is the skill-tree state.
type Pyramid struct {
	Level                int               `json:"pyramidLevel"`
	SkillPoints          int               `json:"skillPoints"`
	UnlockedEthos        []string          `json:"unlockedEthos"`
	UnlockedPathos       []string          `json:"unlockedPathos"`
	UnlockedNodes        []string          `json:"unlockedNodes"`
	PendingNodeSelection *PendingSelection `json:"pendingNodeSelection"`
	Identities           []string          `json:"identities"`
	LogosLevels          map[string]int    `json:"logosLevels"`
	EquippedPathos       []string          `json:"equippedPathos"`
}

// NewPyramid returns an empty pyramid.
func NewPyramid() Pyramid {
	return Pyramid{
		UnlockedEthos:  []string{},
		UnlockedPathos: []string{},
		UnlockedNodes:  []string{},
		Identities:     []string{},
		LogosLevels:    map[string]int{},
		EquippedPathos: []string{},
	}
}

// Clone returns a deep copy of p.
func (p Pyramid) Clone() Pyramid {
	p.UnlockedEthos = slices.Clone(p.UnlockedEthos)
	p.UnlockedPathos = slices.Clone(p.UnlockedPathos)
	p.UnlockedNodes = slices.Clone(p.UnlockedNodes)
	p.Identities = slices.Clone(p.Identities)
	p.EquippedPathos = slices.Clone(p.EquippedPathos)
	p.LogosLevels = maps.Clone(p.LogosLevels)
	if p.PendingNodeSelection != nil {
		pending := *p.PendingNodeSelection
		p.PendingNodeSelection = &pending
	}
	return p
}

// Sync raises the level to match traitCount. The level never drops, and each
// level gained grants one skill point.
func (p Pyramid) Sync(traitCount int) (Pyramid, bool) {
	target := LevelForTraitCount(traitCount)
	if target <= p.Level {
		return p, false
	}
	p = p.Clone()
	p.SkillPoints += target - p.Level
	p.Level = target
	return p, true
}

// Unlock spends one skill point on def. Choice nodes park a pending
// selection instead of granting immediately; only one may be pending.
func (p Pyramid) Unlock(def NodeDef) (Pyramid, bool) {
	if p.SkillPoints < 1 || p.Level < def.Tier || slices.Contains(p.UnlockedNodes, def.ID) {
		return p, false
	}
	for _, req := range def.Requires {
		if !slices.Contains(p.UnlockedNodes, req) {
			return p, false
		}
	}
	if def.Kind == KindChoice && (p.PendingNodeSelection != nil || len(def.Choices) == 0) {
		return p, false
	}

	p = p.Clone()
	p.SkillPoints--
	p.UnlockedNodes = append(p.UnlockedNodes, def.ID)
	switch def.Kind {
	case KindChoice:
		p.PendingNodeSelection = &PendingSelection{NodeID: def.ID, Type: def.Kind}
	default:
		p = p.grant(def.Kind, def.Grants)
	}
	return p, true
}

// SelectChoice resolves the pending selection for def with choiceID.
func (p Pyramid) SelectChoice(def NodeDef, choiceID string) (Pyramid, bool) {
	if p.PendingNodeSelection == nil || p.PendingNodeSelection.NodeID != def.ID {
		return p, false
	}
	choice, ok := def.Choice(choiceID)
	if !ok {
		return p, false
	}
	p = p.Clone()
	p.PendingNodeSelection = nil
	return p.grant(choice.Kind, choice.Grants), true
}

func (p Pyramid) grant(kind NodeKind, id string) Pyramid {
	if id == "" {
		return p
	}
	switch kind {
	case KindEthos:
		if !slices.Contains(p.UnlockedEthos, id) {
			p.UnlockedEthos = append(p.UnlockedEthos, id)
		}
	case KindPathos:
		if !slices.Contains(p.UnlockedPathos, id) {
			p.UnlockedPathos = append(p.UnlockedPathos, id)
		}
	}
	return p
}

// SelectIdentity adds an identity. Identities open at pyramid level 1.
func (p Pyramid) SelectIdentity(id string) (Pyramid, bool) {
	if id == "" || p.Level < 1 || len(p.Identities) >= MaxIdentities || slices.Contains(p.Identities, id) {
		return p, false
	}
	p = p.Clone()
	p.Identities = append(p.Identities, id)
	return p, true
}

// UpgradeLogos spends a skill point to raise def one level. The logos must
// belong to a selected identity and its level may not pass the pyramid level.
func (p Pyramid) UpgradeLogos(def LogosDef) (Pyramid, bool) {
	if p.SkillPoints < 1 || !slices.Contains(p.Identities, def.Identity) {
		return p, false
	}
	next := p.LogosLevels[def.ID] + 1
	if next > def.MaxLevel || next > p.Level {
		return p, false
	}
	p = p.Clone()
	if p.LogosLevels == nil {
		p.LogosLevels = map[string]int{}
	}
	p.LogosLevels[def.ID] = next
	p.SkillPoints--
	return p, true
}

// EquipPathos equips an unlocked pathos into a free slot.
func (p Pyramid) EquipPathos(id string) (Pyramid, bool) {
	if !slices.Contains(p.UnlockedPathos, id) || slices.Contains(p.EquippedPathos, id) ||
		len(p.EquippedPathos) >= MaxEquippedPathos {
		return p, false
	}
	p = p.Clone()
	p.EquippedPathos = append(p.EquippedPathos, id)
	return p, true
}

// UnequipPathos frees the slot holding id.
func (p Pyramid) UnequipPathos(id string) (Pyramid, bool) {
	i := slices.Index(p.EquippedPathos, id)
	if i < 0 {
		return p, false
	}
	p = p.Clone()
	p.EquippedPathos = slices.Delete(p.EquippedPathos, i, i+1)
	return p, true
}
