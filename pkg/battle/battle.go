// Package battle is the boundary between the run engine and the external
// combat simulator. The engine asks a Setup for an ActiveBattle when an
// encounter fires, threads the opaque payload through, and later applies the
// Outcome the simulator reports.
package battle

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/ether-engine/pkg/player"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

// Source is where an encounter was triggered.
type Source string

const (
	SourceMap     Source = "map"
	SourceDungeon Source = "dungeon"
)

// Result is the battle verdict.
type Result string

const (
	Victory Result = "victory"
	Defeat  Result = "defeat"
)

// ActiveBattle is an encounter in progress. Payload is owned by the
// simulator; the engine never inspects it.
type ActiveBattle struct {
	ID      uuid.UUID           `json:"id"`
	NodeID  string              `json:"nodeId"`
	Source  Source              `json:"source"`
	Payload json.RawMessage     `json:"payload,omitempty"`
	Rewards resources.Resources `json:"rewards"`
}

// Outcome is what the simulator reports back.
type Outcome struct {
	Result      Result `json:"result"`
	FinalHP     int    `json:"finalHp"`
	DamageDealt int    `json:"damageDealt"`
}

// Valid reports whether the outcome carries a known result.
func (o Outcome) Valid() bool {
	return o.Result == Victory || o.Result == Defeat
}

// Request carries what a Setup needs to assemble a battle.
type Request struct {
	NodeID string
	Source Source
	Risk   int
	Player player.Player
	Relics []string
}

// Setup assembles an ActiveBattle for an encounter.
type Setup interface {
	Build(req Request) (ActiveBattle, error)
}

// NewCombatant builds the d20 actor handed to the simulator for p.
// Ego bonuses are folded into the attributes.
func NewCombatant(id string, p player.Player) (*d20.Actor, error) {
	attrs := map[string]int{
		"strength": p.Stat(traits.StatStrength),
		"agility":  p.Stat(traits.StatAgility),
		"insight":  p.Stat(traits.StatInsight),
		"speed":    p.Stat(traits.StatSpeedBonus),
		"energy":   p.Stat(traits.StatEnergyBonus),
	}
	maxHP := max(p.Stat(traits.StatMaxHP), 1)
	actor, err := d20.NewActor(id).
		WithHP(maxHP).
		WithAC(10 + attrs["agility"]).
		WithAttributes(attrs).
		WithCombatModifiers(map[string]int{"strength": attrs["strength"]}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build combatant: %w", err)
	}
	if p.HP > 0 && p.HP < maxHP {
		if err := actor.SetHP(p.HP); err != nil {
			return nil, fmt.Errorf("failed to set combatant HP: %w", err)
		}
	}
	return actor, nil
}
