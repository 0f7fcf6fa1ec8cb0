package battle

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/resources"
)

// CombatantSnapshot is the serialised player side of a battle payload.
type CombatantSnapshot struct {
	ID         string         `json:"id"`
	HP         int            `json:"hp"`
	MaxHP      int            `json:"maxHp"`
	AC         int            `json:"ac"`
	Attributes map[string]int `json:"attributes"`
	Hand       []string       `json:"hand"`
	Relics     []string       `json:"relics,omitempty"`
}

// EnemyInfo describes the opposing side.
type EnemyInfo struct {
	Tier  int `json:"tier"`
	HP    int `json:"hp"`
	Power int `json:"power"`
}

// Payload is what LocalSetup hands to the simulator.
type Payload struct {
	Player CombatantSnapshot `json:"player"`
	Enemy  EnemyInfo         `json:"enemy"`
}

// LocalSetup builds battles in-process: the player side comes from the
// character sheet and the enemy and rewards scale with the risk dial.
type LocalSetup struct {
	HandSize   int
	BaseReward resources.Resources
}

// DefaultSetup returns the setup used when no simulator is configured.
func DefaultSetup() LocalSetup {
	return LocalSetup{
		HandSize:   5,
		BaseReward: resources.Resources{Gold: 20, Loot: 1, EtherPts: 5},
	}
}

func (s LocalSetup) Build(req Request) (ActiveBattle, error) {
	actor, err := NewCombatant("player", req.Player)
	if err != nil {
		return ActiveBattle{}, err
	}

	attrs := map[string]int{}
	for _, key := range []string{"strength", "agility", "insight", "speed", "energy"} {
		if v, ok := actor.Attribute(key); ok {
			attrs[key] = v
		}
	}

	hand := req.Player.Cards
	if s.HandSize > 0 && len(hand) > s.HandSize {
		hand = hand[:s.HandSize]
	}

	tier := 1 + req.Risk/20
	if req.Source == SourceDungeon {
		tier++
	}

	payload := Payload{
		Player: CombatantSnapshot{
			ID:         "player",
			HP:         actor.HP(),
			MaxHP:      actor.MaxHP(),
			AC:         actor.AC(),
			Attributes: attrs,
			Hand:       append([]string(nil), hand...),
			Relics:     append([]string(nil), req.Relics...),
		},
		Enemy: EnemyInfo{
			Tier:  tier,
			HP:    30 + tier*15,
			Power: 4 + tier*2,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return ActiveBattle{}, fmt.Errorf("failed to marshal battle payload: %w", err)
	}

	rewards := s.BaseReward.Add(resources.Resources{Gold: tier * 5})
	return ActiveBattle{
		ID:      uuid.New(),
		NodeID:  req.NodeID,
		Source:  req.Source,
		Payload: raw,
		Rewards: rewards,
	}, nil
}
