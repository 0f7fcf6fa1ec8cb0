package dungeon

import (
	"math/rand/v2"

	"github.com/jwebster45206/ether-engine/pkg/resources"
)

// EncounterKind describes what entering a room produced.
type EncounterKind string

const (
	EncounterNone     EncounterKind = "none"
	EncounterBattle   EncounterKind = "battle"
	EncounterEvent    EncounterKind = "event"
	EncounterTreasure EncounterKind = "treasure"
)

// Encounter is the result of resolving travel into a room.
type Encounter struct {
	Kind    EncounterKind       `json:"kind"`
	EventID string              `json:"eventId,omitempty"`
	Reward  resources.Resources `json:"reward,omitempty"`
}

// TravelResolver decides what happens when the player enters a room.
type TravelResolver interface {
	Resolve(rng *rand.Rand, room Node, risk int) Encounter
}

// TableResolver maps room types to encounters. Event rooms draw uniformly
// from EventPool; treasure rooms pay Treasure plus a risk-scaled gold bonus.
type TableResolver struct {
	EventPool []string
	Treasure  resources.Resources
}

func (r TableResolver) Resolve(rng *rand.Rand, room Node, risk int) Encounter {
	if room.Cleared {
		return Encounter{Kind: EncounterNone}
	}
	switch room.Type {
	case RoomBattle:
		return Encounter{Kind: EncounterBattle}
	case RoomEvent:
		if len(r.EventPool) == 0 {
			return Encounter{Kind: EncounterNone}
		}
		return Encounter{Kind: EncounterEvent, EventID: r.EventPool[rng.IntN(len(r.EventPool))]}
	case RoomTreasure:
		reward := r.Treasure.Add(resources.Resources{Gold: risk / 5})
		return Encounter{Kind: EncounterTreasure, Reward: reward}
	}
	return Encounter{Kind: EncounterNone}
}
