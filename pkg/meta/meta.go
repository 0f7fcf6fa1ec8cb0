// Package meta persists progress that outlives a single run: lifetime
// statistics, unlocks, achievements, permanent upgrades and soul fragments.
//
// Load never fails. A missing or corrupt record yields Default, and fields
// absent from an older record keep their default values.
package meta

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/storage"
)

// Key is the blob key the record is stored under.
const Key = "meta-progress"

// Version is the current record schema version.
const Version = 1

// SoulFragmentsPerBattle is paid out per battle won when a run is recorded.
const SoulFragmentsPerBattle = 2

// Stats are lifetime totals across every recorded run.
type Stats struct {
	RunsStarted       int `json:"runsStarted"`
	RunsEnded         int `json:"runsEnded"`
	Deaths            int `json:"deaths"`
	NodesVisited      int `json:"nodesVisited"`
	BattlesWon        int `json:"battlesWon"`
	BattlesLost       int `json:"battlesLost"`
	EventsResolved    int `json:"eventsResolved"`
	DungeonsCompleted int `json:"dungeonsCompleted"`
}

// Progress is the persisted record.
type Progress struct {
	Version           int            `json:"version"`
	Stats             Stats          `json:"stats"`
	Unlocks           []string       `json:"unlocks"`
	Achievements      []string       `json:"achievements"`
	PermanentUpgrades map[string]int `json:"permanentUpgrades"`
	SoulFragments     int            `json:"soulFragments"`
}

// Default is the record for a player with no history.
func Default() Progress {
	return Progress{
		Version:           Version,
		Unlocks:           []string{},
		Achievements:      []string{},
		PermanentUpgrades: map[string]int{},
	}
}

// Clone returns a deep copy of p.
func (p Progress) Clone() Progress {
	p.Unlocks = slices.Clone(p.Unlocks)
	p.Achievements = slices.Clone(p.Achievements)
	p.PermanentUpgrades = maps.Clone(p.PermanentUpgrades)
	return p
}

// normalize repairs fields an older or hand-edited record may carry.
func (p Progress) normalize() Progress {
	p.Version = Version
	if p.Unlocks == nil {
		p.Unlocks = []string{}
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	if p.PermanentUpgrades == nil {
		p.PermanentUpgrades = map[string]int{}
	}
	p.SoulFragments = max(p.SoulFragments, 0)
	return p
}

// Decode parses a stored record. Corrupt input reports false and Default.
func Decode(data []byte) (Progress, bool) {
	if len(data) == 0 {
		return Default(), false
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), false
	}
	return p.normalize(), true
}

// Load reads the record from store, substituting Default on any failure.
func Load(ctx context.Context, store storage.BlobStore, logger *slog.Logger) Progress {
	data, err := store.LoadBlob(ctx, Key)
	if err != nil {
		logger.Warn("Failed to load meta progress, using defaults", "error", err)
		return Default()
	}
	if data == nil {
		return Default()
	}
	p, ok := Decode(data)
	if !ok {
		logger.Warn("Corrupt meta progress, using defaults", "bytes", len(data))
	}
	return p
}

// Save writes p under Key.
func Save(ctx context.Context, store storage.BlobStore, p Progress) error {
	p = p.normalize()
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return store.SaveBlob(ctx, Key, data)
}

// Unlock adds id to the unlock list once.
func (p Progress) Unlock(id string) Progress {
	if id == "" || slices.Contains(p.Unlocks, id) {
		return p
	}
	p = p.Clone()
	p.Unlocks = append(p.Unlocks, id)
	return p
}

// BuyUpgrade spends cost soul fragments to raise upgrade id one level.
func (p Progress) BuyUpgrade(id string, cost int) (Progress, bool) {
	if id == "" || cost < 0 || p.SoulFragments < cost {
		return p, false
	}
	p = p.Clone()
	if p.PermanentUpgrades == nil {
		p.PermanentUpgrades = map[string]int{}
	}
	p.SoulFragments -= cost
	p.PermanentUpgrades[id]++
	return p, true
}

// achievement is granted the first time its test passes after a run.
type achievement struct {
	id   string
	test func(Stats) bool
}

var achievements = []achievement{
	{"first_blood", func(s Stats) bool { return s.BattlesWon >= 1 }},
	{"delver", func(s Stats) bool { return s.DungeonsCompleted >= 1 }},
	{"storyteller", func(s Stats) bool { return s.EventsResolved >= 10 }},
	{"veteran", func(s Stats) bool { return s.RunsEnded >= 10 }},
}

// RecordRun folds a finished run into the lifetime totals, pays soul
// fragments and grants any newly earned achievements.
func (p Progress) RecordRun(gs *state.GameState) Progress {
	if gs == nil {
		return p
	}
	p = p.Clone()
	p.Stats.RunsEnded++
	if gs.Player.HP <= 0 {
		p.Stats.Deaths++
	}
	p.Stats.NodesVisited += gs.Stats.NodesVisited
	p.Stats.BattlesWon += gs.Stats.BattlesWon
	p.Stats.BattlesLost += gs.Stats.BattlesLost
	p.Stats.EventsResolved += gs.Stats.EventsResolved
	p.Stats.DungeonsCompleted += gs.Stats.DungeonsCompleted
	p.SoulFragments += gs.Stats.BattlesWon * SoulFragmentsPerBattle

	for _, a := range achievements {
		if a.test(p.Stats) && !slices.Contains(p.Achievements, a.id) {
			p.Achievements = append(p.Achievements, a.id)
		}
	}
	return p
}

// RunStarted bumps the started counter.
func (p Progress) RunStarted() Progress {
	p = p.Clone()
	p.Stats.RunsStarted++
	return p
}
