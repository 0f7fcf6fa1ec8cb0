// Package state is the run engine: one immutable GameState snapshot per
// step, a reducer per named action, and a Store that serialises dispatch
// and notifies subscribers.
package state

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/jwebster45206/ether-engine/pkg/dungeon"
	"github.com/jwebster45206/ether-engine/pkg/growth"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/player"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/telemetry"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

// DefaultMerchant is the merchant opened by shop map nodes.
const DefaultMerchant = "general"

// StartingResources is the balance of a fresh run before relic effects.
var StartingResources = resources.Resources{Gold: 100, EtherPts: 20}

// Engine applies actions to snapshots. Collaborators are injected; an Engine
// is not safe for concurrent use and is normally owned by one Store.
type Engine struct {
	lib      *content.Library
	logger   *slog.Logger
	rng      *rand.Rand
	maps     mapgraph.Generator
	dungeons dungeon.Generator
	travel   dungeon.TravelResolver
	battles  battle.Setup
	recorder telemetry.Recorder

	startingRelics   []string
	startingResource resources.Resources
	merchant         string
}

// NewEngine creates an engine with the default generators, a local battle
// setup and a no-op recorder.
func NewEngine(lib *content.Library, logger *slog.Logger) *Engine {
	return &Engine{
		lib:              lib,
		logger:           logger,
		rng:              rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		maps:             mapgraph.DefaultGenerator(),
		dungeons:         dungeon.DefaultGenerator(),
		travel:           dungeon.TableResolver{EventPool: lib.EventIDs(), Treasure: resources.Resources{Gold: 25, Material: 1}},
		battles:          battle.DefaultSetup(),
		recorder:         telemetry.Nop{},
		startingResource: StartingResources,
		merchant:         DefaultMerchant,
	}
}

// WithSeed makes every random draw reproducible.
func (e *Engine) WithSeed(seed uint64) *Engine {
	e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return e
}

func (e *Engine) WithMapGenerator(g mapgraph.Generator) *Engine {
	e.maps = g
	return e
}

func (e *Engine) WithDungeonGenerator(g dungeon.Generator) *Engine {
	e.dungeons = g
	return e
}

func (e *Engine) WithTravelResolver(r dungeon.TravelResolver) *Engine {
	e.travel = r
	return e
}

func (e *Engine) WithBattleSetup(s battle.Setup) *Engine {
	e.battles = s
	return e
}

func (e *Engine) WithRecorder(r telemetry.Recorder) *Engine {
	e.recorder = r
	return e
}

// WithStartingRelics sets relics owned from the start of every run.
func (e *Engine) WithStartingRelics(ids ...string) *Engine {
	e.startingRelics = slices.Clone(ids)
	return e
}

// WithStartingResources overrides the balance of a fresh run.
func (e *Engine) WithStartingResources(r resources.Resources) *Engine {
	e.startingResource = r
	return e
}

// Library returns the content the engine resolves ids against.
func (e *Engine) Library() *content.Library {
	return e.lib
}

// NewRun builds the initial snapshot of a run, including run-start relic
// effects.
func (e *Engine) NewRun() *GameState {
	gs := &GameState{
		Resources:       e.startingResource,
		Player:          player.New(e.lib.StartingDeck()),
		Map:             e.maps.Generate(e.rng),
		MapRisk:         mapgraph.RiskDefault,
		CardGrowth:      growth.Ledger{},
		Growth:          growth.NewPyramid(),
		ItemBuffs:       map[traits.Stat]int{},
		Relics:          []string{},
		CompletedEvents: []string{},
	}
	for _, id := range e.startingRelics {
		relic, ok := e.lib.Relic(id)
		if !ok {
			e.logger.Warn("Unknown starting relic", "relic_id", id)
			continue
		}
		if slices.Contains(gs.Relics, id) {
			continue
		}
		gs.Relics = append(gs.Relics, id)
		gs.Resources = gs.Resources.Add(relic.RunStart)
	}
	return gs
}

// Reduce applies a to gs. A rejected action returns gs itself and false;
// an accepted one returns a new snapshot and true. gs is never modified.
func (e *Engine) Reduce(gs *GameState, a Action) (*GameState, bool) {
	if gs == nil || a == nil {
		return gs, false
	}
	a = deref(a)
	if gs.RunOver {
		e.logger.Debug("Action rejected: run is over", "action", a.Type())
		return gs, false
	}

	var next *GameState
	switch act := a.(type) {
	case SelectNode:
		next = e.selectNode(gs, act)
	case SetMapRisk:
		next = e.setMapRisk(gs, act)
	case RevealDungeon:
		next = e.revealDungeon(gs)
	case ConfirmDungeon:
		next = e.confirmDungeon(gs)
	case EnterDungeon:
		next = e.enterDungeon(gs)
	case NavigateDungeonNode:
		next = e.navigateDungeonNode(gs, act)
	case ApplyDungeonTimePenalty:
		next = e.applyDungeonTimePenalty(gs, act)
	case CompleteDungeon:
		next = e.exitDungeon(gs, true)
	case BypassDungeon, SkipDungeon:
		next = e.exitDungeon(gs, false)
	case ChooseEvent:
		next = e.chooseEvent(gs, act)
	case InvokePrayer:
		next = e.invokePrayer(gs, act)
	case CloseEvent:
		next = e.closeEvent(gs)
	case EnhanceCard:
		next = e.enhanceCard(gs, act)
	case SpecializeCard:
		next = e.specializeCard(gs, act)
	case AwakenAtRest:
		next = e.awakenAtRest(gs, act)
	case HealAtRest:
		next = e.healAtRest(gs)
	case CloseRest:
		next = e.closeRest(gs)
	case FormEgo:
		next = e.formEgo(gs, act)
	case UnlockGrowthNode:
		next = e.unlockGrowthNode(gs, act)
	case SelectNodeChoice:
		next = e.selectNodeChoice(gs, act)
	case SelectIdentity:
		next = e.selectIdentity(gs, act)
	case UpgradeLogos:
		next = e.upgradeLogos(gs, act)
	case EquipPathos:
		next = e.equipPathos(gs, act)
	case UnequipPathos:
		next = e.unequipPathos(gs, act)
	case OpenShop:
		next = e.openShop(gs, act)
	case BuyShopEntry:
		next = e.buyShopEntry(gs, act)
	case SellItem:
		next = e.sellItem(gs, act)
	case CloseShop:
		next = e.closeShop(gs)
	case AddItem:
		next = e.addItem(gs, act)
	case UseItem:
		next = e.useItem(gs, act)
	case RemoveItem:
		next = e.removeItem(gs, act)
	case AddRelic:
		next = e.addRelic(gs, act)
	case RemoveRelic:
		next = e.removeRelic(gs, act)
	case ResolveBattle:
		next = e.resolveBattle(gs, act)
	case ClearBattle:
		next = e.clearBattle(gs)
	case AddResources:
		next = e.addResources(gs, act)
	case ApplyEtherDelta:
		next = e.applyEtherDelta(gs, act)
	default:
		e.logger.Warn("Unhandled action type", "action", a.Type())
		return gs, false
	}

	if next == nil || next == gs {
		return gs, false
	}
	next.Step = gs.Step + 1
	return next, true
}

// reject logs a silent rejection at debug level and returns nil so callers
// can write `return e.reject(...)`.
func (e *Engine) reject(a ActionType, reason string, args ...any) *GameState {
	e.logger.Debug("Action rejected", append([]any{"action", a, "reason", reason}, args...)...)
	return nil
}
