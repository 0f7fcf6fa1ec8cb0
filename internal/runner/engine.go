package runner

import (
	"encoding/binary"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/logger"
	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/telemetry"
	"github.com/redis/go-redis/v9"
)

// stepMix spreads consecutive step counts across the seed space.
const stepMix = 0x9e3779b97f4a7c15

// NewEngineFactory returns a factory that builds a fresh engine per action.
// A non-zero seed derives the random stream from the seed, the run id and
// the run's step, so a replayed run draws the same values in the same order
// while successive actions draw different ones. A non-nil client publishes
// engine telemetry on the run's channel.
func NewEngineFactory(lib *content.Library, seed uint64, client *redis.Client, log *slog.Logger) EngineFactory {
	return func(runID uuid.UUID, step int) *state.Engine {
		e := state.NewEngine(lib, logger.WithRunID(log, runID.String()))
		if seed != 0 {
			e = e.WithSeed(seed ^ binary.BigEndian.Uint64(runID[:8]) ^ uint64(step+1)*stepMix)
		}
		if client != nil {
			e = e.WithRecorder(telemetry.NewRedisRecorder(client, runID.String(), log))
		}
		return e
	}
}
