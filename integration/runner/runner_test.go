package runner

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/handlers"
	"github.com/jwebster45206/ether-engine/internal/queue"
	"github.com/jwebster45206/ether-engine/internal/runlock"
	internalrunner "github.com/jwebster45206/ether-engine/internal/runner"
	"github.com/jwebster45206/ether-engine/internal/worker"
	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startStack serves the run API with a queue and one worker behind it.
func startStack(t *testing.T) string {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	lib, err := content.Default()
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := storage.NewMemoryStorage()
	runs := internalrunner.New(store, internalrunner.NewEngineFactory(lib, 11, nil, log), log).
		WithLocker(runlock.NewRedis(client, "test"))
	q := queue.NewActionQueue(client)

	mux := http.NewServeMux()
	h := handlers.NewRunHandler(runs, log).WithQueue(q)
	mux.Handle("/v1/runs", h)
	mux.Handle("/v1/runs/", h)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	w := worker.New(q, runs, client, log, "test-worker")
	go func() { _ = w.Start() }()
	t.Cleanup(w.Stop)

	return srv.URL
}

func TestRunSuite_Cases(t *testing.T) {
	baseURL := startStack(t)
	r := NewRunner(baseURL)
	r.Timeout = 5 * time.Second

	files, err := filepath.Glob(filepath.Join("..", "cases", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		jobs, err := LoadTestSuiteWithExpansion(file, filepath.Join("..", "cases"))
		require.NoError(t, err, file)
		for _, job := range jobs {
			t.Run(job.Name, func(t *testing.T) {
				result, err := r.RunSuite(context.Background(), job.Suite)
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, result.RunID)
				for _, step := range result.Results {
					assert.True(t, step.Success, step.StepName)
				}
			})
		}
	}
}

func TestRunSuite_ReportsFailures(t *testing.T) {
	baseURL := startStack(t)
	r := NewRunner(baseURL)
	r.ErrorHandlingMode = ErrorHandlingExit

	gold := 1
	suite := TestSuite{
		Name: "wrong gold",
		Steps: []TestStep{
			{Name: "first", Action: []byte(`{"type":"closeShop"}`), Expectations: Expectations{Gold: &gold}},
			{Name: "never run", Action: []byte(`{"type":"closeShop"}`)},
		},
	}
	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Len(t, result.Results, 1)
	assert.Contains(t, err.Error(), "expected gold to be 1")
}

func TestLoadTestSuiteWithExpansion_Sequence(t *testing.T) {
	cases := filepath.Join("..", "cases")
	jobs, err := LoadTestSuiteWithExpansion(filepath.Join(cases, "all.sequence.json"), cases)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)

	_, err = LoadTestSuiteWithExpansion(filepath.Join(cases, "missing.json"), cases)
	assert.Error(t, err)
}

func TestCheckExpectations(t *testing.T) {
	gs := &state.GameState{Relics: []string{"b", "a"}}
	gs.Items[1] = "ether_vial"

	phase := "map"
	changed := true
	assert.NoError(t, CheckExpectations(Expectations{Phase: &phase, Relics: []string{"a", "b"}, ItemsContain: []string{"ether_vial"}}, gs, nil))
	assert.Error(t, CheckExpectations(Expectations{Changed: &changed}, gs, nil))
	assert.Error(t, CheckExpectations(Expectations{Relics: []string{"a"}}, gs, nil))
	assert.Error(t, CheckExpectations(Expectations{ItemsContain: []string{"battle_tonic"}}, gs, nil))
	assert.Error(t, CheckExpectations(Expectations{}, nil, nil))
}
