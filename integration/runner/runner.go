package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running ether-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           ActionTimeout,
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite against a fresh run
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	created, err := CreateRun(ctx, r.Client, r.BaseURL)
	if err != nil {
		result.Error = fmt.Errorf("failed to create run: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.RunID = created.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.executeStep(ctx, created.ID, step)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}
		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// executeStep performs the actual step execution
func (r *Runner) executeStep(ctx context.Context, runID uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	fail := func(err error) TestResult {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	var (
		post    *state.GameState
		changed *bool
	)
	if step.Async {
		before, err := GetRun(ctx, r.Client, r.BaseURL, runID)
		if err != nil {
			return fail(fmt.Errorf("failed to get run before action: %w", err))
		}
		requestID, err := PostActionAsync(ctx, r.Client, r.BaseURL, runID, step.Action)
		if err != nil {
			return fail(fmt.Errorf("failed to queue action: %w", err))
		}
		result.RequestID = requestID
		post, err = PollForChange(ctx, r.Client, r.BaseURL, runID, before, r.Timeout)
		if err != nil {
			return fail(fmt.Errorf("failed to poll for worker: %w", err))
		}
	} else {
		resp, err := PostAction(ctx, r.Client, r.BaseURL, runID, step.Action)
		if err != nil {
			return fail(fmt.Errorf("failed to post action: %w", err))
		}
		post, changed = resp.State, &resp.Changed
	}

	if err := CheckExpectations(step.Expectations, post, changed); err != nil {
		return fail(fmt.Errorf("expectation failed: %w", err))
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// CheckExpectations validates the expectations against the run after a step.
// changed is nil when the step did not report it.
func CheckExpectations(exp Expectations, gs *state.GameState, changed *bool) error {
	if gs == nil {
		return fmt.Errorf("no run state returned")
	}

	if exp.Changed != nil {
		if changed == nil {
			return fmt.Errorf("changed cannot be checked on an async step")
		}
		if *changed != *exp.Changed {
			return fmt.Errorf("expected changed to be %t, got %t", *exp.Changed, *changed)
		}
	}

	if exp.Phase != nil {
		if phase := state.Phase(gs); phase != *exp.Phase {
			return fmt.Errorf("expected phase %s, got %s", *exp.Phase, phase)
		}
	}

	if exp.RunOver != nil && gs.RunOver != *exp.RunOver {
		return fmt.Errorf("expected run_over to be %t, got %t", *exp.RunOver, gs.RunOver)
	}

	ints := []struct {
		name string
		want *int
		got  int
	}{
		{"hp", exp.HP, gs.Player.HP},
		{"gold", exp.Gold, gs.Resources.Gold},
		{"ether_pts", exp.EtherPts, gs.Resources.EtherPts},
		{"memory", exp.Memory, gs.Resources.Memory},
		{"map_risk", exp.MapRisk, gs.MapRisk},
	}
	for _, c := range ints {
		if c.want != nil && *c.want != c.got {
			return fmt.Errorf("expected %s to be %d, got %d", c.name, *c.want, c.got)
		}
	}

	if exp.CurrentNodeID != nil && gs.CurrentNodeID != *exp.CurrentNodeID {
		return fmt.Errorf("expected current_node_id %s, got %s", *exp.CurrentNodeID, gs.CurrentNodeID)
	}

	// Full relic check (order independent)
	if exp.Relics != nil {
		want, got := slices.Sorted(slices.Values(exp.Relics)), slices.Sorted(slices.Values(gs.Relics))
		if !slices.Equal(want, got) {
			return fmt.Errorf("expected relics %v, got %v", exp.Relics, gs.Relics)
		}
	}

	for _, item := range exp.ItemsContain {
		if !slices.Contains(gs.Items[:], item) {
			return fmt.Errorf("expected items to contain '%s', got %v", item, gs.Items)
		}
	}

	return nil
}
