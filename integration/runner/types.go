package runner

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `json:"name"`
	Steps []TestStep `json:"steps,omitempty"` // Used for regular tests
	Cases []string   `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep dispatches one action envelope against the suite's run.
// Async steps go through the action queue and are only complete once the
// run changes, so they must name an action that will be accepted.
type TestStep struct {
	Name         string          `json:"name,omitempty"`
	Action       json.RawMessage `json:"action"`
	Async        bool            `json:"async,omitempty"`
	Expectations Expectations    `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Phase         *string `json:"phase,omitempty"`
	Changed       *bool   `json:"changed,omitempty"` // sync steps only
	RunOver       *bool   `json:"run_over,omitempty"`
	HP            *int    `json:"hp,omitempty"`
	Gold          *int    `json:"gold,omitempty"`
	EtherPts      *int    `json:"ether_pts,omitempty"`
	Memory        *int    `json:"memory,omitempty"`
	MapRisk       *int    `json:"map_risk,omitempty"`
	CurrentNodeID *string `json:"current_node_id,omitempty"`

	Relics       []string `json:"relics,omitempty"`        // full relic list (order independent)
	ItemsContain []string `json:"items_contain,omitempty"` // items that must occupy some slot
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName  string
	Success   bool
	Error     error
	Duration  time.Duration
	RequestID string // set for async steps
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	RunID    uuid.UUID // ID of the run used for this test
}
