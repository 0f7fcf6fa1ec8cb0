//go:build integration

package integration

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/ether-engine/integration/runner"
)

var caseFlag = flag.String("case", "", "Name of test case to run (from integration/cases/)")
var errFlag = flag.String("err", "continue", "Error handling mode: 'continue' (run all steps) or 'exit' (stop on first failure)")
var asyncFlag = flag.Bool("async", false, "Include cases with queued steps (needs a worker on the same Redis)")

func apiBaseURL() string {
	if u := os.Getenv("API_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func newRunner() *runner.Runner {
	r := runner.NewRunner(apiBaseURL())
	r.Timeout = time.Duration(getIntEnv("TEST_TIMEOUT_SECONDS", 30)) * time.Second
	r.ErrorHandlingMode = runner.ErrorHandlingMode(*errFlag)
	r.Logger = func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}
	return r
}

func TestMain(m *testing.M) {
	flag.Parse()
	fmt.Printf("Running Ether Engine Integration Tests\n")
	fmt.Printf("   API Base URL: %s\n", apiBaseURL())
	os.Exit(m.Run())
}

func TestIntegrationSuites(t *testing.T) {
	if *caseFlag != "" {
		t.Skip("single case requested")
	}

	testFiles, err := discoverTestFiles("cases")
	if err != nil {
		t.Fatalf("Failed to discover test files: %v", err)
	}
	if len(testFiles) == 0 {
		t.Fatal("No test files found in cases directory")
	}

	var jobs []runner.TestJob
	for _, file := range testFiles {
		// sequences only regroup cases that are discovered on their own
		if strings.HasSuffix(file, ".sequence.json") {
			continue
		}
		expandedJobs, err := runner.LoadTestSuiteWithExpansion(file, "cases")
		if err != nil {
			t.Errorf("Failed to load test suite %s: %v", file, err)
			continue
		}
		jobs = append(jobs, expandedJobs...)
	}

	runJobs(t, jobs)
}

func TestSingleSuite(t *testing.T) {
	if *caseFlag == "" {
		t.Skip("Skipping single suite test (use -case flag to run)")
	}
	name := *caseFlag
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	jobs, err := runner.LoadTestSuiteWithExpansion(filepath.Join("cases", name), "cases")
	if err != nil {
		t.Fatalf("Failed to load test suite %s: %v", name, err)
	}
	runJobs(t, jobs)
}

func runJobs(t *testing.T, jobs []runner.TestJob) {
	t.Helper()
	r := newRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var failed, passed []string
	for i, job := range jobs {
		if hasAsyncSteps(job.Suite) && !*asyncFlag {
			t.Logf("[%d/%d] SKIPPED: %s has queued steps (use -async)", i+1, len(jobs), job.Name)
			continue
		}
		t.Logf("[%d/%d] Starting test suite: %s (%d steps)", i+1, len(jobs), job.Name, len(job.Suite.Steps))

		result, err := r.RunSuite(ctx, job.Suite)
		if err != nil && result.Error == nil {
			result.Error = err
		}
		t.Logf("Run ID: %s", result.RunID)

		if result.Error != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", job.Name, result.Error))
			t.Errorf("[%d/%d] FAILED: Test suite '%s' failed: %v", i+1, len(jobs), job.Name, result.Error)
			continue
		}
		passed = append(passed, job.Name)
		t.Logf("[%d/%d] PASSED: Test suite '%s' completed in %v", i+1, len(jobs), job.Name, result.Duration)
	}

	sort.Strings(failed)
	t.Logf("Summary: %d passed, %d failed", len(passed), len(failed))
	for _, f := range failed {
		t.Logf("   - %s", f)
	}
}

func hasAsyncSteps(s runner.TestSuite) bool {
	for _, step := range s.Steps {
		if step.Async {
			return true
		}
	}
	return false
}

func discoverTestFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func getIntEnv(name string, defaultValue int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
