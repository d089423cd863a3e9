// Package runner defines the per-test-case outcome contract used by the
// submission pipeline: one outcome per test case, each carrying observed
// versus expected output. The default implementation simulates outcomes;
// pkg/sandbox provides real execution behind the same interface.
package runner

import (
	"context"
	"fmt"
	"hash/fnv"
)

// Case is one test case to judge a solution against.
type Case struct {
	Index          int
	Input          string
	ExpectedOutput string
}

// CaseSet bundles the cases of a problem with its execution limits.
type CaseSet struct {
	TimeLimitSec  int
	MemoryLimitMB int
	Cases         []Case
}

// Outcome is the judged result of one test case.
type Outcome struct {
	CaseIndex      int
	Passed         bool
	ExpectedOutput string
	ActualOutput   string
	Detail         string
}

// Runner produces exactly one outcome per test case in case order.
type Runner interface {
	RunCases(ctx context.Context, code string, set CaseSet) ([]Outcome, error)
}

// SimulatedRunner derives pass/fail outcomes from a hash of the code and
// each case, targeting an 80% pass rate. Unlike a random draw, identical
// submissions always judge identically, so results are reproducible.
type SimulatedRunner struct{}

// NewSimulatedRunner constructs the deterministic simulation runner.
func NewSimulatedRunner() *SimulatedRunner {
	return &SimulatedRunner{}
}

// RunCases judges every case of the set. It never fails.
func (r *SimulatedRunner) RunCases(_ context.Context, code string, set CaseSet) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(set.Cases))
	for _, testCase := range set.Cases {
		passed := simulatePass(code, testCase)
		outcome := Outcome{
			CaseIndex:      testCase.Index,
			Passed:         passed,
			ExpectedOutput: testCase.ExpectedOutput,
		}
		if passed {
			outcome.ActualOutput = testCase.ExpectedOutput
		} else {
			outcome.Detail = "output did not match expected output"
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func simulatePass(code string, testCase Case) bool {
	hasher := fnv.New32a()
	fmt.Fprintf(hasher, "%s\x00%d\x00%s", code, testCase.Index, testCase.Input)
	return hasher.Sum32()%100 < 80
}
