package report

import (
	"time"

	"github.com/dkoosis/mdreport/pkg/testjson"
)

// TestRow is one completed test as it appears in the index and details.
type TestRow struct {
	Name     string
	Outcome  testjson.Outcome
	ExecTime time.Duration
	Stdout   string
}

// Result is a read-only snapshot of a finished report.
type Result struct {
	Summary   *Summary  // nil when no suite completed
	TestCount *uint64   // nil when no suite announced a count
	Tests     []TestRow // completed tests in encounter order
}

// Outcome is the summary's outcome, or, without a summary, failed when any
// completed test failed.
func (r Result) Outcome() testjson.Outcome {
	if r.Summary != nil {
		return r.Summary.Outcome
	}
	if len(r.FailedTests()) > 0 {
		return testjson.OutcomeFailed
	}
	return testjson.OutcomeOk
}

// FailedTests returns the failed rows in encounter order.
func (r Result) FailedTests() []TestRow {
	var failed []TestRow
	for _, t := range r.Tests {
		if t.Outcome == testjson.OutcomeFailed {
			failed = append(failed, t)
		}
	}
	return failed
}
