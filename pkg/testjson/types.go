// Package testjson decodes libtest JSON test events (cargo test --format json)
// and translates go test -json streams into the same event model.
package testjson

import "time"

// Outcome is the binary result of a suite or a single test.
type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeFailed
)

// String returns the wire name of the outcome ("ok" or "failed").
func (o Outcome) String() string {
	if o == OutcomeFailed {
		return EventFailed
	}
	return EventOk
}

// Wire discriminators. Both are matched case-sensitively.
const (
	TypeSuite = "suite"
	TypeTest  = "test"

	EventStarted = "started"
	EventOk      = "ok"
	EventFailed  = "failed"
)

// Event is one decoded line of test output. The concrete type is one of
// SuiteStarted, SuiteFinished, TestStarted or TestFinished.
type Event interface {
	event()
}

// SuiteEvent is implemented by the suite variants.
type SuiteEvent interface {
	Event
	suite()
}

// TestEvent is implemented by the test variants.
type TestEvent interface {
	Event
	TestName() string
}

// SuiteStarted announces how many tests a suite is going to run.
type SuiteStarted struct {
	TestCount uint64
}

// SuiteFinished carries the totals of a completed suite. Outcome
// distinguishes the "ok" and "failed" wire events.
type SuiteFinished struct {
	Outcome     Outcome
	Passed      uint64
	Failed      uint64
	AllowedFail uint64 // parsed, not reported
	Ignored     uint64
	FilteredOut uint64
	ExecTime    time.Duration
}

// TestStarted marks the beginning of a single test.
type TestStarted struct {
	Name string
}

// TestFinished marks the completion of a single test. Stdout is only
// populated for failed tests.
type TestFinished struct {
	Outcome  Outcome
	Name     string
	ExecTime time.Duration
	Stdout   string
}

func (SuiteStarted) event()  {}
func (SuiteFinished) event() {}
func (TestStarted) event()   {}
func (TestFinished) event()  {}

func (SuiteStarted) suite()  {}
func (SuiteFinished) suite() {}

// TestName returns the test's name.
func (e TestStarted) TestName() string { return e.Name }

// TestName returns the test's name.
func (e TestFinished) TestName() string { return e.Name }
