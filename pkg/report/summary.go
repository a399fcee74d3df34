package report

import (
	"time"

	"github.com/dkoosis/mdreport/pkg/testjson"
)

// Summary aggregates every suite completion event seen in a run.
type Summary struct {
	Outcome     testjson.Outcome
	Passed      uint64
	Failed      uint64
	Ignored     uint64
	FilteredOut uint64
	ExecTime    time.Duration
}

// SummaryOf converts a single suite completion event.
func SummaryOf(e testjson.SuiteFinished) Summary {
	return Summary{
		Outcome:     e.Outcome,
		Passed:      e.Passed,
		Failed:      e.Failed,
		Ignored:     e.Ignored,
		FilteredOut: e.FilteredOut,
		ExecTime:    e.ExecTime,
	}
}

// Merge combines two summaries. Counts and durations add up; a failed
// outcome on either side makes the result failed.
func (s Summary) Merge(o Summary) Summary {
	out := Summary{
		Outcome:     s.Outcome,
		Passed:      s.Passed + o.Passed,
		Failed:      s.Failed + o.Failed,
		Ignored:     s.Ignored + o.Ignored,
		FilteredOut: s.FilteredOut + o.FilteredOut,
		ExecTime:    s.ExecTime + o.ExecTime,
	}
	if o.Outcome == testjson.OutcomeFailed {
		out.Outcome = testjson.OutcomeFailed
	}
	return out
}

// Glyph returns the emoji used for an outcome in the report.
func Glyph(o testjson.Outcome) string {
	if o == testjson.OutcomeFailed {
		return "❌"
	}
	return "✅"
}
