// Package render provides console renderers for a finished test report.
package render

import (
	"time"

	"github.com/dkoosis/mdreport/pkg/report"
	"github.com/dkoosis/mdreport/pkg/testjson"
)

// maxFailedListed caps the failed tests named in a console summary.
const maxFailedListed = 10

// Report is what a console summary is built from.
type Report struct {
	Result  report.Result
	Output  string // where the Markdown was written; "-" for stdout
	Precise bool
}

// Renderer converts a finished report to console output.
type Renderer interface {
	Render(r Report) string
}

// counts are the figures shown on the console, taken from the suite summary
// when there is one and from the completed tests otherwise.
type counts struct {
	outcome  testjson.Outcome
	total    int
	passed   uint64
	failed   uint64
	ignored  uint64
	filtered uint64
	elapsed  time.Duration
}

func countsOf(res report.Result) counts {
	c := counts{outcome: res.Outcome(), total: len(res.Tests)}
	if res.TestCount != nil {
		c.total = int(*res.TestCount)
	}
	if s := res.Summary; s != nil {
		c.passed, c.failed, c.ignored, c.filtered = s.Passed, s.Failed, s.Ignored, s.FilteredOut
		c.elapsed = s.ExecTime
		return c
	}
	for _, t := range res.Tests {
		if t.Outcome == testjson.OutcomeFailed {
			c.failed++
		} else {
			c.passed++
		}
		c.elapsed += t.ExecTime
	}
	return c
}
