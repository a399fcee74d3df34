package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/mdreport/pkg/report"
	"github.com/dkoosis/mdreport/pkg/testjson"
)

// Plain renders the summary as terse text with no ANSI codes, for logs
// that are not a terminal.
type Plain struct{}

// NewPlain creates a plain text renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Render formats the report summary as one status line followed by the
// failed test names.
func (p *Plain) Render(r Report) string {
	c := countsOf(r.Result)

	status := "PASS"
	if c.outcome == testjson.OutcomeFailed {
		status = "FAIL"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d tests (%d passed, %d failed, %d ignored, %d filtered) in %s",
		status, c.total, c.passed, c.failed, c.ignored, c.filtered,
		report.FormatDuration(c.elapsed, r.Precise))
	if r.Output != "" && r.Output != "-" {
		sb.WriteString(" -> " + r.Output)
	}
	sb.WriteString("\n")

	failed := r.Result.FailedTests()
	for i, f := range failed {
		if i == maxFailedListed {
			fmt.Fprintf(&sb, "  ... %d more\n", len(failed)-maxFailedListed)
			break
		}
		sb.WriteString("  " + f.Name + "\n")
	}
	return sb.String()
}
