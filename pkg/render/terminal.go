package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/mdreport/pkg/report"
)

// Terminal renders a styled summary block via lipgloss.
type Terminal struct {
	theme Theme
	width int
	title cases.Caser
	upper cases.Caser
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{
		theme: theme,
		width: width,
		title: cases.Title(language.English),
		upper: cases.Upper(language.English),
	}
}

// Render formats the report summary for terminal display.
func (t *Terminal) Render(r Report) string {
	c := countsOf(r.Result)

	var sb strings.Builder
	sb.WriteString(t.renderHeadline(c, r.Precise))
	sb.WriteString("\n  ")
	sb.WriteString(strings.Join([]string{
		t.metric(t.theme.Icons.Passed, t.theme.Passed, "passed", c.passed),
		t.metric(t.theme.Icons.Failed, t.theme.Failed, "failed", c.failed),
		t.metric(t.theme.Icons.Ignored, t.theme.Ignored, "ignored", c.ignored),
		t.metric(t.theme.Icons.Filtered, t.theme.Filtered, "filtered", c.filtered),
	}, "  "))
	sb.WriteString("\n")

	sb.WriteString(t.renderFailed(r.Result.FailedTests()))

	if r.Output != "" {
		out := r.Output
		if out == "-" {
			out = "stdout"
		}
		sb.WriteString("  ")
		sb.WriteString(t.theme.Filtered.Render(t.theme.Icons.Arrow + " " + out))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderHeadline(c counts, precise bool) string {
	icon, style := t.theme.outcome(c.outcome)
	head := style.Render(icon + " " + t.upper.String(c.outcome.String()))
	detail := fmt.Sprintf("%d tests in %s", c.total, report.FormatDuration(c.elapsed, precise))
	return t.theme.Heading.Render(head) + "  " + t.theme.Filtered.Render(detail)
}

func (t *Terminal) metric(icon string, style lipgloss.Style, label string, n uint64) string {
	return style.Render(fmt.Sprintf("%s %s: %d", icon, t.title.String(label), n))
}

func (t *Terminal) renderFailed(failed []report.TestRow) string {
	if len(failed) == 0 {
		return ""
	}
	var sb strings.Builder
	header := "Failed tests"
	if len(failed) > maxFailedListed {
		header += fmt.Sprintf(" (first %d of %d)", maxFailedListed, len(failed))
	}
	sb.WriteString("  ")
	sb.WriteString(t.theme.Heading.Render(header))
	sb.WriteString("\n")

	// "    · " prefix
	nameWidth := t.width - 4 - runewidth.StringWidth(t.theme.Icons.Bullet) - 1
	if nameWidth < 10 {
		nameWidth = 10
	}
	for i, f := range failed {
		if i == maxFailedListed {
			break
		}
		sb.WriteString("    ")
		sb.WriteString(t.theme.Failed.Render(t.theme.Icons.Bullet + " " + runewidth.Truncate(f.Name, nameWidth, "…")))
		sb.WriteString("\n")
	}
	return sb.String()
}
