package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dkoosis/mdreport/pkg/report"
	"github.com/dkoosis/mdreport/pkg/testjson"
)

func failedResult() report.Result {
	total := uint64(2)
	return report.Result{
		Summary: &report.Summary{
			Outcome:  testjson.OutcomeFailed,
			Passed:   1,
			Failed:   1,
			ExecTime: 1700 * time.Millisecond,
		},
		TestCount: &total,
		Tests: []report.TestRow{
			{Name: "a", Outcome: testjson.OutcomeOk, ExecTime: 1500 * time.Millisecond},
			{Name: "b", Outcome: testjson.OutcomeFailed, ExecTime: 200 * time.Millisecond, Stdout: "boom"},
		},
	}
}

func manyFailures(n int) report.Result {
	var res report.Result
	for i := 0; i < n; i++ {
		res.Tests = append(res.Tests, report.TestRow{
			Name:    fmt.Sprintf("tests::case_%02d", i),
			Outcome: testjson.OutcomeFailed,
		})
	}
	return res
}

func TestTerminal_Render(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render(Report{Result: failedResult(), Output: "report.md"})

	assert.Contains(t, out, "x FAILED")
	assert.Contains(t, out, "2 tests in 1s")
	assert.Contains(t, out, "+ Passed: 1")
	assert.Contains(t, out, "x Failed: 1")
	assert.Contains(t, out, "! Ignored: 0")
	assert.Contains(t, out, "* Filtered: 0")
	assert.Contains(t, out, "Failed tests\n")
	assert.Contains(t, out, "    - b\n")
	assert.NotContains(t, out, "    - a\n")
	assert.Contains(t, out, "-> report.md")
}

func TestTerminal_RenderPassedToStdout(t *testing.T) {
	res := report.Result{Tests: []report.TestRow{{Name: "a", Outcome: testjson.OutcomeOk}}}
	out := NewTerminal(MonoTheme(), 80).Render(Report{Result: res, Output: "-", Precise: true})

	assert.Contains(t, out, "+ OK")
	assert.Contains(t, out, "1 tests in 0s")
	assert.NotContains(t, out, "Failed tests")
	assert.Contains(t, out, "-> stdout")
}

func TestTerminal_CapsFailedList(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render(Report{Result: manyFailures(12)})

	assert.Contains(t, out, "Failed tests (first 10 of 12)")
	assert.Equal(t, 10, strings.Count(out, "    - tests::case_"))
	assert.Contains(t, out, "tests::case_09")
	assert.NotContains(t, out, "tests::case_10")
}

func TestTerminal_TruncatesLongNames(t *testing.T) {
	res := report.Result{Tests: []report.TestRow{{
		Name:    strings.Repeat("測試", 40),
		Outcome: testjson.OutcomeFailed,
	}}}
	out := NewTerminal(MonoTheme(), 40).Render(Report{Result: res})

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "    - ") {
			assert.True(t, strings.HasSuffix(line, "…"), "truncated: %q", line)
			assert.LessOrEqual(t, len([]rune(line)), 40)
		}
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames {
		assert.Equal(t, name, ThemeByName(name).Name)
	}
	assert.Equal(t, ThemeDefault, ThemeByName("neon").Name)
}

func TestPlain_Render(t *testing.T) {
	out := NewPlain().Render(Report{Result: failedResult(), Output: "report.md"})
	assert.Equal(t, "FAIL 2 tests (1 passed, 1 failed, 0 ignored, 0 filtered) in 1s -> report.md\n  b\n", out)
}

func TestPlain_CapsFailedList(t *testing.T) {
	out := NewPlain().Render(Report{Result: manyFailures(13), Output: "-"})

	assert.True(t, strings.HasPrefix(out, "FAIL 13 tests (0 passed, 13 failed, 0 ignored, 0 filtered) in 0s\n"), out)
	assert.Contains(t, out, "  ... 3 more\n")
}

func TestRenderers(t *testing.T) {
	for _, r := range []Renderer{NewTerminal(MonoTheme(), 80), NewPlain()} {
		assert.NotEmpty(t, r.Render(Report{}))
	}
}

func TestThemes_IconSets(t *testing.T) {
	orca := OrcaTheme()
	assert.Equal(t, "!", orca.Icons.Ignored)
	assert.Equal(t, "⚠", DefaultTheme().Icons.Ignored, "orca overrides must not leak into the default icons")

	mono := MonoTheme()
	assert.False(t, mono.Heading.GetBold())
	icon, _ := mono.outcome(testjson.OutcomeFailed)
	assert.Equal(t, "x", icon)
	icon, _ = mono.outcome(testjson.OutcomeOk)
	assert.Equal(t, "+", icon)
}
