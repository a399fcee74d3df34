package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/mdreport/pkg/testjson"
)

// moreMarker separates the excerpt (summary) from the rest of the post.
const moreMarker = "<!--more-->"

// mdWriter remembers the first write error so sections can be written
// without checking every line.
type mdWriter struct {
	w   io.Writer
	err error
}

func (m *mdWriter) write(b []byte) {
	if m.err != nil {
		return
	}
	_, m.err = m.w.Write(b)
}

func (m *mdWriter) println(s string) {
	m.write([]byte(s + "\n"))
}

func (m *mdWriter) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

func (p *Processor) render(res Result) error {
	w := &mdWriter{w: p.w}

	if res.Summary != nil {
		if err := p.writeHeader(w, res); err != nil {
			return err
		}
	}
	if !p.opts.SummaryOnly {
		p.writeIndex(w, res.Tests)
		p.writeDetails(w, res.Tests)
	}
	if w.err != nil {
		return fmt.Errorf("writing report: %w", w.err)
	}
	return nil
}

func (p *Processor) writeHeader(w *mdWriter, res Result) error {
	s := *res.Summary
	glyph := Glyph(s.Outcome)

	if !p.opts.DisableFrontMatter {
		runID := p.opts.CI.RunID
		if runID == "" {
			runID = "local"
		}
		w.println("---")
		w.printf("title: %q\n", glyph+" Test Result "+runID)
		w.printf("date: %s\n", p.opts.Now().UTC().Format(time.RFC3339))
		w.println("categories: test-report")
		w.println("excerpt_separator: " + moreMarker)
		w.println("---")
		w.println("")
	}

	total := "*unknown*"
	if res.TestCount != nil {
		total = strconv.FormatUint(*res.TestCount, 10)
	}
	w.println("| | Total | Passed | Failed | Ignored | Filtered | Duration |")
	w.println("| --- | ----- | ------ | ------ | ------- | -------- | -------- |")
	w.printf("| %s | %s | %d | %d | %d | %d | %s |\n",
		glyph, total, s.Passed, s.Failed, s.Ignored, s.FilteredOut,
		FormatDuration(s.ExecTime, p.opts.Precise))
	w.println("")

	for _, a := range p.opts.Addons {
		if err := p.writeAddon(w, a); err != nil {
			return err
		}
	}

	if url := p.opts.CI.JobURL(); url != "" {
		w.printf("**Job:** [%s](%s)\n", url, url)
		w.println("")
	}
	return nil
}

// writeAddon renders into a buffer first so a failing addon never leaves a
// partial fragment behind.
func (p *Processor) writeAddon(w *mdWriter, a Addon) error {
	var buf bytes.Buffer
	if err := a.Render(&buf); err != nil {
		if isOptional(a) {
			slog.Debug("skipping optional addon", "addon", a.Name(), "err", err)
			return nil
		}
		return fmt.Errorf("rendering addon %s: %w", a.Name(), err)
	}
	if buf.Len() == 0 {
		return nil
	}
	w.write(buf.Bytes())
	w.println("")
	return nil
}

func (p *Processor) writeIndex(w *mdWriter, tests []TestRow) {
	w.println(moreMarker)
	w.println("")
	w.println("# Index")
	w.println("")
	w.println("| Name | Result | Duration |")
	w.println("| ---- | ------ | -------- |")
	for _, t := range tests {
		w.printf("| [%s](#%s) | %s | %s |\n",
			escapeCell(t.Name), Anchor(t.Name), Glyph(t.Outcome),
			FormatDuration(t.ExecTime, p.opts.Precise))
	}
}

func (p *Processor) writeDetails(w *mdWriter, tests []TestRow) {
	w.println("")
	w.println("# Details")

	for _, t := range tests {
		w.println("")
		if anchor := Anchor(t.Name); anchor != "" {
			w.printf("<a id=\"%s\"></a>\n", anchor)
			w.println("")
		}
		w.printf("## %s %s\n", Glyph(t.Outcome), t.Name)
		w.println("")
		w.printf("**Duration**: %s\n", FormatDuration(t.ExecTime, p.opts.Precise))

		if t.Outcome != testjson.OutcomeFailed || t.Stdout == "" {
			continue
		}
		w.println("")
		w.println("<details>")
		w.println("")
		w.println("<summary>Test output</summary>")
		w.println("")
		w.println("<pre>")
		w.println(html.EscapeString(t.Stdout))
		w.println("</pre>")
		w.println("")
		w.println("</details>")
	}
}

// escapeCell keeps a pipe in a test name from splitting the table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
