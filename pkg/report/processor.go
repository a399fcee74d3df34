// Package report aggregates test events and renders them as a Markdown
// test report.
//
// A Processor is fed one event at a time with Ingest and renders the whole
// document once, when Finish is called:
//
//	proc := report.New(w, report.Options{})
//	defer proc.Close() // renders if Finish was not reached
//	for _, e := range events {
//		_ = proc.Ingest(e)
//	}
//	res, err := proc.Finish()
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dkoosis/mdreport/pkg/testjson"
)

// ErrFinished is returned when a Processor is used after Finish.
var ErrFinished = errors.New("report already finished")

// DefaultServerURL is used for job links when CI.ServerURL is empty.
const DefaultServerURL = "https://github.com"

// CI identifies the CI run that produced the test output.
type CI struct {
	ServerURL  string // e.g. https://github.com
	Repository string // owner/name
	RunID      string
}

// JobURL returns the link to the CI run, or "" unless both the repository
// and the run ID are known.
func (c CI) JobURL() string {
	if c.Repository == "" || c.RunID == "" {
		return ""
	}
	server := strings.TrimRight(c.ServerURL, "/")
	if server == "" {
		server = DefaultServerURL
	}
	return fmt.Sprintf("%s/%s/actions/runs/%s", server, c.Repository, c.RunID)
}

// Options controls what the rendered report contains.
type Options struct {
	DisableFrontMatter bool
	SummaryOnly        bool // omit index and details
	Precise            bool // exact durations instead of whole seconds
	Addons             []Addon
	CI                 CI
	Now                func() time.Time // front-matter timestamp; defaults to time.Now
}

// Processor owns the aggregation state for one report.
type Processor struct {
	w         io.Writer
	opts      Options
	tests     []testjson.TestEvent
	testCount *uint64
	summary   *Summary
	finished  bool
}

// New returns a Processor that renders to w. If w has a Flush() error
// method (e.g. *bufio.Writer) it is flushed by Finish.
func New(w io.Writer, opts Options) *Processor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Processor{w: w, opts: opts}
}

// Ingest records one event. Nothing is written until Finish.
func (p *Processor) Ingest(e testjson.Event) error {
	if p.finished {
		return ErrFinished
	}

	switch e := e.(type) {
	case testjson.TestStarted:
		p.tests = append(p.tests, e)
	case testjson.TestFinished:
		p.tests = append(p.tests, e)
	case testjson.SuiteStarted:
		if p.testCount == nil {
			p.testCount = new(uint64)
		}
		*p.testCount += e.TestCount
	case testjson.SuiteFinished:
		s := SummaryOf(e)
		if p.summary != nil {
			s = p.summary.Merge(s)
		}
		p.summary = &s
	default:
		return fmt.Errorf("unsupported event %T", e)
	}
	return nil
}

// Finish renders the report and returns a snapshot of what was rendered.
// It may be called once; later calls return ErrFinished.
func (p *Processor) Finish() (Result, error) {
	if p.finished {
		return Result{}, ErrFinished
	}
	p.finished = true

	res := p.result()
	if err := p.render(res); err != nil {
		return res, err
	}
	if f, ok := p.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return res, fmt.Errorf("flushing report: %w", err)
		}
	}
	return res, nil
}

// Close finishes the report if Finish has not been called yet.
func (p *Processor) Close() error {
	if p.finished {
		return nil
	}
	_, err := p.Finish()
	return err
}

func (p *Processor) result() Result {
	res := Result{Tests: make([]TestRow, 0, len(p.tests))}
	if p.summary != nil {
		s := *p.summary
		res.Summary = &s
	}
	if p.testCount != nil {
		n := *p.testCount
		res.TestCount = &n
	}
	for _, t := range p.tests {
		f, ok := t.(testjson.TestFinished)
		if !ok {
			continue
		}
		res.Tests = append(res.Tests, TestRow{
			Name:     f.Name,
			Outcome:  f.Outcome,
			ExecTime: f.ExecTime,
			Stdout:   f.Stdout,
		})
	}
	return res
}
