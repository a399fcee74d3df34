package testjson

import (
	"strings"
	"time"
)

// go test -json actions.
const (
	ActionRun    = "run"
	ActionPass   = "pass"
	ActionFail   = "fail"
	ActionSkip   = "skip"
	ActionOutput = "output"
)

// GoTestEvent is a single event from go test -json output.
type GoTestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"` // start, run, pass, fail, skip, output, bench, pause, cont
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// GoTestTranslator maps go test -json events onto the libtest event model.
// Each package becomes one suite; skipped tests count as ignored.
type GoTestTranslator struct {
	packages map[string]*pkgState
}

type pkgState struct {
	passed  uint64
	failed  uint64
	skipped uint64
	// output per test name; "" holds package-level output
	output map[string]*strings.Builder
}

// NewGoTestTranslator returns an empty translator.
func NewGoTestTranslator() *GoTestTranslator {
	return &GoTestTranslator{packages: make(map[string]*pkgState)}
}

func (t *GoTestTranslator) getOrCreate(name string) *pkgState {
	if pkg, ok := t.packages[name]; ok {
		return pkg
	}
	pkg := &pkgState{output: make(map[string]*strings.Builder)}
	t.packages[name] = pkg
	return pkg
}

// Translate converts one go test event into zero or more events.
func (t *GoTestTranslator) Translate(e GoTestEvent) []Event {
	pkg := t.getOrCreate(e.Package)
	elapsed := time.Duration(e.Elapsed * float64(time.Second))

	if e.Test == "" {
		return t.translatePackage(e, pkg, elapsed)
	}

	name := qualifiedName(e.Package, e.Test)
	switch e.Action {
	case ActionRun:
		return []Event{TestStarted{Name: name}}

	case ActionOutput:
		buf, ok := pkg.output[e.Test]
		if !ok {
			buf = &strings.Builder{}
			pkg.output[e.Test] = buf
		}
		buf.WriteString(e.Output)

	case ActionPass:
		pkg.passed++
		delete(pkg.output, e.Test)
		return []Event{TestFinished{Outcome: OutcomeOk, Name: name, ExecTime: elapsed}}

	case ActionFail:
		pkg.failed++
		var stdout string
		if buf, ok := pkg.output[e.Test]; ok {
			stdout = buf.String()
			delete(pkg.output, e.Test)
		}
		return []Event{TestFinished{Outcome: OutcomeFailed, Name: name, ExecTime: elapsed, Stdout: stdout}}

	case ActionSkip:
		pkg.skipped++
		delete(pkg.output, e.Test)
	}
	return nil
}

func (t *GoTestTranslator) translatePackage(e GoTestEvent, pkg *pkgState, elapsed time.Duration) []Event {
	switch e.Action {
	case ActionOutput:
		buf, ok := pkg.output[""]
		if !ok {
			buf = &strings.Builder{}
			pkg.output[""] = buf
		}
		buf.WriteString(e.Output)
		return nil

	case ActionPass, ActionFail:
	default:
		return nil
	}
	defer delete(t.packages, e.Package)

	var events []Event
	total := pkg.passed + pkg.failed + pkg.skipped
	if e.Action == ActionFail && total == 0 {
		// Build failure or a panic outside any test: surface the
		// package output as a failed pseudo-test.
		var stdout string
		if buf, ok := pkg.output[""]; ok {
			stdout = buf.String()
		}
		events = append(events, TestFinished{
			Outcome:  OutcomeFailed,
			Name:     e.Package,
			ExecTime: elapsed,
			Stdout:   stdout,
		})
		pkg.failed = 1
		total = 1
	}
	if total == 0 {
		return nil
	}

	outcome := OutcomeOk
	if e.Action == ActionFail {
		outcome = OutcomeFailed
	}
	return append(events,
		SuiteStarted{TestCount: total},
		SuiteFinished{
			Outcome:  outcome,
			Passed:   pkg.passed,
			Failed:   pkg.failed,
			Ignored:  pkg.skipped,
			ExecTime: elapsed,
		},
	)
}

func qualifiedName(pkg, test string) string {
	if pkg == "" {
		return test
	}
	return pkg + "." + test
}
