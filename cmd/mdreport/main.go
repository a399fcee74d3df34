// mdreport converts test event streams into a Markdown test report.
//
// Usage:
//
//	cargo test -- -Z unstable-options --format json --report-time > test-output.json
//	mdreport                       # writes test-output.md
//	go test -json ./... | mdreport -o report.md -
//
// Accepts two input formats (auto-detected):
//   - libtest JSON events (cargo test --format json)
//   - go test -json events
//
// Exit codes: 0 when the report was written, 1 on runtime errors, 2 on
// usage errors. Failing tests do not change the exit code.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/dkoosis/mdreport/internal/config"
	"github.com/dkoosis/mdreport/internal/detect"
	"github.com/dkoosis/mdreport/internal/logging"
	"github.com/dkoosis/mdreport/internal/version"
	"github.com/dkoosis/mdreport/pkg/gitinfo"
	"github.com/dkoosis/mdreport/pkg/render"
	"github.com/dkoosis/mdreport/pkg/report"
	"github.com/dkoosis/mdreport/pkg/testjson"
)

// sniffSize is how much input is peeked to detect its format.
const sniffSize = 16 * 1024

var errUsage = errors.New("usage")

func init() {
	// -v is --verbose here.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Aliases: []string{"V"}, Usage: "print the version"}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	app := newApp(stdin, stdout, stderr, getenv)
	err := app.RunContext(ctx, append([]string{app.Name}, args...))
	if err != nil {
		fmt.Fprintf(stderr, "mdreport: %v\n", err)
	}
	return exitCode(err)
}

// exitCode returns 0 on success, 2 for usage errors and 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, config.ErrInvalid):
		return 2
	default:
		return 1
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) *cli.App {
	var verbosity int

	app := &cli.App{
		Name:                   "mdreport",
		Usage:                  "Markdown Test Reporter",
		UsageText:              "mdreport [options] [input]",
		ArgsUsage:              "[input]",
		Description:            "Converts JSON test events into a Markdown report. The input defaults to test-output.json; - reads stdin. Unparsable lines are ignored.",
		Version:                version.String(),
		Flags:                  newFlags(&verbosity),
		UseShortOptionHandling: true,
		HideHelpCommand:        true,
		Reader:                 stdin,
		Writer:                 stdout,
		ErrWriter:              stderr,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return fmt.Errorf("%w: %w", errUsage, err)
		},
		// exit codes are mapped by run; never os.Exit from inside the app
		ExitErrHandler: func(*cli.Context, error) {},
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() > 1 {
			return fmt.Errorf("%w: expected at most one input, got %d", errUsage, c.NArg())
		}
		flags := flagsFrom(c, verbosity)
		logging.Init(stderr, logging.Level(flags.Quiet, flags.Verbosity))

		file, path, err := config.Load(c.String(flagConfig))
		if err != nil {
			return err
		}
		cfg, err := config.Resolve(flags, file, getenv)
		if err != nil {
			return err
		}
		slog.Info("configuration resolved",
			"config", path,
			"input", cfg.Input,
			"output", cfg.Output, "output_source", cfg.OutputSource,
			"git", cfg.Git.Enabled, "git_source", cfg.GitSource)

		return convert(c.Context, cfg, stdin, stdout, stderr)
	}
	return app
}

// convert streams the input into a report.Processor and renders it.
func convert(ctx context.Context, cfg *config.Resolved, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	in, closeIn, err := openInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	defer closeIn()
	// Closing the input on cancel unblocks a pending read.
	if c, ok := in.(io.Closer); ok {
		stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stopClose()
	}

	br := bufio.NewReaderSize(in, sniffSize)
	format := inputFormat(cfg.InputFormat, br)

	out, closeOut, err := openOutput(cfg.Output, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", cfg.Output, cerr)
		}
	}()

	proc := report.New(bufio.NewWriter(out), report.Options{
		DisableFrontMatter: cfg.NoFrontMatter,
		SummaryOnly:        cfg.SummaryOnly,
		Precise:            cfg.Precise,
		Addons:             addons(cfg.Git),
		CI:                 cfg.CI,
	})
	// Renders what was collected when reading stops early.
	defer func() { err = errors.Join(err, proc.Close()) }()

	slog.Debug("reading input", "input", cfg.Input, "format", format)
	stats, err := testjson.Stream(ctx, br, testjson.StreamOptions{
		Format:        format,
		MaxLineLength: cfg.MaxLineLength,
	}, proc.Ingest)
	if err != nil {
		// A cancelled read fails on the closed input; report the cancellation.
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fmt.Errorf("reading %s: %w", cfg.Input, err)
	}
	slog.Info("input processed", "lines", stats.Lines, "events", stats.Events, "malformed", stats.Malformed)
	if stats.Malformed > 0 {
		slog.Warn("skipped unparsable lines", "count", stats.Malformed)
	}

	res, err := proc.Finish()
	if err != nil {
		return err
	}
	slog.Info("report written", "output", cfg.Output, "tests", len(res.Tests), "outcome", res.Outcome())

	if showConsole(cfg, stderr) {
		fmt.Fprint(stderr, selectRenderer(cfg, stderr).Render(render.Report{
			Result:  res,
			Output:  cfg.Output,
			Precise: cfg.Precise,
		}))
	}
	return nil
}

func openInput(name string, stdin io.Reader) (io.Reader, func(), error) {
	if name == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(name string, stdout io.Writer) (io.Writer, func() error, error) {
	if name == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, f.Close, nil
}

// inputFormat resolves "auto" by sniffing the head of the input. Input
// that matches neither format is read as libtest.
func inputFormat(name string, br *bufio.Reader) testjson.Format {
	switch name {
	case testjson.FormatGoTest.String():
		return testjson.FormatGoTest
	case testjson.FormatLibtest.String():
		return testjson.FormatLibtest
	}

	// A short read still returns what is available.
	peeked, _ := br.Peek(sniffSize)
	switch detect.Sniff(peeked) {
	case detect.GoTestJSON:
		return testjson.FormatGoTest
	case detect.Libtest:
		return testjson.FormatLibtest
	default:
		slog.Debug("input format not recognized, assuming libtest", "peeked", len(peeked))
		return testjson.FormatLibtest
	}
}

func addons(g config.Git) []report.Addon {
	if !g.Enabled {
		return nil
	}
	info := gitinfo.New(g.Path)
	if g.Required {
		return []report.Addon{info}
	}
	return []report.Addon{report.Optional(info)}
}

func showConsole(cfg *config.Resolved, stderr io.Writer) bool {
	if cfg.Quiet {
		return false
	}
	switch cfg.Console {
	case config.ConsoleAlways:
		return true
	case config.ConsoleAuto:
		return isTTYWriter(stderr)
	default:
		return false
	}
}

func selectRenderer(cfg *config.Resolved, w io.Writer) render.Renderer {
	if !isTTYWriter(w) {
		return render.NewPlain()
	}
	// Styles are resolved against stderr, not stdout which may hold the report.
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(w))
	width, _ := termSize(w)
	return render.NewTerminal(render.ThemeByName(cfg.Theme), width)
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}
