package magetasks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/term"

	"github.com/dkoosis/mdreport/pkg/gitinfo"
	"github.com/dkoosis/mdreport/pkg/render"
	"github.com/dkoosis/mdreport/pkg/report"
	"github.com/dkoosis/mdreport/pkg/testjson"
)

// TestReport runs the test suite with go test -json and writes the results
// to ReportPath as a Markdown report.
func TestReport() error {
	PrintH2Header("Test Report")

	cmd := exec.Command("go", "test", "-json", "./...")
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("failed to start tests: %w", err)
	}

	f, err := os.Create(ReportPath)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	res, reportErr := WriteReport(context.Background(), stdout, f)
	// go test exits non-zero when tests fail; the report says which.
	waitErr := cmd.Wait()
	if reportErr != nil {
		PrintError("Report failed")
		return reportErr
	}

	fmt.Fprint(Out, summaryRenderer().Render(render.Report{Result: res, Output: ReportPath}))
	if res.Outcome() == testjson.OutcomeFailed {
		PrintError("Tests failed")
		return errors.Join(errors.New("tests failed"), waitErr)
	}
	PrintSuccess(fmt.Sprintf("Report written: %s", ReportPath))
	return nil
}

// WriteReport converts go test -json output read from r into a Markdown
// report on w, with provenance from the project repository.
func WriteReport(ctx context.Context, r io.Reader, w io.Writer) (report.Result, error) {
	proc := report.New(bufio.NewWriter(w), report.Options{
		Addons: []report.Addon{report.Optional(gitinfo.New(ProjectRoot))},
	})
	if _, err := testjson.Stream(ctx, r, testjson.StreamOptions{Format: testjson.FormatGoTest}, proc.Ingest); err != nil {
		return report.Result{}, errors.Join(fmt.Errorf("reading test output: %w", err), proc.Close())
	}
	return proc.Finish()
}

func summaryRenderer() render.Renderer {
	if f, ok := Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			width = 80
		}
		return render.NewTerminal(render.DefaultTheme(), width)
	}
	return render.NewPlain()
}
