package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// --- JTBD E2E Tests ---
// These exercise the full pipeline: input → detect → parse → aggregate → render → output

var libtestRun = strings.Join([]string{
	`{"type":"suite","event":"started","test_count":2}`,
	`{"type":"test","event":"started","name":"tests::a"}`,
	`{"type":"test","event":"ok","name":"tests::a","exec_time":1.5}`,
	`{"type":"test","event":"started","name":"tests::b"}`,
	`{"type":"test","event":"failed","name":"tests::b","exec_time":0.2,"stdout":"assertion failed: x < 3"}`,
	`{"type":"suite","event":"failed","passed":1,"failed":1,"allowed_fail":0,"ignored":0,"filtered_out":0,"exec_time":1.7}`,
}, "\n") + "\n"

var goTestRun = strings.Join([]string{
	`{"Time":"2024-01-01T00:00:00Z","Action":"start","Package":"example.com/pkg/handler"}`,
	`{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg/handler","Test":"TestCreateUser_Valid"}`,
	`{"Time":"2024-01-01T00:00:00Z","Action":"pass","Package":"example.com/pkg/handler","Test":"TestCreateUser_Valid","Elapsed":0.1}`,
	`{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg/handler","Test":"TestCreateUser_InvalidEmail"}`,
	`{"Time":"2024-01-01T00:00:00Z","Action":"output","Package":"example.com/pkg/handler","Test":"TestCreateUser_InvalidEmail","Output":"    handler_test.go:45: expected error\n"}`,
	`{"Time":"2024-01-01T00:00:01Z","Action":"fail","Package":"example.com/pkg/handler","Test":"TestCreateUser_InvalidEmail","Elapsed":0.3}`,
	`{"Time":"2024-01-01T00:00:01Z","Action":"fail","Package":"example.com/pkg/handler","Elapsed":1.2}`,
}, "\n") + "\n"

type result struct {
	code   int
	stdout string
	stderr string
}

// runIn runs the CLI inside dir with the given stdin and environment.
func runIn(t *testing.T, dir, stdin string, env map[string]string, args ...string) result {
	t.Helper()
	return runInContext(t, context.Background(), dir, stdin, env, args...)
}

func runInContext(t *testing.T, ctx context.Context, dir, stdin string, env map[string]string, args ...string) result {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	// keep the user's config directory out of the search path
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".xdg"))

	var stdout, stderr bytes.Buffer
	code := run(ctx, args, strings.NewReader(stdin), &stdout, &stderr,
		func(k string) string { return env[k] })
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestJTBD_DefaultInputToStemMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test-output.json"), libtestRun)

	r := runIn(t, dir, "", nil, "--no-git")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stdout)

	md := readFile(t, filepath.Join(dir, "test-output.md"))
	assert.True(t, strings.HasPrefix(md, "---\ntitle: \"❌ Test Result local\"\n"), md)
	assert.Contains(t, md, "| ❌ | 2 | 1 | 1 | 0 | 0 | 1s |")
	assert.Contains(t, md, "| [tests::a](#testsa) | ✅ | 1s |")
	assert.Contains(t, md, "## ❌ tests::b")
	assert.Contains(t, md, "<pre>\nassertion failed: x &lt; 3\n</pre>")
}

func TestJTBD_StdinToStdout(t *testing.T) {
	r := runIn(t, t.TempDir(), libtestRun, nil, "-n", "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "# Index")
	assert.Contains(t, r.stdout, "## ✅ tests::a")
}

func TestJTBD_StdinDefaultsToReportFile(t *testing.T) {
	dir := t.TempDir()
	r := runIn(t, dir, libtestRun, nil, "-n", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, readFile(t, filepath.Join(dir, "report.md")), "# Details")
}

func TestJTBD_SummaryOnlyNoFrontMatter(t *testing.T) {
	r := runIn(t, t.TempDir(), libtestRun, nil, "-nsd", "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.True(t, strings.HasPrefix(r.stdout, "| | Total |"), r.stdout)
	assert.NotContains(t, r.stdout, "# Index")
}

func TestJTBD_PreciseDurations(t *testing.T) {
	r := runIn(t, t.TempDir(), libtestRun, nil, "-n", "--precise", "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "| ❌ | 2 | 1 | 1 | 0 | 0 | 1.7s |")
}

func TestJTBD_GoTestInputDetected(t *testing.T) {
	r := runIn(t, t.TempDir(), goTestRun, nil, "-n", "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "| ❌ | 2 | 1 | 1 | 0 | 0 | 1s |")
	assert.Contains(t, r.stdout, "## ❌ example.com/pkg/handler.TestCreateUser_InvalidEmail")
	assert.Contains(t, r.stdout, "handler_test.go:45: expected error")
}

func TestJTBD_UnparsableLinesIgnored(t *testing.T) {
	input := "running 2 tests\n" + libtestRun + "{\"type\":\"test\",\"event\":\"ok\"\n"
	r := runIn(t, t.TempDir(), input, nil, "-n", "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, 2, strings.Count(r.stdout, "| [tests::"))
	assert.Contains(t, r.stderr, "skipped unparsable lines")
	assert.Contains(t, r.stderr, "count=2")
}

func TestJTBD_QuietSilencesWarnings(t *testing.T) {
	r := runIn(t, t.TempDir(), "garbage\n"+libtestRun, nil, "-n", "-q", "-o", "-", "-")
	require.Equal(t, 0, r.code)
	assert.Empty(t, r.stderr)
}

func TestJTBD_JobLinkFromCI(t *testing.T) {
	env := map[string]string{"GITHUB_RUN_ID": "99", "GITHUB_REPOSITORY": "octo/repo"}
	r := runIn(t, t.TempDir(), libtestRun, env, "-n", "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, `title: "❌ Test Result 99"`)
	assert.Contains(t, r.stdout, "**Job:** [https://github.com/octo/repo/actions/runs/99]")
}

func TestJTBD_ConsoleSummary(t *testing.T) {
	dir := t.TempDir()
	r := runIn(t, dir, libtestRun, nil, "-n", "--console", "always", "-o", "out.md", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "FAIL 2 tests (1 passed, 1 failed, 0 ignored, 0 filtered) in 1s -> out.md\n  tests::b\n")
}

func TestJTBD_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".mdreport.yaml"), "summary: true\nno_front_matter: true\ngit:\n  disabled: true\n")

	r := runIn(t, dir, libtestRun, nil, "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.True(t, strings.HasPrefix(r.stdout, "| | Total |"), r.stdout)
}

func TestJTBD_EnvBoundFlag(t *testing.T) {
	t.Setenv("MDREPORT_SUMMARY", "true")
	t.Setenv("MDREPORT_NO_GIT", "true")

	r := runIn(t, t.TempDir(), libtestRun, nil, "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "# Index")
}

func TestJTBD_RequiredGitMissing(t *testing.T) {
	dir := t.TempDir()
	r := runIn(t, dir, libtestRun, nil, "--git", dir, "-o", "-", "-")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "rendering addon git")
}

func TestJTBD_OptionalGitMissing(t *testing.T) {
	r := runIn(t, t.TempDir(), libtestRun, nil, "-o", "-", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "**Git:**")
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing input", []string{"-n", "does-not-exist.json"}, 1},
		{"quiet and verbose", []string{"-q", "-vv", "-"}, 2},
		{"git and no-git", []string{"--git", ".", "--no-git", "-"}, 2},
		{"unknown flag", []string{"--frobnicate"}, 2},
		{"too many inputs", []string{"a.json", "b.json"}, 2},
		{"bad theme", []string{"--theme", "neon", "-"}, 2},
		{"missing config file", []string{"-c", "nope.yaml", "-"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runIn(t, t.TempDir(), "", nil, tt.args...)
			assert.Equal(t, tt.want, r.code, r.stderr)
			assert.Contains(t, r.stderr, "mdreport: ")
		})
	}
}

func TestRun_Version(t *testing.T) {
	r := runIn(t, t.TempDir(), "", nil, "--version")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "dev (commit unknown")
}

func TestRun_Help(t *testing.T) {
	r := runIn(t, t.TempDir(), "", nil, "--help")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "--no-front-matter")
	assert.Contains(t, r.stdout, "MDREPORT_OUTPUT")
}

func TestRun_CancelledReportsCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test-output.json"), libtestRun)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runInContext(t, ctx, dir, "", nil, "--no-git")
	require.Equal(t, 1, r.code, r.stderr)
	assert.Contains(t, r.stderr, "reading test-output.json: context canceled")
	assert.NotContains(t, r.stderr, "file already closed")
}

func TestNewApp_LeavesVersionFlagAlone(t *testing.T) {
	before := cli.VersionFlag
	newApp(strings.NewReader(""), io.Discard, io.Discard, func(string) string { return "" })
	assert.Same(t, before, cli.VersionFlag)
	assert.Equal(t, []string{"version", "V"}, cli.VersionFlag.Names())
}

func TestRun_ShortVersion(t *testing.T) {
	r := runIn(t, t.TempDir(), "", nil, "-V")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "dev (commit unknown")
}
