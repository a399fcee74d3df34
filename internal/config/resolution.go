package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dkoosis/mdreport/pkg/render"
	"github.com/dkoosis/mdreport/pkg/report"
	"github.com/dkoosis/mdreport/pkg/testjson"
)

// ErrInvalid marks a usage error: a bad value or conflicting options.
var ErrInvalid = errors.New("invalid configuration")

// Sources recorded in Resolved.
const (
	SourceFlag    = "flag" // CLI flag or its environment variable
	SourceFile    = "file"
	SourceDefault = "default"
)

// Accepted values for the enumerated settings.
const (
	FormatAuto = "auto"

	ConsoleAuto   = "auto"
	ConsoleAlways = "always"
	ConsoleNever  = "never"
)

// Defaults.
const (
	DefaultInput = "test-output.json"
	DefaultGit   = "."
	stdinOutput  = "report.md"
)

var (
	inputFormats = []string{FormatAuto, testjson.FormatLibtest.String(), testjson.FormatGoTest.String()}
	consoleModes = []string{ConsoleAuto, ConsoleAlways, ConsoleNever}
)

// Flags holds the values of command-line flags. The *Set fields track
// whether a value was given on the command line or through its
// environment variable.
type Flags struct {
	Input         string
	Output        string
	NoFrontMatter bool
	Summary       bool
	Precise       bool
	Git           string
	NoGit         bool
	InputFormat   string
	Console       string
	Theme         string
	MaxLineLength int
	Quiet         bool
	Verbosity     int

	OutputSet        bool
	NoFrontMatterSet bool
	SummarySet       bool
	PreciseSet       bool
	GitSet           bool
	NoGitSet         bool
	InputFormatSet   bool
	ConsoleSet       bool
	ThemeSet         bool
	MaxLineLengthSet bool
}

// Git describes the git provenance addon.
type Git struct {
	Enabled  bool
	Path     string
	Required bool
}

// Resolved holds the final configuration after applying all priority rules.
type Resolved struct {
	Input         string // "-" for stdin
	Output        string // "-" for stdout
	NoFrontMatter bool
	SummaryOnly   bool
	Precise       bool
	Git           Git
	InputFormat   string // auto, libtest or gotest
	Console       string
	Theme         string
	NoColor       bool
	MaxLineLength int
	Quiet         bool
	Verbosity     int
	CI            report.CI

	// Resolution metadata (for debugging)
	OutputSource string
	GitSource    string
	ThemeSource  string
}

// Resolve merges flags over the file over defaults. env looks up process
// environment variables that are not bound to a flag.
func Resolve(flags Flags, file *File, env func(string) string) (*Resolved, error) {
	if file == nil {
		file = &File{}
	}
	if flags.GitSet && flags.NoGitSet && flags.NoGit {
		return nil, fmt.Errorf("%w: --git and --no-git cannot be used together", ErrInvalid)
	}
	if flags.Quiet && flags.Verbosity > 0 {
		return nil, fmt.Errorf("%w: --quiet and --verbose cannot be used together", ErrInvalid)
	}

	r := &Resolved{
		Input:         flags.Input,
		NoFrontMatter: pickBool(flags.NoFrontMatterSet, flags.NoFrontMatter, file.NoFrontMatter),
		SummaryOnly:   pickBool(flags.SummarySet, flags.Summary, file.Summary),
		Precise:       pickBool(flags.PreciseSet, flags.Precise, file.Precise),
		Quiet:         flags.Quiet,
		Verbosity:     flags.Verbosity,
		CI: report.CI{
			ServerURL:  env("GITHUB_SERVER_URL"),
			Repository: env("GITHUB_REPOSITORY"),
			RunID:      env("GITHUB_RUN_ID"),
		},
	}
	if r.Input == "" {
		r.Input = DefaultInput
	}

	var err error
	if r.Output, r.OutputSource, err = resolveOutput(flags, file, r.Input); err != nil {
		return nil, err
	}
	r.Git, r.GitSource = resolveGit(flags, file)

	r.InputFormat, _ = pickString(flags.InputFormatSet, flags.InputFormat, file.InputFormat, FormatAuto)
	r.Console, _ = pickString(flags.ConsoleSet, flags.Console, file.Console, ConsoleAuto)
	r.Theme, r.ThemeSource = pickString(flags.ThemeSet, flags.Theme, file.Theme, render.ThemeDefault)

	if env("NO_COLOR") != "" {
		r.NoColor = true
		r.Theme = render.ThemeMono
	}

	switch {
	case flags.MaxLineLengthSet:
		r.MaxLineLength = flags.MaxLineLength
	case file.MaxLineLength != 0:
		r.MaxLineLength = file.MaxLineLength
	default:
		r.MaxLineLength = testjson.DefaultMaxLineLength
	}

	if err := validateResolved(r); err != nil {
		return nil, err
	}
	return r, nil
}

func pickBool(set, flag, file bool) bool {
	if set {
		return flag
	}
	return file
}

func pickString(set bool, flag, file, def string) (string, string) {
	switch {
	case set:
		return flag, SourceFlag
	case file != "":
		return file, SourceFile
	default:
		return def, SourceDefault
	}
}

// resolveOutput defaults the output to the input's file stem with an .md
// extension, in the working directory.
func resolveOutput(flags Flags, file *File, input string) (string, string, error) {
	if flags.OutputSet && flags.Output != "" {
		return flags.Output, SourceFlag, nil
	}
	if file.Output != "" {
		return file.Output, SourceFile, nil
	}
	if input == "-" {
		return stdinOutput, SourceDefault, nil
	}

	base := filepath.Base(input)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", "", fmt.Errorf("%w: cannot derive an output name from input %q", ErrInvalid, input)
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" { // dotfile
		stem = base
	}
	return stem + ".md", SourceDefault, nil
}

func resolveGit(flags Flags, file *File) (Git, string) {
	switch {
	case flags.GitSet:
		path := flags.Git
		if path == "" {
			path = DefaultGit
		}
		return Git{Enabled: true, Path: path, Required: true}, SourceFlag
	case flags.NoGitSet && flags.NoGit:
		return Git{}, SourceFlag
	case file.Git.Disabled:
		return Git{}, SourceFile
	case file.Git.Path != "" || file.Git.Required:
		path := file.Git.Path
		if path == "" {
			path = DefaultGit
		}
		return Git{Enabled: true, Path: path, Required: file.Git.Required}, SourceFile
	default:
		return Git{Enabled: true, Path: DefaultGit}, SourceDefault
	}
}

// validateResolved returns errors for invalid states.
func validateResolved(r *Resolved) error {
	if !slices.Contains(inputFormats, r.InputFormat) {
		return fmt.Errorf("%w: invalid input format %q (must be: %s)", ErrInvalid, r.InputFormat, strings.Join(inputFormats, ", "))
	}
	if !slices.Contains(consoleModes, r.Console) {
		return fmt.Errorf("%w: invalid console mode %q (must be: %s)", ErrInvalid, r.Console, strings.Join(consoleModes, ", "))
	}
	if !slices.Contains(render.ThemeNames, r.Theme) {
		return fmt.Errorf("%w: unknown theme %q (must be: %s)", ErrInvalid, r.Theme, strings.Join(render.ThemeNames, ", "))
	}
	if r.MaxLineLength <= 0 {
		return fmt.Errorf("%w: max line length must be positive, got: %d", ErrInvalid, r.MaxLineLength)
	}
	return nil
}
