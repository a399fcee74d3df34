package main

import (
	"github.com/urfave/cli/v2"

	"github.com/dkoosis/mdreport/internal/config"
)

// EnvVarPrefix prefixes the environment variable bound to each flag.
const EnvVarPrefix = "MDREPORT"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

// Flag names.
const (
	flagOutput        = "output"
	flagNoFrontMatter = "no-front-matter"
	flagSummary       = "summary"
	flagPrecise       = "precise"
	flagGit           = "git"
	flagNoGit         = "no-git"
	flagInputFormat   = "input-format"
	flagConsole       = "console"
	flagTheme         = "theme"
	flagMaxLineLength = "max-line-length"
	flagQuiet         = "quiet"
	flagVerbose       = "verbose"
	flagConfig        = "config"
)

// newFlags builds the flag set for one run. Repeated -v flags are counted
// into verbosity.
func newFlags(verbosity *int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			EnvVars: prefixEnvVar("OUTPUT"),
			Usage:   "The name of the output file, or - for stdout (default: <input stem>.md)",
		},
		&cli.BoolFlag{
			Name:    flagNoFrontMatter,
			Aliases: []string{"d"},
			EnvVars: prefixEnvVar("NO_FRONT_MATTER"),
			Usage:   "Disable report metadata",
		},
		&cli.BoolFlag{
			Name:    flagSummary,
			Aliases: []string{"s"},
			EnvVars: prefixEnvVar("SUMMARY"),
			Usage:   "Show only the summary section",
		},
		&cli.BoolFlag{
			Name:    flagPrecise,
			Aliases: []string{"p"},
			EnvVars: prefixEnvVar("PRECISE"),
			Usage:   "Show exact durations instead of whole seconds",
		},
		&cli.StringFlag{
			Name:    flagGit,
			Aliases: []string{"g"},
			EnvVars: prefixEnvVar("GIT"),
			Usage:   "git top-level location; failing to read it is an error (default: ., best effort)",
		},
		&cli.BoolFlag{
			Name:    flagNoGit,
			Aliases: []string{"n"},
			EnvVars: prefixEnvVar("NO_GIT"),
			Usage:   "Disable extracting git information",
		},
		&cli.StringFlag{
			Name:    flagInputFormat,
			EnvVars: prefixEnvVar("INPUT_FORMAT"),
			Value:   config.FormatAuto,
			Usage:   "Input format: auto, libtest, gotest",
		},
		&cli.StringFlag{
			Name:    flagConsole,
			EnvVars: prefixEnvVar("CONSOLE"),
			Value:   config.ConsoleAuto,
			Usage:   "Print a summary on stderr: auto (when a terminal), always, never",
		},
		&cli.StringFlag{
			Name:    flagTheme,
			EnvVars: prefixEnvVar("THEME"),
			Value:   "default",
			Usage:   "Console theme: default, orca, mono",
		},
		&cli.IntFlag{
			Name:  flagMaxLineLength,
			Usage: "Longest accepted input line in bytes",
		},
		&cli.BoolFlag{
			Name:    flagQuiet,
			Aliases: []string{"q"},
			Usage:   "Be quiet",
		},
		&cli.BoolFlag{
			Name:    flagVerbose,
			Aliases: []string{"v"},
			Count:   verbosity,
			Usage:   "Be more verbose. May be repeated multiple times",
		},
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			EnvVars: prefixEnvVar("CONFIG"),
			Usage:   "Path to the config file (default: " + config.FileName + " search path)",
		},
	}
}

// flagsFrom collects the parsed flags. IsSet is true for values taken from
// the command line or the bound environment variable.
func flagsFrom(c *cli.Context, verbosity int) config.Flags {
	return config.Flags{
		Input:         c.Args().First(),
		Output:        c.String(flagOutput),
		NoFrontMatter: c.Bool(flagNoFrontMatter),
		Summary:       c.Bool(flagSummary),
		Precise:       c.Bool(flagPrecise),
		Git:           c.String(flagGit),
		NoGit:         c.Bool(flagNoGit),
		InputFormat:   c.String(flagInputFormat),
		Console:       c.String(flagConsole),
		Theme:         c.String(flagTheme),
		MaxLineLength: c.Int(flagMaxLineLength),
		Quiet:         c.Bool(flagQuiet),
		Verbosity:     verbosity,

		OutputSet:        c.IsSet(flagOutput),
		NoFrontMatterSet: c.IsSet(flagNoFrontMatter),
		SummarySet:       c.IsSet(flagSummary),
		PreciseSet:       c.IsSet(flagPrecise),
		GitSet:           c.IsSet(flagGit),
		NoGitSet:         c.IsSet(flagNoGit),
		InputFormatSet:   c.IsSet(flagInputFormat),
		ConsoleSet:       c.IsSet(flagConsole),
		ThemeSet:         c.IsSet(flagTheme),
		MaxLineLengthSet: c.IsSet(flagMaxLineLength),
	}
}
