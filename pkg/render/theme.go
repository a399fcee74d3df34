package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/mdreport/pkg/testjson"
)

// Theme styles each test outcome in the console summary.
type Theme struct {
	Name     string
	Passed   lipgloss.Style
	Failed   lipgloss.Style
	Ignored  lipgloss.Style
	Filtered lipgloss.Style // also used for secondary text
	Heading  lipgloss.Style
	Icons    Icons
}

// Icons prefixes the headline, the count metrics and the failed test list.
type Icons struct {
	Passed   string
	Failed   string
	Ignored  string
	Filtered string
	Bullet   string
	Arrow    string
}

// Theme names accepted by ThemeByName.
const (
	ThemeDefault = "default"
	ThemeOrca    = "orca"
	ThemeMono    = "mono"
)

// ThemeNames lists the known themes in display order.
var ThemeNames = []string{ThemeDefault, ThemeOrca, ThemeMono}

var (
	glyphIcons = Icons{Passed: "✓", Failed: "✗", Ignored: "⚠", Filtered: "●", Bullet: "·", Arrow: "→"}
	asciiIcons = Icons{Passed: "+", Failed: "x", Ignored: "!", Filtered: "*", Bullet: "-", Arrow: "->"}
)

// colored builds a theme from 256-color codes for passed, failed, ignored
// and filtered, in that order.
func colored(name string, icons Icons, passed, failed, ignored, filtered string) Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Theme{
		Name:     name,
		Passed:   fg(passed),
		Failed:   fg(failed),
		Ignored:  fg(ignored),
		Filtered: fg(filtered),
		Heading:  lipgloss.NewStyle().Bold(true),
		Icons:    icons,
	}
}

// DefaultTheme is the vivid palette.
func DefaultTheme() Theme {
	return colored(ThemeDefault, glyphIcons, "34", "196", "214", "242")
}

// OrcaTheme is a muted palette for dark terminals.
func OrcaTheme() Theme {
	icons := glyphIcons
	icons.Ignored = "!"
	icons.Filtered = "·"
	return colored(ThemeOrca, icons, "108", "167", "179", "245")
}

// MonoTheme has no colors or bold and uses ASCII icons. NO_COLOR selects it.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:     ThemeMono,
		Passed:   plain,
		Failed:   plain,
		Ignored:  plain,
		Filtered: plain,
		Heading:  plain,
		Icons:    asciiIcons,
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case ThemeOrca:
		return OrcaTheme()
	case ThemeMono:
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// outcome returns the icon and style for a run or test outcome.
func (t Theme) outcome(o testjson.Outcome) (string, lipgloss.Style) {
	if o == testjson.OutcomeFailed {
		return t.Icons.Failed, t.Failed
	}
	return t.Icons.Passed, t.Passed
}
