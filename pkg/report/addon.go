package report

import "io"

// Addon renders a self-contained Markdown fragment below the summary table.
type Addon interface {
	Name() string
	Render(w io.Writer) error
}

// Optional marks an addon whose failures are swallowed: the report is
// rendered without its fragment.
func Optional(a Addon) Addon {
	return optionalAddon{Addon: a}
}

type optionalAddon struct {
	Addon
}

func isOptional(a Addon) bool {
	_, ok := a.(optionalAddon)
	return ok
}
