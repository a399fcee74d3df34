package magetasks

import "fmt"

// Section is one step of a multi-step workflow.
type Section struct {
	Name        string
	Description string
	Run         func() error
}

// RunSections runs each section in order and stops at the first failure.
// It returns the number of sections that completed.
func RunSections(sections ...Section) (int, error) {
	for i, s := range sections {
		PrintH1Header(s.Name)
		if s.Description != "" {
			PrintInfo(s.Description)
		}
		if err := s.Run(); err != nil {
			return i, fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return len(sections), nil
}

// RunAll executes the comprehensive build and test workflow.
func RunAll() error {
	sections := []Section{
		{
			Name:        "Build",
			Description: "Build the mdreport binary",
			Run:         BuildAll,
		},
		{
			Name:        "Tests & Report",
			Description: "Run tests and write the Markdown test report",
			Run:         TestReport,
		},
	}

	_, err := RunSections(sections...)
	return err
}
