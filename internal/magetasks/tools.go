package magetasks

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// missingTool reports whether err came from running a tool that is not
// installed. sh formats exec errors with %v, so the exec.ErrNotFound text
// is matched too.
func missingTool(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) || strings.Contains(err.Error(), exec.ErrNotFound.Error())
}

// runTool runs an optional linter. A missing binary prints the install hint
// and returns the error unchanged so callers can tell it apart.
func runTool(title, install, cmd string, args ...string) error {
	err := Run(title, cmd, args...)
	switch {
	case err == nil:
		return nil
	case missingTool(err):
		PrintWarning(fmt.Sprintf("%s not found (install: go install %s)", title, install))
		return err
	default:
		return fmt.Errorf("%s failed: %w", cmd, err)
	}
}
