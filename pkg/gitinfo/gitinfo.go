// Package gitinfo renders the provenance of a report: the origin remote,
// the checked-out ref and the HEAD commit of a git working tree.
package gitinfo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const unknown = "<unknown>"

// Info is a report addon reading the repository at Path. Parent
// directories are searched for the .git directory.
type Info struct {
	Path string
}

// New returns an addon for the repository containing path.
func New(path string) *Info {
	if path == "" {
		path = "."
	}
	return &Info{Path: path}
}

// Name implements report.Addon.
func (i *Info) Name() string { return "git" }

// Render implements report.Addon.
func (i *Info) Render(w io.Writer) error {
	repo, err := git.PlainOpenWithOptions(i.Path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("opening repository %s: %w", i.Path, err)
	}

	url, err := originURL(repo)
	if err != nil {
		return err
	}
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("reading commit %s: %w", head.Hash(), err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "**Git:** `%s` @ `%s`\n\n", url, head.Name())
	writeCommit(&buf, commit)
	_, err = w.Write(buf.Bytes())
	return err
}

func originURL(repo *git.Repository) (string, error) {
	remote, err := repo.Remote("origin")
	if errors.Is(err, git.ErrRemoteNotFound) {
		return unknown, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading remote origin: %w", err)
	}
	if urls := remote.Config().URLs; len(urls) > 0 && urls[0] != "" {
		return urls[0], nil
	}
	return unknown, nil
}

func writeCommit(buf *bytes.Buffer, c *object.Commit) {
	fmt.Fprintf(buf, "    Commit: %s\n", c.Hash)
	fmt.Fprintf(buf, "    Author: %s <%s>\n", c.Author.Name, c.Author.Email)
	fmt.Fprintf(buf, "    Date: %s\n", c.Author.When.Format(time.RFC1123Z))
	buf.WriteString("\n")

	for _, line := range strings.SplitAfter(c.Message, "\n") {
		if line == "" {
			continue
		}
		fmt.Fprintf(buf, "        %s\n", strings.TrimRight(line, "\r\n"))
	}
}
