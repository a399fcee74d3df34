package gitinfo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commitTime = time.Date(2026, 10, 19, 8, 30, 0, 0, time.FixedZone("", 2*3600))

// initRepo creates a repository with one commit and returns its directory
// and the commit.
func initRepo(t *testing.T, message string) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Ada Lovelace", Email: "ada@example.com", When: commitTime},
	})
	require.NoError(t, err)
	return dir, repo
}

func TestInfo_Render(t *testing.T) {
	dir, repo := initRepo(t, "Add report\n\nWith a body.\n")
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/dkoosis/mdreport.git"},
	})
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(dir).Render(&buf))

	want := "**Git:** `https://github.com/dkoosis/mdreport.git` @ `" + head.Name().String() + "`\n" +
		"\n" +
		"    Commit: " + head.Hash().String() + "\n" +
		"    Author: Ada Lovelace <ada@example.com>\n" +
		"    Date: Mon, 19 Oct 2026 08:30:00 +0200\n" +
		"\n" +
		"        Add report\n" +
		"        \n" +
		"        With a body.\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("git fragment mismatch (-want +got):\n%s", diff)
	}
}

func TestInfo_NoOrigin(t *testing.T) {
	dir, _ := initRepo(t, "init")

	var buf bytes.Buffer
	require.NoError(t, New(dir).Render(&buf))
	assert.Contains(t, buf.String(), "**Git:** `<unknown>` @ `refs/heads/")
	assert.Contains(t, buf.String(), "        init\n")
}

func TestInfo_FindsRepositoryFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t, "init")
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	var buf bytes.Buffer
	require.NoError(t, New(sub).Render(&buf))
	assert.Contains(t, buf.String(), "Author: Ada Lovelace <ada@example.com>")
}

func TestInfo_NotARepository(t *testing.T) {
	var buf bytes.Buffer
	err := New(t.TempDir()).Render(&buf)
	require.ErrorIs(t, err, git.ErrRepositoryNotExists)
	assert.Zero(t, buf.Len(), "nothing written on failure")
}

func TestInfo_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.Error(t, New(dir).Render(&buf))
	assert.Zero(t, buf.Len())
}

func TestNew_DefaultsToWorkingDirectory(t *testing.T) {
	assert.Equal(t, ".", New("").Path)
	assert.Equal(t, "git", New("x").Name())
}
