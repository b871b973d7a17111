package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	dir := t.TempDir()
	err := Init(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitOutputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "impact.csv"), []byte("code,name\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("scratch"), 0o644))

	hash, err := CommitOutputs(dir, []string{"impact.csv"}, "surcharge: refresh tables", "Test Author", "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "surcharge: refresh tables")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Test Author <test@example.com>")

	// Files outside the output list stay untracked.
	status := exec.Command("git", "status", "--porcelain", "untracked.txt")
	status.Dir = dir
	out, err = status.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "?? untracked.txt")
}

func TestCommitOutputsNoChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "impact.csv"), []byte("code,name\n"), 0o644))
	_, err := CommitOutputs(dir, []string{"impact.csv"}, "first", "A", "a@example.com")
	require.NoError(t, err)

	// Same bytes again: no commit, no error.
	hash, err := CommitOutputs(dir, []string{"impact.csv"}, "second", "A", "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, hash)
}
