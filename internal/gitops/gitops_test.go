package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(context.Background(), dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	assert.False(t, IsRepo(ctx, dir), "empty dir should not be a repo")

	require.NoError(t, Init(ctx, dir))
	assert.True(t, IsRepo(ctx, dir), "initialized dir should be a repo")

	sub := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	assert.True(t, IsRepo(ctx, sub), "subdirectory should be inside the repo")
}

func TestCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Largest_banks_data.csv"), []byte(",Name\n0,A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("x"), 0o644))

	hash, err := Commit(ctx, dir, []string{"Largest_banks_data.csv"}, "data: 1 bank", testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitLog(t, dir, "%s"), "data: 1 bank")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Test Author <test@example.com>")

	status := exec.Command("git", "status", "--porcelain")
	status.Dir = dir
	out, err := status.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "?? untracked.txt", "only the named paths are committed")
}

func TestCommit_Unchanged(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out.csv"), []byte("a\n"), 0o644))

	_, err := Commit(ctx, dir, []string{"out.csv"}, "first", testAuthor)
	require.NoError(t, err)

	_, err = Commit(ctx, dir, []string{"out.csv"}, "second", testAuthor)
	assert.ErrorIs(t, err, ErrNothingToCommit)

	_, err = Commit(ctx, dir, nil, "empty", testAuthor)
	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestCommit_NotARepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out.csv"), []byte("a\n"), 0o644))

	_, err := Commit(context.Background(), dir, []string{"out.csv"}, "msg", testAuthor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git add")
}

func TestSubcommand(t *testing.T) {
	assert.Equal(t, "commit", subcommand([]string{"-c", "user.name=x", "-c", "user.email=y", "commit", "-m", "m"}))
	assert.Equal(t, "add", subcommand([]string{"add", "--", "a"}))
}
