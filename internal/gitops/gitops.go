package gitops

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNothingToCommit is returned by Commit when the staged paths are unchanged.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies who a snapshot commit is made by.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", subcommand(args), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "init", "--quiet")
	return err
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(ctx context.Context, dir string) bool {
	out, err := git(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Commit stages paths and commits them. Returns the short commit hash, or
// ErrNothingToCommit if none of the paths changed since the last commit.
func Commit(ctx context.Context, dir string, paths []string, message string, author Author) (string, error) {
	if len(paths) == 0 {
		return "", ErrNothingToCommit
	}

	add := append([]string{"add", "--"}, paths...)
	if _, err := git(ctx, dir, add...); err != nil {
		return "", err
	}

	diff := append([]string{"diff", "--cached", "--quiet", "--"}, paths...)
	if _, err := git(ctx, dir, diff...); err == nil {
		return "", ErrNothingToCommit
	}

	// Committer identity comes from the author so commits work without global git config.
	commit := []string{
		"-c", "user.name=" + author.Name,
		"-c", "user.email=" + author.Email,
		"commit", "--quiet", "-m", message, "--author", author.String(), "--",
	}
	if _, err := git(ctx, dir, append(commit, paths...)...); err != nil {
		return "", err
	}

	return git(ctx, dir, "rev-parse", "--short", "HEAD")
}
