// Package scm provides the repository abstraction gitbar observes.
// This file defines the Runner interface for git CLI operations.
package scm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	gitbarerrors "github.com/mrz1836/gitbar/internal/errors"
)

// Runner defines the git operations the repository needs.
// All operations run in the runner's working directory and use context
// for cancellation.
type Runner interface {
	// Status returns the current branch reference and change-group counts.
	Status(ctx context.Context) (*Status, error)

	// Commit stages all changes and creates a commit with the given message.
	Commit(ctx context.Context, message string) error

	// Push pushes the current branch to remote.
	// If setUpstream is true, sets the upstream tracking reference.
	Push(ctx context.Context, remote, branch string, setUpstream bool) error

	// Pull integrates upstream changes, rebasing instead of merging when
	// rebase is true.
	Pull(ctx context.Context, rebase bool) error

	// Fetch downloads objects and refs from a remote without merging.
	Fetch(ctx context.Context, remote string) error
}

// CLIRunner implements Runner by shelling out to the git binary.
type CLIRunner struct {
	workDir string
}

// Ensure CLIRunner implements Runner.
var _ Runner = (*CLIRunner)(nil)

// NewCLIRunner creates a CLIRunner that executes git in workDir.
func NewCLIRunner(workDir string) *CLIRunner {
	return &CLIRunner{workDir: workDir}
}

// RunCommand executes a git command in the specified directory and returns its output.
// All errors are wrapped with ErrGitOperation and include stderr for debugging.
func RunCommand(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check for context cancellation
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// Include stderr in error for debugging, wrap with ErrGitOperation
		if stderr.Len() > 0 {
			return "", fmt.Errorf("git %s failed: %s: %w", args[0], strings.TrimSpace(stderr.String()), gitbarerrors.ErrGitOperation)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], gitbarerrors.ErrGitOperation)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// DetectRoot resolves the top-level directory of the working tree containing dir.
// Returns ErrNotARepository when dir is not inside a git working tree.
func DetectRoot(ctx context.Context, dir string) (string, error) {
	out, err := RunCommand(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%q: %w", dir, gitbarerrors.ErrNotARepository)
	}
	return out, nil
}

// Status implements Runner.
func (r *CLIRunner) Status(ctx context.Context) (*Status, error) {
	out, err := r.run(ctx, "status", "--porcelain=v2", "--branch")
	if err != nil {
		return nil, err
	}
	return ParseStatus(out)
}

// Commit implements Runner. All pending changes are staged first so the
// quick-commit button behaves like "commit everything".
func (r *CLIRunner) Commit(ctx context.Context, message string) error {
	if message == "" {
		return fmt.Errorf("commit message: %w", gitbarerrors.ErrEmptyValue)
	}
	if _, err := r.run(ctx, "add", "--all"); err != nil {
		return err
	}
	_, err := r.run(ctx, "commit", "--message", message)
	return err
}

// Push implements Runner.
func (r *CLIRunner) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, remote, branch)
	_, err := r.run(ctx, args...)
	return err
}

// Pull implements Runner.
func (r *CLIRunner) Pull(ctx context.Context, rebase bool) error {
	args := []string{"pull"}
	if rebase {
		args = append(args, "--rebase")
	}
	_, err := r.run(ctx, args...)
	return err
}

// Fetch implements Runner.
func (r *CLIRunner) Fetch(ctx context.Context, remote string) error {
	_, err := r.run(ctx, "fetch", remote)
	return err
}

// run executes git with the runner's working directory, checking for
// cancellation at entry.
func (r *CLIRunner) run(ctx context.Context, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return RunCommand(ctx, r.workDir, args...)
}
