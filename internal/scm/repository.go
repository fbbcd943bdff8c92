// Package scm provides the repository abstraction gitbar observes.
// This file implements the observable Repository built on a Runner.
package scm

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/gitbar/internal/event"
	gitbarerrors "github.com/mrz1836/gitbar/internal/errors"
)

// Repository observes a git working tree and exposes its state through
// read-only queries and change notifications. Status reads are materialized
// by Refresh; operation wrappers (CommitAll, Sync, Publish, ...) track the
// running-operation set and notify subscribers on every lifecycle edge.
type Repository struct {
	root      string
	runner    Runner
	handle    string
	remote    string
	protected []string
	logger    zerolog.Logger
	ops       *OperationSet

	mu     sync.Mutex
	head   *Branch
	counts ChangeCounts

	statusChanged     event.Emitter[struct{}]
	operationsChanged event.Emitter[struct{}]
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithProtectedBranches sets the glob patterns that mark a branch as protected.
func WithProtectedBranches(patterns []string) RepositoryOption {
	return func(r *Repository) {
		r.protected = patterns
	}
}

// WithRemote sets the remote used for push and publish operations.
// Defaults to "origin".
func WithRemote(remote string) RepositoryOption {
	return func(r *Repository) {
		if remote != "" {
			r.remote = remote
		}
	}
}

// WithLogger sets the logger used for repository diagnostics.
func WithLogger(logger zerolog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = logger
	}
}

// NewRepository creates a Repository rooted at root, backed by runner.
// The branch reference is unset until the first Refresh.
func NewRepository(root string, runner Runner, opts ...RepositoryOption) *Repository {
	r := &Repository{
		root:   root,
		runner: runner,
		handle: uuid.NewString(),
		remote: "origin",
		logger: zerolog.Nop(),
		ops:    NewOperationSet(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("component", "repository").Str("root", root).Logger()
	return r
}

// Root returns the working tree root this repository observes.
func (r *Repository) Root() string {
	return r.root
}

// Handle returns the opaque identifier used as a command-invocation argument
// for buttons derived from this repository.
func (r *Repository) Handle() string {
	return r.handle
}

// Head returns a copy of the current branch reference, or nil before the
// first successful Refresh.
func (r *Repository) Head() *Branch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.head.Clone()
}

// Counts returns the pending-change group sizes from the latest Refresh.
func (r *Repository) Counts() ChangeCounts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts
}

// IsOperationRunning reports whether an operation of the given kind is active.
func (r *Repository) IsOperationRunning(kind OperationKind) bool {
	return r.ops.IsRunning(kind)
}

// AnyOperationRunning reports whether any of the given kinds is active.
func (r *Repository) AnyOperationRunning(kinds ...OperationKind) bool {
	return r.ops.AnyRunning(kinds...)
}

// IsBranchProtected reports whether the current branch matches any of the
// configured protection patterns. Patterns use path.Match syntax
// (e.g. "main", "release/*").
func (r *Repository) IsBranchProtected() bool {
	head := r.Head()
	if head == nil || head.Name == "" {
		return false
	}
	for _, pattern := range r.protected {
		if ok, err := path.Match(pattern, head.Name); err == nil && ok {
			return true
		}
	}
	return false
}

// SyncTooltip returns a human-readable summary of what a sync would do,
// derived from the latest ahead/behind counts.
func (r *Repository) SyncTooltip() string {
	head := r.Head()
	if head == nil || !head.HasUpstream() {
		return "Synchronize changes"
	}

	up := head.Upstream.String()
	var parts []string
	if head.Behind > 0 {
		parts = append(parts, fmt.Sprintf("Pull %d %s from %s", head.Behind, pluralCommits(head.Behind), up))
	}
	if head.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("Push %d %s to %s", head.Ahead, pluralCommits(head.Ahead), up))
	}
	if len(parts) == 0 {
		return "Synchronize changes"
	}
	return strings.Join(parts, ", ")
}

// pluralCommits returns "commit" or "commits" for n.
func pluralCommits(n int) string {
	if n == 1 {
		return "commit"
	}
	return "commits"
}

// OnDidChangeStatus registers fn to run after every status refresh.
func (r *Repository) OnDidChangeStatus(fn func()) event.Subscription {
	return r.statusChanged.Subscribe(func(struct{}) { fn() })
}

// OnDidRunOperations registers fn to run whenever the running-operation set
// changes (an operation starts or finishes).
func (r *Repository) OnDidRunOperations(fn func()) event.Subscription {
	return r.operationsChanged.Subscribe(func(struct{}) { fn() })
}

// Refresh re-reads the repository status and notifies status subscribers.
// Subscribers are notified even when the snapshot is unchanged; consumers
// that care apply their own equality gate.
func (r *Repository) Refresh(ctx context.Context) error {
	status, err := r.runner.Status(ctx)
	if err != nil {
		return gitbarerrors.Wrap(err, "failed to refresh repository status")
	}

	r.mu.Lock()
	r.head = status.Branch
	r.counts = status.Counts
	r.mu.Unlock()

	r.logger.Debug().
		Str("branch", status.Branch.Name).
		Int("ahead", status.Branch.Ahead).
		Int("behind", status.Branch.Behind).
		Int("changes", status.Counts.Total()).
		Msg("status refreshed")

	r.statusChanged.Fire(struct{}{})
	return nil
}

// CommitAll stages everything and commits it with the given message,
// tracked as a commit operation.
func (r *Repository) CommitAll(ctx context.Context, message string) error {
	return r.runOperation(ctx, OpCommit, func(ctx context.Context) error {
		return r.runner.Commit(ctx, message)
	})
}

// Push pushes the current branch to its upstream, tracked as a push operation.
func (r *Repository) Push(ctx context.Context) error {
	head := r.Head()
	if head == nil || head.Name == "" {
		return gitbarerrors.ErrNoBranch
	}
	if !head.HasUpstream() {
		return gitbarerrors.ErrNoUpstream
	}
	return r.runOperation(ctx, OpPush, func(ctx context.Context) error {
		return r.runner.Push(ctx, head.Upstream.Remote, head.Name, false)
	})
}

// Pull integrates upstream changes, tracked as a pull operation.
func (r *Repository) Pull(ctx context.Context, rebase bool) error {
	return r.runOperation(ctx, OpPull, func(ctx context.Context) error {
		return r.runner.Pull(ctx, rebase)
	})
}

// Sync pulls then pushes, tracked as a single sync operation.
// When rebase is true the pull rebases instead of merging.
func (r *Repository) Sync(ctx context.Context, rebase bool) error {
	head := r.Head()
	if head == nil || head.Name == "" {
		return gitbarerrors.ErrNoBranch
	}
	if !head.HasUpstream() {
		return gitbarerrors.ErrNoUpstream
	}
	return r.runOperation(ctx, OpSync, func(ctx context.Context) error {
		if err := r.runner.Pull(ctx, rebase); err != nil {
			return err
		}
		return r.runner.Push(ctx, head.Upstream.Remote, head.Name, false)
	})
}

// Publish pushes the current branch to the configured remote and sets its
// upstream, tracked as a push operation.
func (r *Repository) Publish(ctx context.Context) error {
	head := r.Head()
	if head == nil || head.Name == "" {
		return gitbarerrors.ErrNoBranch
	}
	return r.runOperation(ctx, OpPush, func(ctx context.Context) error {
		return r.runner.Push(ctx, r.remote, head.Name, true)
	})
}

// Fetch downloads refs from the configured remote, tracked as a fetch
// operation.
func (r *Repository) Fetch(ctx context.Context) error {
	return r.runOperation(ctx, OpFetch, func(ctx context.Context) error {
		return r.runner.Fetch(ctx, r.remote)
	})
}

// runOperation runs fn with kind marked active in the operation set,
// notifying operation subscribers on both lifecycle edges. The status is
// refreshed afterwards so observers see the operation's outcome; refresh
// failures are logged, not returned, so they don't mask fn's result.
func (r *Repository) runOperation(ctx context.Context, kind OperationKind, fn func(context.Context) error) error {
	r.ops.Start(kind)
	r.operationsChanged.Fire(struct{}{})

	err := fn(ctx)

	r.ops.End(kind)
	r.operationsChanged.Fire(struct{}{})

	if refreshErr := r.Refresh(ctx); refreshErr != nil {
		r.logger.Warn().Err(refreshErr).Str("operation", string(kind)).Msg("post-operation refresh failed")
	}

	if err != nil {
		return gitbarerrors.Wrapf(err, "%s failed", kind)
	}
	return nil
}
