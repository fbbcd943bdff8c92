// Package button derives the contextual action button for a source-control
// panel from repository state and user configuration.
//
// An ActionButton subscribes to a repository's status and operation
// notifications plus the configuration store, folds them into a small
// immutable snapshot, and derives a Button descriptor on demand. Consumers
// subscribe to OnDidChange and re-read Button() when it fires.
package button

import (
	"sync"

	"github.com/mrz1836/gitbar/internal/config"
	"github.com/mrz1836/gitbar/internal/event"
	"github.com/mrz1836/gitbar/internal/scm"
)

// Repository is the read-only view of repository state the button observes.
// *scm.Repository satisfies it.
type Repository interface {
	// Head returns the current branch reference, or nil when unknown.
	Head() *scm.Branch

	// Counts returns the pending-change group sizes.
	Counts() scm.ChangeCounts

	// AnyOperationRunning reports whether any of the given operation kinds
	// is currently active.
	AnyOperationRunning(kinds ...scm.OperationKind) bool

	// IsBranchProtected reports whether the current branch is protected.
	IsBranchProtected() bool

	// SyncTooltip returns the repository's sync summary, passed through
	// verbatim as the idle sync button tooltip.
	SyncTooltip() string

	// Handle returns the opaque command-invocation argument.
	Handle() string

	// OnDidChangeStatus registers a status-refresh observer.
	OnDidChangeStatus(fn func()) event.Subscription

	// OnDidRunOperations registers a running-operation-set observer.
	OnDidRunOperations(fn func()) event.Subscription
}

// Settings is the scoped configuration view the button observes.
// *config.Store satisfies it.
type Settings interface {
	// Config returns the current configuration snapshot.
	Config() *config.Config

	// OnDidChange registers a configuration-change observer.
	OnDidChange(fn func(config.Change)) event.Subscription
}

// runningKinds are the user-visible long-running operation kinds that put
// the button into its running state.
var runningKinds = []scm.OperationKind{scm.OpCommit, scm.OpSync, scm.OpPush, scm.OpPull} //nolint:gochecknoglobals // Package-level constant-like list

// state is the immutable snapshot the button derives from.
// It is replaced as a whole, never partially mutated.
type state struct {
	branch          *scm.Branch
	isActionRunning bool
	hasNoChanges    bool
}

// equal reports structural equality over all snapshot fields.
// Reference equality is not enough: a refresh that reproduces identical
// facts must not look like a change.
func (s state) equal(other state) bool {
	return s.isActionRunning == other.isActionRunning &&
		s.hasNoChanges == other.hasNoChanges &&
		s.branch.Equal(other.branch)
}

// ActionButton observes a repository and settings and derives the current
// action button on demand.
type ActionButton struct {
	repo     Repository
	settings Settings

	mu    sync.Mutex
	state state

	changed  event.Emitter[struct{}]
	disposer event.Disposer
}

// New creates an ActionButton observing repo and settings.
// The initial snapshot has no branch, no running action and a dirty-unknown
// working tree; the first status notification populates it.
func New(repo Repository, settings Settings) *ActionButton {
	b := &ActionButton{
		repo:     repo,
		settings: settings,
	}
	b.disposer.Add(repo.OnDidChangeStatus(b.onStatusChanged))
	b.disposer.Add(repo.OnDidRunOperations(b.onOperationsChanged))
	b.disposer.Add(settings.OnDidChange(b.onSettingsChanged))
	return b
}

// onStatusChanged folds a refreshed status into a new snapshot.
func (b *ActionButton) onStatusChanged() {
	b.mu.Lock()
	next := b.state
	next.branch = b.repo.Head()
	next.hasNoChanges = b.repo.Counts().IsClean()
	b.replaceLocked(next)
}

// onOperationsChanged folds the running-operation set into a new snapshot.
func (b *ActionButton) onOperationsChanged() {
	b.mu.Lock()
	next := b.state
	next.isActionRunning = b.repo.AnyOperationRunning(runningKinds...)
	b.replaceLocked(next)
}

// replaceLocked adopts next if it is structurally different from the current
// snapshot, firing a single change notification. Deep-equal replacements are
// dropped so redundant refreshes cause no UI churn. The caller must hold
// b.mu; the lock is released before notifying.
func (b *ActionButton) replaceLocked(next state) {
	if b.state.equal(next) {
		b.mu.Unlock()
		return
	}
	b.state = next
	b.mu.Unlock()
	b.changed.Fire(struct{}{})
}

// onSettingsChanged re-notifies consumers when a display-policy setting
// changed. The snapshot is untouched: the underlying facts are the same,
// but derivation may now yield a different button.
func (b *ActionButton) onSettingsChanged(change config.Change) {
	if config.ButtonSettingsEqual(change.Old, change.New) {
		return
	}
	b.changed.Fire(struct{}{})
}

// OnDidChange registers fn to run whenever a re-derivation might yield a
// different button.
func (b *ActionButton) OnDidChange(fn func()) event.Subscription {
	return b.changed.Subscribe(func(struct{}) { fn() })
}

// Button derives the current action button descriptor, or nil when no
// button should show. The descriptor is computed fresh on every call.
func (b *ActionButton) Button() *Button {
	b.mu.Lock()
	st := b.state
	b.mu.Unlock()

	return derive(st, facts{
		cfg:         b.settings.Config(),
		syncTooltip: b.repo.SyncTooltip(),
		protected:   b.repo.IsBranchProtected(),
		handle:      b.repo.Handle(),
	})
}

// Dispose releases all subscriptions. Safe to call more than once.
func (b *ActionButton) Dispose() {
	b.disposer.Dispose()
}
