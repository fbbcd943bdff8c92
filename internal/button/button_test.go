package button_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitbar/internal/button"
	"github.com/mrz1836/gitbar/internal/config"
	"github.com/mrz1836/gitbar/internal/event"
	"github.com/mrz1836/gitbar/internal/scm"
)

// fakeRepo is a scriptable button.Repository.
type fakeRepo struct {
	head      *scm.Branch
	counts    scm.ChangeCounts
	running   map[scm.OperationKind]bool
	protected bool
	tooltip   string
	handle    string

	statusChanged event.Emitter[struct{}]
	opsChanged    event.Emitter[struct{}]
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		running: make(map[scm.OperationKind]bool),
		tooltip: "Push 1 commit to origin/main",
		handle:  "repo-1",
	}
}

func (f *fakeRepo) Head() *scm.Branch          { return f.head.Clone() }
func (f *fakeRepo) Counts() scm.ChangeCounts   { return f.counts }
func (f *fakeRepo) IsBranchProtected() bool    { return f.protected }
func (f *fakeRepo) SyncTooltip() string        { return f.tooltip }
func (f *fakeRepo) Handle() string             { return f.handle }

func (f *fakeRepo) AnyOperationRunning(kinds ...scm.OperationKind) bool {
	for _, kind := range kinds {
		if f.running[kind] {
			return true
		}
	}
	return false
}

func (f *fakeRepo) OnDidChangeStatus(fn func()) event.Subscription {
	return f.statusChanged.Subscribe(func(struct{}) { fn() })
}

func (f *fakeRepo) OnDidRunOperations(fn func()) event.Subscription {
	return f.opsChanged.Subscribe(func(struct{}) { fn() })
}

// setStatus updates the scripted status and fires the status notification.
func (f *fakeRepo) setStatus(head *scm.Branch, counts scm.ChangeCounts) {
	f.head = head
	f.counts = counts
	f.statusChanged.Fire(struct{}{})
}

// setRunning updates the scripted operation set and fires the operations
// notification.
func (f *fakeRepo) setRunning(kind scm.OperationKind, active bool) {
	if active {
		f.running[kind] = true
	} else {
		delete(f.running, kind)
	}
	f.opsChanged.Fire(struct{}{})
}

// fakeSettings is a scriptable button.Settings.
type fakeSettings struct {
	cfg     *config.Config
	changed event.Emitter[config.Change]
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{cfg: config.DefaultConfig()}
}

func (f *fakeSettings) Config() *config.Config { return f.cfg.Clone() }

func (f *fakeSettings) OnDidChange(fn func(config.Change)) event.Subscription {
	return f.changed.Subscribe(fn)
}

// update applies mutate to a copy of the config and fires the change event.
func (f *fakeSettings) update(mutate func(*config.Config)) {
	old := f.cfg
	next := old.Clone()
	mutate(next)
	f.cfg = next
	f.changed.Fire(config.Change{Old: old.Clone(), New: next.Clone()})
}

func upstreamBranch(ahead, behind int) *scm.Branch {
	return &scm.Branch{
		Name:     "main",
		Commit:   "abc123",
		Upstream: &scm.Upstream{Remote: "origin", Name: "main"},
		Ahead:    ahead,
		Behind:   behind,
	}
}

func localBranch() *scm.Branch {
	return &scm.Branch{Name: "feat/x", Commit: "abc123"}
}

func dirty() scm.ChangeCounts { return scm.ChangeCounts{WorkingTree: 1} }

func TestNoButtonWithoutActionableBranch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		branch *scm.Branch
	}{
		{name: "no branch reference", branch: nil},
		{name: "detached head", branch: &scm.Branch{Commit: "abc123"}},
		{name: "unborn branch", branch: &scm.Branch{Name: "main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeRepo()
			settings := newFakeSettings()
			// Even permissive settings cannot produce a button here.
			settings.cfg.Button.ShowCommit = true
			settings.cfg.Button.ShowUnpublished = config.ShowUnpublishedAlways

			b := button.New(repo, settings)
			defer b.Dispose()

			repo.setStatus(tt.branch, dirty())
			assert.Nil(t, b.Button())

			repo.setStatus(tt.branch, scm.ChangeCounts{})
			assert.Nil(t, b.Button())
		})
	}
}

func TestSyncRequiresAheadCommits(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	b := button.New(repo, newFakeSettings())
	defer b.Dispose()

	// Clean, upstream present, but nothing to push.
	repo.setStatus(upstreamBranch(0, 3), scm.ChangeCounts{})
	assert.Nil(t, b.Button())
}

func TestSyncTitleCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		ahead, behind int
		wantBehind    bool
	}{
		{name: "ahead only", ahead: 2, behind: 0, wantBehind: false},
		{name: "ahead and behind", ahead: 3, behind: 5, wantBehind: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeRepo()
			b := button.New(repo, newFakeSettings())
			defer b.Dispose()

			repo.setStatus(upstreamBranch(tt.ahead, tt.behind), scm.ChangeCounts{})

			btn := b.Button()
			require.NotNil(t, btn)
			assert.Equal(t, button.CommandSync, btn.Command.ID)
			assert.Contains(t, btn.Command.Title, fmt.Sprintf("↑%d", tt.ahead))
			if tt.wantBehind {
				assert.Contains(t, btn.Command.Title, fmt.Sprintf("↓%d", tt.behind))
			} else {
				assert.NotContains(t, btn.Command.Title, "↓")
			}
			// Title doubles as the description for the sync variant.
			assert.Equal(t, btn.Command.Title, btn.Description)
		})
	}
}

func TestSyncRebaseSettingSelectsCommand(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	settings := newFakeSettings()
	settings.cfg.Git.RebaseWhenSync = true

	b := button.New(repo, settings)
	defer b.Dispose()

	repo.setStatus(upstreamBranch(1, 0), scm.ChangeCounts{})

	btn := b.Button()
	require.NotNil(t, btn)
	assert.Equal(t, button.CommandSyncRebase, btn.Command.ID)
}

func TestSyncTooltipPassedThroughVerbatim(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.tooltip = "Pull 2 commits from origin/main, Push 1 commit to origin/main"
	b := button.New(repo, newFakeSettings())
	defer b.Dispose()

	repo.setStatus(upstreamBranch(1, 2), scm.ChangeCounts{})

	btn := b.Button()
	require.NotNil(t, btn)
	assert.Equal(t, repo.tooltip, btn.Command.Tooltip)
}

func TestPublishButtonWithoutUpstream(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	b := button.New(repo, newFakeSettings())
	defer b.Dispose()

	repo.setStatus(localBranch(), scm.ChangeCounts{})

	btn := b.Button()
	require.NotNil(t, btn)
	assert.Equal(t, button.CommandPublish, btn.Command.ID)
	assert.Contains(t, btn.Command.Title, "Publish Branch")
	assert.Empty(t, btn.Description)
	assert.Equal(t, []any{"repo-1"}, btn.Command.Args)
}

func TestUnpublishedSettingGatesCleanTreeButton(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setting string
		visible bool
	}{
		{name: "always", setting: config.ShowUnpublishedAlways, visible: true},
		{name: "whenEmpty", setting: config.ShowUnpublishedWhenEmpty, visible: true},
		{name: "never", setting: config.ShowUnpublishedNever, visible: false},
		{name: "unrecognized value behaves as never", setting: "sometimes", visible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeRepo()
			settings := newFakeSettings()
			settings.cfg.Button.ShowUnpublished = tt.setting

			b := button.New(repo, settings)
			defer b.Dispose()

			repo.setStatus(localBranch(), scm.ChangeCounts{})
			assert.Equal(t, tt.visible, b.Button() != nil)
		})
	}
}

func TestCommitButtonVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		postCommit  string
		wantTitle   string
		wantTooltip string
	}{
		{
			name:        "push variant",
			postCommit:  config.PostCommitPush,
			wantTitle:   "Commit & Push",
			wantTooltip: "Commit & push changes",
		},
		{
			name:        "sync variant",
			postCommit:  config.PostCommitSync,
			wantTitle:   "Commit & Sync",
			wantTooltip: "Commit & sync changes",
		},
		{
			name:        "plain commit when unset",
			postCommit:  config.PostCommitNone,
			wantTitle:   "Commit",
			wantTooltip: "Commit changes",
		},
		{
			name:        "unrecognized value falls back to plain commit",
			postCommit:  "rebase",
			wantTitle:   "Commit",
			wantTooltip: "Commit changes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeRepo()
			settings := newFakeSettings()
			settings.cfg.Button.ShowCommit = true
			settings.cfg.Git.PostCommitCommand = tt.postCommit

			b := button.New(repo, settings)
			defer b.Dispose()

			repo.setStatus(upstreamBranch(0, 0), dirty())

			btn := b.Button()
			require.NotNil(t, btn)
			assert.Equal(t, button.CommandCommit, btn.Command.ID)
			assert.Contains(t, btn.Command.Title, tt.wantTitle)
			assert.Equal(t, tt.wantTooltip, btn.Command.Tooltip)
			assert.Empty(t, btn.Description)
		})
	}
}

func TestCommitButtonHiddenWhenDisabled(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	b := button.New(repo, newFakeSettings())
	defer b.Dispose()

	// show_commit defaults to false.
	repo.setStatus(upstreamBranch(2, 0), dirty())
	assert.Nil(t, b.Button())
}

func TestBranchProtectionPrecedence(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.protected = true
	settings := newFakeSettings()
	settings.cfg.Button.ShowCommit = true
	settings.cfg.Button.BranchProtectionPrompt = config.PromptAlwaysCommitToNewBranch
	// The protection variant must win even over an explicit post-commit push.
	settings.cfg.Git.PostCommitCommand = config.PostCommitPush

	b := button.New(repo, settings)
	defer b.Dispose()

	repo.setStatus(upstreamBranch(0, 0), dirty())

	btn := b.Button()
	require.NotNil(t, btn)
	assert.Contains(t, btn.Command.Title, "Commit to New Branch")
	assert.Equal(t, "Commit changes to new branch", btn.Description)
	assert.Equal(t, button.CommandCommit, btn.Command.ID)
}

func TestBranchProtectionRequiresNewBranchPolicy(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.protected = true
	settings := newFakeSettings()
	settings.cfg.Button.ShowCommit = true
	settings.cfg.Button.BranchProtectionPrompt = config.PromptAlwaysPrompt
	settings.cfg.Git.PostCommitCommand = config.PostCommitPush

	b := button.New(repo, settings)
	defer b.Dispose()

	repo.setStatus(upstreamBranch(0, 0), dirty())

	btn := b.Button()
	require.NotNil(t, btn)
	assert.Contains(t, btn.Command.Title, "Commit & Push")
	assert.Empty(t, btn.Description)
}

func TestButtonReadIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	settings := newFakeSettings()
	settings.cfg.Button.ShowCommit = true

	b := button.New(repo, settings)
	defer b.Dispose()

	repo.setStatus(upstreamBranch(1, 1), dirty())

	first := b.Button()
	second := b.Button()
	require.NotNil(t, first)
	assert.True(t, first.Equal(second))
	assert.NotSame(t, first, second, "descriptors are derived fresh, never cached")
}

func TestChangeNotificationCoalescing(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	b := button.New(repo, newFakeSettings())
	defer b.Dispose()

	notified := 0
	sub := b.OnDidChange(func() { notified++ })
	defer sub.Dispose()

	repo.setStatus(upstreamBranch(1, 0), scm.ChangeCounts{})
	require.Equal(t, 1, notified)

	// Structurally identical snapshot: zero notifications.
	repo.setStatus(upstreamBranch(1, 0), scm.ChangeCounts{Staged: 0})
	assert.Equal(t, 1, notified)

	// Same facts again via the operations path.
	repo.opsChanged.Fire(struct{}{})
	assert.Equal(t, 1, notified)

	// Structurally different snapshot: exactly one notification.
	repo.setStatus(upstreamBranch(2, 0), scm.ChangeCounts{})
	assert.Equal(t, 2, notified)
}

func TestRunningStateBlanksCommand(t *testing.T) {
	t.Parallel()

	for _, kind := range []scm.OperationKind{scm.OpCommit, scm.OpSync, scm.OpPush, scm.OpPull} {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			repo := newFakeRepo()
			b := button.New(repo, newFakeSettings())
			defer b.Dispose()

			repo.setStatus(upstreamBranch(1, 0), scm.ChangeCounts{})
			require.Equal(t, button.CommandSync, b.Button().Command.ID)

			repo.setRunning(kind, true)
			btn := b.Button()
			require.NotNil(t, btn, "button identity survives the running state")
			assert.Equal(t, button.CommandNoop, btn.Command.ID)
			assert.Equal(t, "Synchronizing changes...", btn.Command.Tooltip)

			repo.setRunning(kind, false)
			assert.Equal(t, button.CommandSync, b.Button().Command.ID)
		})
	}
}

func TestUntrackedOperationKindsDoNotBlankCommand(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	b := button.New(repo, newFakeSettings())
	defer b.Dispose()

	repo.setStatus(upstreamBranch(1, 0), scm.ChangeCounts{})
	repo.setRunning(scm.OpFetch, true)

	assert.Equal(t, button.CommandSync, b.Button().Command.ID)
}

func TestRunningPublishVariant(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	b := button.New(repo, newFakeSettings())
	defer b.Dispose()

	repo.setStatus(localBranch(), scm.ChangeCounts{})
	repo.setRunning(scm.OpPush, true)

	btn := b.Button()
	require.NotNil(t, btn)
	assert.Equal(t, button.CommandNoop, btn.Command.ID)
	assert.Equal(t, "Publishing branch...", btn.Command.Tooltip)
}

func TestRunningCommitTooltipVariants(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	settings := newFakeSettings()
	settings.cfg.Button.ShowCommit = true
	settings.cfg.Git.PostCommitCommand = config.PostCommitPush

	b := button.New(repo, settings)
	defer b.Dispose()

	repo.setStatus(upstreamBranch(0, 0), dirty())
	repo.setRunning(scm.OpCommit, true)

	btn := b.Button()
	require.NotNil(t, btn)
	assert.Equal(t, button.CommandNoop, btn.Command.ID)
	assert.Equal(t, "Committing & pushing changes...", btn.Command.Tooltip)
}

func TestSettingsChangeFiresNotification(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	settings := newFakeSettings()
	b := button.New(repo, settings)
	defer b.Dispose()

	repo.setStatus(upstreamBranch(0, 0), dirty())

	notified := 0
	sub := b.OnDidChange(func() { notified++ })
	defer sub.Dispose()

	// A display-policy change re-notifies even though the snapshot is
	// untouched.
	settings.update(func(c *config.Config) { c.Button.ShowCommit = true })
	assert.Equal(t, 1, notified)
	require.NotNil(t, b.Button())

	// A non-display key change stays silent.
	settings.update(func(c *config.Config) { c.Git.PostCommitCommand = config.PostCommitSync })
	assert.Equal(t, 1, notified)
}

func TestDisposeStopsNotifications(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	settings := newFakeSettings()
	b := button.New(repo, settings)

	notified := 0
	b.OnDidChange(func() { notified++ })

	b.Dispose()
	b.Dispose() // idempotent

	repo.setStatus(upstreamBranch(1, 0), scm.ChangeCounts{})
	repo.setRunning(scm.OpSync, true)
	settings.update(func(c *config.Config) { c.Button.ShowCommit = true })

	assert.Zero(t, notified)
}
