// Package button derives the contextual action button for a source-control
// panel from repository state and user configuration.
// This file defines the button descriptor and its derivation rules.
package button

import (
	"fmt"

	"github.com/mrz1836/gitbar/internal/config"
	"github.com/mrz1836/gitbar/internal/scm"
)

// Command identifiers carried by derived buttons. The rendering host routes
// an activated button to the matching repository operation.
const (
	// CommandCommit commits all pending changes.
	CommandCommit = "gitbar.commit"

	// CommandSync pulls then pushes the current branch.
	CommandSync = "gitbar.sync"

	// CommandSyncRebase is CommandSync with a rebasing pull.
	CommandSyncRebase = "gitbar.syncRebase"

	// CommandPublish pushes the current branch and sets its upstream.
	CommandPublish = "gitbar.publish"

	// CommandNoop is the sentinel identifier carried while an operation is
	// already running; activating it has no effect.
	CommandNoop = ""
)

// Glyphs used in button titles.
const (
	glyphSync      = "⟳"
	glyphSyncSpin  = "◌"
	glyphPublish   = "⇪"
	glyphCommit    = "✓"
	glyphNewBranch = "⎇"
	glyphAhead     = "↑"
	glyphBehind    = "↓"
)

// Command is the invocable part of a button descriptor.
type Command struct {
	// ID is the command identifier, or CommandNoop while an operation runs.
	ID string `json:"id"`
	// Title is the visible button label.
	Title string `json:"title"`
	// Tooltip is the hover text.
	Tooltip string `json:"tooltip,omitempty"`
	// Args are the invocation arguments (the repository handle).
	Args []any `json:"args,omitempty"`
}

// Button is a derived action button descriptor.
// It is a value produced fresh on every read, never cached.
type Button struct {
	// Command is what activating the button invokes.
	Command Command `json:"command"`
	// Description is secondary label text; empty means absent.
	Description string `json:"description,omitempty"`
}

// Equal reports whether two descriptors are interchangeable, nil-safe.
func (b *Button) Equal(other *Button) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Description != other.Description ||
		b.Command.ID != other.Command.ID ||
		b.Command.Title != other.Command.Title ||
		b.Command.Tooltip != other.Command.Tooltip ||
		len(b.Command.Args) != len(other.Command.Args) {
		return false
	}
	for i := range b.Command.Args {
		if b.Command.Args[i] != other.Command.Args[i] {
			return false
		}
	}
	return true
}

// facts bundles the collaborator values derivation needs beyond the snapshot.
type facts struct {
	cfg         *config.Config
	syncTooltip string
	protected   bool
	handle      string
}

// derive produces the button descriptor for a snapshot, or nil when no
// button should show. It is a pure function of its inputs.
func derive(st state, f facts) *Button {
	branch := st.branch
	// No committed history or no active branch: nothing is actionable.
	if branch == nil || branch.Name == "" || branch.Commit == "" {
		return nil
	}

	if st.hasNoChanges {
		switch f.cfg.Button.ShowUnpublished {
		case config.ShowUnpublishedAlways, config.ShowUnpublishedWhenEmpty:
			if branch.HasUpstream() {
				return syncButton(branch, st.isActionRunning, f)
			}
			return publishButton(st.isActionRunning, f.handle)
		default:
			return nil
		}
	}

	if !f.cfg.Button.ShowCommit {
		return nil
	}
	return commitButton(st.isActionRunning, f)
}

// syncButton derives the sync variant. Requires a nonzero ahead count;
// a branch that is only behind has nothing to push, so no button shows.
func syncButton(branch *scm.Branch, running bool, f facts) *Button {
	if branch.Ahead == 0 {
		return nil
	}

	icon := glyphSync
	if running {
		icon = glyphSyncSpin
	}
	behind := ""
	if branch.Behind > 0 {
		behind = fmt.Sprintf("%s%d ", glyphBehind, branch.Behind)
	}
	ahead := fmt.Sprintf("%s%d", glyphAhead, branch.Ahead)
	label := fmt.Sprintf("%s %s%s", icon, behind, ahead)

	id := CommandSync
	if f.cfg.Git.RebaseWhenSync {
		id = CommandSyncRebase
	}
	tooltip := f.syncTooltip
	if running {
		id = CommandNoop
		tooltip = "Synchronizing changes..."
	}

	return &Button{
		Command: Command{
			ID:      id,
			Title:   label,
			Tooltip: tooltip,
			Args:    []any{f.handle},
		},
		Description: label,
	}
}

// publishButton derives the publish variant for a branch with no upstream.
func publishButton(running bool, handle string) *Button {
	id := CommandPublish
	tooltip := "Publish branch"
	if running {
		id = CommandNoop
		tooltip = "Publishing branch..."
	}

	return &Button{
		Command: Command{
			ID:      id,
			Title:   glyphPublish + " Publish Branch",
			Tooltip: tooltip,
			Args:    []any{handle},
		},
	}
}

// commitButton derives the commit variant. Branch protection takes
// precedence over the post-commit-command setting.
func commitButton(running bool, f facts) *Button {
	id := CommandCommit
	if running {
		id = CommandNoop
	}
	cmd := Command{ID: id, Args: []any{f.handle}}

	if f.protected && f.cfg.Button.BranchProtectionPrompt == config.PromptAlwaysCommitToNewBranch {
		cmd.Title = glyphNewBranch + " Commit to New Branch"
		if running {
			cmd.Tooltip = "Committing changes to new branch..."
		} else {
			cmd.Tooltip = "Commit changes to new branch"
		}
		return &Button{Command: cmd, Description: "Commit changes to new branch"}
	}

	switch f.cfg.Git.PostCommitCommand {
	case config.PostCommitPush:
		cmd.Title = glyphCommit + " Commit & Push"
		if running {
			cmd.Tooltip = "Committing & pushing changes..."
		} else {
			cmd.Tooltip = "Commit & push changes"
		}
	case config.PostCommitSync:
		cmd.Title = glyphCommit + " Commit & Sync"
		if running {
			cmd.Tooltip = "Committing & syncing changes..."
		} else {
			cmd.Tooltip = "Commit & sync changes"
		}
	default:
		cmd.Title = glyphCommit + " Commit"
		if running {
			cmd.Tooltip = "Committing changes..."
		} else {
			cmd.Tooltip = "Commit changes"
		}
	}

	return &Button{Command: cmd}
}
