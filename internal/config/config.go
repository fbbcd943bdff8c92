// Package config provides configuration management for gitbar with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. Environment variables (GITBAR_* prefix)
//  2. Repository config (<root>/.gitbar/config.yaml)
//  3. Global config (~/.gitbar/config.yaml)
//  4. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants, internal/errors and
// internal/event, but MUST NOT import other internal packages.
package config

// Config is the root configuration structure for gitbar.
type Config struct {
	// Button contains settings controlling which action button is shown.
	Button ButtonConfig `yaml:"button" mapstructure:"button"`

	// Git contains settings for git operations and branch policy.
	Git GitConfig `yaml:"git" mapstructure:"git"`
}

// ButtonConfig controls the action button derivation.
type ButtonConfig struct {
	// ShowCommit enables the commit button when the working tree has
	// pending changes.
	// Default: false
	ShowCommit bool `yaml:"show_commit" mapstructure:"show_commit"`

	// ShowUnpublished controls when the sync/publish button appears for a
	// clean working tree.
	// Recognized values: "always", "whenEmpty". Any other value disables
	// the button.
	// Default: "whenEmpty"
	ShowUnpublished string `yaml:"show_unpublished" mapstructure:"show_unpublished"`

	// BranchProtectionPrompt selects how commits against a protected branch
	// are handled.
	// Recognized values: "alwaysCommit", "alwaysCommitToNewBranch",
	// "alwaysPrompt".
	// Default: "alwaysPrompt"
	BranchProtectionPrompt string `yaml:"branch_protection_prompt" mapstructure:"branch_protection_prompt"`
}

// GitConfig contains settings for git operations.
type GitConfig struct {
	// Remote is the name of the remote used for publish and fetch.
	// Default: "origin"
	Remote string `yaml:"remote" mapstructure:"remote"`

	// PostCommitCommand selects a follow-up action after a commit.
	// Recognized values: "push", "sync". Any other value (including unset)
	// means commit only.
	// Default: "" (commit only)
	PostCommitCommand string `yaml:"post_commit_command,omitempty" mapstructure:"post_commit_command"`

	// RebaseWhenSync makes sync rebase instead of merge when pulling.
	// Default: false
	RebaseWhenSync bool `yaml:"rebase_when_sync" mapstructure:"rebase_when_sync"`

	// BranchProtection is a list of glob patterns naming protected branches
	// (e.g. "main", "release/*").
	BranchProtection []string `yaml:"branch_protection,omitempty" mapstructure:"branch_protection"`
}

// Recognized values for ButtonConfig.ShowUnpublished.
// Unrecognized values intentionally disable the button rather than erroring;
// consumers switch on these constants and fall through for anything else.
const (
	// ShowUnpublishedAlways shows the sync/publish button whenever the
	// working tree is clean.
	ShowUnpublishedAlways = "always"

	// ShowUnpublishedWhenEmpty shows the sync/publish button only when the
	// working tree is clean (same visible behavior as "always" today; the
	// two values are kept distinct for host compatibility).
	ShowUnpublishedWhenEmpty = "whenEmpty"

	// ShowUnpublishedNever disables the sync/publish button.
	ShowUnpublishedNever = "never"
)

// Recognized values for ButtonConfig.BranchProtectionPrompt.
const (
	// PromptAlwaysCommit commits directly to the protected branch.
	PromptAlwaysCommit = "alwaysCommit"

	// PromptAlwaysCommitToNewBranch redirects the commit to a new branch.
	PromptAlwaysCommitToNewBranch = "alwaysCommitToNewBranch"

	// PromptAlwaysPrompt asks the user each time.
	PromptAlwaysPrompt = "alwaysPrompt"
)

// Recognized values for GitConfig.PostCommitCommand.
const (
	// PostCommitNone performs no follow-up action after a commit.
	PostCommitNone = ""

	// PostCommitPush pushes after a commit.
	PostCommitPush = "push"

	// PostCommitSync syncs (pull then push) after a commit.
	PostCommitSync = "sync"
)

// ButtonSettingsEqual reports whether the settings that gate button
// visibility are identical between two configs. Changes to other keys
// (e.g. post_commit_command) only matter at derivation time and do not
// warrant a re-render notification.
func ButtonSettingsEqual(a, b *Config) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Button.ShowCommit == b.Button.ShowCommit &&
		a.Button.ShowUnpublished == b.Button.ShowUnpublished &&
		a.Button.BranchProtectionPrompt == b.Button.BranchProtectionPrompt
}

// Clone returns a deep copy of the config. A nil receiver yields nil.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Git.BranchProtection != nil {
		clone.Git.BranchProtection = append([]string(nil), c.Git.BranchProtection...)
	}
	return &clone
}
