package config

import "github.com/spf13/viper"

// DefaultConfig returns a Config populated with built-in defaults.
// These values match setDefaults exactly.
func DefaultConfig() *Config {
	return &Config{
		Button: ButtonConfig{
			ShowCommit:             false,
			ShowUnpublished:        ShowUnpublishedWhenEmpty,
			BranchProtectionPrompt: PromptAlwaysPrompt,
		},
		Git: GitConfig{
			Remote:            "origin",
			PostCommitCommand: PostCommitNone,
			RebaseWhenSync:    false,
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	// Button defaults
	v.SetDefault("button.show_commit", false)
	v.SetDefault("button.show_unpublished", ShowUnpublishedWhenEmpty)
	v.SetDefault("button.branch_protection_prompt", PromptAlwaysPrompt)

	// Git defaults
	v.SetDefault("git.remote", "origin")
	v.SetDefault("git.post_commit_command", PostCommitNone)
	v.SetDefault("git.rebase_when_sync", false)
	v.SetDefault("git.branch_protection", []string{})
}
