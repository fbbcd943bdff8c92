package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes content to dir/.gitbar/config.yaml and returns the path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	cfgDir := filepath.Join(dir, ".gitbar")
	require.NoError(t, os.MkdirAll(cfgDir, 0o750))
	path := filepath.Join(cfgDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromPathsDefaults(t *testing.T) {
	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)

	assert.False(t, cfg.Button.ShowCommit)
	assert.Equal(t, ShowUnpublishedWhenEmpty, cfg.Button.ShowUnpublished)
	assert.Equal(t, PromptAlwaysPrompt, cfg.Button.BranchProtectionPrompt)
	assert.Equal(t, "origin", cfg.Git.Remote)
	assert.Equal(t, PostCommitNone, cfg.Git.PostCommitCommand)
	assert.False(t, cfg.Git.RebaseWhenSync)
	assert.Empty(t, cfg.Git.BranchProtection)
}

func TestLoadFromPathsRepoConfig(t *testing.T) {
	repoPath := writeConfig(t, t.TempDir(), `
button:
  show_commit: true
  show_unpublished: always
git:
  post_commit_command: push
  rebase_when_sync: true
  branch_protection:
    - main
    - release/*
`)

	cfg, err := LoadFromPaths(context.Background(), repoPath, "")
	require.NoError(t, err)

	assert.True(t, cfg.Button.ShowCommit)
	assert.Equal(t, ShowUnpublishedAlways, cfg.Button.ShowUnpublished)
	assert.Equal(t, PostCommitPush, cfg.Git.PostCommitCommand)
	assert.True(t, cfg.Git.RebaseWhenSync)
	assert.Equal(t, []string{"main", "release/*"}, cfg.Git.BranchProtection)
}

func TestLoadFromPathsRepoOverridesGlobal(t *testing.T) {
	globalPath := writeConfig(t, t.TempDir(), `
button:
  show_commit: true
  show_unpublished: never
git:
  remote: upstream
`)
	repoPath := writeConfig(t, t.TempDir(), `
button:
  show_unpublished: always
`)

	cfg, err := LoadFromPaths(context.Background(), repoPath, globalPath)
	require.NoError(t, err)

	// Repo value wins where set; global shows through elsewhere.
	assert.Equal(t, ShowUnpublishedAlways, cfg.Button.ShowUnpublished)
	assert.True(t, cfg.Button.ShowCommit)
	assert.Equal(t, "upstream", cfg.Git.Remote)
}

func TestLoadFromPathsUnrecognizedEnumIsPreserved(t *testing.T) {
	repoPath := writeConfig(t, t.TempDir(), `
button:
  show_unpublished: sometimes
git:
  post_commit_command: dance
`)

	cfg, err := LoadFromPaths(context.Background(), repoPath, "")
	require.NoError(t, err)

	// Unrecognized values are not errors; consumers treat them as the
	// documented default behavior at derivation time.
	assert.Equal(t, "sometimes", cfg.Button.ShowUnpublished)
	assert.Equal(t, "dance", cfg.Git.PostCommitCommand)
}

func TestLoadFromPathsMissingFiles(t *testing.T) {
	cfg, err := LoadFromPaths(context.Background(),
		filepath.Join(t.TempDir(), "absent", "config.yaml"),
		filepath.Join(t.TempDir(), "absent", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Button, cfg.Button)
}

func TestButtonSettingsEqual(t *testing.T) {
	base := DefaultConfig()

	same := base.Clone()
	same.Git.PostCommitCommand = PostCommitSync
	assert.True(t, ButtonSettingsEqual(base, same),
		"post_commit_command is not a visibility setting")

	diff := base.Clone()
	diff.Button.ShowCommit = true
	assert.False(t, ButtonSettingsEqual(base, diff))

	diff = base.Clone()
	diff.Button.ShowUnpublished = ShowUnpublishedNever
	assert.False(t, ButtonSettingsEqual(base, diff))

	diff = base.Clone()
	diff.Button.BranchProtectionPrompt = PromptAlwaysCommitToNewBranch
	assert.False(t, ButtonSettingsEqual(base, diff))
}

func TestConfigCloneIsDeep(t *testing.T) {
	orig := DefaultConfig()
	orig.Git.BranchProtection = []string{"main"}

	clone := orig.Clone()
	clone.Git.BranchProtection[0] = "mutated"

	assert.Equal(t, "main", orig.Git.BranchProtection[0])
}
