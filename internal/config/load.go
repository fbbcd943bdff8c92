package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/gitbar/internal/constants"
	"github.com/mrz1836/gitbar/internal/errors"
)

// newViperInstance creates a new Viper instance with standard gitbar
// configuration: defaults, GITBAR_ env prefix and key replacer.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads configuration scoped to the working tree rooted at root.
// Sources are loaded in the following order (highest precedence first):
//  1. Environment variables (GITBAR_* prefix)
//  2. Repository config (<root>/.gitbar/config.yaml)
//  3. Global config (~/.gitbar/config.yaml)
//  4. Built-in defaults
//
// The function returns an error only for actual configuration problems,
// not for missing config files (which are the common case). Unrecognized
// enum values are preserved as-is; consumers treat them as the documented
// default behavior.
func Load(ctx context.Context, root string) (*Config, error) {
	globalPath := ""
	if p, err := GlobalConfigPath(); err == nil {
		globalPath = p
	}
	return LoadFromPaths(ctx, RepoConfigPath(root), globalPath)
}

// LoadFromPaths loads configuration from specific file paths.
// repoConfigPath is the repository-scoped config (higher priority);
// globalConfigPath is the global config (lower priority). Either path can
// be empty or missing to skip that level.
func LoadFromPaths(ctx context.Context, repoConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	// Global config first (lower precedence)
	if globalConfigPath != "" && fileExists(globalConfigPath) {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	// Repository config (higher precedence, merges over global)
	if repoConfigPath != "" && fileExists(repoConfigPath) {
		v.SetConfigFile(repoConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read repository config: %s", repoConfigPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Bool("button.show_commit", cfg.Button.ShowCommit).
		Str("button.show_unpublished", cfg.Button.ShowUnpublished).
		Str("button.branch_protection_prompt", cfg.Button.BranchProtectionPrompt).
		Str("git.post_commit_command", cfg.Git.PostCommitCommand).
		Msg("configuration loaded")

	return &cfg, nil
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
