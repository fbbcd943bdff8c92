package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/gitbar/internal/config"
	"github.com/mrz1836/gitbar/internal/scm"
	"github.com/mrz1836/gitbar/internal/tui"
)

// InitFlags holds flags specific to the init command.
type InitFlags struct {
	// NoInteractive skips all prompts and uses default values.
	NoInteractive bool
	// Global writes the global config (~/.gitbar/config.yaml).
	Global bool
	// Project writes the per-repository config (<root>/.gitbar/config.yaml).
	Project bool
}

// newInitCmd creates the init command for writing a starter configuration.
func newInitCmd(global *GlobalFlags, flags *InitFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter gitbar configuration",
		Long: `Write a configuration file with the default gitbar settings.

Configuration can be saved to:
  - Global: ~/.gitbar/config.yaml (applies to all repositories)
  - Project: .gitbar/config.yaml (repository-specific overrides)

Without --global or --project the global config is written. An existing
file is only overwritten after confirmation; use --no-interactive to back
it up and overwrite without prompting.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), cmd.OutOrStdout(), global, flags)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&flags.NoInteractive, "no-interactive", false, "skip all prompts and use default values")
	cmd.Flags().BoolVar(&flags.Global, "global", false, "write the global config (~/.gitbar/config.yaml)")
	cmd.Flags().BoolVar(&flags.Project, "project", false, "write the repository config (.gitbar/config.yaml)")
	cmd.MarkFlagsMutuallyExclusive("global", "project")

	return cmd
}

// AddInitCommand adds the init command to the root command.
func AddInitCommand(rootCmd *cobra.Command, global *GlobalFlags) {
	flags := &InitFlags{}
	rootCmd.AddCommand(newInitCmd(global, flags))
}

// runInit resolves the target path and writes the default configuration.
func runInit(ctx context.Context, w io.Writer, global *GlobalFlags, flags *InitFlags) error {
	configPath, err := resolveInitPath(ctx, global, flags)
	if err != nil {
		return err
	}

	tui.CheckNoColor()
	styles := tui.NewButtonStyles()

	if _, statErr := os.Stat(configPath); statErr == nil {
		overwrite := flags.NoInteractive
		if !flags.NoInteractive {
			if overwrite, err = confirmOverwrite(configPath); err != nil {
				return err
			}
		}
		if !overwrite {
			_, _ = fmt.Fprintln(w, styles.Tooltip.Render("Keeping existing config: "+configPath))
			return nil
		}
		backupPath := configPath + ".backup"
		if copyErr := copyFile(configPath, backupPath); copyErr != nil {
			logger := GetLogger()
			logger.Warn().
				Err(copyErr).
				Str("backup_path", backupPath).
				Msg("failed to create config backup")
		}
	}

	if err := writeDefaultConfig(configPath); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, styles.Branch.Render("✓ Configuration written"))
	_, _ = fmt.Fprintln(w, styles.Tooltip.Render("  "+configPath))
	return nil
}

// resolveInitPath picks the config file path for the requested scope.
func resolveInitPath(ctx context.Context, global *GlobalFlags, flags *InitFlags) (string, error) {
	if flags.Project {
		root, err := scm.DetectRoot(ctx, global.Dir)
		if err != nil {
			return "", err
		}
		return config.RepoConfigPath(root), nil
	}
	return config.GlobalConfigPath()
}

// confirmOverwrite asks before replacing an existing config file.
func confirmOverwrite(configPath string) (bool, error) {
	var overwrite bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Overwrite existing configuration?").
				Description(configPath).
				Affirmative("Yes (a backup is kept)").
				Negative("No").
				Value(&overwrite),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return false, err
	}
	return overwrite, nil
}

// writeDefaultConfig marshals the default configuration with a header
// comment and writes it with restrictive permissions.
func writeDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := fmt.Sprintf("# gitbar configuration\n# Generated by gitbar init on %s\n\n",
		time.Now().Format(time.RFC3339))

	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) //nolint:gosec // Source is config file
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}
