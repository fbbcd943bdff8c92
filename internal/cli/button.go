package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitbar/internal/button"
	"github.com/mrz1836/gitbar/internal/config"
	"github.com/mrz1836/gitbar/internal/scm"
	"github.com/mrz1836/gitbar/internal/tui"
)

// buttonOutput is the JSON envelope for the button command.
type buttonOutput struct {
	Branch  string         `json:"branch,omitempty"`
	Visible bool           `json:"visible"`
	Button  *button.Button `json:"button,omitempty"`
}

// newButtonCmd creates the button command, which reads the repository state
// once and prints the derived action button.
func newButtonCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "button",
		Short: "Print the contextual action for the repository",
		Long: `Read the repository status once and print the action gitbar would offer:
commit, sync, or publish. Use --output json for machine-readable output.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runButton(cmd.Context(), cmd.OutOrStdout(), flags)
		},
		SilenceUsage: true,
	}
}

// AddButtonCommand adds the button command to the root command.
func AddButtonCommand(rootCmd *cobra.Command, flags *GlobalFlags) {
	rootCmd.AddCommand(newButtonCmd(flags))
}

// runButton performs the one-shot read and prints the result.
func runButton(ctx context.Context, w io.Writer, flags *GlobalFlags) error {
	repo, store, err := openRepository(ctx, flags)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ab := button.New(repo, store)
	defer ab.Dispose()

	if err := repo.Refresh(ctx); err != nil {
		return err
	}

	btn := ab.Button()
	if flags.Output == OutputJSON {
		return printButtonJSON(w, repo, btn)
	}

	tui.CheckNoColor()
	styles := tui.NewButtonStyles()
	branch := ""
	if head := repo.Head(); head != nil {
		branch = head.Name
	}
	_, _ = fmt.Fprintln(w, tui.RenderBranchLine(branch, styles))
	_, _ = fmt.Fprintln(w, tui.RenderButton(btn, styles))
	return nil
}

// printButtonJSON writes the machine-readable envelope.
func printButtonJSON(w io.Writer, repo *scm.Repository, btn *button.Button) error {
	out := buttonOutput{Visible: btn != nil, Button: btn}
	if head := repo.Head(); head != nil {
		out.Branch = head.Name
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// openRepository detects the repository at the configured directory and
// builds the repository and configuration store used by all commands.
func openRepository(ctx context.Context, flags *GlobalFlags) (*scm.Repository, *config.Store, error) {
	logger := GetLogger()

	root, err := scm.DetectRoot(ctx, flags.Dir)
	if err != nil {
		return nil, nil, err
	}

	store, err := config.NewStore(ctx, root, config.WithStoreLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	cfg := store.Config()
	repo := scm.NewRepository(root, scm.NewCLIRunner(root),
		scm.WithRemote(cfg.Git.Remote),
		scm.WithProtectedBranches(cfg.Git.BranchProtection),
		scm.WithLogger(logger),
	)

	return repo, store, nil
}
