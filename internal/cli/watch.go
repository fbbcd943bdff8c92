package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/gitbar/internal/button"
	"github.com/mrz1836/gitbar/internal/constants"
	"github.com/mrz1836/gitbar/internal/scm"
	"github.com/mrz1836/gitbar/internal/tui"
)

// newWatchCmd creates the watch command, which renders the action button
// live and re-derives it on repository and configuration changes.
func newWatchCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the repository and render the action button live",
		Long: `Watch the repository worktree and configuration files, re-deriving the
contextual action on every change. Press enter to run the action, q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), flags)
		},
		SilenceUsage: true,
	}
}

// AddWatchCommand adds the watch command to the root command.
func AddWatchCommand(rootCmd *cobra.Command, flags *GlobalFlags) {
	rootCmd.AddCommand(newWatchCmd(flags))
}

// runWatch wires the repository watcher, the configuration store, and the
// Bubble Tea program together.
func runWatch(ctx context.Context, flags *GlobalFlags) error {
	logger := GetLogger()

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

	if err := store.Watch(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Filesystem events trigger a bounded status refresh. Refresh failures
	// are logged, not fatal; the next event tries again.
	refresh := func() {
		refreshCtx, done := context.WithTimeout(ctx, constants.DefaultStatusTimeout)
		defer done()
		if refreshErr := repo.Refresh(refreshCtx); refreshErr != nil {
			logger.Warn().Err(refreshErr).Msg("status refresh failed")
		}
	}

	watcher, err := scm.NewWatcher(repo.Root(), refresh, scm.WithWatcherLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	model := tui.NewWatchModel(ctx, ab, repo, NewInvoker(repo, store))
	program := tea.NewProgram(model, tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, runErr := program.Run()
		cancel()
		return runErr
	})
	g.Go(func() error {
		<-gctx.Done()
		program.Quit()
		return nil
	})

	return g.Wait()
}
