package cli

import (
	"context"
	"time"

	"github.com/mrz1836/gitbar/internal/button"
	"github.com/mrz1836/gitbar/internal/config"
	"github.com/mrz1836/gitbar/internal/errors"
	"github.com/mrz1836/gitbar/internal/scm"
)

// SettingsReader provides the effective configuration at invocation time.
// Satisfied by *config.Store.
type SettingsReader interface {
	Config() *config.Config
}

// Invoker routes button commands to repository operations.
type Invoker struct {
	repo     *scm.Repository
	settings SettingsReader
}

// NewInvoker creates an Invoker bound to the given repository and settings.
func NewInvoker(repo *scm.Repository, settings SettingsReader) *Invoker {
	return &Invoker{repo: repo, settings: settings}
}

// Invoke executes the repository operation behind a button command.
// The inert sentinel is a no-op; unknown identifiers are an error.
func (i *Invoker) Invoke(ctx context.Context, cmd button.Command) error {
	switch cmd.ID {
	case button.CommandNoop:
		return nil
	case button.CommandCommit:
		return i.commit(ctx)
	case button.CommandSync:
		return i.repo.Sync(ctx, false)
	case button.CommandSyncRebase:
		return i.repo.Sync(ctx, true)
	case button.CommandPublish:
		return i.repo.Publish(ctx)
	default:
		return errors.Wrapf(errors.ErrUnknownCommand, "%q", cmd.ID)
	}
}

// commit stages and commits all changes, then runs the configured
// post-commit operation.
func (i *Invoker) commit(ctx context.Context) error {
	cfg := i.settings.Config()

	if err := i.repo.CommitAll(ctx, defaultCommitMessage(time.Now())); err != nil {
		return err
	}

	switch cfg.Git.PostCommitCommand {
	case config.PostCommitPush:
		return i.repo.Push(ctx)
	case config.PostCommitSync:
		return i.repo.Sync(ctx, cfg.Git.RebaseWhenSync)
	default:
		return nil
	}
}

// defaultCommitMessage builds the commit message used when none is supplied.
func defaultCommitMessage(now time.Time) string {
	return "Changes from " + now.Format("2006-01-02 15:04:05")
}
