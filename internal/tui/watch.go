package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/gitbar/internal/button"
	"github.com/mrz1836/gitbar/internal/event"
	"github.com/mrz1836/gitbar/internal/scm"
)

// ButtonSource yields the current action button and change notifications.
// Satisfied by *button.ActionButton.
type ButtonSource interface {
	Button() *button.Button
	OnDidChange(fn func()) event.Subscription
}

// BranchReader exposes the current branch reference for the context line.
// Satisfied by *scm.Repository.
type BranchReader interface {
	Head() *scm.Branch
}

// CommandInvoker executes a button command.
type CommandInvoker interface {
	Invoke(ctx context.Context, cmd button.Command) error
}

// ChangeMsg signals that the action button changed and should be re-read.
type ChangeMsg struct{}

// InvokeResultMsg carries the outcome of a command invocation.
type InvokeResultMsg struct {
	Err error
}

// WatchModel is the Bubble Tea model for watch mode. It re-renders the
// action button whenever the underlying state reports a change.
// It implements the tea.Model interface (Init, Update, View).
type WatchModel struct {
	src     ButtonSource
	repo    BranchReader
	invoker CommandInvoker
	styles  *ButtonStyles
	spinner spinner.Model

	// Current render state
	current *button.Button
	branch  string
	err     error

	// Change notifications arrive on this channel; the subscription keeps
	// at most one pending wakeup so bursts coalesce.
	changes chan struct{}
	sub     event.Subscription

	width    int
	quitting bool

	// baseCtx is stored for use in async Bubble Tea commands.
	// Storing context in structs is generally discouraged, but Bubble Tea's
	// async command model requires it for proper context propagation.
	baseCtx context.Context //nolint:containedctx // Required for Bubble Tea async commands
}

// NewWatchModel creates a WatchModel subscribed to src.
func NewWatchModel(ctx context.Context, src ButtonSource, repo BranchReader, invoker CommandInvoker) *WatchModel {
	m := &WatchModel{
		src:     src,
		repo:    repo,
		invoker: invoker,
		styles:  NewButtonStyles(),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		changes: make(chan struct{}, 1),
		width:   80,
		baseCtx: ctx,
	}
	m.spinner.Style = lipgloss.NewStyle().Foreground(ColorWarning)
	m.sub = src.OnDidChange(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	return m
}

// Init performs the initial read and starts listening for changes.
func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return ChangeMsg{} },
		m.waitForChange(),
		m.spinner.Tick,
	)
}

// Update handles messages and returns the updated model and any commands.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.sub.Dispose()
			return m, tea.Quit
		case "enter":
			return m, m.invokeCurrent()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case ChangeMsg:
		m.reread()
		return m, m.waitForChange()

	case InvokeResultMsg:
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the branch context line, the button line, and a key hint.
func (m *WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(RenderBranchLine(m.branch, m.styles))
	b.WriteString("\n")

	if m.isRunning() {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
	}
	b.WriteString(RenderButton(m.current, m.styles))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Tooltip.Render("Press enter to run, q to quit"))
	b.WriteString("\n")
	return b.String()
}

// CurrentButton returns the button as of the last change (useful for testing).
func (m *WatchModel) CurrentButton() *button.Button {
	return m.current
}

// IsQuitting returns true if the model is in quitting state.
func (m *WatchModel) IsQuitting() bool {
	return m.quitting
}

// Error returns the error from the last command invocation.
func (m *WatchModel) Error() error {
	return m.err
}

// reread refreshes the cached render state from the sources.
func (m *WatchModel) reread() {
	m.current = m.src.Button()
	if head := m.repo.Head(); head != nil {
		m.branch = head.Name
	} else {
		m.branch = ""
	}
}

// isRunning reports whether the button carries the inert command sentinel,
// which is only the case while an operation runs.
func (m *WatchModel) isRunning() bool {
	return m.current != nil && m.current.Command.ID == button.CommandNoop
}

// waitForChange blocks until the next change notification arrives.
func (m *WatchModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return ChangeMsg{}
	}
}

// invokeCurrent runs the current button command asynchronously.
// The inert sentinel and a hidden button are both no-ops.
func (m *WatchModel) invokeCurrent() tea.Cmd {
	current := m.current
	if current == nil || current.Command.ID == button.CommandNoop {
		return nil
	}

	cmd := current.Command
	return func() tea.Msg {
		ctx := m.baseCtx
		if ctx == nil {
			ctx = context.Background()
		}
		return InvokeResultMsg{Err: m.invoker.Invoke(ctx, cmd)}
	}
}
