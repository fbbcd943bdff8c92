// Package tui renders the contextual action button for the terminal.
//
// All colors use AdaptiveColor for light/dark terminal support, and
// CheckNoColor honors the NO_COLOR convention before any styled output.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for the action title and active states.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for clean-tree and completed states.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used while an operation is running.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failed operations.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for tooltips and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// ButtonStyles holds the lipgloss styles for rendering the action button.
type ButtonStyles struct {
	Title   lipgloss.Style
	Tooltip lipgloss.Style
	Branch  lipgloss.Style
	Running lipgloss.Style
	Error   lipgloss.Style
	Hidden  lipgloss.Style
}

// NewButtonStyles creates the styles for action button rendering.
func NewButtonStyles() *ButtonStyles {
	return &ButtonStyles{
		Title: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		Tooltip: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Branch: lipgloss.NewStyle().
			Foreground(ColorSuccess),
		Running: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Hidden: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Faint(true),
	}
}

// CheckNoColor disables styling when the environment opts out of color.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns true if the terminal supports colors.
// Returns false if NO_COLOR is set (any value including empty string) or
// TERM=dumb, following https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return true
}
