package tui

import (
	"strings"

	"github.com/mrz1836/gitbar/internal/button"
)

// hiddenMessage is shown when no button applies to the current state.
const hiddenMessage = "(no action available)"

// RenderButton renders a one-line representation of the action button:
// the styled title, followed by the tooltip in muted text.
// A nil button renders the hidden placeholder.
func RenderButton(b *button.Button, styles *ButtonStyles) string {
	if b == nil {
		return styles.Hidden.Render(hiddenMessage)
	}

	titleStyle := styles.Title
	if b.Command.ID == button.CommandNoop {
		titleStyle = styles.Running
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(b.Command.Title))
	if b.Command.Tooltip != "" {
		sb.WriteString("  ")
		sb.WriteString(styles.Tooltip.Render(b.Command.Tooltip))
	}
	return sb.String()
}

// RenderBranchLine renders the branch context line shown above the button.
func RenderBranchLine(branchName string, styles *ButtonStyles) string {
	if branchName == "" {
		return styles.Hidden.Render("(no branch)")
	}
	return styles.Branch.Render("on " + branchName)
}
