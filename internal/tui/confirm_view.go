package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/orgdesk/directory-api/internal/confirm"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	destructiveBoxStyle = confirmBoxStyle.
				BorderForeground(lipgloss.Color("9"))

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("63")).
				Padding(0, 2).
				MarginRight(2)

	destructiveButtonStyle = confirmButtonStyle.
				Background(lipgloss.Color("9"))

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmView(state confirm.State) string {
	opts := state.Options

	box, button, title := confirmBoxStyle, confirmButtonStyle, titleStyle.Render(opts.Title)
	if opts.Destructive {
		box, button, title = destructiveBoxStyle, destructiveButtonStyle, errorStyle.Render("⚠  "+opts.Title)
	}

	footer := lipgloss.JoinHorizontal(
		lipgloss.Left,
		button.Render(opts.ConfirmLabel+" (y)"),
		cancelButtonStyle.Render(opts.CancelLabel+" (n/esc)"),
	)
	if state.Loading {
		footer = mutedStyle.Render("Working...")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		opts.Message,
		"",
		footer,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(content),
	)
}

// handleConfirmKeys answers the open dialog. Keys are ignored while the
// confirmed action runs.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog.State().Loading {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y", "enter":
		m.dialog.Confirm()
	case "n", "N", "esc", "q":
		m.dialog.Cancel()
	}
	return m, nil
}
