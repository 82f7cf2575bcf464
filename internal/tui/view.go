package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model. The whole screen is rebuilt on every
// call; there is no incremental diffing.
func (model Model) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	header := "taskpad"
	if model.authenticated && model.username != "" {
		header += faintStyle.Render("  ·  " + model.username)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	if model.authenticated {
		model.renderTaskView(&b)
	} else {
		model.renderLoginView(&b)
	}

	if model.banner != "" {
		errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorForeground)
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + model.banner))
		b.WriteString("\n")
	}

	return b.String()
}

// renderLoginView renders the Anonymous view: the sign-in form and no
// task data whatsoever.
func (model Model) renderLoginView(b *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	b.WriteString(labelStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(model.usernameInput.View())
	b.WriteString("\n")
	b.WriteString(model.passwordInput.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter sign in · ctrl+r register · tab switch field · ctrl+c quit"))
	b.WriteString("\n")
}

// renderTaskView renders the Authenticated view: the new-task input
// above the list, one row per task, or the placeholder row when the
// list is empty.
func (model Model) renderTaskView(b *strings.Builder) {
	normalStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	completedStyle := lipgloss.NewStyle().Foreground(model.theme.CompletedText).Strikethrough(true)
	selectedStyle := lipgloss.NewStyle().
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	b.WriteString(model.newTaskInput.View())
	b.WriteString("\n\n")

	if len(model.tasks) == 0 {
		b.WriteString(faintStyle.Render(emptyListPlaceholder))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("i new task · r refresh · ctrl+l logout · q quit"))
		b.WriteString("\n")
		return
	}

	for i, task := range model.tasks {
		box := "[ ]"
		if task.IsCompleted {
			box = "[x]"
		}
		row := box + " " + task.Description

		switch {
		case i == model.cursor && !model.inputFocused:
			b.WriteString(selectedStyle.Render("> " + row))
		case task.IsCompleted:
			b.WriteString("  " + completedStyle.Render(row))
		default:
			b.WriteString("  " + normalStyle.Render(row))
		}
		b.WriteString("\n")
	}

	// The toggle hint names the action for the selected task's
	// current state: "Complete" for an open task, "Undo" for a
	// completed one.
	toggleLabel := "Complete"
	if model.cursor < len(model.tasks) && model.tasks[model.cursor].IsCompleted {
		toggleLabel = "Undo"
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter " + toggleLabel + " · d delete · i new task · r refresh · ctrl+l logout · q quit"))
	b.WriteString("\n")
}
