// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskpad/internal/service"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [{x| }]  {DESCRIPTION}\n" (4-wide right-aligned
// number, completion box, description).
func FormatTask(w io.Writer, num int, task service.Task) {
	box := " "
	if task.IsCompleted {
		box = "x"
	}
	fmt.Fprintf(w, "%4d  [%s]  %s\n", num, box, normalizeDescription(task.Description))
}

// normalizeDescription normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeDescription(description string) string {
	description = strings.ReplaceAll(description, "\r", " ")
	description = strings.ReplaceAll(description, "\n", " ")

	if strings.TrimSpace(description) == "" {
		return "(untitled)"
	}
	return description
}
