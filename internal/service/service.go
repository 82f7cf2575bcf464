// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All calls to the remote task API go through this interface.
// Commands and the TUI never speak HTTP directly.
type Service interface {
	// ListTasks returns the user's tasks in API order.
	// Requires a present session; without one, no request is sent.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a new task with the given description.
	// The caller is responsible for trimming the description and
	// skipping the call entirely when it is empty.
	CreateTask(ctx context.Context, description string) error

	// SetTaskCompletion sets a task's completion flag.
	SetTaskCompletion(ctx context.Context, id string, isCompleted bool) error

	// DeleteTask deletes a task. No existence check is performed
	// client-side; the server's response status decides the outcome.
	DeleteTask(ctx context.Context, id string) error

	// Register creates a new account. A nil return is the
	// confirmation; failures carry the server's message when present.
	Register(ctx context.Context, username, password string) error

	// Login exchanges credentials for a session. Persisting the
	// session is the caller's responsibility.
	Login(ctx context.Context, username, password string) (Session, error)
}
