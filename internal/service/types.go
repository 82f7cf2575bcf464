// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task item.
type Task struct {
	ID          string
	Description string
	IsCompleted bool
}

// Session is the client-held proof of authentication.
type Session struct {
	Token    string
	Username string
}

// Present reports whether the session carries both a token and a
// username. Validity is decided only by the server's response codes.
func (s Session) Present() bool {
	return s.Token != "" && s.Username != ""
}
