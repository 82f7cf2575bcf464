package api

import (
	"errors"
	"net/http"
)

// Operation names carried in Error.Op.
const (
	opList     = "list"
	opCreate   = "create"
	opUpdate   = "update"
	opDelete   = "delete"
	opRegister = "register"
	opLogin    = "login"
)

// ErrNoSession is returned by authenticated operations when no session
// is stored. Callers treat it as a silent abort: no request was sent
// and there is nothing to report to the user.
var ErrNoSession = errors.New("no session")

// Error is a failed API operation. Message is the human-readable text
// shown to the user: the fixed per-operation message for task
// operations, or the server's own message for auth endpoints when the
// response body carried one.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// IsAuthRejected reports whether err is an API error with an
// authentication-rejection status (401 or 403). By the time callers
// see such an error the session store has already been cleared.
func IsAuthRejected(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized ||
		apiErr.StatusCode == http.StatusForbidden
}

// genericMessage returns the fixed failure text for an operation.
func genericMessage(op string) string {
	switch op {
	case opList:
		return "fetch failed"
	case opCreate:
		return "create failed"
	case opUpdate:
		return "update failed"
	case opDelete:
		return "delete failed"
	case opRegister:
		return "register failed"
	case opLogin:
		return "login failed"
	}
	return "request failed"
}
