// Package api implements the service.Service interface against the
// task-tracking REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"taskpad/internal/config"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

const (
	tasksPath    = "/api/tasks"
	registerPath = "/api/auth/register"
	loginPath    = "/api/auth/login"
)

// Client implements service.Service over HTTP. The session store is
// both the source of the bearer token and the target of the forced
// logout on authentication-rejection responses.
type Client struct {
	baseURL string
	store   *session.Store
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client for the server named in cfg. The logger is used
// for debug-level request logging; pass nil to discard.
func New(cfg *config.Config, store *session.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: cfg.ServerURL,
		store:   store,
		http:    http.DefaultClient,
		logger:  logger,
	}
}

// NewWithHTTPClient creates a Client with a custom HTTP client
// (for testing).
func NewWithHTTPClient(cfg *config.Config, store *session.Store, httpClient *http.Client) *Client {
	client := New(cfg, store, nil)
	client.http = httpClient
	return client
}

// taskJSON is the server's wire shape for a task.
type taskJSON struct {
	ID          string `json:"_id"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

// loginResponse is the server's wire shape for a successful login.
type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Username string `json:"username"`
	} `json:"user"`
}

// errorResponse is the server's wire shape for a failed request.
type errorResponse struct {
	Message string `json:"message"`
}

// ListTasks returns the user's tasks in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	resp, err := c.doAuthed(ctx, opList, http.MethodGet, tasksPath, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded []taskJSON
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Error{Op: opList, Message: genericMessage(opList)}
	}

	tasks := make([]service.Task, 0, len(decoded))
	for _, t := range decoded {
		tasks = append(tasks, service.Task{
			ID:          t.ID,
			Description: t.Description,
			IsCompleted: t.IsCompleted,
		})
	}
	return tasks, nil
}

// CreateTask creates a new task. Callers trim the description and skip
// the call when it is empty; the client sends whatever it is given.
func (c *Client) CreateTask(ctx context.Context, description string) error {
	body := struct {
		Description string `json:"description"`
	}{Description: description}

	resp, err := c.doAuthed(ctx, opCreate, http.MethodPost, tasksPath, body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// SetTaskCompletion sets a task's completion flag.
func (c *Client) SetTaskCompletion(ctx context.Context, id string, isCompleted bool) error {
	body := struct {
		IsCompleted bool `json:"isCompleted"`
	}{IsCompleted: isCompleted}

	resp, err := c.doAuthed(ctx, opUpdate, http.MethodPut, tasksPath+"/"+id, body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// DeleteTask deletes a task. The server's response status is the only
// existence check.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	resp, err := c.doAuthed(ctx, opDelete, http.MethodDelete, tasksPath+"/"+id, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Register creates a new account. Failures carry the server-provided
// message when the response body has one.
func (c *Client) Register(ctx context.Context, username, password string) error {
	resp, err := c.doCredentials(ctx, opRegister, registerPath, username, password)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Login exchanges credentials for a session. Persisting the session
// is the caller's job; the store has a single lifecycle owner per
// front end.
func (c *Client) Login(ctx context.Context, username, password string) (service.Session, error) {
	resp, err := c.doCredentials(ctx, opLogin, loginPath, username, password)
	if err != nil {
		return service.Session{}, err
	}
	defer resp.Body.Close()

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return service.Session{}, &Error{Op: opLogin, Message: genericMessage(opLogin)}
	}
	return service.Session{Token: decoded.Token, Username: decoded.User.Username}, nil
}

// doAuthed performs a request that requires a bearer token. Without a
// present session no request is sent at all. A 401 or 403 response
// clears the session store before the failure is surfaced.
func (c *Client) doAuthed(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	sess := c.store.Load()
	if !sess.Present() {
		return nil, ErrNoSession
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, &Error{Op: op, Message: genericMessage(op)}
	}

	// oauth2's transport attaches "Authorization: Bearer <token>".
	// The base HTTP client rides along through the context so tests
	// can substitute their own.
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: sess.Token,
		TokenType:   "Bearer",
	})
	httpClient := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, c.http),
		tokenSource,
	)

	c.logger.Debug("api request", "method", method, "path", path)
	resp, err := httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "error", err)
		return nil, &Error{Op: op, Message: genericMessage(op)}
	}
	c.logger.Debug("api response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		// Forced logout: the presented token is no longer accepted.
		if err := c.store.Clear(); err != nil {
			c.logger.Debug("failed to clear session", "error", err)
		}
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: genericMessage(op)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: genericMessage(op)}
	}
	return resp, nil
}

// doCredentials performs an unauthenticated credentials post for the
// register and login endpoints. Non-success responses surface the
// server's message verbatim when the body carries one.
func (c *Client) doCredentials(ctx context.Context, op, path, username, password string) (*http.Response, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, &Error{Op: op, Message: genericMessage(op)}
	}

	c.logger.Debug("api request", "method", http.MethodPost, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "path", path, "error", err)
		return nil, &Error{Op: op, Message: genericMessage(op)}
	}
	c.logger.Debug("api response", "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		message := genericMessage(op)
		var decoded errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil && decoded.Message != "" {
			message = decoded.Message
		}
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: message}
	}
	return resp, nil
}

// newRequest builds a request against the configured base URL. A
// non-nil body is JSON-encoded and tagged with Content-Type.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
