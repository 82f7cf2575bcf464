// Package session persists the authentication session across invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"taskpad/internal/service"
)

// fileSession is the on-disk shape of the session file.
type fileSession struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Store is a file-backed session store. It performs no validation of
// token structure or expiry; validity is determined only by the remote
// service's response codes.
type Store struct {
	path string
}

// NewStore creates a Store persisting to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists the token and username, overwriting any prior session.
// The file is written with mode 0600.
func (s *Store) Save(token, username string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(fileSession{Token: token, Username: username}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the current session. A missing or unreadable file, or a
// file missing either value, yields a zero session (absent).
func (s *Store) Load() service.Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return service.Session{}
	}
	var stored fileSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return service.Session{}
	}
	return service.Session{Token: stored.Token, Username: stored.Username}
}

// Present reports whether a session is currently stored.
func (s *Store) Present() bool {
	return s.Load().Present()
}

// Clear removes the stored session. Clearing an absent session is not
// an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
