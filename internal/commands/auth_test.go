package commands_test

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"taskpad/internal/commands"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
	"taskpad/internal/testutil"
)

func passwordReader(passwords ...string) func(prompt string, errOut io.Writer) (string, error) {
	i := 0
	return func(prompt string, errOut io.Writer) (string, error) {
		if i >= len(passwords) {
			return "", errors.New("no more passwords")
		}
		p := passwords[i]
		i++
		return p, nil
	}
}

func TestLoginCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")
	svc.LoginSession = service.Session{Token: "t1", Username: "alice"}

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	cmd := &commands.LoginCmd{}
	cmd.SetPasswordReader(passwordReader("secret"))

	stdout, stderr, code := runCommandWithStore(t, cmd, svc, store, []string{"alice"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	if stdout != "logged in as alice\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}

	sess := store.Load()
	if sess.Token != "t1" || sess.Username != "alice" {
		t.Errorf("expected persisted session (t1, alice), got %+v", sess)
	}
}

func TestLoginCommand_BadPassword(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	cmd := &commands.LoginCmd{}
	cmd.SetPasswordReader(passwordReader("wrong"))

	_, stderr, code := runCommandWithStore(t, cmd, svc, store, []string{"alice"}, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr == "" {
		t.Error("expected error output")
	}
	if store.Present() {
		t.Error("no session should be stored after a failed login")
	}
}

func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save("t1", "alice"); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	cmd := &commands.LoginCmd{}
	cmd.SetPasswordReader(passwordReader("secret"))

	stdout, _, code := runCommandWithStore(t, cmd, svc, store, []string{"bob"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "already logged in\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}

	// The stored session is untouched.
	if sess := store.Load(); sess.Username != "alice" {
		t.Errorf("expected session to remain alice, got %+v", sess)
	}
}

func TestLoginCommand_UsernameRequired(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.LoginCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: username required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestRegisterCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.RegisterCmd{}
	cmd.SetPasswordReader(passwordReader("secret", "secret"))

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"alice"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	if stdout != "registered alice (run: taskpad login alice)\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestRegisterCommand_PasswordMismatch(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.RegisterCmd{}
	cmd.SetPasswordReader(passwordReader("secret", "different"))

	_, stderr, code := runCommand(t, cmd, svc, []string{"alice"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: passwords do not match\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestRegisterCommand_TakenUsername(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")

	cmd := &commands.RegisterCmd{}
	cmd.SetPasswordReader(passwordReader("secret", "secret"))

	_, stderr, code := runCommand(t, cmd, svc, []string{"alice"}, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: username already taken\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestLogoutCommand(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save("t1", "alice"); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	cmd := &commands.LogoutCmd{}
	stdout, _, code := runCommandWithStore(t, cmd, nil, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if store.Present() {
		t.Error("session should be cleared after logout")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	cmd := &commands.LogoutCmd{}
	stdout, _, code := runCommandWithStore(t, cmd, nil, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}
