package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/api"
	"taskpad/internal/service"
	"taskpad/internal/session"
	"taskpad/internal/testutil"
)

func newTestModel(t *testing.T, svc service.Service) (Model, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return NewModel(svc, store), store
}

func newAuthedModel(t *testing.T, svc service.Service) (Model, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save("t1", "alice"); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return NewModel(svc, store), store
}

func apply(t *testing.T, model Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(msg)
	m, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return m, cmd
}

// applyCmd runs a command and feeds its message back into the model,
// the way the bubbletea runtime would.
func applyCmd(t *testing.T, model Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return apply(t, model, cmd())
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStartsAnonymousWithoutSession(t *testing.T) {
	model, _ := newTestModel(t, testutil.NewFakeService())

	if model.authenticated {
		t.Error("expected anonymous start without a stored session")
	}
	if !strings.Contains(model.View(), "Sign in") {
		t.Error("anonymous view should show the sign-in form")
	}
}

func TestStartsAuthenticatedWithSession(t *testing.T) {
	model, _ := newAuthedModel(t, testutil.NewFakeService())

	if !model.authenticated {
		t.Error("expected authenticated start with a stored session")
	}
	if model.username != "alice" {
		t.Errorf("expected username alice, got %q", model.username)
	}
	if strings.Contains(model.View(), "Sign in") {
		t.Error("authenticated view should not show the sign-in form")
	}
}

func TestLoginPersistsSessionAndFetches(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")
	svc.LoginSession = service.Session{Token: "t1", Username: "alice"}

	model, store := newTestModel(t, svc)
	model.usernameInput.SetValue("alice")
	model.passwordInput.SetValue("secret")

	model, cmd := apply(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model, cmd = applyCmd(t, model, cmd) // loginResultMsg

	if !model.authenticated {
		t.Fatal("expected authenticated state after login")
	}

	sess := store.Load()
	if sess.Token != "t1" || sess.Username != "alice" {
		t.Errorf("expected persisted session (t1, alice), got %+v", sess)
	}

	// The follow-up command is the task fetch.
	model, _ = applyCmd(t, model, cmd) // tasksLoadedMsg
	if svc.ListCalls != 1 {
		t.Errorf("expected exactly one list call after login, got %d", svc.ListCalls)
	}
}

func TestLoginFailureShowsBanner(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")

	model, store := newTestModel(t, svc)
	model.usernameInput.SetValue("alice")
	model.passwordInput.SetValue("wrong")

	model, cmd := apply(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = applyCmd(t, model, cmd)

	if model.authenticated {
		t.Error("expected anonymous state after failed login")
	}
	if store.Present() {
		t.Error("no session should be stored after failed login")
	}
	if model.banner == "" {
		t.Error("expected an error banner")
	}
	if !strings.Contains(model.View(), "Error: ") {
		t.Error("banner should render in the view")
	}
}

func TestToggleSendsNegationOfRetainedState(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "Buy milk", false)
	svc.AddTask("b", "Ship release", true)

	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, tasksLoadedMsg{tasks: svc.Tasks()})

	// Cursor on the open task: toggle sends isCompleted=true.
	_, cmd := apply(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	applyCmd(t, model, cmd)

	// Cursor on the completed task: toggle sends isCompleted=false.
	model, _ = apply(t, model, keyRune('j'))
	_, cmd = apply(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	applyCmd(t, model, cmd)

	if len(svc.Updates) != 2 {
		t.Fatalf("expected two completion updates, got %v", svc.Updates)
	}
	if svc.Updates[0].ID != "a" || !svc.Updates[0].IsCompleted {
		t.Errorf("expected (a, true), got %+v", svc.Updates[0])
	}
	if svc.Updates[1].ID != "b" || svc.Updates[1].IsCompleted {
		t.Errorf("expected (b, false), got %+v", svc.Updates[1])
	}
}

func TestWhitespaceOnlyTaskSendsNothing(t *testing.T) {
	svc := testutil.NewFakeService()

	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, keyRune('i'))
	if !model.inputFocused {
		t.Fatal("expected the new-task input to take focus")
	}
	model.newTaskInput.SetValue("   \t ")

	model, cmd := apply(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for a whitespace-only description")
	}
	if svc.CreateCalls != 0 {
		t.Errorf("expected no create request, got %d", svc.CreateCalls)
	}
	if model.newTaskInput.Value() != "" {
		t.Error("input should reset after submit")
	}
}

func TestNewTaskCreatesAndRefetches(t *testing.T) {
	svc := testutil.NewFakeService()

	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, keyRune('i'))
	model.newTaskInput.SetValue("  Buy milk  ")

	model, cmd := apply(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model, cmd = applyCmd(t, model, cmd) // taskMutatedMsg
	applyCmd(t, model, cmd)              // tasksLoadedMsg

	if len(svc.CreatedDescriptions) != 1 || svc.CreatedDescriptions[0] != "Buy milk" {
		t.Errorf("expected one trimmed create, got %v", svc.CreatedDescriptions)
	}
	if svc.ListCalls != 1 {
		t.Errorf("expected a refetch after the mutation, got %d list calls", svc.ListCalls)
	}
}

func TestDeleteSendsRequest(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "Buy milk", false)

	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, tasksLoadedMsg{tasks: svc.Tasks()})

	_, cmd := apply(t, model, keyRune('d'))
	applyCmd(t, model, cmd)

	if len(svc.DeletedIDs) != 1 || svc.DeletedIDs[0] != "a" {
		t.Errorf("expected delete of task a, got %v", svc.DeletedIDs)
	}
}

func TestAuthRejectionDropsToAnonymous(t *testing.T) {
	svc := testutil.NewFakeService()

	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, tasksLoadedMsg{tasks: []service.Task{{ID: "a", Description: "Buy milk"}}})

	rejection := &api.Error{Op: "list", StatusCode: 401, Message: "fetch failed"}
	model, _ = apply(t, model, tasksLoadedMsg{err: rejection})

	if model.authenticated {
		t.Error("expected anonymous state after an auth rejection")
	}
	if model.tasks != nil {
		t.Error("task state should be discarded")
	}
	if model.banner != "fetch failed" {
		t.Errorf("expected the generic message in the banner, got %q", model.banner)
	}
	if !strings.Contains(model.View(), "Sign in") {
		t.Error("view should show the sign-in form")
	}
	if strings.Contains(model.View(), "Buy milk") {
		t.Error("task data must not render without a session")
	}
}

func TestMissingSessionFailsSilently(t *testing.T) {
	svc := testutil.NewFakeService()

	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, tasksLoadedMsg{err: api.ErrNoSession})

	if model.authenticated {
		t.Error("expected anonymous state")
	}
	if model.banner != "" {
		t.Errorf("missing-session failures show no banner, got %q", model.banner)
	}
}

func TestLogoutClearsStoreUnconditionally(t *testing.T) {
	svc := testutil.NewFakeService()

	model, store := newAuthedModel(t, svc)
	model, _ = apply(t, model, tasksLoadedMsg{tasks: []service.Task{{ID: "a", Description: "Buy milk"}}})

	model, _ = apply(t, model, tea.KeyMsg{Type: tea.KeyCtrlL})

	if store.Present() {
		t.Error("expected the stored session to be cleared")
	}
	if model.authenticated {
		t.Error("expected anonymous state after logout")
	}
	if !strings.Contains(model.View(), "Sign in") {
		t.Error("view should show the sign-in form")
	}
}

func TestBannerFadeGeneration(t *testing.T) {
	svc := testutil.NewFakeService()
	model, _ := newAuthedModel(t, svc)

	model.showBanner("first")
	firstGeneration := model.bannerGeneration
	model.showBanner("second")

	// The fade scheduled for the first banner arrives late: it must
	// not hide the second.
	model, _ = apply(t, model, bannerFadeMsg{generation: firstGeneration})
	if model.banner != "second" {
		t.Errorf("stale fade hid the current banner, got %q", model.banner)
	}

	model, _ = apply(t, model, bannerFadeMsg{generation: model.bannerGeneration})
	if model.banner != "" {
		t.Errorf("current fade should clear the banner, got %q", model.banner)
	}
}

func TestEmptyListPlaceholder(t *testing.T) {
	svc := testutil.NewFakeService()
	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, tasksLoadedMsg{tasks: nil})

	view := model.View()
	if !strings.Contains(view, emptyListPlaceholder) {
		t.Error("empty list should show the placeholder row")
	}
	if strings.Contains(view, "enter Complete") || strings.Contains(view, "d delete") {
		t.Error("empty list should not offer toggle or delete hints")
	}
}

func TestToggleHintFollowsSelectedTask(t *testing.T) {
	svc := testutil.NewFakeService()
	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, tasksLoadedMsg{tasks: []service.Task{
		{ID: "a", Description: "Buy milk"},
		{ID: "b", Description: "Ship release", IsCompleted: true},
	}})

	if !strings.Contains(model.View(), "enter Complete") {
		t.Error("open task selected: hint should read Complete")
	}

	model, _ = apply(t, model, keyRune('j'))
	if !strings.Contains(model.View(), "enter Undo") {
		t.Error("completed task selected: hint should read Undo")
	}
}

func TestCursorClampsAfterShrink(t *testing.T) {
	svc := testutil.NewFakeService()
	model, _ := newAuthedModel(t, svc)
	model, _ = apply(t, model, tasksLoadedMsg{tasks: []service.Task{
		{ID: "a", Description: "one"},
		{ID: "b", Description: "two"},
		{ID: "c", Description: "three"},
	}})

	model, _ = apply(t, model, keyRune('j'))
	model, _ = apply(t, model, keyRune('j'))
	if model.cursor != 2 {
		t.Fatalf("expected cursor at 2, got %d", model.cursor)
	}

	model, _ = apply(t, model, tasksLoadedMsg{tasks: []service.Task{
		{ID: "a", Description: "one"},
	}})
	if model.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", model.cursor)
	}
}
