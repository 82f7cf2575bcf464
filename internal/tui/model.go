// Package tui implements the interactive full-screen interface: a
// login form while no session is stored, and the task list once one
// is.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/api"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

// errorBannerDuration is how long the error banner stays visible.
const errorBannerDuration = 4 * time.Second

// emptyListPlaceholder is the single row shown when the task list is
// empty.
const emptyListPlaceholder = "No tasks yet. Add one above!"

// tasksLoadedMsg delivers the result of a ListTasks call.
type tasksLoadedMsg struct {
	tasks []service.Task
	err   error
}

// taskMutatedMsg delivers the result of a create, toggle or delete
// call. On success the model schedules a re-fetch.
type taskMutatedMsg struct {
	err error
}

// loginResultMsg delivers the result of a Login call.
type loginResultMsg struct {
	sess service.Session
	err  error
}

// registerResultMsg delivers the result of a Register call.
type registerResultMsg struct {
	err error
}

// bannerFadeMsg is sent after errorBannerDuration to clear the banner.
// The generation guards against a stale fade from an earlier banner
// hiding a newer message: only the fade matching the current
// generation clears anything.
type bannerFadeMsg struct {
	generation int
}

// authField identifies which login-form input has focus.
type authField int

const (
	fieldUsername authField = iota
	fieldPassword
)

// Model is the top-level bubbletea model. It is either Anonymous
// (login form) or Authenticated (task list); the deciding fact is
// session presence, nothing else.
type Model struct {
	svc   service.Service
	store *session.Store
	theme Theme
	keys  KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Auth state.
	authenticated bool
	username      string

	// Login form (Anonymous view).
	usernameInput textinput.Model
	passwordInput textinput.Model
	authFocus     authField

	// Task list (Authenticated view). tasks is the authoritative
	// in-memory model: toggles negate the completion flag held here,
	// never a value re-read from rendered output.
	tasks        []service.Task
	cursor       int
	newTaskInput textinput.Model
	inputFocused bool

	// Error banner.
	banner           string
	bannerGeneration int
}

// NewModel creates a Model connected to the given backend. The stored
// session decides the starting view.
func NewModel(svc service.Service, store *session.Store) Model {
	usernameInput := textinput.New()
	usernameInput.Placeholder = "username"
	usernameInput.CharLimit = 64
	usernameInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 64
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'

	newTaskInput := textinput.New()
	newTaskInput.Placeholder = "What needs doing?"
	newTaskInput.CharLimit = 256

	sess := store.Load()

	return Model{
		svc:           svc,
		store:         store,
		theme:         DefaultTheme,
		keys:          DefaultKeyMap,
		authenticated: sess.Present(),
		username:      sess.Username,
		usernameInput: usernameInput,
		passwordInput: passwordInput,
		newTaskInput:  newTaskInput,
	}
}

// Init implements tea.Model. An authenticated start triggers the
// initial task fetch.
func (model Model) Init() tea.Cmd {
	if model.authenticated {
		return tea.Batch(model.fetchTasks(), textinput.Blink)
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if !model.authenticated {
			return model.handleLoginKeys(message)
		}
		return model.handleTaskKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true

	case tasksLoadedMsg:
		if message.err != nil {
			return model.handleServiceError(message.err)
		}
		model.tasks = message.tasks
		model.clampCursor()

	case taskMutatedMsg:
		if message.err != nil {
			return model.handleServiceError(message.err)
		}
		// Mutation accepted: the list on the server moved, so fetch
		// and fully re-render. Overlapping mutations each trigger
		// their own fetch; the last-resolved response wins.
		return model, model.fetchTasks()

	case loginResultMsg:
		if message.err != nil {
			cmd := model.showBanner(message.err.Error())
			return model, cmd
		}
		if err := model.store.Save(message.sess.Token, message.sess.Username); err != nil {
			cmd := model.showBanner(err.Error())
			return model, cmd
		}
		model.authenticated = true
		model.username = message.sess.Username
		model.usernameInput.Reset()
		model.passwordInput.Reset()
		return model, model.fetchTasks()

	case registerResultMsg:
		if message.err != nil {
			cmd := model.showBanner(message.err.Error())
			return model, cmd
		}
		cmd := model.showBanner("registered — sign in to continue")
		return model, cmd

	case bannerFadeMsg:
		if message.generation == model.bannerGeneration {
			model.banner = ""
		}
	}
	return model, nil
}

// handleLoginKeys routes keyboard input on the Anonymous view.
func (model Model) handleLoginKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.String() {
	case "ctrl+c":
		return model, tea.Quit

	case "tab", "shift+tab", "up", "down":
		if model.authFocus == fieldUsername {
			model.authFocus = fieldPassword
			model.usernameInput.Blur()
			model.passwordInput.Focus()
		} else {
			model.authFocus = fieldUsername
			model.passwordInput.Blur()
			model.usernameInput.Focus()
		}
		return model, nil

	case "enter":
		return model, model.submitLogin()

	case "ctrl+r":
		return model, model.submitRegister()
	}

	var cmd tea.Cmd
	if model.authFocus == fieldUsername {
		model.usernameInput, cmd = model.usernameInput.Update(message)
	} else {
		model.passwordInput, cmd = model.passwordInput.Update(message)
	}
	return model, cmd
}

// handleTaskKeys routes keyboard input on the Authenticated view.
func (model Model) handleTaskKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.inputFocused {
		switch message.String() {
		case "esc":
			model.inputFocused = false
			model.newTaskInput.Blur()
			return model, nil
		case "enter":
			return model.submitNewTask()
		case "ctrl+c":
			return model, tea.Quit
		}
		var cmd tea.Cmd
		model.newTaskInput, cmd = model.newTaskInput.Update(message)
		return model, cmd
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.tasks)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.Toggle):
		return model, model.toggleSelected()

	case key.Matches(message, model.keys.Delete):
		return model, model.deleteSelected()

	case key.Matches(message, model.keys.NewTask):
		model.inputFocused = true
		cmd := model.newTaskInput.Focus()
		return model, cmd

	case key.Matches(message, model.keys.Refresh):
		return model, model.fetchTasks()

	case key.Matches(message, model.keys.Logout):
		return model.logout()
	}
	return model, nil
}

// submitLogin issues the login call for the form's current values.
func (model Model) submitLogin() tea.Cmd {
	username := model.usernameInput.Value()
	password := model.passwordInput.Value()
	svc := model.svc
	return func() tea.Msg {
		sess, err := svc.Login(context.Background(), username, password)
		return loginResultMsg{sess: sess, err: err}
	}
}

// submitRegister issues the register call for the form's current
// values.
func (model Model) submitRegister() tea.Cmd {
	username := model.usernameInput.Value()
	password := model.passwordInput.Value()
	svc := model.svc
	return func() tea.Msg {
		return registerResultMsg{err: svc.Register(context.Background(), username, password)}
	}
}

// submitNewTask creates a task from the input. A description that is
// empty after trimming aborts silently: no request, no banner.
func (model Model) submitNewTask() (tea.Model, tea.Cmd) {
	description := strings.TrimSpace(model.newTaskInput.Value())
	model.newTaskInput.Reset()
	if description == "" {
		return model, nil
	}
	svc := model.svc
	return model, func() tea.Msg {
		return taskMutatedMsg{err: svc.CreateTask(context.Background(), description)}
	}
}

// toggleSelected sends the logical negation of the selected task's
// completion flag as held in the retained model.
func (model Model) toggleSelected() tea.Cmd {
	if model.cursor < 0 || model.cursor >= len(model.tasks) {
		return nil
	}
	task := model.tasks[model.cursor]
	svc := model.svc
	return func() tea.Msg {
		return taskMutatedMsg{err: svc.SetTaskCompletion(context.Background(), task.ID, !task.IsCompleted)}
	}
}

// deleteSelected deletes the selected task. Whether the task still
// exists server-side is the server's call.
func (model Model) deleteSelected() tea.Cmd {
	if model.cursor < 0 || model.cursor >= len(model.tasks) {
		return nil
	}
	task := model.tasks[model.cursor]
	svc := model.svc
	return func() tea.Msg {
		return taskMutatedMsg{err: svc.DeleteTask(context.Background(), task.ID)}
	}
}

// logout clears the session unconditionally and drops to the
// Anonymous view.
func (model Model) logout() (tea.Model, tea.Cmd) {
	if err := model.store.Clear(); err != nil {
		cmd := model.showBanner(err.Error())
		return model, cmd
	}
	model.resetToAnonymous()
	return model, nil
}

// handleServiceError routes a failed service call. Missing-session
// failures are silent (nothing was sent). Authentication rejections
// have already cleared the store, so the view drops to Anonymous; the
// banner carries whatever generic message the failed call produced.
func (model Model) handleServiceError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, api.ErrNoSession) {
		model.resetToAnonymous()
		return model, nil
	}
	if api.IsAuthRejected(err) {
		model.resetToAnonymous()
		cmd := model.showBanner(err.Error())
		return model, cmd
	}
	cmd := model.showBanner(err.Error())
	return model, cmd
}

// resetToAnonymous discards all task state and shows the login form.
// Task data is never displayed without a present session.
func (model *Model) resetToAnonymous() {
	model.authenticated = false
	model.username = ""
	model.tasks = nil
	model.cursor = 0
	model.inputFocused = false
	model.newTaskInput.Reset()
	model.newTaskInput.Blur()
	model.usernameInput.Reset()
	model.passwordInput.Reset()
	model.authFocus = fieldUsername
	model.usernameInput.Focus()
	model.passwordInput.Blur()
}

// showBanner displays text in the error banner and schedules its
// fade. Each call bumps the generation so a pending fade from an
// earlier banner cannot hide this one: latest message always wins.
func (model *Model) showBanner(text string) tea.Cmd {
	model.banner = text
	model.bannerGeneration++
	generation := model.bannerGeneration
	return tea.Tick(errorBannerDuration, func(time.Time) tea.Msg {
		return bannerFadeMsg{generation: generation}
	})
}

// fetchTasks loads the task list. Concurrent fetches may race; the
// last-resolved response's render wins.
func (model Model) fetchTasks() tea.Cmd {
	svc := model.svc
	return func() tea.Msg {
		tasks, err := svc.ListTasks(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (model *Model) clampCursor() {
	if model.cursor >= len(model.tasks) {
		model.cursor = len(model.tasks) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}
