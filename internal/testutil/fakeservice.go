// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taskpad/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// CompletionUpdate records a single SetTaskCompletion call.
type CompletionUpdate struct {
	ID          string
	IsCompleted bool
}

// FakeService is an in-memory implementation of service.Service for
// testing. It records every call so tests can assert on exactly which
// requests were (and were not) issued.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	users  map[string]string // username -> password
	nextID int

	// Session returned by a successful Login. When Token is empty a
	// synthetic token is generated.
	LoginSession service.Session

	// Call records.
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
	CreatedDescriptions []string
	Updates             []CompletionUpdate
	DeletedIDs          []string

	// Error injection for testing.
	ListTasksErr         error
	CreateTaskErr        error
	SetTaskCompletionErr error
	DeleteTaskErr        error
	RegisterErr          error
	LoginErr             error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[string]string),
		nextID: 1,
	}
}

// AddTask seeds a task.
func (f *FakeService) AddTask(id, description string, isCompleted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Description: description,
		IsCompleted: isCompleted,
	})
}

// AddUser seeds an account.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// Tasks returns a copy of the current task slice.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.CreatedDescriptions = append(f.CreatedDescriptions, description)
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.tasks = append(f.tasks, service.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		Description: description,
	})
	f.nextID++
	return nil
}

// SetTaskCompletion implements service.Service.
func (f *FakeService) SetTaskCompletion(ctx context.Context, id string, isCompleted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.Updates = append(f.Updates, CompletionUpdate{ID: id, IsCompleted: isCompleted})
	if f.SetTaskCompletionErr != nil {
		return f.SetTaskCompletionErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].IsCompleted = isCompleted
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Service. The call is always recorded,
// even for unknown IDs: the client performs no existence check.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.DeletedIDs = append(f.DeletedIDs, id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, username, password string) error {
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[username]; exists {
		return errors.New("username already taken")
	}
	f.users[username] = password
	return nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, username, password string) (service.Session, error) {
	if f.LoginErr != nil {
		return service.Session{}, f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if stored, ok := f.users[username]; ok && stored != password {
		return service.Session{}, errors.New("invalid credentials")
	}
	sess := f.LoginSession
	if sess.Token == "" {
		sess.Token = "fake-token"
	}
	if sess.Username == "" {
		sess.Username = username
	}
	return sess, nil
}
