// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"todo/internal/service"
)

// ErrNotFound is returned when a list is not found.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when multiple lists match a name.
var ErrAmbiguous = errors.New("ambiguous")

// FakeTask is a task recorded by FakeExporter.
type FakeTask struct {
	ID        string
	Title     string
	Completed bool
}

// FakeExporter is an in-memory implementation of service.Exporter for testing.
type FakeExporter struct {
	mu     sync.RWMutex
	lists  []service.TaskList
	tasks  map[string][]FakeTask // listID -> tasks, in list order
	nextID int

	// Error injection for testing
	ResolveListErr error
	CreateListErr  error
	CreateTaskErr  error
}

// NewFakeExporter creates a FakeExporter with no lists.
func NewFakeExporter() *FakeExporter {
	return &FakeExporter{tasks: make(map[string][]FakeTask)}
}

// AddList adds a list to the fake exporter.
func (f *FakeExporter) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
}

// Lists returns the lists known to the fake.
func (f *FakeExporter) Lists() []service.TaskList {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.lists)
}

// Tasks returns the tasks of listID in list order.
func (f *FakeExporter) Tasks(listID string) []FakeTask {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks[listID])
}

// ResolveList implements service.Exporter.
func (f *FakeExporter) ResolveList(ctx context.Context, name string) (service.TaskList, error) {
	if f.ResolveListErr != nil {
		return service.TaskList{}, f.ResolveListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []service.TaskList
	for _, l := range f.lists {
		if strings.ToLower(strings.TrimSpace(l.Title)) == nameLower {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return service.TaskList{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return service.TaskList{}, ErrAmbiguous
	}
}

// CreateList implements service.Exporter.
func (f *FakeExporter) CreateList(ctx context.Context, name string) (service.TaskList, error) {
	if f.CreateListErr != nil {
		return service.TaskList{}, f.CreateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	list := service.TaskList{ID: fmt.Sprintf("list%d", len(f.lists)+1), Title: name}
	f.lists = append(f.lists, list)
	return list, nil
}

// CreateTask implements service.Exporter.
func (f *FakeExporter) CreateTask(ctx context.Context, listID, previousID string, task service.RemoteTask) (string, error) {
	if f.CreateTaskErr != nil {
		return "", f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	pos := 0
	if previousID != "" {
		pos = slices.IndexFunc(f.tasks[listID], func(t FakeTask) bool { return t.ID == previousID })
		if pos < 0 {
			return "", fmt.Errorf("previous task not found: %s", previousID)
		}
		pos++
	}

	f.nextID++
	created := FakeTask{ID: fmt.Sprintf("task%d", f.nextID), Title: task.Title, Completed: task.Completed}
	f.tasks[listID] = slices.Insert(f.tasks[listID], pos, created)
	return created.ID, nil
}
