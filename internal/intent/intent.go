// Package intent defines the closed set of user intents and routes them to
// the task store.
package intent

import (
	"fmt"

	"todo/internal/celebrate"
	"todo/internal/taskstore"
)

// Intent is a user action. The set is closed: Add, Toggle, Edit, Delete.
type Intent interface {
	isIntent()
}

// Add submits new task text.
type Add struct {
	Text string
}

// Toggle sets the completed flag of a task.
type Toggle struct {
	ID        int
	Completed bool
}

// Edit takes a pending task out of the list for re-entry.
type Edit struct {
	ID int
}

// Delete removes a task.
type Delete struct {
	ID int
}

func (Add) isIntent()    {}
func (Toggle) isIntent() {}
func (Edit) isIntent()   {}
func (Delete) isIntent() {}

// Progress is the aggregate completion state.
type Progress struct {
	Completed int     `json:"completed" yaml:"completed"`
	Total     int     `json:"total" yaml:"total"`
	Ratio     float64 `json:"ratio" yaml:"ratio"`
}

// Label returns the "completed / total" label.
func (p Progress) Label() string {
	return fmt.Sprintf("%d / %d", p.Completed, p.Total)
}

// Percent returns the ratio as a whole percentage.
func (p Progress) Percent() int {
	return int(p.Ratio*100 + 0.5)
}

// ProgressOf computes the progress of s.
func ProgressOf(s *taskstore.Store) Progress {
	completed, total := s.Counts()
	return Progress{Completed: completed, Total: total, Ratio: s.ProgressRatio()}
}

// Outcome describes the effect of one dispatched intent.
type Outcome struct {
	// Changed is false when the intent was a no-op (blank text, unknown id,
	// editing a completed task).
	Changed bool

	// Task is the added task for Add.
	Task taskstore.Task

	// Staged is the text handed back by Edit for re-entry.
	Staged string

	// Progress is the state after the intent.
	Progress Progress

	// Celebrate is true when this intent completed the list.
	Celebrate bool
}

// Dispatcher applies intents to a store.
type Dispatcher struct {
	store   *taskstore.Store
	watcher *celebrate.Watcher
}

// NewDispatcher creates a dispatcher for store. watcher may be nil, in which
// case one is created from the store's current state.
func NewDispatcher(store *taskstore.Store, watcher *celebrate.Watcher) *Dispatcher {
	if watcher == nil {
		watcher = celebrate.NewWatcher(store.IsComplete())
	}
	return &Dispatcher{store: store, watcher: watcher}
}

// Store returns the underlying store.
func (d *Dispatcher) Store() *taskstore.Store {
	return d.store
}

// Dispatch applies in. A non-nil error means the mutation was refused or
// happened in memory but could not be persisted.
func (d *Dispatcher) Dispatch(in Intent) (Outcome, error) {
	var (
		out Outcome
		err error
	)

	switch in := in.(type) {
	case Add:
		out.Task, out.Changed, err = d.store.Add(in.Text)
	case Toggle:
		out.Changed, err = d.store.SetCompleted(in.ID, in.Completed)
	case Edit:
		out.Staged, out.Changed, err = d.store.Edit(in.ID)
	case Delete:
		out.Changed, err = d.store.Remove(in.ID)
	default:
		return Outcome{}, fmt.Errorf("unknown intent %T", in)
	}

	out.Progress = ProgressOf(d.store)
	if _, isEdit := in.(Edit); isEdit {
		d.watcher.Sync(d.store.IsComplete())
	} else {
		out.Celebrate = d.watcher.Observe(d.store.IsComplete())
	}
	return out, err
}
