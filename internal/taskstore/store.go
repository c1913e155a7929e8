package taskstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todo/internal/kv"
)

// ErrIDsExhausted is returned by Add when no further task id can be issued.
var ErrIDsExhausted = errors.New("task ids exhausted")

// Store is the ordered task list of one session.
//
// Every mutating method writes the full snapshot to storage before it
// returns, so storage is never stale relative to memory. A Store is not safe
// for concurrent use; callers serialize access.
type Store struct {
	storage kv.Storage
	logger  *log.Logger
	session string
	tasks   []Task
	nextID  int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load diagnostics and mutations.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open starts a session on storage and loads the persisted snapshot.
// Malformed persisted data loads as an empty list; only storage read
// failures are returned as errors.
func Open(storage kv.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage: storage,
		logger:  log.New(io.Discard),
		session: uuid.NewString(),
		nextID:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.session)

	if err := s.load(); err != nil {
		return nil, err
	}
	s.logger.Debug("session started", "tasks", len(s.tasks), "next_id", s.nextID)
	return s, nil
}

// Session returns the id of this store's session.
func (s *Store) Session() string {
	return s.session
}

// Close ends the session and closes the storage.
func (s *Store) Close() error {
	s.logger.Debug("session ended")
	return s.storage.Close()
}

func (s *Store) load() error {
	s.tasks = nil
	s.nextID = 1

	raw, ok, err := s.storage.GetItem(TasksKey)
	if err != nil {
		return fmt.Errorf("read %s: %w", TasksKey, err)
	}
	if ok {
		tasks, err := decodeTasks(raw)
		if err != nil {
			s.logger.Warn("ignoring malformed task list", "err", err)
		} else {
			s.tasks = tasks
		}
	}

	rawID, ok, err := s.storage.GetItem(NextIDKey)
	if err != nil {
		return fmt.Errorf("read %s: %w", NextIDKey, err)
	}
	if ok {
		n, err := strconv.Atoi(strings.TrimSpace(rawID))
		if err != nil || n < 1 || n == math.MaxInt {
			s.logger.Warn("ignoring malformed next id", "value", rawID)
		} else {
			s.nextID = n
		}
	}

	for _, t := range s.tasks {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	return nil
}

func decodeTasks(raw string) ([]Task, error) {
	if err := validateTasks(raw); err != nil {
		return nil, err
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
		if t.ID == math.MaxInt {
			return nil, fmt.Errorf("task id %d out of range", t.ID)
		}
	}
	return tasks, nil
}

// persist writes the full snapshot.
func (s *Store) persist() error {
	tasks := s.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	err = s.storage.SetItems(map[string]string{
		TasksKey:  string(data),
		NextIDKey: strconv.Itoa(s.nextID),
	})
	if err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

// Add appends a pending task with the trimmed text. Text that is empty after
// trimming is ignored and ok is false.
func (s *Store) Add(text string) (task Task, ok bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false, nil
	}

	if s.nextID == math.MaxInt {
		return Task{}, false, ErrIDsExhausted
	}

	task = Task{ID: s.nextID, Text: text}
	s.tasks = append(s.tasks, task)
	s.nextID++
	s.logger.Debug("task added", "id", task.ID)
	return task, true, s.persist()
}

// SetCompleted sets the completed flag of the task with id.
// found is false, and nothing is written, when no task has that id.
func (s *Store) SetCompleted(id int, completed bool) (found bool, err error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = completed
	s.logger.Debug("task updated", "id", id, "completed", completed)
	return true, s.persist()
}

// Remove deletes the task with id. found is false when no task has that id.
func (s *Store) Remove(id int) (found bool, err error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Debug("task removed", "id", id)
	return true, s.persist()
}

// Edit takes a pending task out of the list so its text can be revised and
// re-added. It returns the task's text and removes the task; the re-added
// task receives a new id. Completed tasks cannot be edited: ok is false and
// nothing changes. ok is also false when no task has id.
func (s *Store) Edit(id int) (text string, ok bool, err error) {
	i := s.index(id)
	if i < 0 || s.tasks[i].Completed {
		return "", false, nil
	}
	text = s.tasks[i].Text
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Debug("task staged for edit", "id", id)
	return text, true, s.persist()
}

// Clear removes every task, resets the id counter and wipes the storage.
func (s *Store) Clear() error {
	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	s.tasks = nil
	s.nextID = 1
	s.logger.Debug("store cleared")
	return nil
}

// Get returns the task with id.
func (s *Store) Get(id int) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns a copy of the tasks in display order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the id the next added task will receive.
func (s *Store) NextID() int {
	return s.nextID
}

// Counts returns the number of completed tasks and the total.
func (s *Store) Counts() (completed, total int) {
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		}
	}
	return completed, len(s.tasks)
}

// ProgressRatio returns completed/total, or 0 for an empty list.
func (s *Store) ProgressRatio() float64 {
	completed, total := s.Counts()
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// IsComplete reports whether the list is non-empty and every task is done.
func (s *Store) IsComplete() bool {
	completed, total := s.Counts()
	return total > 0 && completed == total
}

func (s *Store) index(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
