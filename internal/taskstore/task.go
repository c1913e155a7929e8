// Package taskstore holds the ordered task list and mirrors it to key-value
// storage after every mutation.
package taskstore

// Storage keys of the persisted snapshot.
const (
	// TasksKey holds the JSON array of tasks in display order.
	TasksKey = "tasks"

	// NextIDKey holds the decimal id the next added task receives.
	NextIDKey = "nextTaskId"
)

// Task is a single to-do item.
type Task struct {
	ID        int    `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}
