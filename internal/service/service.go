// Package service defines the backend-agnostic interface for exporting tasks
// to a remote task service.
package service

import "context"

// TaskList is a remote task list.
type TaskList struct {
	ID    string
	Title string
}

// RemoteTask is a task to be created remotely.
type RemoteTask struct {
	Title     string
	Completed bool
}

// Exporter defines the remote operations the export command needs.
// Commands never import the Google SDK directly.
type Exporter interface {
	// ResolveList finds a list by name (case-insensitive, trimmed).
	// Returns an error containing "not found" or "ambiguous" on failure.
	ResolveList(ctx context.Context, name string) (TaskList, error)

	// CreateList creates a new task list and returns it.
	CreateList(ctx context.Context, name string) (TaskList, error)

	// CreateTask inserts a task directly after previousID (at the top when
	// previousID is empty) and returns the new task's ID.
	CreateTask(ctx context.Context, listID, previousID string, task RemoteTask) (string, error)
}
