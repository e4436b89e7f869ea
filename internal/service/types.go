// Package service defines the backend-agnostic interface for task operations.
package service

import "errors"

// Resource kinds reported on the wire.
const (
	KindTask     = "tasks#task"
	KindTaskList = "tasks#taskList"
)

// Task statuses.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// DueLayout is the wire format of a task due date.
const DueLayout = "2006-01-02T15:04:05.000Z"

// ErrNotFound is returned when a list or task does not exist in the backend.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned when the backend rejects the stored credentials.
var ErrUnauthorized = errors.New("token expired or revoked (run: tasky login)")

// Task is the wire representation of a single task.
type Task struct {
	Kind     string
	ID       string
	Title    string
	Parent   string // empty for top-level tasks
	Position string
	Notes    string
	Due      string // DueLayout, empty if unset
	Status   string // "needsAction" or "completed"
	Deleted  bool
}

// TaskList represents a task list.
type TaskList struct {
	ID    string
	Title string
}
