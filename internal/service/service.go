package service

import "context"

// Service defines the interface for task backend operations.
// Every remote call made by tasky goes through this interface;
// the model and the synchronizer never import a backend SDK directly.
type Service interface {
	// ListTaskLists returns all task lists in backend order.
	ListTaskLists(ctx context.Context) ([]TaskList, error)

	// CreateTaskList creates a new task list and returns it.
	CreateTaskList(ctx context.Context, title string) (TaskList, error)

	// UpdateTaskList replaces the title of an existing list.
	UpdateTaskList(ctx context.Context, list TaskList) (TaskList, error)

	// DeleteTaskList deletes a task list and everything in it.
	DeleteTaskList(ctx context.Context, listID string) error

	// ListTasks returns every visible task of a list, completed ones included.
	// Results are flat: subtasks carry their parent's ID.
	ListTasks(ctx context.Context, listID string) ([]Task, error)

	// CreateTask creates a task, nested under parentID when it is non-empty.
	CreateTask(ctx context.Context, listID, parentID string, task Task) (Task, error)

	// UpdateTask replaces the editable fields of a task.
	UpdateTask(ctx context.Context, listID, taskID string, task Task) (Task, error)

	// DeleteTask deletes a task and its subtasks. Deleting a task that
	// no longer exists is not an error.
	DeleteTask(ctx context.Context, listID, taskID string) error

	// MoveTask moves a task under parentID (empty for top level),
	// directly after previousID (empty for first position).
	MoveTask(ctx context.Context, listID, taskID, parentID, previousID string) (Task, error)

	// ClearCompleted removes all completed tasks from a list.
	ClearCompleted(ctx context.Context, listID string) error
}
