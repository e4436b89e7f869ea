// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasky/internal/config"
	"tasky/internal/credentials"
	"tasky/internal/service"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = tasks.TasksScope
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// OAuthConfig reads oauth_client.json from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and a token in the credentials store.
func New(ctx context.Context, cfg *config.Config, store credentials.Store) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := store.Load()
	if err != nil {
		return nil, err
	}

	// Create token source that auto-refreshes
	tokenSource := oauthConfig.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client. Extra
// options, such as an endpoint override, are passed to the API service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListTaskLists returns all task lists in API order.
func (c *Client) ListTaskLists(ctx context.Context) ([]service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.TaskList
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, toTaskList(list))
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateTaskList creates a new task list.
func (c *Client) CreateTaskList(ctx context.Context, title string) (service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.TaskList{}, wrapError(err)
	}
	return toTaskList(list), nil
}

// UpdateTaskList renames a task list.
func (c *Client) UpdateTaskList(ctx context.Context, list service.TaskList) (service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	updated, err := c.svc.Tasklists.Patch(list.ID, &tasks.TaskList{Title: list.Title}).Context(ctx).Do()
	if err != nil {
		return service.TaskList{}, wrapError(err)
	}
	return toTaskList(updated), nil
}

// DeleteTaskList deletes a task list by ID.
func (c *Client) DeleteTaskList(ctx context.Context, listID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasklists.Delete(listID).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// ListTasks returns every visible task of a list, completed ones included.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, toTask(task))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateTask creates a new task, nested under parentID when it is set.
func (c *Client) CreateTask(ctx context.Context, listID, parentID string, task service.Task) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.Insert(listID, fromTask(task))
	if parentID != "" {
		call = call.Parent(parentID)
	}
	created, err := call.Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toTask(created), nil
}

// UpdateTask replaces the editable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, task service.Task) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body := fromTask(task)
	body.Id = taskID
	updated, err := c.svc.Tasks.Update(listID, taskID, body).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toTask(updated), nil
}

// DeleteTask deletes a task. A task that is already gone counts as deleted.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := wrapError(c.svc.Tasks.Delete(listID, taskID).Context(ctx).Do())
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return err
	}
	return nil
}

// MoveTask moves a task under parentID, after previousID.
func (c *Client) MoveTask(ctx context.Context, listID, taskID, parentID, previousID string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.Move(listID, taskID)
	if parentID != "" {
		call = call.Parent(parentID)
	}
	if previousID != "" {
		call = call.Previous(previousID)
	}
	moved, err := call.Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toTask(moved), nil
}

// ClearCompleted hides all completed tasks of a list.
func (c *Client) ClearCompleted(ctx context.Context, listID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Clear(listID).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func toTaskList(l *tasks.TaskList) service.TaskList {
	return service.TaskList{ID: l.Id, Title: l.Title}
}

func toTask(t *tasks.Task) service.Task {
	return service.Task{
		Kind:     service.KindTask,
		ID:       t.Id,
		Title:    t.Title,
		Parent:   t.Parent,
		Position: t.Position,
		Notes:    t.Notes,
		Due:      t.Due,
		Status:   t.Status,
		Deleted:  t.Deleted,
	}
}

// fromTask builds a request body. Reopening a task must clear its
// completion time, and an unset due date must be sent as null so that
// an update removes it.
func fromTask(t service.Task) *tasks.Task {
	body := &tasks.Task{
		Title:  t.Title,
		Notes:  t.Notes,
		Due:    t.Due,
		Status: t.Status,
	}
	if t.Status != service.StatusCompleted {
		body.NullFields = append(body.NullFields, "Completed")
	}
	if t.Due == "" {
		body.NullFields = append(body.NullFields, "Due")
	}
	return body
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	// Check for timeout
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return service.ErrUnauthorized
		case http.StatusNotFound:
			return service.ErrNotFound
		}
	}
	return err
}
