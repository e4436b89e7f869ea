// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tasky/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Tasks of a list are kept flat in display order; positions are renumbered
// among siblings after every change, the way the remote service does.
type FakeService struct {
	mu    sync.RWMutex
	lists []service.TaskList
	tasks map[string][]service.Task // listID -> tasks
	calls []string

	// Error injection for testing
	ListTaskListsErr  error
	CreateTaskListErr error
	UpdateTaskListErr error
	DeleteTaskListErr error
	ListTasksErr      map[string]error // listID -> error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     map[string]error // taskID -> error
	MoveTaskErr       error
	ClearCompletedErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:         make(map[string][]service.Task),
		ListTasksErr:  make(map[string]error),
		DeleteTaskErr: make(map[string]error),
	}
}

// AddList adds a list to the fake service.
func (f *FakeService) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
	if f.tasks[id] == nil {
		f.tasks[id] = nil
	}
}

// AddTask appends a task to a list. Sibling positions follow the order
// in which tasks were added, whatever order parents and children come in.
func (f *FakeService) AddTask(listID string, t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.Kind = service.KindTask
	if t.Status == "" {
		t.Status = service.StatusNeedsAction
	}
	f.tasks[listID] = append(f.tasks[listID], t)
	f.renumber(listID)
}

// Lists returns a snapshot of the lists.
func (f *FakeService) Lists() []service.TaskList {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.lists)
}

// Tasks returns a snapshot of a list's tasks.
func (f *FakeService) Tasks(listID string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks[listID])
}

// Task returns a single task by ID.
func (f *FakeService) Task(listID, taskID string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.indexOf(listID, taskID)
	if i < 0 {
		return service.Task{}, false
	}
	return f.tasks[listID][i], true
}

// Calls returns the remote calls made so far, one "Method arg..." entry each.
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.calls)
}

// ResetCalls clears the call log.
func (f *FakeService) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeService) record(method string, args ...string) {
	f.calls = append(f.calls, strings.TrimSpace(method+" "+strings.Join(args, " ")))
}

// ListTaskLists implements service.Service.
func (f *FakeService) ListTaskLists(ctx context.Context) ([]service.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTaskLists")
	if f.ListTaskListsErr != nil {
		return nil, f.ListTaskListsErr
	}
	return slices.Clone(f.lists), nil
}

// CreateTaskList implements service.Service.
func (f *FakeService) CreateTaskList(ctx context.Context, title string) (service.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTaskList", title)
	if f.CreateTaskListErr != nil {
		return service.TaskList{}, f.CreateTaskListErr
	}
	l := service.TaskList{ID: uuid.NewString(), Title: title}
	f.lists = append(f.lists, l)
	f.tasks[l.ID] = nil
	return l, nil
}

// UpdateTaskList implements service.Service.
func (f *FakeService) UpdateTaskList(ctx context.Context, list service.TaskList) (service.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTaskList", list.ID, list.Title)
	if f.UpdateTaskListErr != nil {
		return service.TaskList{}, f.UpdateTaskListErr
	}
	for i, l := range f.lists {
		if l.ID == list.ID {
			f.lists[i].Title = list.Title
			return f.lists[i], nil
		}
	}
	return service.TaskList{}, fmt.Errorf("list %s: %w", list.ID, service.ErrNotFound)
}

// DeleteTaskList implements service.Service.
func (f *FakeService) DeleteTaskList(ctx context.Context, listID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTaskList", listID)
	if f.DeleteTaskListErr != nil {
		return f.DeleteTaskListErr
	}
	for i, l := range f.lists {
		if l.ID == listID {
			f.lists = slices.Delete(f.lists, i, i+1)
			delete(f.tasks, listID)
			return nil
		}
	}
	return fmt.Errorf("list %s: %w", listID, service.ErrNotFound)
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks", listID)
	if err := f.ListTasksErr[listID]; err != nil {
		return nil, err
	}
	tasks, ok := f.tasks[listID]
	if !ok {
		return nil, fmt.Errorf("list %s: %w", listID, service.ErrNotFound)
	}
	return slices.Clone(tasks), nil
}

// CreateTask implements service.Service. New tasks go first among their siblings.
func (f *FakeService) CreateTask(ctx context.Context, listID, parentID string, task service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask", listID, parentID, task.Title)
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	if _, ok := f.tasks[listID]; !ok {
		return service.Task{}, fmt.Errorf("list %s: %w", listID, service.ErrNotFound)
	}
	if parentID != "" && f.indexOf(listID, parentID) < 0 {
		return service.Task{}, fmt.Errorf("parent %s: %w", parentID, service.ErrNotFound)
	}

	task.Kind = service.KindTask
	task.ID = uuid.NewString()
	task.Parent = parentID
	if task.Status == "" {
		task.Status = service.StatusNeedsAction
	}
	f.insertAfter(listID, task, "")
	return f.tasks[listID][f.indexOf(listID, task.ID)], nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, listID, taskID string, task service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask", listID, taskID)
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	i := f.indexOf(listID, taskID)
	if i < 0 {
		return service.Task{}, fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}
	cur := &f.tasks[listID][i]
	cur.Title = task.Title
	cur.Notes = task.Notes
	cur.Due = task.Due
	cur.Status = task.Status
	return *cur, nil
}

// DeleteTask implements service.Service. Children are deleted with their
// parent; deleting a missing task succeeds.
func (f *FakeService) DeleteTask(ctx context.Context, listID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask", listID, taskID)
	if err := f.DeleteTaskErr[taskID]; err != nil {
		return err
	}
	f.tasks[listID] = slices.DeleteFunc(f.tasks[listID], func(t service.Task) bool {
		return t.ID == taskID || t.Parent == taskID
	})
	f.renumber(listID)
	return nil
}

// MoveTask implements service.Service.
func (f *FakeService) MoveTask(ctx context.Context, listID, taskID, parentID, previousID string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("MoveTask", listID, taskID, parentID, previousID)
	if f.MoveTaskErr != nil {
		return service.Task{}, f.MoveTaskErr
	}
	i := f.indexOf(listID, taskID)
	if i < 0 {
		return service.Task{}, fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}
	if previousID != "" && f.indexOf(listID, previousID) < 0 {
		return service.Task{}, fmt.Errorf("previous %s: %w", previousID, service.ErrNotFound)
	}
	task := f.tasks[listID][i]
	f.tasks[listID] = slices.Delete(f.tasks[listID], i, i+1)
	task.Parent = parentID
	f.insertAfter(listID, task, previousID)
	return f.tasks[listID][f.indexOf(listID, task.ID)], nil
}

// ClearCompleted implements service.Service.
func (f *FakeService) ClearCompleted(ctx context.Context, listID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClearCompleted", listID)
	if f.ClearCompletedErr != nil {
		return f.ClearCompletedErr
	}
	if _, ok := f.tasks[listID]; !ok {
		return fmt.Errorf("list %s: %w", listID, service.ErrNotFound)
	}
	f.tasks[listID] = slices.DeleteFunc(f.tasks[listID], func(t service.Task) bool {
		return t.Status == service.StatusCompleted
	})
	f.renumber(listID)
	return nil
}

func (f *FakeService) indexOf(listID, taskID string) int {
	return slices.IndexFunc(f.tasks[listID], func(t service.Task) bool {
		return t.ID == taskID
	})
}

// insertAfter places t right after previousID, or first among its
// siblings when previousID is empty, then renumbers.
func (f *FakeService) insertAfter(listID string, t service.Task, previousID string) {
	tasks := f.tasks[listID]
	at := len(tasks)
	if previousID != "" {
		at = f.indexOf(listID, previousID) + 1
	} else if i := slices.IndexFunc(tasks, func(s service.Task) bool { return s.Parent == t.Parent }); i >= 0 {
		at = i
	}
	f.tasks[listID] = slices.Insert(tasks, at, t)
	f.renumber(listID)
}

// renumber assigns zero-padded positions to siblings in slice order.
func (f *FakeService) renumber(listID string) {
	next := map[string]int{}
	for i := range f.tasks[listID] {
		t := &f.tasks[listID][i]
		t.Position = fmt.Sprintf("%020d", next[t.Parent])
		next[t.Parent]++
	}
}
