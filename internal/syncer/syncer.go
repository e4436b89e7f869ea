// Package syncer loads task lists from a backend into the in-memory model,
// applies user operations and pushes pending changes back.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasky/internal/logging"
	"tasky/internal/model"
	"tasky/internal/service"
)

// ErrMoveTarget is returned when a move names both or neither of the
// after and parent targets.
var ErrMoveTarget = errors.New("exactly one of after or parent is required")

// ErrTooDeep is returned when an operation would nest a task below a
// sub-task.
var ErrTooDeep = errors.New("tasks can only be nested one level deep")

// NewTask holds the fields of a task to create. Parent is the ordinal of
// the parent task, if any.
type NewTask struct {
	Title  string
	Notes  *string
	Due    *time.Time
	Parent *int
}

// FlushStats counts the remote calls made by Flush.
type FlushStats struct {
	Updated int
	Deleted int
}

// Synchronizer owns the task lists of one run. It is not safe for
// concurrent use.
type Synchronizer struct {
	svc    service.Service
	log    *logging.Logger
	lists  *model.TaskLists
	loaded bool
}

// New returns an empty Synchronizer backed by svc.
func New(svc service.Service, log *logging.Logger) *Synchronizer {
	if log == nil {
		log = logging.Discard()
	}
	return &Synchronizer{svc: svc, log: log, lists: model.NewTaskLists()}
}

// Lists returns the loaded task lists.
func (s *Synchronizer) Lists() *model.TaskLists {
	return s.lists
}

// Load fetches every list and its tasks. It does nothing once loaded.
func (s *Synchronizer) Load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	lists, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.lists = lists
	s.loaded = true
	return nil
}

func (s *Synchronizer) load(ctx context.Context) (*model.TaskLists, error) {
	s.log.Debugf("ListTaskLists")
	remote, err := s.svc.ListTaskLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing task lists: %w", err)
	}

	lists := model.NewTaskLists()
	for _, rl := range remote {
		s.log.Debugf("ListTasks %s", rl.ID)
		items, err := s.svc.ListTasks(ctx, rl.ID)
		if err != nil {
			return nil, fmt.Errorf("listing tasks of %q: %w", rl.Title, err)
		}

		l := model.NewTaskList(rl.ID, rl.Title)
		for _, item := range items {
			t, err := model.NewTask(item)
			if err != nil {
				return nil, fmt.Errorf("task %s in %q: %w", item.ID, rl.Title, err)
			}
			l.AddTask(t)
		}
		for _, id := range l.UpdateNesting() {
			s.log.Warnf("parent task not found: %s", id)
		}
		lists.Add(l)
	}
	return lists, nil
}

// AddTask creates a task in l. A parent that is itself a sub-task is
// ignored with a warning and the task is created at top level.
func (s *Synchronizer) AddTask(ctx context.Context, l *model.TaskList, nt NewTask) (*model.Task, error) {
	var parentID string
	if nt.Parent != nil {
		p, err := l.TaskByPos(*nt.Parent)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		if p.Parent() != "" {
			s.log.Warnf("cannot nest under sub-task %q, adding at top level", p.Title())
		} else {
			parentID = p.ID()
		}
	}

	r := service.Task{
		Kind:   service.KindTask,
		Title:  nt.Title,
		Status: service.StatusNeedsAction,
	}
	if nt.Notes != nil {
		r.Notes = *nt.Notes
	}
	if nt.Due != nil {
		r.Due = model.NormalizeDue(*nt.Due).Format(service.DueLayout)
	}

	s.log.Debugf("CreateTask %s parent=%q", l.ID(), parentID)
	created, err := s.svc.CreateTask(ctx, l.ID(), parentID, r)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	t, err := model.NewTask(created)
	if err != nil {
		return nil, err
	}
	l.AddTask(t)
	l.UpdateNesting()
	s.refreshPositions(ctx, l)
	return t, nil
}

// MoveTask moves t directly after the task after, or to the top of the
// children of parent. Exactly one of after and parent must be non-nil.
func (s *Synchronizer) MoveTask(ctx context.Context, l *model.TaskList, t, after, parent *model.Task) (*model.Task, error) {
	if (after == nil) == (parent == nil) {
		return nil, ErrMoveTarget
	}

	var parentID, previousID string
	if after != nil {
		parentID = after.Parent()
		previousID = after.ID()
		if after.ID() == t.ID() {
			return nil, fmt.Errorf("cannot move a task after itself: %w", ErrMoveTarget)
		}
	} else {
		parentID = parent.ID()
	}
	if parentID != "" {
		switch {
		case parentID == t.ID():
			return nil, fmt.Errorf("cannot move a task under itself: %w", ErrTooDeep)
		case parent != nil && parent.Parent() != "":
			return nil, fmt.Errorf("cannot move under sub-task %q: %w", parent.Title(), ErrTooDeep)
		case t.HasChildren():
			return nil, fmt.Errorf("task %q has sub-tasks: %w", t.Title(), ErrTooDeep)
		}
	}

	l.RemoveTask(t)
	s.log.Debugf("MoveTask %s %s parent=%q previous=%q", l.ID(), t.ID(), parentID, previousID)
	moved, err := s.svc.MoveTask(ctx, l.ID(), t.ID(), parentID, previousID)
	if err != nil {
		s.restore(l, t)
		return nil, fmt.Errorf("moving task: %w", err)
	}
	nt, err := model.NewTask(moved)
	if err != nil {
		s.restore(l, t)
		return nil, err
	}
	nt.Inherit(t)
	l.AddTask(nt)
	l.UpdateNesting()
	s.refreshPositions(ctx, l)
	return nt, nil
}

// refreshPositions re-reads the positions of l's tasks. A create or move
// may renumber the siblings of the task it returns. Failures are only
// logged.
func (s *Synchronizer) refreshPositions(ctx context.Context, l *model.TaskList) {
	s.log.Debugf("ListTasks %s", l.ID())
	items, err := s.svc.ListTasks(ctx, l.ID())
	if err != nil {
		s.log.Warnf("refreshing task order of %q: %v", l.Title(), err)
		return
	}
	for _, r := range items {
		t, err := l.Task(r.ID, r.Parent)
		if errors.Is(err, model.ErrInvalidParent) {
			s.log.Errorf("%v", err)
			continue
		}
		if err != nil {
			continue
		}
		t.SetPosition(r.Position)
	}
}

// restore puts t back where it was before a failed move.
func (s *Synchronizer) restore(l *model.TaskList, t *model.Task) {
	l.AddTask(t)
	l.UpdateNesting()
}

// EditTask applies c to t. The change is pushed by Flush.
func (s *Synchronizer) EditTask(t *model.Task, c model.Changes) {
	t.Modify(c)
}

// ToggleTask flips the completion of t and its children.
func (s *Synchronizer) ToggleTask(t *model.Task) {
	t.Toggle()
}

// RemoveTask marks t and its children deleted.
func (s *Synchronizer) RemoveTask(t *model.Task, force bool) {
	t.Delete(force)
}

// ClearTasks removes the completed tasks of l, or every task when all is set.
func (s *Synchronizer) ClearTasks(ctx context.Context, l *model.TaskList, all bool) error {
	if all {
		for t := range l.Tasks(false) {
			t.Delete(true)
		}
		return nil
	}

	s.log.Debugf("ClearCompleted %s", l.ID())
	if err := s.svc.ClearCompleted(ctx, l.ID()); err != nil {
		return fmt.Errorf("clearing completed tasks: %w", err)
	}
	for t := range l.Tasks(false) {
		if t.Completed() {
			t.Delete(false)
		}
	}
	return nil
}

// AddTaskList creates a list and appends it.
func (s *Synchronizer) AddTaskList(ctx context.Context, title string) (*model.TaskList, error) {
	if title == "" {
		s.log.Warnf("creating a task list with no title")
	}
	s.log.Debugf("CreateTaskList %q", title)
	r, err := s.svc.CreateTaskList(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("creating task list: %w", err)
	}
	l := model.NewTaskList(r.ID, r.Title)
	s.lists.Add(l)
	return l, nil
}

// RenameTaskList changes the title of l.
func (s *Synchronizer) RenameTaskList(ctx context.Context, l *model.TaskList, title string) error {
	s.log.Debugf("UpdateTaskList %s %q", l.ID(), title)
	r, err := s.svc.UpdateTaskList(ctx, service.TaskList{ID: l.ID(), Title: title})
	if err != nil {
		return fmt.Errorf("renaming task list: %w", err)
	}
	l.SetTitle(r.Title)
	return nil
}

// DeleteTaskList deletes l and everything in it.
func (s *Synchronizer) DeleteTaskList(ctx context.Context, l *model.TaskList) error {
	s.log.Debugf("DeleteTaskList %s", l.ID())
	if err := s.svc.DeleteTaskList(ctx, l.ID()); err != nil {
		return fmt.Errorf("deleting task list: %w", err)
	}
	s.lists.Delete(l)
	return nil
}

// Flush pushes every pending change: updates for modified tasks and
// deletes for deleted ones. Pushed tasks are marked synced or dropped, so
// Flush can be called again after a failure. The first error is returned
// after every task has been attempted.
func (s *Synchronizer) Flush(ctx context.Context) (FlushStats, error) {
	var (
		stats    FlushStats
		firstErr error
	)
	for _, l := range s.lists.All() {
		var pending []*model.Task
		for t := range l.Tasks(true) {
			if t.IsModified() {
				pending = append(pending, t)
			}
		}

		for _, t := range pending {
			var err error
			if t.IsDeleted() {
				s.log.Debugf("DeleteTask %s %s", l.ID(), t.ID())
				err = s.svc.DeleteTask(ctx, l.ID(), t.ID())
				if err == nil {
					l.RemoveTask(t)
					stats.Deleted++
				}
			} else {
				s.log.Debugf("UpdateTask %s %s", l.ID(), t.ID())
				_, err = s.svc.UpdateTask(ctx, l.ID(), t.ID(), t.Resource())
				if err == nil {
					t.MarkSynced()
					stats.Updated++
				}
			}
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("saving task %q: %w", t.Title(), err)
			}
		}
	}
	return stats, firstErr
}
