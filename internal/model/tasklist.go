package model

import (
	"errors"
	"fmt"
	"iter"
	"maps"
)

// ErrOutOfRange is returned for an ordinal or list index with no entry.
var ErrOutOfRange = errors.New("index out of range")

// ErrNotFound is returned when a task ID is not present in a list.
var ErrNotFound = errors.New("task not found")

// ErrInvalidParent is returned by Task when the parent ID is not a
// top-level task of the list.
var ErrInvalidParent = errors.New("invalid parent id")

// TaskList is an ordered collection of top-level tasks, each carrying
// its children.
type TaskList struct {
	id    string
	title string
	tasks taskSet
}

// NewTaskList creates an empty list.
func NewTaskList(id, title string) *TaskList {
	return &TaskList{id: id, title: title, tasks: newTaskSet()}
}

func (l *TaskList) ID() string    { return l.id }
func (l *TaskList) Title() string { return l.title }

// SetTitle changes the list title.
func (l *TaskList) SetTitle(title string) {
	l.title = title
}

// AddTask inserts t at top level, replacing any task with the same ID.
func (l *TaskList) AddTask(t *Task) {
	l.tasks.put(t)
}

// RemoveTask drops t from the list, detaching it from its parent first.
func (l *TaskList) RemoveTask(t *Task) {
	if t.parent != "" {
		if p := l.tasks.get(t.parent); p != nil {
			p.RemoveChild(t)
		}
	}
	l.tasks.remove(t.id)
}

// UpdateNesting moves every top-level task that names a parent under
// that parent. Tasks whose parent cannot be found are promoted to top
// level and their former parent IDs are returned. Chains deeper than one
// level are flattened onto the root ancestor. Calling it again once
// everything is nested changes nothing.
func (l *TaskList) UpdateNesting() (orphans []string) {
	// Index every known task, nested ones included, before mutating.
	index := maps.Clone(l.tasks.byID)
	for _, t := range l.tasks.values() {
		for _, c := range t.children.values() {
			index[c.id] = c
		}
	}

	for _, t := range l.tasks.values() {
		if t.parent == "" {
			continue
		}
		p := index[t.parent]
		if p == nil {
			orphans = append(orphans, t.parent)
			t.SetParent("")
			continue
		}

		root := rootOf(p, index)
		if root == nil || root == t {
			orphans = append(orphans, t.parent)
			t.SetParent("")
			continue
		}
		if root.IsDeleted() {
			continue
		}
		if root != p {
			t.SetParent(root.id)
		}

		// A task that becomes a child hands its own children to the root.
		for _, c := range t.children.values() {
			t.RemoveChild(c)
			c.SetParent(root.id)
			root.AddChild(c)
		}
		root.AddChild(t)
		l.tasks.remove(t.id)
	}
	return orphans
}

// rootOf walks up the parent chain of t and returns the topmost ancestor,
// or nil when the chain loops.
func rootOf(t *Task, index map[string]*Task) *Task {
	seen := map[string]bool{}
	for t.parent != "" {
		if seen[t.id] {
			return nil
		}
		seen[t.id] = true
		p := index[t.parent]
		if p == nil {
			break
		}
		t = p
	}
	return t
}

// Tasks yields every task in ordinal order: top-level tasks by position,
// each directly followed by its children by position. Deleted tasks are
// skipped unless includeDeleted is set.
func (l *TaskList) Tasks(includeDeleted bool) iter.Seq[*Task] {
	return func(yield func(*Task) bool) {
		for _, t := range l.tasks.sorted() {
			if t.IsDeleted() && !includeDeleted {
				continue
			}
			if !yield(t) {
				return
			}
			for _, c := range t.Children() {
				if c.IsDeleted() && !includeDeleted {
					continue
				}
				if !yield(c) {
					return
				}
			}
		}
	}
}

// NumTasks returns the number of visible tasks.
func (l *TaskList) NumTasks() int {
	n := 0
	for range l.Tasks(false) {
		n++
	}
	return n
}

// TaskByPos returns the visible task with the given ordinal.
func (l *TaskList) TaskByPos(pos int) (*Task, error) {
	if pos >= 0 {
		i := 0
		for t := range l.Tasks(false) {
			if i == pos {
				return t, nil
			}
			i++
		}
	}
	return nil, fmt.Errorf("task %d: %w", pos, ErrOutOfRange)
}

// Task looks up a task by ID. With a parentID the task is looked up among
// that parent's children.
func (l *TaskList) Task(id, parentID string) (*Task, error) {
	if parentID != "" {
		p := l.tasks.get(parentID)
		if p == nil {
			return nil, fmt.Errorf("%w %s", ErrInvalidParent, parentID)
		}
		if c := p.Child(id); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if t := l.tasks.get(id); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
}
