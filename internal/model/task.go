// Package model holds the in-memory task model and its mutation tracking.
package model

import (
	"time"

	"tasky/internal/service"
)

// Status records whether a task owes a push to the backend.
type Status int

const (
	// StatusDefault means unmodified since load.
	StatusDefault Status = iota

	// StatusModified means changed locally; an update must be pushed.
	StatusModified

	// StatusDeleted means deleted locally; a delete must be pushed.
	// Once deleted, a task ignores every further mutation.
	StatusDeleted
)

func (s Status) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	default:
		return "default"
	}
}

// Changes lists the fields to apply in Task.Modify.
// Nil fields are left untouched.
type Changes struct {
	Title *string
	Notes *string
	Due   *time.Time
}

// Task is a single task node. It owns its children, which are kept
// one level deep by TaskList.UpdateNesting.
type Task struct {
	id        string
	title     string
	parent    string
	position  string
	notes     string
	due       time.Time
	completed bool
	status    Status
	children  taskSet
}

// NewTask builds a task from its wire representation.
func NewTask(r service.Task) (*Task, error) {
	t := &Task{
		id:        r.ID,
		title:     r.Title,
		parent:    r.Parent,
		position:  r.Position,
		notes:     r.Notes,
		completed: r.Status == service.StatusCompleted,
		children:  newTaskSet(),
	}
	if r.Due != "" {
		due, err := parseDue(r.Due)
		if err != nil {
			return nil, err
		}
		t.due = due
	}
	return t, nil
}

func (t *Task) ID() string       { return t.id }
func (t *Task) Title() string    { return t.title }
func (t *Task) Parent() string   { return t.parent }
func (t *Task) Position() string { return t.position }
func (t *Task) Notes() string    { return t.notes }
func (t *Task) Completed() bool  { return t.completed }
func (t *Task) Status() Status   { return t.status }

// Due returns the due date and whether one is set.
func (t *Task) Due() (time.Time, bool) {
	return t.due, !t.due.IsZero()
}

// IsDeleted reports whether the task has been deleted locally.
func (t *Task) IsDeleted() bool {
	return t.status == StatusDeleted
}

// IsModified reports whether the task owes a push (update or delete).
func (t *Task) IsModified() bool {
	return t.status == StatusModified || t.status == StatusDeleted
}

// SetParent changes the parent ID without marking the task modified;
// parent links are established remotely by create and move.
func (t *Task) SetParent(id string) {
	if t.IsDeleted() {
		return
	}
	t.parent = id
}

// SetPosition records the position the backend reports. Positions are
// assigned remotely, so the task is not marked modified.
func (t *Task) SetPosition(pos string) {
	t.position = pos
}

// Modify applies the non-nil fields of c and marks the task modified.
func (t *Task) Modify(c Changes) {
	if t.IsDeleted() {
		return
	}
	if c.Title != nil {
		t.title = *c.Title
	}
	if c.Due != nil {
		t.due = NormalizeDue(*c.Due)
	}
	if c.Notes != nil {
		t.notes = *c.Notes
	}
	t.setStatus(StatusModified)
}

// Toggle flips completion. Every child takes the parent's new value
// rather than flipping independently; deleted children keep their
// deleted status.
func (t *Task) Toggle() {
	if t.IsDeleted() {
		return
	}
	completed := !t.completed
	for _, c := range t.children.values() {
		c.completed = completed
	}
	t.completed = completed
	t.setStatus(StatusModified)
}

// Delete marks the task and all of its children deleted. force is
// accepted for callers that distinguish forced removal; a task is
// deleted either way.
func (t *Task) Delete(force bool) {
	_ = force
	t.setStatus(StatusDeleted)
}

// MarkSynced records that a pending update reached the backend.
func (t *Task) MarkSynced() {
	if t.status == StatusModified {
		t.status = StatusDefault
	}
}

// setStatus sets the status on t and its children. Deleted is absorbing.
func (t *Task) setStatus(s Status) {
	if t.IsDeleted() {
		return
	}
	t.status = s
	for _, c := range t.children.values() {
		if !c.IsDeleted() {
			c.status = s
		}
	}
}

// AddChild nests c under t.
func (t *Task) AddChild(c *Task) {
	if t.IsDeleted() {
		return
	}
	t.children.put(c)
}

// RemoveChild drops c from t's children.
func (t *Task) RemoveChild(c *Task) {
	if t.IsDeleted() {
		return
	}
	t.children.remove(c.id)
}

// Child returns the child with the given ID, or nil.
func (t *Task) Child(id string) *Task {
	return t.children.get(id)
}

// Children returns the children ordered by position.
func (t *Task) Children() []*Task {
	return t.children.sorted()
}

// HasChildren reports whether t has any children that are not deleted.
func (t *Task) HasChildren() bool {
	for _, c := range t.children.values() {
		if !c.IsDeleted() {
			return true
		}
	}
	return false
}

// Inherit takes over the children and pending edits of prev, the local
// copy this task replaces after a remote move.
func (t *Task) Inherit(prev *Task) {
	for _, c := range prev.children.values() {
		c.parent = t.id
		t.children.put(c)
	}
	prev.children = newTaskSet()
	if prev.status == StatusModified {
		t.title = prev.title
		t.notes = prev.notes
		t.due = prev.due
		t.completed = prev.completed
		t.status = StatusModified
	}
}

// Resource exports the task in its wire shape.
func (t *Task) Resource() service.Task {
	r := service.Task{
		Kind:     service.KindTask,
		ID:       t.id,
		Title:    t.title,
		Parent:   t.parent,
		Position: t.position,
		Notes:    t.notes,
		Status:   service.StatusNeedsAction,
		Deleted:  t.IsDeleted(),
	}
	if t.completed {
		r.Status = service.StatusCompleted
	}
	if due, ok := t.Due(); ok {
		r.Due = formatDue(due)
	}
	return r
}
