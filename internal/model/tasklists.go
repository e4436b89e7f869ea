package model

import (
	"fmt"
	"slices"
)

// TaskLists is the ordered set of lists, in load or creation order.
type TaskLists struct {
	lists []*TaskList
}

// NewTaskLists creates an empty collection.
func NewTaskLists() *TaskLists {
	return &TaskLists{}
}

// Add appends l.
func (ls *TaskLists) Add(l *TaskList) {
	ls.lists = append(ls.lists, l)
}

// Delete removes l by identity.
func (ls *TaskLists) Delete(l *TaskList) {
	if i := slices.Index(ls.lists, l); i >= 0 {
		ls.lists = slices.Delete(ls.lists, i, i+1)
	}
}

// All returns the lists in order.
func (ls *TaskLists) All() []*TaskList {
	return slices.Clone(ls.lists)
}

// Len returns the number of lists.
func (ls *TaskLists) Len() int {
	return len(ls.lists)
}

// ByPos returns the list with the given index.
func (ls *TaskLists) ByPos(pos int) (*TaskList, error) {
	if pos < 0 || pos >= len(ls.lists) {
		return nil, fmt.Errorf("task list %d: %w", pos, ErrOutOfRange)
	}
	return ls.lists[pos], nil
}
