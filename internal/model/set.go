package model

import (
	"slices"
	"strings"
)

// taskSet maps task IDs to tasks and remembers insertion order,
// which breaks ties between equal positions.
type taskSet struct {
	byID  map[string]*Task
	order []string
}

func newTaskSet() taskSet {
	return taskSet{byID: make(map[string]*Task)}
}

func (s *taskSet) put(t *Task) {
	if _, ok := s.byID[t.id]; !ok {
		s.order = append(s.order, t.id)
	}
	s.byID[t.id] = t
}

func (s *taskSet) get(id string) *Task {
	return s.byID[id]
}

func (s *taskSet) remove(id string) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// values returns the tasks in insertion order.
func (s *taskSet) values() []*Task {
	out := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// sorted returns the tasks ordered by position, ties kept in insertion order.
func (s *taskSet) sorted() []*Task {
	out := s.values()
	slices.SortStableFunc(out, func(a, b *Task) int {
		return strings.Compare(a.position, b.position)
	})
	return out
}
