package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tasky/internal/model"
)

// ErrIndexRequired indicates no task index was provided.
var ErrIndexRequired = errors.New("task index required")

// ParseIndex parses a task ordinal as printed by the list command.
func ParseIndex(arg string) (int, error) {
	if !isAllDigits(arg) {
		return 0, fmt.Errorf("invalid task index: %s", arg)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task index: %s", arg)
	}
	return n, nil
}

// ParseIndexes parses one or more task ordinals. An argument may hold
// several ordinals separated by spaces or commas ("1 2", "1,2").
func ParseIndexes(args []string) ([]int, error) {
	var idxs []int
	for _, arg := range args {
		fields := strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		for _, f := range fields {
			n, err := ParseIndex(f)
			if err != nil {
				return nil, err
			}
			idxs = append(idxs, n)
		}
	}
	if len(idxs) == 0 {
		return nil, ErrIndexRequired
	}
	return idxs, nil
}

// resolveTasks looks up every ordinal before anything is changed, so a
// bad ordinal leaves the list untouched.
func resolveTasks(l *model.TaskList, idxs []int) ([]*model.Task, error) {
	tasks := make([]*model.Task, 0, len(idxs))
	for _, i := range idxs {
		t, err := l.TaskByPos(i)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
