package model_test

import (
	"strings"
	"testing"
	"time"

	"tasky/internal/model"
	"tasky/internal/service"
)

func mustTask(t *testing.T, id, position, parent string) *model.Task {
	t.Helper()
	task, err := model.NewTask(service.Task{
		ID:       id,
		Title:    "task " + id,
		Position: position,
		Parent:   parent,
		Status:   service.StatusNeedsAction,
	})
	if err != nil {
		t.Fatalf("NewTask(%s): %v", id, err)
	}
	return task
}

func strPtr(s string) *string { return &s }

func TestNewTask_ParsesDueAndStatus(t *testing.T) {
	task, err := model.NewTask(service.Task{
		ID:     "a",
		Title:  "Pay rent",
		Due:    "2026-03-01T00:00:00.000Z",
		Status: service.StatusCompleted,
		Notes:  "by transfer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !task.Completed() {
		t.Error("expected task to be completed")
	}
	due, ok := task.Due()
	if !ok {
		t.Fatal("expected due date to be set")
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Errorf("expected due %v, got %v", want, due)
	}
	if task.Status() != model.StatusDefault {
		t.Errorf("expected default status, got %v", task.Status())
	}
}

func TestNewTask_InvalidDue(t *testing.T) {
	_, err := model.NewTask(service.Task{ID: "a", Due: "next tuesday"})
	if err == nil {
		t.Fatal("expected error for invalid due date")
	}
}

func TestTask_ModifyAppliesPresentFields(t *testing.T) {
	task := mustTask(t, "a", "1", "")
	task.Modify(model.Changes{Notes: strPtr("call first")})

	if task.Title() != "task a" {
		t.Errorf("title should be unchanged, got %q", task.Title())
	}
	if task.Notes() != "call first" {
		t.Errorf("expected notes to be set, got %q", task.Notes())
	}
	if task.Status() != model.StatusModified {
		t.Errorf("expected modified status, got %v", task.Status())
	}
}

func TestTask_DeletedIsAbsorbing(t *testing.T) {
	parent := mustTask(t, "p", "1", "")
	child := mustTask(t, "c", "1", "p")
	parent.AddChild(child)
	parent.Delete(false)

	before := parent.Resource()
	parent.Modify(model.Changes{Title: strPtr("new title")})
	parent.Toggle()
	parent.SetParent("other")
	parent.AddChild(mustTask(t, "x", "2", "p"))
	parent.RemoveChild(child)

	if got := parent.Resource(); got != before {
		t.Errorf("deleted task changed:\nbefore %+v\nafter  %+v", before, got)
	}
	if parent.Status() != model.StatusDeleted {
		t.Errorf("expected deleted status, got %v", parent.Status())
	}
	if len(parent.Children()) != 1 || parent.Child("c") != child {
		t.Error("children of a deleted task must not change")
	}
	if !child.IsDeleted() {
		t.Error("expected delete to cascade to child")
	}
}

func TestTask_ToggleCascadesToChildren(t *testing.T) {
	parent := mustTask(t, "p", "1", "")
	c1 := mustTask(t, "c1", "1", "p")
	c2 := mustTask(t, "c2", "2", "p")
	c2.Toggle() // child already completed, must follow the parent anyway
	c2.MarkSynced()
	parent.AddChild(c1)
	parent.AddChild(c2)

	parent.Toggle()

	for _, task := range []*model.Task{parent, c1, c2} {
		if !task.Completed() {
			t.Errorf("%s: expected completed", task.ID())
		}
		if task.Status() != model.StatusModified {
			t.Errorf("%s: expected modified, got %v", task.ID(), task.Status())
		}
	}

	parent.Toggle()
	for _, task := range []*model.Task{parent, c1, c2} {
		if task.Completed() {
			t.Errorf("%s: expected not completed after second toggle", task.ID())
		}
	}
}

func TestTask_ToggleDeletedChildStaysDeleted(t *testing.T) {
	parent := mustTask(t, "p", "1", "")
	child := mustTask(t, "c", "1", "p")
	parent.AddChild(child)
	child.Delete(false)

	parent.Toggle()

	if !child.Completed() {
		t.Error("every child follows the parent's completion")
	}
	if child.Status() != model.StatusDeleted {
		t.Errorf("deleted child must stay deleted, got %v", child.Status())
	}
}

func TestTask_SetPositionKeepsStatus(t *testing.T) {
	task := mustTask(t, "a", "00000000000000000001", "")

	task.SetPosition("00000000000000000000")

	if task.Position() != "00000000000000000000" {
		t.Errorf("expected new position, got %q", task.Position())
	}
	if task.Status() != model.StatusDefault {
		t.Errorf("a position change comes from the backend, got %v", task.Status())
	}
}

func TestTask_ChildrenSortedByPosition(t *testing.T) {
	parent := mustTask(t, "p", "1", "")
	parent.AddChild(mustTask(t, "c3", "3", "p"))
	parent.AddChild(mustTask(t, "c1", "1", "p"))
	parent.AddChild(mustTask(t, "c2", "2", "p"))

	var ids []string
	for _, c := range parent.Children() {
		ids = append(ids, c.ID())
	}
	if got := strings.Join(ids, ","); got != "c1,c2,c3" {
		t.Errorf("expected c1,c2,c3, got %s", got)
	}
}

func TestTask_Resource(t *testing.T) {
	task := mustTask(t, "a", "00001", "p")
	due := time.Date(2026, 7, 4, 8, 30, 0, 0, time.UTC)
	task.Modify(model.Changes{Due: &due, Notes: strPtr("bbq")})
	task.Toggle()

	r := task.Resource()
	want := service.Task{
		Kind:     service.KindTask,
		ID:       "a",
		Title:    "task a",
		Parent:   "p",
		Position: "00001",
		Notes:    "bbq",
		Due:      "2026-07-04T12:00:00.000Z",
		Status:   service.StatusCompleted,
	}
	if r != want {
		t.Errorf("expected %+v, got %+v", want, r)
	}
}

func TestTask_MarkSyncedKeepsDeleted(t *testing.T) {
	task := mustTask(t, "a", "1", "")
	task.Toggle()
	task.MarkSynced()
	if task.Status() != model.StatusDefault {
		t.Errorf("expected default after sync, got %v", task.Status())
	}

	task.Delete(true)
	task.MarkSynced()
	if !task.IsDeleted() {
		t.Error("MarkSynced must not resurrect a deleted task")
	}
}

func TestTask_InheritCarriesEditsAndChildren(t *testing.T) {
	old := mustTask(t, "a", "1", "")
	child := mustTask(t, "c", "1", "a")
	old.AddChild(child)
	old.Modify(model.Changes{Title: strPtr("edited")})

	moved := mustTask(t, "a", "5", "")
	moved.Inherit(old)

	if moved.Title() != "edited" {
		t.Errorf("expected pending title to carry over, got %q", moved.Title())
	}
	if moved.Status() != model.StatusModified {
		t.Errorf("expected modified, got %v", moved.Status())
	}
	if moved.Position() != "5" {
		t.Errorf("position must come from the moved resource, got %q", moved.Position())
	}
	if moved.Child("c") != child {
		t.Error("expected child to move to the new task")
	}
}

func TestParseDate(t *testing.T) {
	got, err := model.ParseDate("12/31/2026")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := model.ParseDate("2026-12-31"); err == nil {
		t.Error("expected error for wrong layout")
	}
}
