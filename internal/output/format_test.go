package output

import (
	"bytes"
	"strings"
	"testing"

	"tasky/internal/model"
	"tasky/internal/service"
	"tasky/internal/testutil"
)

func sampleLists(t *testing.T) *model.TaskLists {
	t.Helper()
	work := model.NewTaskList("L1", "Work")
	for _, r := range []service.Task{
		{ID: "a", Title: "Write report", Position: "1", Due: "2026-03-06T00:00:00.000Z", Notes: "quarterly"},
		{ID: "a1", Title: "Collect numbers", Position: "1", Parent: "a", Status: service.StatusCompleted},
		{ID: "b", Title: "Book flights", Position: "2"},
		{ID: "c", Title: "", Position: "3", Status: service.StatusCompleted},
	} {
		task, err := model.NewTask(r)
		if err != nil {
			t.Fatalf("NewTask: %v", err)
		}
		work.AddTask(task)
	}
	work.UpdateNesting()

	ls := model.NewTaskLists()
	ls.Add(work)
	ls.Add(model.NewTaskList("L2", "Home"))
	return ls
}

func TestLists_Golden(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Lists(sampleLists(t))
	testutil.Golden(t, "lists", buf.Bytes())
}

func TestSummary_Golden(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Summary(sampleLists(t))
	testutil.Golden(t, "summary", buf.Bytes())
}

func TestLists_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Lists(model.NewTaskLists())
	if buf.String() != "Found no task lists.\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestList_DeletedTasksHidden(t *testing.T) {
	ls := sampleLists(t)
	work, _ := ls.ByPos(0)
	b, _ := work.Task("b", "")
	b.Delete(false)

	var buf bytes.Buffer
	NewPrinter(&buf, false).List(0, work)
	if strings.Contains(buf.String(), "Book flights") {
		t.Errorf("deleted task printed:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "  2 [x] (untitled)") {
		t.Errorf("expected ordinals to skip the deleted task:\n%s", buf.String())
	}
}

func TestList_Color(t *testing.T) {
	ls := sampleLists(t)
	work, _ := ls.ByPos(0)

	var plain, colored bytes.Buffer
	NewPrinter(&plain, false).List(0, work)
	NewPrinter(&colored, true).List(0, work)

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("expected no escape sequences without color:\n%q", plain.String())
	}
	for _, code := range []string{ColorHeader, ColorDate, ColorNotes, ColorTitle} {
		if !strings.Contains(colored.String(), "38;5;"+code) {
			t.Errorf("expected colour %s in output:\n%q", code, colored.String())
		}
	}
}

func TestListTitles_NoDetails(t *testing.T) {
	ls := sampleLists(t)
	work, _ := ls.ByPos(0)

	var buf bytes.Buffer
	NewPrinter(&buf, false).ListTitles(0, work)
	want := "0 Work\n  0 [ ] Write report\n    1 [x] Collect numbers\n  2 [ ] Book flights\n  3 [x] (untitled)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
