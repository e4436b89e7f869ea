package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"

	"tasky/internal/service"
)

// newTestClient starts a server with the given handlers and returns a
// client pointed at it.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func TestListTaskLists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/v1/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"items": []map[string]any{
				{"id": "L1", "title": "Work"},
				{"id": "L2", "title": "Home"},
			},
		})
	})
	c := newTestClient(t, mux)

	lists, err := c.ListTaskLists(context.Background())
	if err != nil {
		t.Fatalf("ListTaskLists: %v", err)
	}
	if len(lists) != 2 || lists[0] != (service.TaskList{ID: "L1", Title: "Work"}) {
		t.Errorf("unexpected lists: %+v", lists)
	}
}

func TestListTasks_Pages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/v1/lists/L1/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("showCompleted") != "true" {
			t.Errorf("expected showCompleted=true, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(t, w, map[string]any{
				"items":         []map[string]any{{"id": "A", "title": "first", "position": "00000000000000000001", "status": "needsAction"}},
				"nextPageToken": "p2",
			})
			return
		}
		writeJSON(t, w, map[string]any{
			"items": []map[string]any{{"id": "B", "title": "second", "parent": "A", "status": "completed", "due": "2026-05-01T00:00:00.000Z"}},
		})
	})
	c := newTestClient(t, mux)

	got, err := c.ListTasks(context.Background(), "L1")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks across pages, got %d", len(got))
	}
	if got[1].Parent != "A" || got[1].Status != service.StatusCompleted || got[1].Due != "2026-05-01T00:00:00.000Z" {
		t.Errorf("unexpected second task: %+v", got[1])
	}
	if got[0].Kind != service.KindTask {
		t.Errorf("expected kind %s, got %s", service.KindTask, got[0].Kind)
	}
}

func TestCreateTask_WithParent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/v1/lists/L1/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("parent") != "P" {
			t.Errorf("expected parent=P, got %q", r.URL.RawQuery)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		writeJSON(t, w, map[string]any{"id": "N", "title": body["title"], "parent": "P", "status": "needsAction"})
	})
	c := newTestClient(t, mux)

	got, err := c.CreateTask(context.Background(), "L1", "P", service.Task{Title: "child", Status: service.StatusNeedsAction})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got.ID != "N" || got.Title != "child" || got.Parent != "P" {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestMoveTask_Query(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/v1/lists/L1/tasks/T/move", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("previous") != "A" || q.Has("parent") {
			t.Errorf("unexpected move query: %q", r.URL.RawQuery)
		}
		writeJSON(t, w, map[string]any{"id": "T", "title": "moved", "position": "00000000000000000002"})
	})
	c := newTestClient(t, mux)

	got, err := c.MoveTask(context.Background(), "L1", "T", "", "A")
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	if got.Position != "00000000000000000002" {
		t.Errorf("unexpected position %q", got.Position)
	}
}

func TestDeleteTask_NotFoundIsSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/v1/lists/L1/tasks/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"Task not found"}}`, http.StatusNotFound)
	})
	c := newTestClient(t, mux)

	if err := c.DeleteTask(context.Background(), "L1", "gone"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestWrapError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/v1/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`, http.StatusUnauthorized)
	})
	mux.HandleFunc("/tasks/v1/lists/missing/tasks", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
	})
	c := newTestClient(t, mux)

	if _, err := c.ListTaskLists(context.Background()); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := c.ListTasks(context.Background(), "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if wrapError(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestFromTask_NullFields(t *testing.T) {
	body := fromTask(service.Task{Title: "x", Status: service.StatusNeedsAction})
	want := map[string]bool{"Completed": true, "Due": true}
	if len(body.NullFields) != 2 || !want[body.NullFields[0]] || !want[body.NullFields[1]] {
		t.Errorf("unexpected null fields: %v", body.NullFields)
	}

	body = fromTask(service.Task{Title: "x", Status: service.StatusCompleted, Due: "2026-01-01T12:00:00.000Z"})
	if len(body.NullFields) != 0 {
		t.Errorf("expected no null fields, got %v", body.NullFields)
	}
}
