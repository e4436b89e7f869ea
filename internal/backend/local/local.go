// Package local implements service.Service on a SQLite database, for use
// without a Google account.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tasky/internal/service"
)

// Backend implements service.Service using SQLite.
type Backend struct {
	db *sql.DB
}

// New opens the database at path and initializes the schema.
func New(path string) (*Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	b := &Backend{db: db}
	if err := b.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize %s: %w", path, err)
	}
	return b, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS task_lists (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL,
			parent_id TEXT NOT NULL DEFAULT '',
			sort INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			due TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'needsAction',
			hidden INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (list_id) REFERENCES task_lists(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_siblings ON tasks(list_id, parent_id, sort);
	`
	if _, err := b.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	_, err := b.db.Exec(schema)
	return err
}

// ListTaskLists returns all lists in creation order.
func (b *Backend) ListTaskLists(ctx context.Context) ([]service.TaskList, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT id, title FROM task_lists ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var lists []service.TaskList
	for rows.Next() {
		var l service.TaskList
		if err := rows.Scan(&l.ID, &l.Title); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// CreateTaskList creates a new task list.
func (b *Backend) CreateTaskList(ctx context.Context, title string) (service.TaskList, error) {
	l := service.TaskList{ID: uuid.New().String(), Title: title}
	if _, err := b.db.ExecContext(ctx, "INSERT INTO task_lists (id, title) VALUES (?, ?)", l.ID, l.Title); err != nil {
		return service.TaskList{}, err
	}
	return l, nil
}

// UpdateTaskList renames a task list.
func (b *Backend) UpdateTaskList(ctx context.Context, list service.TaskList) (service.TaskList, error) {
	res, err := b.db.ExecContext(ctx, "UPDATE task_lists SET title = ? WHERE id = ?", list.Title, list.ID)
	if err != nil {
		return service.TaskList{}, err
	}
	if err := requireRow(res, "list", list.ID); err != nil {
		return service.TaskList{}, err
	}
	return list, nil
}

// DeleteTaskList deletes a list and its tasks.
func (b *Backend) DeleteTaskList(ctx context.Context, listID string) error {
	return b.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE list_id = ?", listID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM task_lists WHERE id = ?", listID)
		if err != nil {
			return err
		}
		return requireRow(res, "list", listID)
	})
}

// ListTasks returns the visible tasks of a list, parents before children.
func (b *Backend) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	if err := b.requireList(ctx, b.db, listID); err != nil {
		return nil, err
	}
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, parent_id, sort, title, notes, due, status FROM tasks
		WHERE list_id = ? AND hidden = 0
		ORDER BY parent_id != '', sort`, listID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []service.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CreateTask inserts a task first among its siblings.
func (b *Backend) CreateTask(ctx context.Context, listID, parentID string, task service.Task) (service.Task, error) {
	id := uuid.New().String()
	status := task.Status
	if status == "" {
		status = service.StatusNeedsAction
	}

	err := b.inTx(ctx, func(tx *sql.Tx) error {
		if err := b.requireList(ctx, tx, listID); err != nil {
			return err
		}
		if parentID != "" {
			if _, err := b.sortOf(ctx, tx, listID, parentID); err != nil {
				return err
			}
		}
		if err := shift(ctx, tx, listID, parentID, 0); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, list_id, parent_id, sort, title, notes, due, status)
			VALUES (?, ?, ?, 0, ?, ?, ?, ?)`,
			id, listID, parentID, task.Title, task.Notes, task.Due, status)
		return err
	})
	if err != nil {
		return service.Task{}, err
	}
	return b.getTask(ctx, listID, id)
}

// UpdateTask replaces the editable fields of a task.
func (b *Backend) UpdateTask(ctx context.Context, listID, taskID string, task service.Task) (service.Task, error) {
	res, err := b.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, notes = ?, due = ?, status = ?
		WHERE list_id = ? AND id = ?`,
		task.Title, task.Notes, task.Due, task.Status, listID, taskID)
	if err != nil {
		return service.Task{}, err
	}
	if err := requireRow(res, "task", taskID); err != nil {
		return service.Task{}, err
	}
	return b.getTask(ctx, listID, taskID)
}

// DeleteTask deletes a task and its subtasks. Missing tasks are ignored.
func (b *Backend) DeleteTask(ctx context.Context, listID, taskID string) error {
	_, err := b.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE list_id = ? AND (id = ? OR parent_id = ?)",
		listID, taskID, taskID)
	return err
}

// MoveTask moves a task under parentID, directly after previousID.
func (b *Backend) MoveTask(ctx context.Context, listID, taskID, parentID, previousID string) (service.Task, error) {
	err := b.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := b.sortOf(ctx, tx, listID, taskID); err != nil {
			return err
		}
		if parentID != "" {
			if _, err := b.sortOf(ctx, tx, listID, parentID); err != nil {
				return err
			}
		}
		sort := 0
		if previousID != "" {
			prev, err := b.sortOf(ctx, tx, listID, previousID)
			if err != nil {
				return err
			}
			sort = prev + 1
		}
		if err := shift(ctx, tx, listID, parentID, sort); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"UPDATE tasks SET parent_id = ?, sort = ? WHERE list_id = ? AND id = ?",
			parentID, sort, listID, taskID)
		return err
	})
	if err != nil {
		return service.Task{}, err
	}
	return b.getTask(ctx, listID, taskID)
}

// ClearCompleted hides the completed tasks of a list.
func (b *Backend) ClearCompleted(ctx context.Context, listID string) error {
	if err := b.requireList(ctx, b.db, listID); err != nil {
		return err
	}
	_, err := b.db.ExecContext(ctx,
		"UPDATE tasks SET hidden = 1 WHERE list_id = ? AND status = ?",
		listID, service.StatusCompleted)
	return err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (b *Backend) requireList(ctx context.Context, q querier, listID string) error {
	var id string
	err := q.QueryRowContext(ctx, "SELECT id FROM task_lists WHERE id = ?", listID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("list %s: %w", listID, service.ErrNotFound)
	}
	return err
}

func (b *Backend) sortOf(ctx context.Context, q querier, listID, taskID string) (int, error) {
	var sort int
	err := q.QueryRowContext(ctx,
		"SELECT sort FROM tasks WHERE list_id = ? AND id = ? AND hidden = 0",
		listID, taskID).Scan(&sort)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}
	return sort, err
}

func (b *Backend) getTask(ctx context.Context, listID, taskID string) (service.Task, error) {
	row := b.db.QueryRowContext(ctx, `
		SELECT id, parent_id, sort, title, notes, due, status FROM tasks
		WHERE list_id = ? AND id = ?`, listID, taskID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}
	return t, err
}

func (b *Backend) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// shift makes room at sort among the siblings under parentID.
func shift(ctx context.Context, tx *sql.Tx, listID, parentID string, from int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE tasks SET sort = sort + 1 WHERE list_id = ? AND parent_id = ? AND sort >= ?",
		listID, parentID, from)
	return err
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, service.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (service.Task, error) {
	var (
		t    service.Task
		sort int
	)
	if err := s.Scan(&t.ID, &t.Parent, &sort, &t.Title, &t.Notes, &t.Due, &t.Status); err != nil {
		return service.Task{}, err
	}
	t.Kind = service.KindTask
	t.Position = fmt.Sprintf("%020d", sort)
	return t, nil
}
