package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harlequingg/tasktracker/internal/data"
)

const taskColumns = `id, title, completed, is_important, created_at, user_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*data.Task, error) {
	var t data.Task
	err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.IsImportant, &t.CreatedAt, &t.UserID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Storage) InsertTask(ctx context.Context, t *data.Task) error {
	query := `INSERT INTO tasks (created_at, title, completed, is_important, user_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, query, t.CreatedAt, t.Title, t.Completed, t.IsImportant, t.UserID)
	return row.Scan(&t.ID)
}

// GetTasksByUserID returns the tasks owned by userID, oldest first.
func (s *Storage) GetTasksByUserID(ctx context.Context, userID int64) ([]*data.Task, error) {
	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE user_id = $1
			  ORDER BY created_at ASC, id ASC`

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*data.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTaskByID returns nil when no task has the given id.
func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*data.Task, error) {
	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE id = $1`

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// UpdateTask writes the fields set in patch in a single statement; the other
// columns keep their stored value. It returns nil when the task is gone.
func (s *Storage) UpdateTask(ctx context.Context, id int64, patch data.TaskPatch) (*data.Task, error) {
	query := `UPDATE tasks
			  SET title = COALESCE($1, title),
			      completed = COALESCE($2, completed),
			      is_important = COALESCE($3, is_important)
			  WHERE id = $4`

	var (
		title       sql.NullString
		completed   sql.NullBool
		isImportant sql.NullBool
	)
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	if patch.Completed != nil {
		completed = sql.NullBool{Bool: *patch.Completed, Valid: true}
	}
	if patch.IsImportant != nil {
		isImportant = sql.NullBool{Bool: *patch.IsImportant, Valid: true}
	}

	// sqlite does not report column types for RETURNING rows, so the task is
	// read back instead
	tctx, cancel := s.withTimeout(ctx)
	res, err := s.db.ExecContext(tctx, query, title, completed, isImportant, id)
	cancel()
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetTaskByID(ctx, id)
}

// DeleteTask removes the task, returning data.ErrRecordNotFound when there
// was nothing to remove.
func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks
			  WHERE id = $1`

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return data.ErrRecordNotFound
	}
	return nil
}
