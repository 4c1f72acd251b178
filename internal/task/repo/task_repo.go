package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/tford-dev/tasks-app-api/internal/task/entity"
)

// TaskRepo provides data access for the tasks table using sqlx.
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo { return &TaskRepo{db: db} }

// EnsureTable creates the tasks table if not exists (idempotent).
// Deleting a user cascades to their tasks.
func (r *TaskRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  time TEXT NOT NULL DEFAULT '',
  user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new task row and returns the new ID.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) (int64, error) {
	const q = `INSERT INTO tasks (title, description, time, user_id)
		VALUES (:title, :description, :time, :user_id) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, q, t)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&t.ID); err != nil {
			return 0, err
		}
		return t.ID, nil
	}
	return 0, errors.New("no id returned")
}

// GetByID fetches a task row or sql.ErrNoRows.
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	const q = `SELECT id, title, description, time, user_id, created_at, updated_at
		FROM tasks WHERE id=$1`
	var row entity.Task
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the owner's tasks, newest created first. Scoping
// the query to user_id is the list-path ownership check.
func (r *TaskRepo) ListByUser(ctx context.Context, userID int64) ([]entity.Task, error) {
	const q = `SELECT id, title, description, time, user_id, created_at, updated_at
		FROM tasks WHERE user_id=$1 ORDER BY created_at DESC`
	tasks := []entity.Task{}
	if err := r.db.SelectContext(ctx, &tasks, q, userID); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update replaces the mutable columns of a task.
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	const q = `UPDATE tasks SET title=$2, description=$3, time=$4, updated_at=NOW() WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.Title, t.Description, t.Time)
	return err
}

// Delete removes a task row.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tasks WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
