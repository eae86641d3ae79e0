package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/studytime/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

const taskColumns = `id, title, description, due, priority, completed, duration_minutes, created_at, updated_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens path and applies migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in model.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, in.Due, string(in.Priority), boolInt(in.Completed),
		in.DurationMinutes, mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in model.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, due = ?, priority = ?, completed = ?, duration_minutes = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Description, in.Due, string(in.Priority), boolInt(in.Completed),
		in.DurationMinutes, mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ListTasks returns newest first.
func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := make([]any, 0, 3)
	if filter.Completed != nil {
		query += ` WHERE completed = ?`
		args = append(args, boolInt(*filter.Completed))
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var priority string
	var completed int
	var created, updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Due, &priority, &completed,
		&out.DurationMinutes, &created, &updated); err != nil {
		return model.Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return model.Task{}, err
	}
	out.Priority = model.Priority(priority)
	out.Completed = completed == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
