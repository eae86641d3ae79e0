package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sandeepkv93/studytime/internal/model"
)

// SQLiteKV stores the persisted collection as one JSON value in the kv
// table, under StorageKey.
type SQLiteKV struct {
	db     *sql.DB
	key    string
	now    func() time.Time
	logger *log.Logger
}

func NewSQLiteKV(db *sql.DB, logger *log.Logger) (*SQLiteKV, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SQLiteKV{db: db, key: StorageKey, now: time.Now, logger: logger}, nil
}

// OpenSQLiteKV opens path, applies migrations and returns a ready store.
func OpenSQLiteKV(path string, logger *log.Logger) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	kv, err := NewSQLiteKV(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), mustTime(s.now()),
	)
	return err
}

func (s *SQLiteKV) Load() ([]model.Task, error) {
	raw, err := s.Get(context.Background(), s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	tasks, err := DecodeState(raw)
	if err != nil {
		s.logger.Printf("storage=sqlite key=%s recovered=empty error=%q", s.key, err)
	}
	return tasks, nil
}

func (s *SQLiteKV) Save(tasks []model.Task) error {
	payload, err := EncodeState(tasks)
	if err != nil {
		return err
	}
	return s.Put(context.Background(), s.key, payload)
}
