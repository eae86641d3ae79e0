package storage

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/studytime/internal/model"
)

// FileStore keeps the persisted collection in a single JSON file.
type FileStore struct {
	path   string
	logger *log.Logger
}

func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &FileStore{path: strings.TrimSpace(path), logger: logger}
}

func (f *FileStore) Path() string { return f.path }

// Load never fails on bad content: a corrupt file loads as an empty
// collection. Only I/O errors other than a missing file are returned.
func (f *FileStore) Load() ([]model.Task, error) {
	if f.path == "" {
		return []model.Task{}, nil
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	tasks, err := DecodeState(raw)
	if err != nil {
		f.logger.Printf("storage=file path=%s recovered=empty error=%q", f.path, err)
	}
	return tasks, nil
}

func (f *FileStore) Save(tasks []model.Task) error {
	if f.path == "" {
		return nil
	}
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := EncodeState(tasks)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
