package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/studytime/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the task table behind the reference server.
type Repository interface {
	CreateTask(ctx context.Context, in model.Task) error
	GetTask(ctx context.Context, id string) (model.Task, error)
	UpdateTask(ctx context.Context, in model.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
}
