package store

import (
	"time"

	"github.com/sandeepkv93/studytime/internal/model"
)

// Action is one state transition of the task collection.
type Action interface {
	reduce(state []model.Task, now time.Time) []model.Task
}

// Add prepends an already-built task. A task already holding the same id
// is dropped so ids stay unique.
type Add struct{ Task model.Task }

// Update applies a patch to the matching task and refreshes its UpdatedAt.
type Update struct {
	ID    string
	Patch model.TaskPatch
}

// Toggle flips Completed on the matching task.
type Toggle struct{ ID string }

// Delete removes the matching task. Unknown ids are a no-op.
type Delete struct{ ID string }

// Replace overwrites the whole collection.
type Replace struct{ Tasks []model.Task }

// ClearCompleted drops every completed task.
type ClearCompleted struct{}

// Reconcile swaps in a task as returned by the remote store, keeping its
// timestamps.
type Reconcile struct{ Task model.Task }

// Reduce returns the next state. The input slice is never modified.
func Reduce(state []model.Task, a Action, now time.Time) []model.Task {
	if a == nil {
		return clone(state)
	}
	return a.reduce(state, now)
}

func (a Add) reduce(state []model.Task, _ time.Time) []model.Task {
	out := make([]model.Task, 0, len(state)+1)
	out = append(out, a.Task)
	for _, t := range state {
		if t.ID != a.Task.ID {
			out = append(out, t)
		}
	}
	return out
}

func (a Update) reduce(state []model.Task, now time.Time) []model.Task {
	return mapMatching(state, a.ID, func(t model.Task) model.Task {
		return a.Patch.Apply(t).Touch(now)
	})
}

func (a Toggle) reduce(state []model.Task, now time.Time) []model.Task {
	return mapMatching(state, a.ID, func(t model.Task) model.Task {
		t.Completed = !t.Completed
		return t.Touch(now)
	})
}

func (a Delete) reduce(state []model.Task, _ time.Time) []model.Task {
	return filter(state, func(t model.Task) bool { return t.ID != a.ID })
}

func (a Replace) reduce(_ []model.Task, _ time.Time) []model.Task {
	return clone(a.Tasks)
}

func (ClearCompleted) reduce(state []model.Task, _ time.Time) []model.Task {
	return filter(state, func(t model.Task) bool { return !t.Completed })
}

func (a Reconcile) reduce(state []model.Task, _ time.Time) []model.Task {
	return mapMatching(state, a.Task.ID, func(model.Task) model.Task { return a.Task })
}

func mapMatching(state []model.Task, id string, fn func(model.Task) model.Task) []model.Task {
	out := make([]model.Task, len(state))
	for i, t := range state {
		if t.ID == id {
			t = fn(t)
		}
		out[i] = t
	}
	return out
}

func filter(state []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(state))
	for _, t := range state {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func clone(state []model.Task) []model.Task {
	out := make([]model.Task, len(state))
	copy(out, state)
	return out
}
