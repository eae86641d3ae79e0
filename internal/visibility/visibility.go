// Package visibility derives the displayed task list from the full
// collection and the current filter and sort selection.
package visibility

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sandeepkv93/studytime/internal/model"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// PriorityAll disables the priority filter.
const PriorityAll = "all"

type SortMode string

const (
	SortCreatedDesc  SortMode = "created-desc"
	SortCreatedAsc   SortMode = "created-asc"
	SortDueAsc       SortMode = "due-asc"
	SortDueDesc      SortMode = "due-desc"
	SortPriorityDesc SortMode = "priority-desc"
)

var SortModes = []SortMode{SortCreatedDesc, SortCreatedAsc, SortDueAsc, SortDueDesc, SortPriorityDesc}

var Statuses = []Status{StatusAll, StatusActive, StatusCompleted}

// Filters is UI-only state and is never persisted with the tasks.
type Filters struct {
	Query    string
	Status   Status
	Priority string
	SortBy   SortMode
}

func DefaultFilters() Filters {
	return Filters{Status: StatusAll, Priority: PriorityAll, SortBy: SortCreatedDesc}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(Statuses, s) {
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q (want all, active or completed)", raw)
}

// ParsePriorityFilter accepts "all" or a task priority.
func ParsePriorityFilter(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == PriorityAll || model.Priority(v).IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("unknown priority filter %q (want all, low, medium or high)", raw)
}

func ParseSortMode(raw string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(SortModes, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", raw)
}

// Next cycles to the following sort mode.
func (m SortMode) Next() SortMode {
	i := slices.Index(SortModes, m)
	return SortModes[(i+1)%len(SortModes)]
}

// Next cycles to the following status.
func (s Status) Next() Status {
	i := slices.Index(Statuses, s)
	return Statuses[(i+1)%len(Statuses)]
}

// Apply filters then stably sorts. The input is never reordered.
func Apply(tasks []model.Task, f Filters) []model.Task {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, f.Status, f.Priority, q) {
			out = append(out, t)
		}
	}
	if cmp := comparator(f.SortBy); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Matches reports whether t passes every filter. q must already be
// lowercased and trimmed.
func Matches(t model.Task, status Status, priority string, q string) bool {
	switch status {
	case StatusActive:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}
	if priority != "" && priority != PriorityAll && string(t.Priority.Or(model.PriorityLow)) != priority {
		return false
	}
	if q != "" && !strings.Contains(strings.ToLower(t.Title+" "+t.Description), q) {
		return false
	}
	return true
}

func comparator(mode SortMode) func(a, b model.Task) int {
	switch mode {
	case SortCreatedDesc:
		return func(a, b model.Task) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortCreatedAsc:
		return func(a, b model.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortDueAsc:
		return func(a, b model.Task) int { return strings.Compare(a.Due, b.Due) }
	case SortDueDesc:
		return func(a, b model.Task) int { return strings.Compare(b.Due, a.Due) }
	case SortPriorityDesc:
		return func(a, b model.Task) int { return b.Priority.Rank() - a.Priority.Rank() }
	default:
		return nil
	}
}
