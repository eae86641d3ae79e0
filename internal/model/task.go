package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyTitle      = errors.New("model: task title is required")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidDue      = errors.New("model: invalid due date")
	ErrInvalidDuration = errors.New("model: invalid task duration")
)

// DateLayout is the wire and storage form of a due date.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Or returns p, or def when p is absent.
func (p Priority) Or(def Priority) Priority {
	if p == "" {
		return def
	}
	return p
}

// Rank orders priorities for sorting. Absent reads as low.
func (p Priority) Rank() int {
	switch p.Or(PriorityLow) {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// ParsePriority accepts the empty string as "absent".
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" || p.IsValid() {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
}

type Task struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Due             string    `json:"due,omitempty"`
	Priority        Priority  `json:"priority,omitempty"`
	Completed       bool      `json:"completed"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Touch refreshes UpdatedAt without letting it fall behind CreatedAt.
func (t Task) Touch(now time.Time) Task {
	now = now.UTC()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
	return t
}

// DueDate resolves the due date to local midnight in loc.
func (t Task) DueDate(loc *time.Location) (time.Time, bool) {
	return ParseDate(t.Due, loc)
}

// ParseDate reads either a bare YYYY-MM-DD (midnight in loc) or a full
// RFC 3339 timestamp.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts.In(loc), true
	}
	return time.Time{}, false
}

// FormatDate renders t's calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func validateDue(due string) error {
	if due == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, due); err != nil {
		return fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDue, due)
	}
	return nil
}

type NewTaskInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Due             string   `json:"due,omitempty"`
	Priority        Priority `json:"priority,omitempty"`
	DurationMinutes int      `json:"durationMinutes,omitempty"`
}

// Normalize trims free-text fields.
func (in NewTaskInput) Normalize() NewTaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Due = strings.TrimSpace(in.Due)
	return in
}

func (in NewTaskInput) Validate() error {
	in = in.Normalize()
	if in.Title == "" {
		return ErrEmptyTitle
	}
	if err := validateDue(in.Due); err != nil {
		return err
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, in.Priority)
	}
	if in.DurationMinutes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, in.DurationMinutes)
	}
	return nil
}

// NewTask builds a fresh task. Absent priority becomes low.
func NewTask(in NewTaskInput, id string, now time.Time) Task {
	in = in.Normalize()
	now = now.UTC()
	return Task{
		ID:              id,
		Title:           in.Title,
		Description:     in.Description,
		Due:             in.Due,
		Priority:        in.Priority.Or(PriorityLow),
		DurationMinutes: in.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// TaskPatch carries only the fields to change. A nil field is left alone;
// a pointer to the zero value clears the field.
type TaskPatch struct {
	Title           *string   `json:"title,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Due             *string   `json:"due,omitempty"`
	Priority        *Priority `json:"priority,omitempty"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	Completed       *bool     `json:"completed,omitempty"`
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Due == nil &&
		p.Priority == nil && p.DurationMinutes == nil && p.Completed == nil
}

func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Due != nil {
		if err := validateDue(strings.TrimSpace(*p.Due)); err != nil {
			return err
		}
	}
	if p.Priority != nil && *p.Priority != "" && !p.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}
	if p.DurationMinutes != nil && *p.DurationMinutes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, *p.DurationMinutes)
	}
	return nil
}

// Apply copies the set fields onto t. Timestamps are not touched.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Due != nil {
		t.Due = strings.TrimSpace(*p.Due)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DurationMinutes != nil {
		t.DurationMinutes = *p.DurationMinutes
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

func Ptr[T any](v T) *T {
	return &v
}
