// Package calendar groups tasks by due date and lays out month and week
// grids with a per-day heat level.
package calendar

import (
	"sync"
	"time"

	"github.com/sandeepkv93/studytime/internal/model"
)

type Mode string

const (
	ModeCalendar Mode = "calendar"
	ModeToday    Mode = "today"
	ModeWeek     Mode = "week"
)

var Modes = []Mode{ModeCalendar, ModeToday, ModeWeek}

func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeToday
}

// WeekdayLabels start on Sunday.
var WeekdayLabels = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

type Heat int

const (
	HeatNone Heat = iota
	HeatAny
	HeatHigh
	HeatTomorrow
)

// Buckets maps YYYY-MM-DD to the tasks due that day, in collection order.
type Buckets struct {
	ByDate map[string][]model.Task
	NoDue  []model.Task
}

func Bucket(tasks []model.Task) Buckets {
	b := Buckets{ByDate: make(map[string][]model.Task), NoDue: make([]model.Task, 0)}
	for _, t := range tasks {
		if t.Due == "" {
			b.NoDue = append(b.NoDue, t)
			continue
		}
		b.ByDate[t.Due] = append(b.ByDate[t.Due], t)
	}
	return b
}

func (b Buckets) On(date string) []model.Task {
	return b.ByDate[date]
}

// DueOn lists the tasks due on date, in collection order.
func DueOn(tasks []model.Task, date string) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.Due == date {
			out = append(out, t)
		}
	}
	return out
}

// Cell is one grid slot. Padding cells have Day 0 and an empty Date.
type Cell struct {
	Day  int
	Date string
}

func (c Cell) Blank() bool { return c.Day == 0 }

// MonthGrid pads to the first weekday, one cell per day, then pads the
// tail to whole weeks.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	cells := make([]Cell, 0, 42)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{Day: d, Date: model.FormatDate(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{})
	}
	return cells
}

// WeekGrid returns the seven days from the Sunday on or before ref.
func WeekGrid(ref time.Time) []Cell {
	y, m, d := ref.Date()
	start := time.Date(y, m, d-int(ref.Weekday()), 0, 0, 0, 0, ref.Location())
	cells := make([]Cell, 7)
	for i := range cells {
		day := start.AddDate(0, 0, i)
		cells[i] = Cell{Day: day.Day(), Date: model.FormatDate(day)}
	}
	return cells
}

// HeatLevel classifies a day: tomorrow with tasks beats any high-priority
// task, which beats any task at all.
func HeatLevel(date string, items []model.Task, now time.Time) Heat {
	if date == "" || len(items) == 0 {
		return HeatNone
	}
	if date == model.FormatDate(now.AddDate(0, 0, 1)) {
		return HeatTomorrow
	}
	for _, t := range items {
		if t.Priority.Or(model.PriorityLow) == model.PriorityHigh {
			return HeatHigh
		}
	}
	return HeatAny
}

// Memo caches Buckets for one store revision.
type Memo struct {
	mu      sync.Mutex
	rev     uint64
	valid   bool
	buckets Buckets
	builds  int
}

func (m *Memo) Buckets(rev uint64, tasks []model.Task) Buckets {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid || m.rev != rev {
		m.buckets = Bucket(tasks)
		m.rev = rev
		m.valid = true
		m.builds++
	}
	return m.buckets
}
