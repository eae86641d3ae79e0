// Package analytics computes dashboard figures from the task collection.
// Every function is pure given the tasks and a reference time; day
// boundaries are taken in the reference time's location.
package analytics

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/studytime/internal/model"
)

// WindowOptions are the trailing windows offered by the dashboard. 365
// reads as "all".
var WindowOptions = []int{7, 30, 90, 365}

const (
	dueSoonDays     = 7
	smallWinMinutes = 25
	highCarryOver   = 0.2
	minStreakToKeep = 2
	hoursPerDay     = 24
	daysPerWeek     = 7
)

type PriorityCounts struct {
	High   int
	Medium int
	Low    int
}

type SmallWins struct {
	Total int
	Done  int
}

type KPIs struct {
	Total         int
	Completed     int
	Active        int
	ByPriority    PriorityCounts
	Due7          int
	Overdue       int
	Streak        int
	CarryOverRate float64
	SmallWins     SmallWins
	// WithinWindow holds tasks created inside the trailing window.
	WithinWindow []model.Task
}

type DayCount struct {
	Day   time.Time
	Label string
	Value int
}

type HourStat struct {
	Hour   int
	Count  int
	Series [hoursPerDay]int
}

type Slice struct {
	Name  string
	Value int
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// IsOverdue reports an incomplete task due strictly before today.
func IsOverdue(t model.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.DueDate(now.Location())
	return ok && due.Before(StartOfDay(now))
}

// IsDueWithin reports an incomplete task due in [today, today+days].
func IsDueWithin(t model.Task, days int, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.DueDate(now.Location())
	if !ok {
		return false
	}
	delta := DaysBetween(now, due)
	return delta >= 0 && delta <= days
}

// IsSmallWin reports a task estimated at 25 minutes or less.
func IsSmallWin(t model.Task) bool {
	return t.DurationMinutes > 0 && t.DurationMinutes <= smallWinMinutes
}

// completedAt is when a completed task is counted as done.
func completedAt(t model.Task) time.Time {
	if !t.UpdatedAt.IsZero() {
		return t.UpdatedAt
	}
	return t.CreatedAt
}

func ComputeKPIs(tasks []model.Task, now time.Time, windowDays int) KPIs {
	if windowDays <= 0 {
		windowDays = WindowOptions[0]
	}
	loc := now.Location()
	windowStart := AddDays(now, -windowDays+1)

	k := KPIs{Total: len(tasks), WithinWindow: make([]model.Task, 0)}
	doneDays := make(map[time.Time]int)
	for _, t := range tasks {
		if !t.CreatedAt.In(loc).Before(windowStart) {
			k.WithinWindow = append(k.WithinWindow, t)
		}
		if t.Completed {
			k.Completed++
			doneDays[StartOfDay(completedAt(t).In(loc))]++
		}
		switch t.Priority.Or(model.PriorityMedium) {
		case model.PriorityHigh:
			k.ByPriority.High++
		case model.PriorityLow:
			k.ByPriority.Low++
		default:
			k.ByPriority.Medium++
		}
		if IsDueWithin(t, dueSoonDays, now) {
			k.Due7++
		}
		if IsOverdue(t, now) {
			k.Overdue++
		}
		if IsSmallWin(t) {
			k.SmallWins.Total++
			if t.Completed {
				k.SmallWins.Done++
			}
		}
	}
	k.Active = k.Total - k.Completed

	for day := StartOfDay(now); doneDays[day] > 0; day = AddDays(day, -1) {
		k.Streak++
	}
	if k.Total > 0 {
		k.CarryOverRate = float64(k.Overdue) / float64(k.Total)
	}
	return k
}

// CompletionByLastNDays counts completed tasks per day, oldest first,
// ending today.
func CompletionByLastNDays(tasks []model.Task, n int, now time.Time) []DayCount {
	if n <= 0 {
		return []DayCount{}
	}
	out := make([]DayCount, n)
	for i := range out {
		day := AddDays(now, -(n - 1 - i))
		out[i] = DayCount{Day: day, Label: day.Format("Jan 2")}
	}
	first := out[0].Day
	for _, t := range tasks {
		if !t.Completed || t.UpdatedAt.IsZero() {
			continue
		}
		idx := DaysBetween(first, t.UpdatedAt)
		if idx >= 0 && idx < n {
			out[idx].Value++
		}
	}
	return out
}

// BestHourOfDay histograms completions by hour in loc. Ties go to the
// earliest hour; with no completions the hour is 0 and the count 0.
func BestHourOfDay(tasks []model.Task, loc *time.Location) HourStat {
	var stat HourStat
	for _, t := range tasks {
		if !t.Completed || t.UpdatedAt.IsZero() {
			continue
		}
		stat.Series[t.UpdatedAt.In(loc).Hour()]++
	}
	for h, v := range stat.Series {
		if v > stat.Count {
			stat.Hour, stat.Count = h, v
		}
	}
	return stat
}

// HourWeekdayMatrix counts completions by weekday (Sunday = 0) and hour.
func HourWeekdayMatrix(tasks []model.Task, loc *time.Location) [daysPerWeek][hoursPerDay]int {
	var m [daysPerWeek][hoursPerDay]int
	for _, t := range tasks {
		if !t.Completed || t.UpdatedAt.IsZero() {
			continue
		}
		at := t.UpdatedAt.In(loc)
		m[int(at.Weekday())][at.Hour()]++
	}
	return m
}

func PriorityData(c PriorityCounts) []Slice {
	return []Slice{
		{Name: "High", Value: c.High},
		{Name: "Medium", Value: c.Medium},
		{Name: "Low", Value: c.Low},
	}
}

// Suggestions turns the streak, carry-over and best hour into coaching
// lines for the dashboard and the caring view.
func Suggestions(k KPIs, best HourStat) []string {
	out := make([]string, 0, 3)
	if best.Count > 0 {
		out = append(out, fmt.Sprintf("Set a daily reminder at %02d:00 for one hard task.", best.Hour))
	}
	if k.Streak < minStreakToKeep {
		out = append(out, "Start a streak with one tiny task (10 minutes or less) today.")
	} else {
		out = append(out, fmt.Sprintf("Keep your %d-day streak: finish at least one small thing every day.", k.Streak))
	}
	if k.CarryOverRate > highCarryOver {
		out = append(out, "High carry-over: move overdue tasks to today and split each into three steps.")
	} else {
		out = append(out, "Low carry-over: raise the difficulty of one important task this week.")
	}
	return out
}

// WindowLabel names a trailing window for display.
func WindowLabel(days int) string {
	if days >= 365 {
		return "all"
	}
	return fmt.Sprintf("last %dd", days)
}
