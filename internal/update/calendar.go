package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/analytics"
	"github.com/sandeepkv93/studytime/internal/calendar"
	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "m":
		m.Calendar.Mode = m.Calendar.Mode.Next()
		m.Status = StatusBar{Text: "calendar mode: " + string(m.Calendar.Mode)}
	case "h", "left":
		m.shiftCalendar(0, -1)
	case "l", "right":
		m.shiftCalendar(0, 1)
	case "k", "up":
		m.shiftCalendar(0, -7)
	case "j", "down":
		m.shiftCalendar(0, 7)
	case "[":
		if m.Calendar.Mode == calendar.ModeCalendar {
			m.shiftCalendar(-1, 0)
		} else {
			m.shiftCalendar(0, -7)
		}
	case "]":
		if m.Calendar.Mode == calendar.ModeCalendar {
			m.shiftCalendar(1, 0)
		} else {
			m.shiftCalendar(0, 7)
		}
	case "t":
		m.Calendar.Selected = m.now()
		m.Status = StatusBar{Text: "calendar: today"}
	case "n":
		m.openNewForm(model.FormatDate(m.calendarDate()))
		m.CurrentView = ViewList
	}
	return m
}

func (m *Model) shiftCalendar(months, days int) {
	sel := m.Calendar.Selected
	if months != 0 {
		// Clamp to the last day so Jan 31 + 1 month lands in February.
		first := time.Date(sel.Year(), sel.Month()+time.Month(months), 1, 0, 0, 0, 0, sel.Location())
		last := first.AddDate(0, 1, -1).Day()
		sel = time.Date(first.Year(), first.Month(), min(sel.Day(), last), 0, 0, 0, 0, sel.Location())
	}
	m.Calendar.Selected = sel.AddDate(0, 0, days)
	m.Status = StatusBar{Text: fmt.Sprintf("calendar focus: %s", model.FormatDate(m.Calendar.Selected))}
}

// calendarDate is the selected day, or today in today mode.
func (m Model) calendarDate() time.Time {
	if m.Calendar.Mode == calendar.ModeToday {
		return m.now()
	}
	return m.Calendar.Selected
}

func (m Model) renderCalendarView() string {
	tasks := m.store.Tasks()
	buckets := m.calMemo.Buckets(m.store.Revision(), tasks)
	now := m.now()
	today := model.FormatDate(now)
	selected := model.FormatDate(m.calendarDate())

	data := views.CalendarPanelData{
		Mode:         string(m.Calendar.Mode),
		SelectedDate: selected,
		NoDue:        len(buckets.NoDue),
		Weekdays:     calendar.WeekdayLabels[:],
	}

	var cells []calendar.Cell
	switch m.Calendar.Mode {
	case calendar.ModeToday:
		data.Heading = "Today " + now.Format("Mon Jan 2")
		data.Items = m.rowData(calendar.DueOn(tasks, today), now)
		return views.RenderCalendarPanel(data)
	case calendar.ModeWeek:
		cells = calendar.WeekGrid(m.Calendar.Selected)
		data.Heading = "Week of " + cells[0].Date
	default:
		sel := m.Calendar.Selected
		cells = calendar.MonthGrid(sel.Year(), sel.Month())
		data.Heading = sel.Format("January 2006")
	}

	for _, c := range cells {
		items := buckets.On(c.Date)
		data.Cells = append(data.Cells, views.CalendarCellData{
			Day:      c.Day,
			Date:     c.Date,
			Heat:     int(calendar.HeatLevel(c.Date, items, now)),
			Count:    len(items),
			Selected: c.Date != "" && c.Date == selected,
			Today:    c.Date == today,
		})
	}
	data.Items = m.rowData(buckets.On(selected), now)
	return views.RenderCalendarPanel(data)
}

func (m Model) rowData(tasks []model.Task, now time.Time) []views.TaskRowData {
	rows := make([]views.TaskRowData, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, views.TaskRowData{
			Index:           i + 1,
			ID:              t.ID,
			Title:           t.Title,
			Due:             t.Due,
			Priority:        string(t.Priority.Or(model.PriorityLow)),
			DurationMinutes: t.DurationMinutes,
			Completed:       t.Completed,
			Overdue:         analytics.IsOverdue(t, now),
		})
	}
	return rows
}
