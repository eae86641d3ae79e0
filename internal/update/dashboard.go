package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/analytics"
	"github.com/sandeepkv93/studytime/internal/calendar"
	"github.com/sandeepkv93/studytime/internal/views"
)

// maxChartDays caps the per-day chart; wider windows still drive the KPIs.
const maxChartDays = 14

func analyticsWindows() []int {
	return analytics.WindowOptions
}

func (m Model) windowDays() int {
	opts := analyticsWindows()
	if m.Analytics.WindowIndex < 0 || m.Analytics.WindowIndex >= len(opts) {
		return opts[0]
	}
	return opts[m.Analytics.WindowIndex]
}

func (m Model) handleAnalyticsKey(msg tea.KeyMsg) Model {
	n := len(analyticsWindows())
	switch msg.String() {
	case "w", "l", "right":
		m.Analytics.WindowIndex = (m.Analytics.WindowIndex + 1) % n
	case "W", "h", "left":
		m.Analytics.WindowIndex = (m.Analytics.WindowIndex + n - 1) % n
	default:
		return m
	}
	m.Status = StatusBar{Text: "window: " + analytics.WindowLabel(m.windowDays())}
	return m
}

// coaching is shared by the dashboard and the check-in advice.
func (m Model) coaching() []string {
	now := m.now()
	tasks := m.store.Tasks()
	k := analytics.ComputeKPIs(tasks, now, m.windowDays())
	return analytics.Suggestions(k, analytics.BestHourOfDay(k.WithinWindow, now.Location()))
}

func (m Model) renderAnalyticsView() string {
	now := m.now()
	days := m.windowDays()
	tasks := m.store.Tasks()
	k := analytics.ComputeKPIs(tasks, now, days)
	windowed := k.WithinWindow
	best := analytics.BestHourOfDay(windowed, now.Location())

	data := views.AnalyticsPanelData{
		Window:      analytics.WindowLabel(days),
		Total:       k.Total,
		Completed:   k.Completed,
		Active:      k.Active,
		Due7:        k.Due7,
		Overdue:     k.Overdue,
		Streak:      k.Streak,
		CarryOver:   fmt.Sprintf("%.0f%%", k.CarryOverRate*100),
		SmallWins:   fmt.Sprintf("%d/%d", k.SmallWins.Done, k.SmallWins.Total),
		Matrix:      analytics.HourWeekdayMatrix(windowed, now.Location()),
		Weekdays:    calendar.WeekdayLabels[:],
		Suggestions: analytics.Suggestions(k, best),
		BestHour:    "no completions yet",
	}
	if k.Total > 0 {
		data.CompletionBar = m.statsProgress.ViewAs(float64(k.Completed) / float64(k.Total))
	}
	if best.Count > 0 {
		data.BestHour = fmt.Sprintf("%02d:00 (%d completed)", best.Hour, best.Count)
	}
	for _, d := range analytics.CompletionByLastNDays(tasks, min(days, maxChartDays), now) {
		data.Completion = append(data.Completion, views.BarData{Label: d.Label, Value: d.Value})
	}
	for _, s := range analytics.PriorityData(k.ByPriority) {
		data.Priorities = append(data.Priorities, views.BarData{Label: s.Name, Value: s.Value})
	}
	return views.RenderAnalyticsPanel(data)
}
