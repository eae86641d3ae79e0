package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	Index           int
	ID              string
	Title           string
	Due             string
	Priority        string
	DurationMinutes int
	Completed       bool
	Overdue         bool
}

type ListPanelData struct {
	Rows       []TaskRowData
	Cursor     int
	SearchView string
	Searching  bool
	Status     string
	Priority   string
	Sort       string
	Shown      int
	Total      int
	Loading    string
}

type DetailData struct {
	ID              string
	Title           string
	Due             string
	Priority        string
	DurationMinutes int
	Completed       bool
	CreatedAt       string
	UpdatedAt       string
	DescriptionView string
}

type FormFieldData struct {
	Label   string
	View    string
	Focused bool
}

type FormData struct {
	Heading string
	Fields  []FormFieldData
	Error   string
}

type CalendarCellData struct {
	Day      int
	Date     string
	Heat     int
	Count    int
	Selected bool
	Today    bool
}

type CalendarPanelData struct {
	Mode         string
	Heading      string
	Weekdays     []string
	Cells        []CalendarCellData
	SelectedDate string
	Items        []TaskRowData
	NoDue        int
}

type BarData struct {
	Label string
	Value int
}

type AnalyticsPanelData struct {
	Window        string
	Total         int
	Completed     int
	Active        int
	Due7          int
	Overdue       int
	Streak        int
	CarryOver     string
	SmallWins     string
	CompletionBar string
	Completion    []BarData
	Priorities    []BarData
	BestHour      string
	Matrix        [7][24]int
	Weekdays      []string
	Suggestions   []string
}

type CaringOptionData struct {
	Label    string
	Selected bool
	Cursor   bool
}

type CaringPanelData struct {
	Step       string
	Options    []CaringOptionData
	ShowOther  bool
	OtherView  string
	Error      string
	AdviceView string
}

type FocusPanelData struct {
	TaskTitle          string
	Phase              string
	Timer              string
	ProgressView       string
	CompletedPomodoros int
	Running            bool
	ShowEndPrompt      bool
}

type HelpPanelData struct {
	CurrentView string
	HelpView    string
}

var (
	heatStyles = []lipgloss.Style{
		dimStyle,
		lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
	matrixShades = []string{"·", "░", "▒", "▓", "█"}
)

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks: %d of %d", data.Shown, data.Total))
	if data.Loading != "" {
		b.WriteString("  " + data.Loading)
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("status:%s  priority:%s  sort:%s", data.Status, data.Priority, data.Sort)) + "\n")
	if data.Searching || strings.TrimSpace(data.SearchView) != "" {
		b.WriteString(data.SearchView + "\n")
	}
	b.WriteString("\n")
	if len(data.Rows) == 0 {
		b.WriteString(dimStyle.Render("(no tasks match)"))
		return b.String()
	}
	for i, row := range data.Rows {
		b.WriteString(renderTaskRow(row, i == data.Cursor) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderTaskRow(row TaskRowData, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	check := "[ ]"
	if row.Completed {
		check = "[x]"
	}
	title := row.Title
	switch {
	case row.Completed:
		title = doneStyle.Render(title)
	case selected:
		title = selectedStyle.Render(title)
	}
	line := fmt.Sprintf("%s %2d %s %s %s", cursor, row.Index, check, PriorityBadge(row.Priority), title)
	if row.Due != "" {
		due := "due " + row.Due
		if row.Overdue {
			due = errorStyle.Render(due + " overdue")
		} else {
			due = dimStyle.Render(due)
		}
		line += " " + due
	}
	if row.DurationMinutes > 0 {
		line += dimStyle.Render(fmt.Sprintf(" ~%dm", row.DurationMinutes))
	}
	return line
}

func PriorityBadge(priority string) string {
	style, ok := priorityStyles[priority]
	if !ok {
		style = priorityStyles["low"]
		priority = "low"
	}
	return style.Render(fmt.Sprintf("%-6s", priority))
}

func RenderDetail(data DetailData) string {
	if data.ID == "" {
		return "details:\n" + dimStyle.Render("(no selection)")
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	state := "active"
	if data.Completed {
		state = "completed"
	}
	b.WriteString(fmt.Sprintf("id: %s\nstate: %s\npriority: %s\n", data.ID, state, data.Priority))
	if data.Due != "" {
		b.WriteString(fmt.Sprintf("due: %s\n", data.Due))
	}
	if data.DurationMinutes > 0 {
		b.WriteString(fmt.Sprintf("estimate: %d min\n", data.DurationMinutes))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("created %s  updated %s", data.CreatedAt, data.UpdatedAt)) + "\n")
	if strings.TrimSpace(data.DescriptionView) != "" {
		b.WriteString("\n" + data.DescriptionView)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Heading) + "\n")
	b.WriteString(dimStyle.Render("tab/shift+tab field  ←/→ priority  ctrl+s save  esc cancel") + "\n\n")
	for _, f := range data.Fields {
		label := f.Label
		if f.Focused {
			label = selectedStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(label + "\n" + f.View + "\n")
	}
	if data.Error != "" {
		b.WriteString(errorStyle.Render(data.Error))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", headerStyle.Render(data.Heading), dimStyle.Render("mode: "+data.Mode)))
	if len(data.Cells) > 0 {
		for _, wd := range data.Weekdays {
			b.WriteString(fmt.Sprintf(" %-4s", wd))
		}
		b.WriteString("\n")
		for i, cell := range data.Cells {
			b.WriteString(renderCell(cell))
			if (i+1)%7 == 0 {
				b.WriteString("\n")
			}
		}
	}
	b.WriteString("\n" + selectedStyle.Render(data.SelectedDate) + "\n")
	if len(data.Items) == 0 {
		b.WriteString(dimStyle.Render("(nothing due)") + "\n")
	}
	for _, item := range data.Items {
		b.WriteString(renderTaskRow(item, false) + "\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("no due date: %d", data.NoDue)))
	return b.String()
}

func renderCell(cell CalendarCellData) string {
	if cell.Day == 0 {
		return "     "
	}
	text := fmt.Sprintf("%2d", cell.Day)
	if cell.Count > 0 {
		text += fmt.Sprintf("%-2s", strings.Repeat("•", min(cell.Count, 2)))
	} else {
		text += "  "
	}
	style := heatStyles[max(0, min(cell.Heat, len(heatStyles)-1))]
	if cell.Today {
		style = style.Underline(true)
	}
	if cell.Selected {
		style = style.Reverse(true)
	}
	return " " + style.Render(text)
}

func RenderAnalyticsPanel(data AnalyticsPanelData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("dashboard") + "  " + dimStyle.Render("window: "+data.Window) + "\n")
	b.WriteString(fmt.Sprintf("total %d   completed %d   active %d\n", data.Total, data.Completed, data.Active))
	b.WriteString(fmt.Sprintf("due in 7 days %d   overdue %d   streak %d day(s)\n", data.Due7, data.Overdue, data.Streak))
	b.WriteString(fmt.Sprintf("carry-over %s   small wins %s\n", data.CarryOver, data.SmallWins))
	if data.CompletionBar != "" {
		b.WriteString("completion " + data.CompletionBar + "\n")
	}

	b.WriteString("\ncompleted per day:\n")
	b.WriteString(renderBars(data.Completion))
	b.WriteString("\nby priority:\n")
	b.WriteString(renderBars(data.Priorities))
	b.WriteString("\nbest hour: " + data.BestHour + "\n")

	b.WriteString("\ncompletions by weekday and hour:\n")
	peak := 0
	for _, row := range data.Matrix {
		for _, v := range row {
			peak = max(peak, v)
		}
	}
	for d, row := range data.Matrix {
		label := ""
		if d < len(data.Weekdays) {
			label = data.Weekdays[d]
		}
		b.WriteString(fmt.Sprintf("%-3s", label))
		for _, v := range row {
			b.WriteString(shade(v, peak))
		}
		b.WriteString("\n")
	}

	if len(data.Suggestions) > 0 {
		b.WriteString("\nsuggestions:\n")
		for _, s := range data.Suggestions {
			b.WriteString("- " + s + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderBars(bars []BarData) string {
	peak := 0
	width := 0
	for _, bar := range bars {
		peak = max(peak, bar.Value)
		width = max(width, len(bar.Label))
	}
	var b strings.Builder
	for _, bar := range bars {
		n := 0
		if peak > 0 {
			n = bar.Value * 20 / peak
		}
		b.WriteString(fmt.Sprintf("%-*s %s %d\n", width, bar.Label, strings.Repeat("█", n), bar.Value))
	}
	return b.String()
}

func shade(v, peak int) string {
	if v == 0 || peak == 0 {
		return matrixShades[0]
	}
	i := 1 + (v*(len(matrixShades)-2))/peak
	return matrixShades[min(i, len(matrixShades)-1)]
}

func RenderCaringPanel(data CaringPanelData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("check-in") + "\n")
	switch data.Step {
	case "ask":
		b.WriteString("Are you struggling with anything right now?\n")
		b.WriteString(dimStyle.Render("[y] yes  [n] no"))
	case "no":
		b.WriteString("Glad to hear it. Keep going, one task at a time.\n")
		b.WriteString(dimStyle.Render("[r] start over"))
	case "choosing":
		b.WriteString("What is weighing on you? Pick all that apply.\n\n")
		for _, opt := range data.Options {
			cursor := " "
			if opt.Cursor {
				cursor = ">"
			}
			box := "[ ]"
			if opt.Selected {
				box = "[x]"
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, box, opt.Label))
		}
		if data.ShowOther {
			b.WriteString("\n" + data.OtherView + "\n")
		}
		if data.Error != "" {
			b.WriteString(errorStyle.Render(data.Error) + "\n")
		}
		b.WriteString(dimStyle.Render("[j/k] move  [space] select  [tab] describe other  [enter] get advice"))
	case "advice":
		b.WriteString(data.AdviceView + "\n")
		b.WriteString(dimStyle.Render("[r] start over"))
	}
	return b.String()
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("focus") + "\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none selected)\n")
	}
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("phase: %s (%s)\n", strings.ToUpper(data.Phase), state))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(data.ProgressView + "\n")
	b.WriteString(fmt.Sprintf("pomodoros completed: %d\n", data.CompletedPomodoros))
	b.WriteString(dimStyle.Render("[space] start/pause  [r] reset  [n] next phase  [x] complete task"))
	if data.ShowEndPrompt {
		b.WriteString("\n" + statusStyle.Render("session ended, press [n] to continue"))
	}
	return b.String()
}

func RenderCommandPalette(active bool, inputView string, hint string) string {
	if !active {
		return ""
	}
	out := "command:\n" + inputView
	if hint != "" {
		out += "\n" + dimStyle.Render(hint)
	}
	return out
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s", strings.ToLower(data.CurrentView), data.HelpView)
}
