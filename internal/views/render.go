package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	Tabs       []string
	ActiveTab  int
	LeftPane   string
	RightPane  string
	StatusLine string
	IsError    bool
	Toasts     []ToastData
	Footer     string
	Width      int
}

type ToastData struct {
	Text    string
	IsError bool
	Action  string
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	toastStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("10")).Padding(0, 1)
	toastErrStyle  = toastStyle.BorderForeground(lipgloss.Color("9"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
)

// paneWidth splits the terminal between the two panes. Narrow or unknown
// terminals get the fixed layout.
func paneWidth(total int) int {
	if total < 100 {
		return 58
	}
	return total/2 - 4
}

func RenderApp(data AppData) string {
	w := paneWidth(data.Width)
	left := panelStyle.Width(w).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := panelStyle.Width(w).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	lines := []string{headerStyle.Render(data.Header)}
	if len(data.Tabs) > 0 {
		lines = append(lines, RenderTabs(data.Tabs, data.ActiveTab))
	}
	lines = append(lines, row)
	if data.StatusLine != "" {
		if data.IsError {
			lines = append(lines, errorStyle.Render("error: "+data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if toasts := RenderToasts(data.Toasts); toasts != "" {
		lines = append(lines, toasts)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderTabs(tabs []string, active int) string {
	out := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if i == active {
			out = append(out, activeTabStyle.Render(label))
		} else {
			out = append(out, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func RenderToasts(toasts []ToastData) string {
	if len(toasts) == 0 {
		return ""
	}
	out := make([]string, 0, len(toasts))
	for _, t := range toasts {
		text := t.Text
		if t.Action != "" {
			text = fmt.Sprintf("%s  [%s]", text, t.Action)
		}
		if t.IsError {
			out = append(out, toastErrStyle.Render(text))
		} else {
			out = append(out, toastStyle.Render(text))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// TitleBadge is the window title: done/total once anything is done, a
// smiley when everything is.
func TitleBadge(done, total int) string {
	if done == 0 || total == 0 {
		return "studytime"
	}
	icon := "✅"
	if done == total {
		icon = "😀"
	}
	noun := "task"
	if total > 1 {
		noun = "tasks"
	}
	return fmt.Sprintf("%s %d/%d %s", icon, done, total, noun)
}

func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
