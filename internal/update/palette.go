package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/commands"
	"github.com/sandeepkv93/studytime/internal/visibility"
	"github.com/sandeepkv93/studytime/internal/views"
)

func (m *Model) openPalette() {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	targetOp := func(verb string, run func(id string) tea.Cmd) func(commands.TargetArgs) (commands.Result, error) {
		return func(a commands.TargetArgs) (commands.Result, error) {
			t, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			follow = run(t.ID)
			return commands.Result{Message: fmt.Sprintf("%s %q", verb, t.Title)}, nil
		}
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			in := a.Input(m.now())
			if err := in.Validate(); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			follow = m.addTask(in)
			return commands.Result{Message: fmt.Sprintf("adding %q", in.Title)}, nil
		},
		Done:   targetOp("toggling", m.toggleTask),
		Snooze: targetOp("snoozing", m.snoozeTask),
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			follow = m.deleteTask(t)
			return commands.Result{Message: fmt.Sprintf("deleting %q", t.Title)}, nil
		},
		Find: func(a commands.ValueArgs) (commands.Result, error) {
			m.Filters.Query = a.Value
			m.searchInput.SetValue(a.Value)
			m.CurrentView = ViewList
			m.Cursor = 0
			if a.Value == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %q", a.Value)}, nil
		},
		Status: func(a commands.ValueArgs) (commands.Result, error) {
			s, err := visibility.ParseStatus(a.Value)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.Filters.Status = s
			return commands.Result{Message: "status filter: " + string(s)}, nil
		},
		Prio: func(a commands.ValueArgs) (commands.Result, error) {
			p, err := visibility.ParsePriorityFilter(a.Value)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.Filters.Priority = p
			return commands.Result{Message: "priority filter: " + p}, nil
		},
		Sort: func(a commands.ValueArgs) (commands.Result, error) {
			s, err := visibility.ParseSortMode(a.Value)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.Filters.SortBy = s
			return commands.Result{Message: "sort: " + string(s)}, nil
		},
		View: func(a commands.ValueArgs) (commands.Result, error) {
			v, ok := parseView(a.Value)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view %q", a.Value)}
			}
			m.switchView(v)
			return commands.Result{Message: "view: " + string(v)}, nil
		},
		Clear: func() (commands.Result, error) {
			c, ok := m.clearCompleted()
			if !ok {
				return commands.Result{Message: "nothing completed to clear"}, nil
			}
			follow = c
			return commands.Result{Message: "clearing completed tasks"}, nil
		},
		Undo: func() (commands.Result, error) {
			if !m.undoLatest() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "nothing to undo"}
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	m.clampCursor()
	return m, follow
}

func parseView(raw string) (View, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "list", "tasks":
		return ViewList, true
	case "calendar", "cal":
		return ViewCalendar, true
	case "analytics", "stats":
		return ViewAnalytics, true
	case "caring", "checkin":
		return ViewCaring, true
	case "focus":
		return ViewFocus, true
	}
	return "", false
}

func (m Model) renderCommandPalette() string {
	hint := "commands: " + strings.Join(typeNames(), " ")
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View(), hint)
}

func typeNames() []string {
	out := make([]string, 0, len(commands.Types))
	for _, t := range commands.Types {
		out = append(out, string(t))
	}
	return out
}
