package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/studytime/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	global := toBindings(m.globalBindings())
	local := toBindings(m.viewBindings())
	hm := m.helpModel
	hm.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		HelpView: hm.View(helpKeyMap{
			short: append(global, local...),
			full:  [][]key.Binding{local, global},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "1-5", Action: "switch view"},
		{Key: m.Keys.NextView, Action: "next view"},
		{Key: m.Keys.Palette, Action: "command palette"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewList:
		return []KeyBinding{
			{Key: "j/k", Action: "move"},
			{Key: "n", Action: "new task"},
			{Key: "enter", Action: "edit"},
			{Key: "space", Action: "toggle done"},
			{Key: "d", Action: "delete"},
			{Key: "s", Action: "snooze to today"},
			{Key: "D", Action: "clear completed"},
			{Key: "u", Action: "undo"},
			{Key: "ctrl+k", Action: "search"},
			{Key: "f/p/o", Action: "status/priority/sort"},
			{Key: "F", Action: "focus on task"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "m", Action: "calendar/today/week"},
			{Key: "h/l", Action: "previous/next day"},
			{Key: "j/k", Action: "next/previous week"},
			{Key: "[/]", Action: "previous/next period"},
			{Key: "t", Action: "today"},
			{Key: "n", Action: "new task on day"},
		}
	case ViewAnalytics:
		return []KeyBinding{
			{Key: "w/W", Action: "next/previous window"},
		}
	case ViewCaring:
		return []KeyBinding{
			{Key: "y/n", Action: "answer"},
			{Key: "space", Action: "select reason"},
			{Key: "tab", Action: "describe other"},
			{Key: "enter", Action: "get advice"},
			{Key: "r", Action: "start over"},
		}
	case ViewFocus:
		return []KeyBinding{
			{Key: "space", Action: "start/pause timer"},
			{Key: "r", Action: "reset timer"},
			{Key: "n", Action: "next focus phase"},
			{Key: "x", Action: "complete task"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func toBindings(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
