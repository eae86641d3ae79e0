package update

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/store"
	"github.com/sandeepkv93/studytime/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd(), tea.SetWindowTitle(views.TitleBadge(0, 0))}
	if m.store.Mode() == store.ModeRemote {
		cmds = append(cmds, m.syncSpinner.Tick)
	}
	if m.scheduler != nil {
		cmds = append(cmds, waitForEventCmd(m.scheduler.C()))
	}
	return tea.Batch(cmds...)
}

// Update routes msg and then refreshes the window title when the
// done/total badge changed.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if title := next.titleBadge(); title != next.windowTitle {
		next.windowTitle = title
		cmd = tea.Batch(cmd, tea.SetWindowTitle(title))
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = typed.Width, typed.Height
		m.detailViewport.Width = m.paneWidth()
		m.detailViewport.Height = max(6, typed.Height/3)
		m.detailKey = ""
		m.syncDetail()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Pending > 0 || m.LoadingRemote() {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case tasksLoadedMsg:
		switch {
		case errors.Is(typed.Err, store.ErrStale):
			// A newer load owns the collection now.
		case typed.Err != nil:
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("load failed: %v", typed.Err), IsError: true}
			m.pushToast(m.Status.Text, true, nil)
		default:
			m.Status = StatusBar{Text: fmt.Sprintf("loaded %d %s", len(m.store.Tasks()), plural(len(m.store.Tasks()), "task"))}
		}
		m.loaded = true
		m.clampCursor()
		return m, nil
	case taskOpMsg:
		return m.onTaskOp(typed)
	case SchedulerEventMsg:
		m = m.onSchedulerEvent(typed.Event)
		if m.scheduler != nil {
			return m, waitForEventCmd(m.scheduler.C())
		}
		return m, nil
	case FocusTickMsg:
		next, cmd := m.onFocusTick()
		return next.(Model), cmd
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.pushToast(typed.Err.Error(), true, nil)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		return m.quit()
	}
	if m.Form.Active {
		return m.handleFormKey(msg)
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.Searching {
		return m.handleSearchKey(msg)
	}
	if m.CurrentView == ViewCaring && (m.otherFocused || m.caringWantsTab(keyStr)) {
		return m.handleCaringKey(msg)
	}

	switch keyStr {
	case m.Keys.Palette:
		m.openPalette()
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Quit:
		return m.quit()
	case m.Keys.NextView:
		for i, v := range Views {
			if v == m.CurrentView {
				m.switchView(Views[(i+1)%len(Views)])
				break
			}
		}
		return m, nil
	case "1", "2", "3", "4", "5":
		i, _ := strconv.Atoi(keyStr)
		m.switchView(Views[i-1])
		return m, nil
	}

	switch m.CurrentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewCalendar:
		return m.handleCalendarKey(msg), nil
	case ViewAnalytics:
		return m.handleAnalyticsKey(msg), nil
	case ViewCaring:
		return m.handleCaringKey(msg)
	case ViewFocus:
		return m.handleFocusKey(msg)
	}
	return m, nil
}

func (m *Model) switchView(v View) {
	m.CurrentView = v
	if v == ViewFocus {
		m.bootstrapFocusTask()
	}
}

// quit tears the session down: in-flight remote results become stale and
// the focus timer is cancelled. The scheduler itself belongs to the caller.
func (m Model) quit() (Model, tea.Cmd) {
	m.Quitting = true
	m.stopFocusTimer()
	m.store.Invalidate()
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

func (m Model) LoadingRemote() bool {
	return m.store.Mode() == store.ModeRemote && !m.loaded
}

func (m Model) titleBadge() string {
	tasks := m.store.Tasks()
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return views.TitleBadge(done, len(tasks))
}

func (m Model) paneWidth() int {
	if m.Width < 100 {
		return 54
	}
	return m.Width/2 - 8
}

// syncDetail re-renders the selected task's description only when the
// task or the pane width changed.
func (m *Model) syncDetail() {
	t, ok := m.store.Find(m.SelectedTaskID)
	if !ok {
		m.detailKey = ""
		m.detailViewport.SetContent("")
		return
	}
	key := t.ID + "|" + t.UpdatedAt.String() + "|" + strconv.Itoa(m.paneWidth())
	if key == m.detailKey {
		return
	}
	m.detailKey = key
	m.detailViewport.SetContent(views.RenderMarkdown(t.Description, m.paneWidth()))
	m.detailViewport.GotoTop()
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	var left, right string
	switch m.CurrentView {
	case ViewList:
		left = m.renderListView()
		if m.Form.Active {
			right = m.renderForm()
		} else {
			right = m.renderDetail()
		}
	case ViewCalendar:
		left = m.renderCalendarView()
	case ViewAnalytics:
		left = m.renderAnalyticsView()
	case ViewCaring:
		left = m.renderCaringView()
	case ViewFocus:
		left = m.renderFocusView()
	}
	if p := m.renderCommandPalette(); p != "" {
		right = joinPane(right, p)
	}
	if h := m.renderHelpIfVisible(); h != "" {
		right = joinPane(right, h)
	}

	tabs := make([]string, 0, len(Views))
	active := 0
	for i, v := range Views {
		tabs = append(tabs, string(v))
		if v == m.CurrentView {
			active = i
		}
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("studytime | %s | mode: %s", m.titleBadge(), m.store.Mode()),
		Tabs:       tabs,
		ActiveTab:  active,
		LeftPane:   left,
		RightPane:  right,
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Toasts:     m.toastData(),
		Footer:     fmt.Sprintf("keys: 1-5 views | %s next | %s cmd | %s help | %s quit", m.Keys.NextView, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
		Width:      m.Width,
	})
}

func (m Model) renderListView() string {
	now := m.now()
	visible := m.visibleTasks()
	loading := ""
	if m.Pending > 0 || m.LoadingRemote() {
		loading = m.syncSpinner.View() + " syncing"
	}
	return views.RenderListPanel(views.ListPanelData{
		Rows:       m.rowData(visible, now),
		Cursor:     m.Cursor,
		SearchView: m.searchInput.View(),
		Searching:  m.Searching,
		Status:     string(m.Filters.Status),
		Priority:   m.Filters.Priority,
		Sort:       string(m.Filters.SortBy),
		Shown:      len(visible),
		Total:      len(m.store.Tasks()),
		Loading:    loading,
	})
}

func (m Model) renderDetail() string {
	t, ok := m.store.Find(m.SelectedTaskID)
	if !ok {
		return views.RenderDetail(views.DetailData{})
	}
	return views.RenderDetail(views.DetailData{
		ID:              t.ID,
		Title:           t.Title,
		Due:             t.Due,
		Priority:        string(t.Priority.Or(model.PriorityLow)),
		DurationMinutes: t.DurationMinutes,
		Completed:       t.Completed,
		CreatedAt:       t.CreatedAt.In(m.now().Location()).Format("2006-01-02 15:04"),
		UpdatedAt:       t.UpdatedAt.In(m.now().Location()).Format("2006-01-02 15:04"),
		DescriptionView: m.detailViewport.View(),
	})
}

func joinPane(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n\n" + b
}

func isKnownView(v View) bool {
	return slices.Contains(Views, v)
}
