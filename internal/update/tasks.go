package update

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/store"
	"github.com/sandeepkv93/studytime/internal/visibility"
)

var errAmbiguousTarget = errors.New("more than one task matches")

func (m Model) visibleTasks() []model.Task {
	return visibility.Apply(m.store.Tasks(), m.Filters)
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m *Model) clampCursor() {
	visible := m.visibleTasks()
	if m.SelectedTaskID != "" {
		for i, t := range visible {
			if t.ID == m.SelectedTaskID {
				m.Cursor = i
				break
			}
		}
	}
	if m.Cursor >= len(visible) {
		m.Cursor = len(visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedTaskID = ""
	if len(visible) > 0 {
		m.SelectedTaskID = visible[m.Cursor].ID
	}
	m.syncDetail()
}

func (m *Model) moveCursor(delta int) {
	n := len(m.visibleTasks())
	if n == 0 {
		return
	}
	m.Cursor = max(0, min(n-1, m.Cursor+delta))
	m.SelectedTaskID = ""
	m.clampCursor()
}

// resolveTarget finds a task by its 1-based row in the visible list or by
// a unique id prefix.
func (m Model) resolveTarget(target string) (model.Task, error) {
	target = strings.TrimSpace(target)
	if n, err := strconv.Atoi(target); err == nil {
		visible := m.visibleTasks()
		if n < 1 || n > len(visible) {
			return model.Task{}, fmt.Errorf("no task at row %d", n)
		}
		return visible[n-1], nil
	}
	var found []model.Task
	for _, t := range m.store.Tasks() {
		if strings.HasPrefix(t.ID, target) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", store.ErrNotFound, target)
	case 1:
		return found[0], nil
	default:
		return model.Task{}, fmt.Errorf("%w: %q", errAmbiguousTarget, target)
	}
}

// storeCmd runs fn off the event loop. With undoable set the collection is
// snapshotted first so the result toast can offer undo; remote mode never
// offers it because the server copy is already gone.
func (m *Model) storeCmd(op string, undoable bool, fn func(ctx context.Context, s *store.Store) (string, error)) tea.Cmd {
	m.Pending++
	s, ctx := m.store, m.ctx
	var snapshot []model.Task
	if undoable && s.Mode() == store.ModeLocal {
		snapshot = s.Tasks()
	}
	run := func() tea.Msg {
		msg, err := fn(ctx, s)
		if err != nil {
			snapshot = nil
		}
		return taskOpMsg{Op: op, Message: msg, Err: err, Snapshot: snapshot}
	}
	if s.Mode() == store.ModeRemote && m.Pending == 1 {
		return tea.Batch(run, m.syncSpinner.Tick)
	}
	return run
}

func (m Model) loadCmd() tea.Cmd {
	s, ctx := m.store, m.ctx
	return func() tea.Msg {
		return tasksLoadedMsg{Err: s.Load(ctx)}
	}
}

func (m *Model) addTask(in model.NewTaskInput) tea.Cmd {
	return m.storeCmd("add", false, func(ctx context.Context, s *store.Store) (string, error) {
		t, err := s.Add(ctx, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %q", t.Title), nil
	})
}

func (m *Model) updateTask(id string, patch model.TaskPatch) tea.Cmd {
	return m.storeCmd("update", false, func(ctx context.Context, s *store.Store) (string, error) {
		t, err := s.Update(ctx, id, patch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Saved %q", t.Title), nil
	})
}

func (m *Model) toggleTask(id string) tea.Cmd {
	return m.storeCmd("toggle", false, func(ctx context.Context, s *store.Store) (string, error) {
		t, err := s.Toggle(ctx, id)
		if err != nil {
			return "", err
		}
		if t.Completed {
			return fmt.Sprintf("Completed %q", t.Title), nil
		}
		return fmt.Sprintf("Reopened %q", t.Title), nil
	})
}

func (m *Model) snoozeTask(id string) tea.Cmd {
	return m.storeCmd("snooze", false, func(ctx context.Context, s *store.Store) (string, error) {
		t, err := s.Snooze(ctx, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Snoozed %q to today", t.Title), nil
	})
}

func (m *Model) deleteTask(t model.Task) tea.Cmd {
	return m.storeCmd("delete", true, func(ctx context.Context, s *store.Store) (string, error) {
		if err := s.Delete(ctx, t.ID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %q", t.Title), nil
	})
}

func (m *Model) clearCompleted() (tea.Cmd, bool) {
	count := 0
	for _, t := range m.store.Tasks() {
		if t.Completed {
			count++
		}
	}
	if count == 0 {
		return nil, false
	}
	return m.storeCmd("clear", true, func(ctx context.Context, s *store.Store) (string, error) {
		n, err := s.ClearCompleted(ctx)
		if err != nil {
			if n > 0 {
				return "", fmt.Errorf("cleared %d of %d: %w", n, count, err)
			}
			return "", err
		}
		return fmt.Sprintf("Cleared %d completed %s", n, plural(n, "task")), nil
	}), true
}

func (m Model) onTaskOp(msg taskOpMsg) (Model, tea.Cmd) {
	if m.Pending > 0 {
		m.Pending--
	}
	if errors.Is(msg.Err, store.ErrStale) {
		return m, nil
	}
	if msg.Err != nil {
		m.LastError = msg.Err
		m.Status = StatusBar{Text: fmt.Sprintf("%s failed: %v", msg.Op, msg.Err), IsError: true}
		m.logger.Printf("tui=op op=%s error=%q", msg.Op, msg.Err)
		m.pushToast(m.Status.Text, true, nil)
		m.clampCursor()
		return m, nil
	}
	m.Status = StatusBar{Text: msg.Message}
	m.pushToast(msg.Message, false, msg.Snapshot)
	m.clampCursor()
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "down", "j":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-1)
	case "home", "g":
		m.moveCursor(-len(m.visibleTasks()))
	case "end", "G":
		m.moveCursor(len(m.visibleTasks()))
	case "pgdown":
		m.detailViewport.SetYOffset(m.detailViewport.YOffset + m.detailViewport.Height/2)
	case "pgup":
		m.detailViewport.SetYOffset(m.detailViewport.YOffset - m.detailViewport.Height/2)
	case " ", "x":
		if t, ok := m.selectedTask(); ok {
			return m, m.toggleTask(t.ID)
		}
	case "enter", "e":
		if t, ok := m.selectedTask(); ok {
			m.openEditForm(t)
		}
	case "n":
		m.openNewForm("")
	case "d", "delete":
		if t, ok := m.selectedTask(); ok {
			return m, m.deleteTask(t)
		}
	case "s":
		if t, ok := m.selectedTask(); ok {
			return m, m.snoozeTask(t.ID)
		}
	case "D":
		cmd, ok := m.clearCompleted()
		if !ok {
			m.Status = StatusBar{Text: "nothing completed to clear"}
		}
		return m, cmd
	case "u":
		m.undoLatest()
	case "ctrl+k":
		m.Searching = true
		m.searchInput.Focus()
		m.Status = StatusBar{Text: "search: type to filter, enter or esc to finish"}
	case "f":
		m.Filters.Status = m.Filters.Status.Next()
		m.Status = StatusBar{Text: "status filter: " + string(m.Filters.Status)}
		m.clampCursor()
	case "p":
		m.Filters.Priority = nextPriorityFilter(m.Filters.Priority)
		m.Status = StatusBar{Text: "priority filter: " + m.Filters.Priority}
		m.clampCursor()
	case "o":
		m.Filters.SortBy = m.Filters.SortBy.Next()
		m.Status = StatusBar{Text: "sort: " + string(m.Filters.SortBy)}
		m.clampCursor()
	case "F":
		if t, ok := m.selectedTask(); ok {
			m.startFocusOn(t)
			m.CurrentView = ViewFocus
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "ctrl+k":
		m.Searching = false
		m.searchInput.Blur()
		if q := m.Filters.Query; q != "" {
			m.Status = StatusBar{Text: fmt.Sprintf("search: %q", q)}
		} else {
			m.Status = StatusBar{}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.Filters.Query = m.searchInput.Value()
	m.Cursor = 0
	m.clampCursor()
	return m, cmd
}

func nextPriorityFilter(current string) string {
	order := []string{visibility.PriorityAll, string(model.PriorityLow), string(model.PriorityMedium), string(model.PriorityHigh)}
	for i, p := range order {
		if p == current {
			return order[(i+1)%len(order)]
		}
	}
	return visibility.PriorityAll
}
