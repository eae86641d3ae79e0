package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/scheduler"
	"github.com/sandeepkv93/studytime/internal/views"
)

const maxToasts = 3

// pushToast shows text until the configured TTL expires. Toasts carrying a
// snapshot offer undo while visible.
func (m *Model) pushToast(text string, isErr bool, snapshot []model.Task) {
	m.toastSeq++
	t := Toast{ID: fmt.Sprintf("toast-%d", m.toastSeq), Text: text, IsError: isErr, Snapshot: snapshot}
	m.Toasts = append(m.Toasts, t)
	for len(m.Toasts) > maxToasts {
		m.dismissToast(m.Toasts[0].ID)
	}
	if m.scheduler == nil {
		return
	}
	err := m.scheduler.Schedule(scheduler.Event{
		ID:     t.ID,
		Kind:   scheduler.KindToastExpire,
		Ref:    t.ID,
		FireAt: time.Now().Add(m.cfg.ToastTTL()),
	})
	if err != nil {
		m.logger.Printf("tui=toast id=%s schedule_error=%q", t.ID, err)
	}
}

func (m *Model) dismissToast(id string) {
	kept := m.Toasts[:0:0]
	for _, t := range m.Toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.Toasts = kept
	if m.scheduler != nil {
		m.scheduler.Cancel(id)
	}
}

// undoLatest restores the snapshot of the newest undoable toast.
func (m *Model) undoLatest() bool {
	for i := len(m.Toasts) - 1; i >= 0; i-- {
		t := m.Toasts[i]
		if t.Snapshot == nil {
			continue
		}
		m.store.ReplaceAll(t.Snapshot)
		m.dismissToast(t.ID)
		m.Status = StatusBar{Text: fmt.Sprintf("restored %d %s", len(t.Snapshot), plural(len(t.Snapshot), "task"))}
		m.clampCursor()
		return true
	}
	m.Status = StatusBar{Text: "nothing to undo"}
	return false
}

func (m Model) onSchedulerEvent(ev scheduler.Event) Model {
	switch ev.Kind {
	case scheduler.KindToastExpire:
		m.dismissToast(ev.Ref)
	case scheduler.KindFocusPhaseEnd:
		if ev.Ref == focusSessionRef(m.Focus.Session) {
			m.endFocusPhase()
		}
	}
	return m
}

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerEventMsg{Event: ev}
	}
}

func (m Model) toastData() []views.ToastData {
	out := make([]views.ToastData, 0, len(m.Toasts))
	for _, t := range m.Toasts {
		d := views.ToastData{Text: t.Text, IsError: t.IsError}
		if t.Snapshot != nil {
			d.Action = "u: undo"
		}
		out = append(out, d)
	}
	return out
}
