package update

import (
	"math"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/scheduler"
	"github.com/sandeepkv93/studytime/internal/views"
)

const focusEventID = "focus-phase"

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Focus.Running {
			m.pauseFocus()
			m.Status = StatusBar{Text: "focus paused"}
			return m, nil
		}
		if m.Focus.RemainingSec <= 0 {
			m.Focus.RemainingSec = m.currentFocusTotal()
		}
		m.Status = StatusBar{Text: "focus running"}
		return m, m.runFocus()
	case "r":
		m.stopFocusTimer()
		m.Focus.RemainingSec = m.currentFocusTotal()
		m.Focus.Ended = false
		m.Status = StatusBar{Text: "focus reset"}
		return m, nil
	case "n":
		m.completeFocusPhase()
		return m, nil
	case "x":
		if m.Focus.TaskID == "" {
			return m, nil
		}
		if t, ok := m.store.Find(m.Focus.TaskID); ok && !t.Completed {
			return m, m.toggleTask(t.ID)
		}
	}
	return m, nil
}

// runFocus starts the countdown. The tick drives the display; the
// scheduler event ends the phase even when ticks lag.
func (m *Model) runFocus() tea.Cmd {
	m.Focus.Running = true
	m.Focus.Ended = false
	m.Focus.Session++
	remaining := time.Duration(m.Focus.RemainingSec) * time.Second
	m.Focus.Deadline = m.now().Add(remaining)
	if m.scheduler != nil {
		err := m.scheduler.Schedule(scheduler.Event{
			ID:     focusEventID,
			Kind:   scheduler.KindFocusPhaseEnd,
			Ref:    focusSessionRef(m.Focus.Session),
			FireAt: time.Now().Add(remaining),
		})
		if err != nil {
			m.logger.Printf("tui=focus schedule_error=%q", err)
		}
	}
	return focusTickCmd()
}

func (m *Model) pauseFocus() {
	m.Focus.RemainingSec = m.secondsLeft()
	m.stopFocusTimer()
}

func (m *Model) stopFocusTimer() {
	m.Focus.Running = false
	if m.scheduler != nil {
		m.scheduler.Cancel(focusEventID)
	}
}

func (m Model) secondsLeft() int {
	left := m.Focus.Deadline.Sub(m.now()).Seconds()
	return max(0, int(math.Ceil(left)))
}

func (m Model) onFocusTick() (tea.Model, tea.Cmd) {
	if !m.Focus.Running {
		return m, nil
	}
	m.Focus.RemainingSec = m.secondsLeft()
	if m.Focus.RemainingSec == 0 {
		m.endFocusPhase()
		return m, nil
	}
	return m, focusTickCmd()
}

// endFocusPhase is reached from either the tick or the scheduler event;
// the second arrival is a no-op.
func (m *Model) endFocusPhase() {
	if !m.Focus.Running {
		return
	}
	m.stopFocusTimer()
	m.Focus.RemainingSec = 0
	m.Focus.Ended = true
	text := "break complete; press n for next focus block"
	if m.Focus.Phase == FocusPhaseWork {
		text = "work session complete; press n to start break"
	}
	m.Status = StatusBar{Text: text}
	m.pushToast(text, false, nil)
}

func (m *Model) startFocusOn(t model.Task) {
	if m.Focus.TaskID == t.ID {
		return
	}
	m.stopFocusTimer()
	m.Focus.TaskID = t.ID
	m.Focus.TaskTitle = t.Title
	m.Focus.Phase = FocusPhaseWork
	m.Focus.RemainingSec = m.Focus.WorkDurationSec
	m.Focus.Ended = false
}

func (m *Model) bootstrapFocusTask() {
	if m.Focus.TaskID != "" {
		return
	}
	if t, ok := m.selectedTask(); ok {
		m.startFocusOn(t)
	}
}

func (m *Model) completeFocusPhase() {
	m.stopFocusTimer()
	m.Focus.Ended = false
	if m.Focus.Phase == FocusPhaseWork {
		m.Focus.CompletedPomodoros++
		m.Focus.Phase = FocusPhaseBreak
		m.Focus.RemainingSec = m.Focus.BreakDurationSec
		m.Status = StatusBar{Text: "break ready"}
		return
	}
	m.Focus.Phase = FocusPhaseWork
	m.Focus.RemainingSec = m.Focus.WorkDurationSec
	m.Status = StatusBar{Text: "focus block ready"}
}

func (m Model) currentFocusTotal() int {
	if m.Focus.Phase == FocusPhaseBreak {
		return m.Focus.BreakDurationSec
	}
	return m.Focus.WorkDurationSec
}

func (m Model) renderFocusView() string {
	total := m.currentFocusTotal()
	pct := 0.0
	if total > 0 {
		pct = 1 - float64(m.Focus.RemainingSec)/float64(total)
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		TaskTitle:          m.Focus.TaskTitle,
		Phase:              string(m.Focus.Phase),
		Timer:              formatDuration(m.Focus.RemainingSec),
		ProgressView:       m.focusProgress.ViewAs(pct),
		CompletedPomodoros: m.Focus.CompletedPomodoros,
		Running:            m.Focus.Running,
		ShowEndPrompt:      m.Focus.Ended,
	})
}

func focusSessionRef(session int) string {
	return "focus-" + strconv.Itoa(session)
}

func focusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{} })
}
