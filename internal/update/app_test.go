package update

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/caring"
	"github.com/sandeepkv93/studytime/internal/calendar"
	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/scheduler"
	"github.com/sandeepkv93/studytime/internal/storage"
	"github.com/sandeepkv93/studytime/internal/store"
	"github.com/sandeepkv93/studytime/internal/visibility"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestModel(t *testing.T) (Model, *testClock, *storage.FileStore) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)}
	n := 0
	fs := storage.NewFileStore(filepath.Join(t.TempDir(), "tasks.json"), nil)
	s := store.New(store.Options{
		Persister: fs,
		Now:       clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		},
	})
	m := NewModel(Deps{Store: s, Now: clock.Now})
	return m, clock, fs
}

// drain runs cmd and feeds store results back into the model. Timer
// commands must not be passed in; they block.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case taskOpMsg, tasksLoadedMsg:
			next, more := m.Update(msg)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func addTask(t *testing.T, m Model, title string) Model {
	t.Helper()
	m, _ = press(t, m, runes("n"), runes(title))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	return drain(t, m, cmd)
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.CurrentView != ViewList {
		t.Fatalf("expected default view %q, got %q", ViewList, m.CurrentView)
	}
	if m.Filters != visibility.DefaultFilters() {
		t.Fatalf("unexpected default filters: %+v", m.Filters)
	}
	if m.Focus.WorkDurationSec != 25*60 || m.Focus.BreakDurationSec != 5*60 {
		t.Fatalf("unexpected focus durations: %+v", m.Focus)
	}
	if m.Keys.Quit != "q" || m.Calendar.Mode != calendar.ModeCalendar {
		t.Fatalf("unexpected defaults: keys=%+v calendar=%+v", m.Keys, m.Calendar)
	}
}

func TestInitLoadsPersistedTasks(t *testing.T) {
	m, clock, fs := newTestModel(t)
	seed := model.Task{ID: "seed", Title: "Seeded", Priority: model.PriorityHigh, CreatedAt: clock.now, UpdatedAt: clock.now}
	if err := fs.Save([]model.Task{seed}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m = drain(t, m, m.Init())
	if len(m.store.Tasks()) != 1 || m.SelectedTaskID != "seed" {
		t.Fatalf("expected seeded task selected, got %#v sel=%q", m.store.Tasks(), m.SelectedTaskID)
	}
	if !strings.Contains(m.Status.Text, "loaded 1 task") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestViewSwitchingKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, runes("2"))
	if m.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", m.CurrentView)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentView != ViewAnalytics {
		t.Fatalf("expected analytics view after tab, got %q", m.CurrentView)
	}

	next, _ := m.Update(SwitchViewMsg{View: View("Unknown")})
	if next.(Model).CurrentView != ViewAnalytics {
		t.Fatal("expected view unchanged for unknown view")
	}
}

func TestFormAddsTaskWithMediumDefault(t *testing.T) {
	m, _, fs := newTestModel(t)
	m, _ = press(t, m, runes("n"))
	if !m.Form.Active || m.Form.Priority != model.PriorityMedium {
		t.Fatalf("expected new form with medium priority, got %+v", m.Form)
	}
	m, _ = press(t, m, runes("Read chapter 3"), tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, runes("tomorrow"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Form.Active {
		t.Fatalf("form should close on valid submit, err=%q", m.Form.Err)
	}
	m = drain(t, m, cmd)

	tasks := m.store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Read chapter 3" || got.Priority != model.PriorityMedium || got.Due != "2026-02-10" {
		t.Fatalf("unexpected task: %#v", got)
	}
	persisted, err := fs.Load()
	if err != nil || len(persisted) != 1 {
		t.Fatalf("expected task persisted, got %v %v", persisted, err)
	}
	if len(m.Toasts) != 1 || !strings.Contains(m.Toasts[0].Text, "Added") {
		t.Fatalf("expected added toast, got %#v", m.Toasts)
	}
}

func TestFormValidationKeepsFormOpen(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, runes("n"), runes("   "))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no store command for blank title")
	}
	if !m.Form.Active || m.Form.Err == "" {
		t.Fatalf("expected inline error, got %+v", m.Form)
	}

	m.titleInput.SetValue("Essay")
	m.durationInput.SetValue("soon")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.Form.Active || m.Form.Err == "" {
		t.Fatalf("expected duration error, got %+v", m.Form)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Form.Active || len(m.store.Tasks()) != 0 {
		t.Fatal("expected cancelled form and no tasks")
	}
}

func TestEditFormPatchesChangedFieldsOnly(t *testing.T) {
	m, clock, _ := newTestModel(t)
	m = addTask(t, m, "Draft")
	before := m.store.Tasks()[0]
	clock.Advance(time.Minute)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Form.EditingID != before.ID {
		t.Fatalf("expected edit form for %s, got %+v", before.ID, m.Form)
	}
	m.titleInput.SetValue("Final draft")
	m.durationInput.SetValue("1h")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)

	after := m.store.Tasks()[0]
	if after.Title != "Final draft" || after.DurationMinutes != 60 || after.Priority != before.Priority {
		t.Fatalf("unexpected edited task: %#v", after)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) || !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("unexpected timestamps: before=%#v after=%#v", before, after)
	}
}

func TestToggleDeleteAndUndo(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = addTask(t, m, "first")
	m = addTask(t, m, "second")

	// The cursor stays on the first task while new ones arrive.
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = drain(t, m, cmd)
	first, ok := m.store.Find("task-1")
	if !ok || !first.Completed {
		t.Fatalf("expected selected task completed: %#v", m.store.Tasks())
	}
	if got := m.titleBadge(); got != "✅ 1/2 tasks" {
		t.Fatalf("unexpected title badge %q", got)
	}

	m, cmd = press(t, m, runes("d"))
	m = drain(t, m, cmd)
	if len(m.store.Tasks()) != 1 {
		t.Fatalf("expected delete, got %#v", m.store.Tasks())
	}
	last := m.Toasts[len(m.Toasts)-1]
	if last.Snapshot == nil || len(last.Snapshot) != 2 {
		t.Fatalf("expected undo snapshot on delete toast, got %#v", last)
	}

	m, _ = press(t, m, runes("u"))
	if len(m.store.Tasks()) != 2 {
		t.Fatalf("expected undo to restore 2 tasks, got %d", len(m.store.Tasks()))
	}
	for _, toast := range m.Toasts {
		if toast.Snapshot != nil {
			t.Fatal("undo toast should be dismissed")
		}
	}
}

func TestClearCompletedWithUndo(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, cmd := press(t, m, runes("D"))
	if cmd != nil || m.Status.Text != "nothing completed to clear" {
		t.Fatalf("expected no-op clear, got status %+v", m.Status)
	}

	m = addTask(t, m, "a")
	m = addTask(t, m, "b")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = drain(t, m, cmd)

	m, cmd = press(t, m, runes("D"))
	m = drain(t, m, cmd)
	if len(m.store.Tasks()) != 1 || m.store.Tasks()[0].Title != "b" {
		t.Fatalf("unexpected tasks after clear: %#v", m.store.Tasks())
	}
	if !strings.Contains(m.Status.Text, "Cleared 1 completed task") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if !m.undoLatest() || len(m.store.Tasks()) != 2 {
		t.Fatalf("expected undo to restore cleared task: %#v", m.store.Tasks())
	}
}

func TestSearchAndFilterKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = addTask(t, m, "Biology essay")
	m = addTask(t, m, "Math homework")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlK}, runes("ESSAY"))
	if !m.Searching || m.Filters.Query != "ESSAY" {
		t.Fatalf("expected live search, got searching=%v q=%q", m.Searching, m.Filters.Query)
	}
	visible := m.visibleTasks()
	if len(visible) != 1 || visible[0].Title != "Biology essay" {
		t.Fatalf("unexpected search result: %#v", visible)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Searching {
		t.Fatal("expected search to end on enter")
	}

	m, _ = press(t, m, runes("f"))
	if m.Filters.Status != visibility.StatusActive {
		t.Fatalf("expected active status filter, got %q", m.Filters.Status)
	}
	m, _ = press(t, m, runes("p"), runes("o"))
	if m.Filters.Priority != "low" || m.Filters.SortBy != visibility.SortCreatedAsc {
		t.Fatalf("unexpected filters: %+v", m.Filters)
	}
}

func TestPaletteCommands(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, runes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m, _ = press(t, m, runes("add Lab report !high @tomorrow ~25m"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	tasks := m.store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected palette add, got %#v", tasks)
	}
	if got := tasks[0]; got.Priority != model.PriorityHigh || got.Due != "2026-02-10" || got.DurationMinutes != 25 {
		t.Fatalf("unexpected palette task: %#v", got)
	}

	m, _ = press(t, m, runes("/"), runes("done 1"))
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)
	if !m.store.Tasks()[0].Completed {
		t.Fatal("expected done 1 to complete the task")
	}

	m, _ = press(t, m, runes("/"), runes("sort priority-desc"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Filters.SortBy != visibility.SortPriorityDesc || m.Palette.Active {
		t.Fatalf("expected sort applied and palette closed: %+v", m.Filters)
	}

	m, _ = press(t, m, runes("/"), runes("view analytics"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.CurrentView != ViewAnalytics {
		t.Fatalf("expected analytics view, got %q", m.CurrentView)
	}

	m, _ = press(t, m, runes("/"), runes("done 9"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError {
		t.Fatalf("expected error for missing row, got %+v", m.Status)
	}
	m, _ = press(t, m, runes("/"), runes("frobnicate"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
}

func TestStaleResultsAreIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Pending = 1
	next, _ := m.Update(taskOpMsg{Op: "add", Err: store.ErrStale})
	m = next.(Model)
	if m.Pending != 0 || len(m.Toasts) != 0 || m.Status.IsError {
		t.Fatalf("stale result should be dropped silently: %+v", m)
	}

	next, _ = m.Update(taskOpMsg{Op: "add", Err: errors.New("boom")})
	m = next.(Model)
	if !m.Status.IsError || len(m.Toasts) != 1 || !m.Toasts[0].IsError {
		t.Fatalf("expected error toast, got %+v %#v", m.Status, m.Toasts)
	}
}

func TestSupersededLoadIsNotReportedAsFailure(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tasksLoadedMsg{Err: store.ErrStale})
	m = next.(Model)
	if m.Status.IsError || len(m.Toasts) != 0 || m.LastError != nil {
		t.Fatalf("superseded load should not surface an error: %+v %#v", m.Status, m.Toasts)
	}
}

func TestToastExpiresOnSchedulerEvent(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.pushToast("one", false, nil)
	m.pushToast("two", false, nil)
	id := m.Toasts[0].ID

	next, _ := m.Update(SchedulerEventMsg{Event: scheduler.Event{ID: id, Kind: scheduler.KindToastExpire, Ref: id}})
	m = next.(Model)
	if len(m.Toasts) != 1 || m.Toasts[0].Text != "two" {
		t.Fatalf("expected first toast dismissed, got %#v", m.Toasts)
	}

	for i := range maxToasts + 2 {
		m.pushToast(fmt.Sprintf("t%d", i), false, nil)
	}
	if len(m.Toasts) != maxToasts {
		t.Fatalf("expected toasts capped at %d, got %d", maxToasts, len(m.Toasts))
	}
}

func TestToastScheduledWithEngine(t *testing.T) {
	engine := scheduler.NewEngine(4)
	engine.Start()
	t.Cleanup(engine.Stop)

	m, _, _ := newTestModel(t)
	m.scheduler = engine
	m.cfg.Toast.TTLSeconds = 1
	m.pushToast("hello", false, nil)
	if engine.Pending() != 1 {
		t.Fatalf("expected toast expiry scheduled, pending=%d", engine.Pending())
	}

	select {
	case ev := <-engine.C():
		next, _ := m.Update(SchedulerEventMsg{Event: ev})
		if got := next.(Model).Toasts; len(got) != 0 {
			t.Fatalf("expected toast expired, got %#v", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("toast expiry never fired")
	}
}

func TestCalendarViewAndKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, runes("n"), runes("Exam"), tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, runes("2026-02-10"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)

	m, _ = press(t, m, runes("2"))
	out := m.View()
	if !strings.Contains(out, "February 2026") {
		t.Fatalf("expected month heading, got %q", out)
	}

	m, _ = press(t, m, runes("l"))
	if got := model.FormatDate(m.Calendar.Selected); got != "2026-02-10" {
		t.Fatalf("expected selection to move a day, got %s", got)
	}
	if !strings.Contains(m.renderCalendarView(), "Exam") {
		t.Fatal("expected selected day to list its task")
	}

	m, _ = press(t, m, runes("]"))
	if m.Calendar.Selected.Month() != time.March {
		t.Fatalf("expected next month, got %s", m.Calendar.Selected)
	}
	m, _ = press(t, m, runes("m"))
	if m.Calendar.Mode != calendar.ModeToday {
		t.Fatalf("expected today mode, got %q", m.Calendar.Mode)
	}
	m, _ = press(t, m, runes("t"), runes("n"))
	if !m.Form.Active || m.dueInput.Value() != "2026-02-09" || m.CurrentView != ViewList {
		t.Fatalf("expected new form prefilled with today, got %+v due=%q", m.Form, m.dueInput.Value())
	}
}

func TestShiftCalendarClampsMonthEnd(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Calendar.Selected = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	m.shiftCalendar(1, 0)
	if got := model.FormatDate(m.Calendar.Selected); got != "2026-02-28" {
		t.Fatalf("expected clamp to month end, got %s", got)
	}
}

func TestAnalyticsWindowCycles(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = addTask(t, m, "stats")
	m, _ = press(t, m, runes("3"))
	if !strings.Contains(m.View(), "last 7d") {
		t.Fatal("expected default 7 day window")
	}
	m, _ = press(t, m, runes("w"))
	if m.windowDays() != 30 || !strings.Contains(m.Status.Text, "last 30d") {
		t.Fatalf("expected 30 day window, got %d %+v", m.windowDays(), m.Status)
	}
	m, _ = press(t, m, runes("W"), runes("W"))
	if m.windowDays() != 365 {
		t.Fatalf("expected wrap to the widest window, got %d", m.windowDays())
	}
}

func TestCaringFlow(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, runes("4"), runes("y"))
	if m.Caring.Step != caring.StepChoosing {
		t.Fatalf("expected choosing step, got %q", m.Caring.Step)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Caring.Step != caring.StepChoosing || !m.Status.IsError {
		t.Fatalf("expected validation error with nothing selected, got %+v", m.Caring)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Caring.Step != caring.StepAdvice || m.Caring.Advice == nil {
		t.Fatalf("expected advice, got %+v", m.Caring)
	}
	if len(m.Caring.Advice.Coaching) == 0 {
		t.Fatal("expected dashboard coaching in advice")
	}

	m, _ = press(t, m, runes("r"))
	if m.Caring.Step != caring.StepAsk {
		t.Fatalf("expected reset to ask, got %q", m.Caring.Step)
	}
}

func TestCaringOtherNeedsText(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, runes("4"), runes("y"), runes("k"), tea.KeyMsg{Type: tea.KeySpace})
	if !m.Caring.OtherChecked() {
		t.Fatalf("expected other selected, got %+v", m.Caring.Selected)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !errors.Is(m.Caring.Err, caring.ErrOtherText) {
		t.Fatalf("expected other text error, got %v", m.Caring.Err)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("moving house"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Caring.Step != caring.StepAdvice || !strings.Contains(m.Caring.Advice.Summary, "moving house") {
		t.Fatalf("expected advice mentioning other text, got %+v", m.Caring.Advice)
	}
}

func TestFocusCountdown(t *testing.T) {
	m, clock, _ := newTestModel(t)
	m = addTask(t, m, "Deep work")
	m, _ = press(t, m, runes("F"))
	if m.CurrentView != ViewFocus || m.Focus.TaskTitle != "Deep work" {
		t.Fatalf("expected focus on selected task, got %+v", m.Focus)
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.Focus.Running || cmd == nil {
		t.Fatal("expected running focus with tick command")
	}

	clock.Advance(10 * time.Second)
	next, _ := m.Update(FocusTickMsg{})
	m = next.(Model)
	if m.Focus.RemainingSec != 25*60-10 {
		t.Fatalf("expected 10s elapsed, remaining=%d", m.Focus.RemainingSec)
	}

	clock.Advance(30 * time.Minute)
	next, _ = m.Update(FocusTickMsg{})
	m = next.(Model)
	if m.Focus.Running || !m.Focus.Ended || m.Focus.RemainingSec != 0 {
		t.Fatalf("expected phase ended, got %+v", m.Focus)
	}

	m, _ = press(t, m, runes("n"))
	if m.Focus.Phase != FocusPhaseBreak || m.Focus.CompletedPomodoros != 1 || m.Focus.RemainingSec != 5*60 {
		t.Fatalf("expected break phase, got %+v", m.Focus)
	}
}

func TestFocusPhaseEndEventMatchesSession(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Focus.Running = true
	m.Focus.Session = 2

	next, _ := m.Update(SchedulerEventMsg{Event: scheduler.Event{Kind: scheduler.KindFocusPhaseEnd, Ref: focusSessionRef(1)}})
	m = next.(Model)
	if !m.Focus.Running {
		t.Fatal("stale focus event should be ignored")
	}
	next, _ = m.Update(SchedulerEventMsg{Event: scheduler.Event{Kind: scheduler.KindFocusPhaseEnd, Ref: focusSessionRef(2)}})
	m = next.(Model)
	if m.Focus.Running || !m.Focus.Ended {
		t.Fatalf("expected phase ended by scheduler, got %+v", m.Focus)
	}
}

func TestQuitTearsDown(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, cmd := press(t, m, runes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quitting flag and quit command")
	}
	if m.ctx.Err() == nil {
		t.Fatal("expected context cancelled on quit")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = addTask(t, m, "Visible task")
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"studytime", "mode: local", "Visible task", "all good", "Tasks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
	m.HelpVisible = true
	if !strings.Contains(m.View(), "help (tasks)") {
		t.Fatal("expected help panel")
	}
}
