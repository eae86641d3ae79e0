package update

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/studytime/internal/calendar"
	"github.com/sandeepkv93/studytime/internal/caring"
	"github.com/sandeepkv93/studytime/internal/config"
	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/scheduler"
	"github.com/sandeepkv93/studytime/internal/store"
	"github.com/sandeepkv93/studytime/internal/views"
	"github.com/sandeepkv93/studytime/internal/visibility"
)

type View string

const (
	ViewList      View = "Tasks"
	ViewCalendar  View = "Calendar"
	ViewAnalytics View = "Analytics"
	ViewCaring    View = "Caring"
	ViewFocus     View = "Focus"
)

// Views is the tab order; the number keys follow it.
var Views = []View{ViewList, ViewCalendar, ViewAnalytics, ViewCaring, ViewFocus}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	NextView string
	Palette  string
	Help     string
	Quit     string
}

// Deps wires the model to the task store and timers. Store is required.
type Deps struct {
	Store     *store.Store
	Scheduler *scheduler.Engine
	Config    config.RuntimeConfig
	Now       func() time.Time
	Logger    *log.Logger
}

type Model struct {
	CurrentView    View
	Filters        visibility.Filters
	Cursor         int
	SelectedTaskID string
	Searching      bool
	Form           FormState
	Palette        CommandPaletteState
	Calendar       CalendarState
	Analytics      AnalyticsState
	Caring         caring.Form
	Focus          FocusState
	Toasts         []Toast
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Pending        int
	Quitting       bool
	LastError      error
	Width          int
	Height         int

	store     *store.Store
	scheduler *scheduler.Engine
	cfg       config.RuntimeConfig
	now       func() time.Time
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	calMemo   *calendar.Memo

	loaded      bool
	toastSeq    int
	windowTitle string
	detailKey   string

	searchInput    textinput.Model
	commandInput   textinput.Model
	titleInput     textinput.Model
	dueInput       textinput.Model
	durationInput  textinput.Model
	descArea       textarea.Model
	otherInput     textinput.Model
	otherFocused   bool
	focusProgress  progress.Model
	statsProgress  progress.Model
	syncSpinner    spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type CalendarState struct {
	Mode     calendar.Mode
	Selected time.Time
}

type AnalyticsState struct {
	WindowIndex int
}

type FocusPhase string

const (
	FocusPhaseWork  FocusPhase = "work"
	FocusPhaseBreak FocusPhase = "break"
)

type FocusState struct {
	TaskID             string
	TaskTitle          string
	WorkDurationSec    int
	BreakDurationSec   int
	RemainingSec       int
	Running            bool
	Phase              FocusPhase
	CompletedPomodoros int
	Deadline           time.Time
	Session            int
	Ended              bool
}

// Toast is a transient notification. Snapshot, when set, is the
// collection to restore on undo.
type Toast struct {
	ID       string
	Text     string
	IsError  bool
	Snapshot []model.Task
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct{}

type SchedulerEventMsg struct {
	Event scheduler.Event
}

type tasksLoadedMsg struct {
	Err error
}

// taskOpMsg reports a finished store operation.
type taskOpMsg struct {
	Op       string
	Message  string
	Err      error
	Snapshot []model.Task
}

func NewModel(deps Deps) Model {
	cfg := deps.Config
	if cfg.Focus.WorkMinutes <= 0 {
		cfg = config.DefaultRuntimeConfig()
	}
	m := Model{
		CurrentView: ViewList,
		Filters:     visibility.DefaultFilters(),
		Calendar:    CalendarState{Mode: calendar.ModeCalendar},
		Caring:      caring.NewForm(),
		Focus: FocusState{
			WorkDurationSec:  cfg.Focus.WorkMinutes * 60,
			BreakDurationSec: cfg.Focus.BreakMinutes * 60,
			RemainingSec:     cfg.Focus.WorkMinutes * 60,
			Phase:            FocusPhaseWork,
		},
		Keys: GlobalKeyMap{
			NextView: "tab",
			Palette:  "/",
			Help:     "?",
			Quit:     "q",
		},
		store:     deps.Store,
		scheduler: deps.Scheduler,
		cfg:       cfg,
		now:       deps.Now,
		logger:    deps.Logger,
		calMemo:   &calendar.Memo{},
	}
	if m.store == nil {
		m.store = store.New(store.Options{})
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard, "", 0)
	}
	for i, days := range analyticsWindows() {
		if days == cfg.Analytics.WindowDays {
			m.Analytics.WindowIndex = i
		}
	}
	m.Calendar.Selected = m.now()
	m.windowTitle = views.TitleBadge(0, 0)
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search: "
	m.searchInput.Placeholder = "title or description"
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add read chapter 3 !high @tomorrow ~25m"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "What needs doing?"
	m.titleInput.CharLimit = 200
	m.titleInput.Width = 48

	m.dueInput = textinput.New()
	m.dueInput.Placeholder = "YYYY-MM-DD, today or tomorrow"
	m.dueInput.CharLimit = 10
	m.dueInput.Width = 30

	m.durationInput = textinput.New()
	m.durationInput.Placeholder = "25m"
	m.durationInput.CharLimit = 8
	m.durationInput.Width = 10

	m.descArea = textarea.New()
	m.descArea.SetWidth(48)
	m.descArea.SetHeight(4)
	m.descArea.ShowLineNumbers = false
	m.descArea.Placeholder = "Notes (markdown)"

	m.otherInput = textinput.New()
	m.otherInput.Prompt = "other: "
	m.otherInput.Placeholder = "describe what is going on"
	m.otherInput.CharLimit = 200
	m.otherInput.Width = 44

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	m.statsProgress = progress.New(progress.WithSolidFill("10"), progress.WithWidth(30))

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(54, 12)
}
