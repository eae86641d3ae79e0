// Package caring holds the "how are you doing" check-in flow: a yes/no
// question, a reason picker, and advice assembled from the chosen reasons
// and the dashboard coaching lines.
package caring

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrNothingSelected = errors.New("caring: choose at least one reason")
	ErrOtherText       = errors.New("caring: describe the other reason")
	ErrWrongStep       = errors.New("caring: not choosing reasons")
)

type Step string

const (
	StepAsk      Step = "ask"
	StepNo       Step = "no"
	StepChoosing Step = "choosing"
	StepAdvice   Step = "advice"
)

// OtherID is the option that needs free text.
const OtherID = "other"

type Option struct {
	ID    string
	Label string
	Tip   string
}

var DefaultOptions = []Option{
	{ID: "study", Label: "Coursework / assignments", Tip: "Pick the assignment due soonest and do only its first 15 minutes."},
	{ID: "deadline", Label: "Too many deadlines", Tip: "List every deadline, then mark the two that truly matter this week."},
	{ID: "motivation", Label: "Low motivation", Tip: "Start with a task under 10 minutes; momentum follows action."},
	{ID: "schedule", Label: "Time management", Tip: "Block one focus session in the calendar view before anything else."},
	{ID: "work", Label: "Part-time job", Tip: "Put shift hours in as tasks so study time is planned around them."},
	{ID: "finance", Label: "Money", Tip: "Write down one concrete money step and schedule it for a specific day."},
	{ID: "health", Label: "Health", Tip: "Sleep and meals come first; move one non-urgent task to next week."},
	{ID: "family", Label: "Family", Tip: "Tell someone you trust what is going on; you do not need to carry it alone."},
	{ID: "friends", Label: "Friends / relationships", Tip: "Reach out to one friend today, even with a short message."},
	{ID: OtherID, Label: "Other (describe)", Tip: "Break what you described into the smallest next step and add it as a task."},
}

type Tip struct {
	Label  string
	Detail string
}

type Advice struct {
	Headline      string
	Summary       string
	Tips          []Tip
	Coaching      []string
	Encouragement string
}

// Form is the check-in state machine.
type Form struct {
	Step      Step
	Options   []Option
	Selected  []string
	OtherText string
	Cursor    int
	Advice    *Advice
	Err       error
}

func NewForm() Form {
	return Form{Step: StepAsk, Options: slices.Clone(DefaultOptions), Selected: []string{}}
}

func (f Form) Answer(struggling bool) Form {
	if f.Step != StepAsk {
		return f
	}
	if struggling {
		f.Step = StepChoosing
	} else {
		f.Step = StepNo
	}
	return f
}

func (f Form) MoveCursor(delta int) Form {
	if len(f.Options) == 0 {
		return f
	}
	f.Cursor = (f.Cursor + delta + len(f.Options)) % len(f.Options)
	return f
}

// Toggle flips selection of the option with id. Selection order is kept.
func (f Form) Toggle(id string) Form {
	if f.Step != StepChoosing {
		return f
	}
	if i := slices.Index(f.Selected, id); i >= 0 {
		f.Selected = slices.Delete(slices.Clone(f.Selected), i, i+1)
	} else if slices.ContainsFunc(f.Options, func(o Option) bool { return o.ID == id }) {
		f.Selected = append(slices.Clone(f.Selected), id)
	}
	f.Err = nil
	return f
}

func (f Form) ToggleAtCursor() Form {
	if f.Cursor < 0 || f.Cursor >= len(f.Options) {
		return f
	}
	return f.Toggle(f.Options[f.Cursor].ID)
}

func (f Form) IsSelected(id string) bool {
	return slices.Contains(f.Selected, id)
}

func (f Form) OtherChecked() bool {
	return f.IsSelected(OtherID)
}

func (f Form) CanSubmit() bool {
	return f.validate() == nil
}

func (f Form) validate() error {
	if len(f.Selected) == 0 {
		return ErrNothingSelected
	}
	if f.OtherChecked() && strings.TrimSpace(f.OtherText) == "" {
		return ErrOtherText
	}
	return nil
}

// Submit builds advice from the selected reasons plus coaching lines. On a
// validation error the form stays in the choosing step with Err set.
func (f Form) Submit(coaching []string) Form {
	if f.Step != StepChoosing {
		f.Err = ErrWrongStep
		return f
	}
	if err := f.validate(); err != nil {
		f.Err = err
		return f
	}

	tips := make([]Tip, 0, len(f.Selected))
	labels := make([]string, 0, len(f.Selected))
	for _, id := range f.Selected {
		i := slices.IndexFunc(f.Options, func(o Option) bool { return o.ID == id })
		if i < 0 {
			continue
		}
		opt := f.Options[i]
		label := opt.Label
		if id == OtherID {
			label = strings.TrimSpace(f.OtherText)
		}
		labels = append(labels, strings.ToLower(label))
		tips = append(tips, Tip{Label: label, Detail: opt.Tip})
	}

	f.Advice = &Advice{
		Headline:      "Thanks for telling us.",
		Summary:       "You mentioned " + strings.Join(labels, ", ") + ". Here are a few small steps.",
		Tips:          tips,
		Coaching:      slices.Clone(coaching),
		Encouragement: "One small finished task today is enough.",
	}
	f.Step = StepAdvice
	f.Err = nil
	return f
}

func (f Form) Reset() Form {
	return NewForm()
}
