package update

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/commands"
	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/views"
)

type FormField int

const (
	FieldTitle FormField = iota
	FieldDescription
	FieldDue
	FieldPriority
	FieldDuration
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Due", "Priority", "Estimate (minutes)"}

// FormState drives the add/edit form. EditingID is empty for a new task.
type FormState struct {
	Active    bool
	EditingID string
	Field     FormField
	Priority  model.Priority
	Err       string
}

// openNewForm starts a blank task. New tasks default to medium priority in
// the form even though an unset priority reads as low elsewhere.
func (m *Model) openNewForm(due string) {
	m.Form = FormState{Active: true, Field: FieldTitle, Priority: model.PriorityMedium}
	m.titleInput.SetValue("")
	m.descArea.SetValue("")
	m.dueInput.SetValue(due)
	m.durationInput.SetValue("")
	m.focusField()
}

func (m *Model) openEditForm(t model.Task) {
	m.Form = FormState{Active: true, EditingID: t.ID, Field: FieldTitle, Priority: t.Priority.Or(model.PriorityLow)}
	m.titleInput.SetValue(t.Title)
	m.descArea.SetValue(t.Description)
	m.dueInput.SetValue(t.Due)
	m.durationInput.SetValue("")
	if t.DurationMinutes > 0 {
		m.durationInput.SetValue(strconv.Itoa(t.DurationMinutes))
	}
	m.focusField()
}

func (m *Model) closeForm() {
	m.Form = FormState{}
	m.titleInput.Blur()
	m.descArea.Blur()
	m.dueInput.Blur()
	m.durationInput.Blur()
}

func (m *Model) focusField() {
	m.titleInput.Blur()
	m.descArea.Blur()
	m.dueInput.Blur()
	m.durationInput.Blur()
	switch m.Form.Field {
	case FieldTitle:
		m.titleInput.Focus()
	case FieldDescription:
		m.descArea.Focus()
	case FieldDue:
		m.dueInput.Focus()
	case FieldDuration:
		m.durationInput.Focus()
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab":
		m.Form.Field = (m.Form.Field + 1) % fieldCount
		m.focusField()
		return m, nil
	case "shift+tab":
		m.Form.Field = (m.Form.Field + fieldCount - 1) % fieldCount
		m.focusField()
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.Form.Field != FieldDescription {
			return m.submitForm()
		}
	}

	if m.Form.Field == FieldPriority {
		switch msg.String() {
		case "left", "h":
			m.Form.Priority = cyclePriority(m.Form.Priority, -1)
		case "right", "l", " ":
			m.Form.Priority = cyclePriority(m.Form.Priority, 1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.Form.Field {
	case FieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case FieldDescription:
		m.descArea, cmd = m.descArea.Update(msg)
	case FieldDue:
		m.dueInput, cmd = m.dueInput.Update(msg)
	case FieldDuration:
		m.durationInput, cmd = m.durationInput.Update(msg)
	}
	m.Form.Err = ""
	return m, cmd
}

// submitForm validates inline; errors keep the form open.
func (m Model) submitForm() (Model, tea.Cmd) {
	minutes := 0
	if raw := strings.TrimSpace(m.durationInput.Value()); raw != "" {
		n, err := commands.ParseMinutes(raw)
		if err != nil {
			m.Form.Err = err.Error()
			return m, nil
		}
		minutes = n
	}
	in := model.NewTaskInput{
		Title:           m.titleInput.Value(),
		Description:     m.descArea.Value(),
		Due:             commands.ResolveDue(m.dueInput.Value(), m.now()),
		Priority:        m.Form.Priority,
		DurationMinutes: minutes,
	}.Normalize()
	if err := in.Validate(); err != nil {
		m.Form.Err = err.Error()
		return m, nil
	}

	if m.Form.EditingID == "" {
		m.closeForm()
		return m, m.addTask(in)
	}

	current, ok := m.store.Find(m.Form.EditingID)
	if !ok {
		m.Form.Err = "task no longer exists"
		return m, nil
	}
	id := m.Form.EditingID
	m.closeForm()
	return m, m.updateTask(id, diffPatch(current, in))
}

// diffPatch carries only the fields the form changed.
func diffPatch(t model.Task, in model.NewTaskInput) model.TaskPatch {
	var p model.TaskPatch
	if in.Title != t.Title {
		p.Title = model.Ptr(in.Title)
	}
	if in.Description != t.Description {
		p.Description = model.Ptr(in.Description)
	}
	if in.Due != t.Due {
		p.Due = model.Ptr(in.Due)
	}
	if in.Priority != t.Priority.Or(model.PriorityLow) {
		p.Priority = model.Ptr(in.Priority)
	}
	if in.DurationMinutes != t.DurationMinutes {
		p.DurationMinutes = model.Ptr(in.DurationMinutes)
	}
	return p
}

func cyclePriority(p model.Priority, delta int) model.Priority {
	all := model.Priorities
	for i, candidate := range all {
		if candidate == p {
			return all[(i+delta+len(all))%len(all)]
		}
	}
	return model.PriorityMedium
}

func (m Model) renderForm() string {
	heading := "New task"
	if m.Form.EditingID != "" {
		heading = "Edit task"
	}
	fields := make([]views.FormFieldData, 0, fieldCount)
	for f := FormField(0); f < fieldCount; f++ {
		var view string
		switch f {
		case FieldTitle:
			view = m.titleInput.View()
		case FieldDescription:
			view = m.descArea.View()
		case FieldDue:
			view = m.dueInput.View()
		case FieldPriority:
			view = "< " + views.PriorityBadge(string(m.Form.Priority)) + " >"
		case FieldDuration:
			view = m.durationInput.View()
		}
		fields = append(fields, views.FormFieldData{Label: fieldLabels[f], View: view, Focused: f == m.Form.Field})
	}
	return views.RenderForm(views.FormData{Heading: heading, Fields: fields, Error: m.Form.Err})
}
