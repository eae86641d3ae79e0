package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studytime/internal/caring"
	"github.com/sandeepkv93/studytime/internal/views"
)

func (m Model) handleCaringKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.otherFocused {
		switch msg.String() {
		case "esc", "tab":
			m.otherFocused = false
			m.otherInput.Blur()
			return m, nil
		case "enter":
			m.otherFocused = false
			m.otherInput.Blur()
			return m.submitCaring(), nil
		}
		var cmd tea.Cmd
		m.otherInput, cmd = m.otherInput.Update(msg)
		m.Caring.OtherText = m.otherInput.Value()
		m.Caring.Err = nil
		return m, cmd
	}

	switch m.Caring.Step {
	case caring.StepAsk:
		switch msg.String() {
		case "y":
			m.Caring = m.Caring.Answer(true)
		case "n":
			m.Caring = m.Caring.Answer(false)
		}
	case caring.StepChoosing:
		switch msg.String() {
		case "j", "down":
			m.Caring = m.Caring.MoveCursor(1)
		case "k", "up":
			m.Caring = m.Caring.MoveCursor(-1)
		case " ", "x":
			m.Caring = m.Caring.ToggleAtCursor()
			if !m.Caring.OtherChecked() {
				m.otherInput.SetValue("")
				m.Caring.OtherText = ""
			}
		case "tab":
			if m.Caring.OtherChecked() {
				m.otherFocused = true
				m.otherInput.Focus()
			}
		case "enter":
			return m.submitCaring(), nil
		case "r":
			m.resetCaring()
		}
	case caring.StepNo, caring.StepAdvice:
		if msg.String() == "r" {
			m.resetCaring()
		}
	}
	return m, nil
}

// caringWantsTab reports whether tab should focus the other-reason input
// instead of switching views.
func (m Model) caringWantsTab(key string) bool {
	return key == "tab" && m.Caring.Step == caring.StepChoosing && m.Caring.OtherChecked()
}

func (m Model) submitCaring() Model {
	m.Caring.OtherText = m.otherInput.Value()
	m.Caring = m.Caring.Submit(m.coaching())
	if m.Caring.Err != nil {
		m.Status = StatusBar{Text: m.Caring.Err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: "advice ready"}
	return m
}

func (m *Model) resetCaring() {
	m.Caring = m.Caring.Reset()
	m.otherInput.SetValue("")
	m.otherFocused = false
	m.otherInput.Blur()
}

func (m Model) renderCaringView() string {
	data := views.CaringPanelData{
		Step:      string(m.Caring.Step),
		ShowOther: m.Caring.OtherChecked(),
		OtherView: m.otherInput.View(),
	}
	if m.Caring.Err != nil {
		data.Error = m.Caring.Err.Error()
	}
	for i, opt := range m.Caring.Options {
		data.Options = append(data.Options, views.CaringOptionData{
			Label:    opt.Label,
			Selected: m.Caring.IsSelected(opt.ID),
			Cursor:   i == m.Caring.Cursor,
		})
	}
	if m.Caring.Advice != nil {
		data.AdviceView = views.RenderMarkdown(adviceMarkdown(*m.Caring.Advice), m.paneWidth())
	}
	return views.RenderCaringPanel(data)
}

func adviceMarkdown(a caring.Advice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", a.Headline, a.Summary)
	for _, tip := range a.Tips {
		fmt.Fprintf(&b, "- **%s**: %s\n", tip.Label, tip.Detail)
	}
	if len(a.Coaching) > 0 {
		b.WriteString("\n### From your dashboard\n\n")
		for _, line := range a.Coaching {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	fmt.Fprintf(&b, "\n_%s_\n", a.Encouragement)
	return b.String()
}
