package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one free-text value. Secrets are masked.
type InputStep struct {
	prompt string
	key    string
	input  textinput.Model
	when   func(*InstallState) bool
}

func NewInputStep(prompt, key, placeholder string, secret bool) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return &InputStep{
		prompt: prompt,
		key:    key,
		input:  ti,
	}
}

func (s *InputStep) When(fn func(*InstallState) bool) *InputStep {
	s.when = fn
	return s
}

func (s *InputStep) Applies(state *InstallState) bool {
	return s.when == nil || s.when(state)
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		value := strings.TrimSpace(s.input.Value())
		if value == "" {
			return s, nil
		}
		state.EnvVars[s.key] = value
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	return s.prompt + "\n\n" +
		s.input.View() + "\n\n" +
		hintStyle.Render("(press enter to confirm)") + "\n"
}
