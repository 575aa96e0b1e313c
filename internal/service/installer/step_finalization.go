package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep computes derived values and final env var formatting
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	if state.EnvVars["STORAGE_BACKEND"] == "" {
		state.EnvVars["STORAGE_BACKEND"] = "memory"
	}
	if state.EnvVars["ASK_DEBUG"] == "" {
		state.EnvVars["ASK_DEBUG"] = "0"
	}

	// Only used as intermediate state
	delete(state.EnvVars, keyMode)
}
