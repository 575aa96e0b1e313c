// Package installer runs the interactive `ask install` wizard that collects
// Slack and search credentials into <runtime>/.env.
package installer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step represents a single step in the installation wizard
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// conditional steps are skipped when Applies reports false.
type conditional interface {
	Applies(state *InstallState) bool
}

const (
	modeSingle = "single"
	modeOAuth  = "oauth"
)

func oauthOnly(state *InstallState) bool  { return state.EnvVars[keyMode] == modeOAuth }
func singleOnly(state *InstallState) bool { return state.EnvVars[keyMode] != modeOAuth }

func getSteps(envPath string) []Step {
	return []Step{
		NewChoiceStep("How will askbot be installed?", keyMode, []choice{
			{label: "Single workspace (bot token)", value: modeSingle},
			{label: "Distributed app (OAuth install)", value: modeOAuth},
		}),
		NewInputStep("Enter your Slack signing secret:", "SLACK_SIGNING_SECRET", "8f742231b10e8888abcd99yyyzzz85a5", true),
		NewInputStep("Enter your Slack bot token:", "SLACK_BOT_TOKEN", "xoxb-...", true).When(singleOnly),
		NewInputStep("Enter your Slack client ID:", "SLACK_CLIENT_ID", "123456789.123456789", false).When(oauthOnly),
		NewInputStep("Enter your Slack client secret:", "SLACK_CLIENT_SECRET", "", true).When(oauthOnly),
		NewInputStep("Enter the OAuth redirect URI:", "SLACK_REDIRECT_URI", "https://example.org/install/auth", false).When(oauthOnly),
		NewInputStep("Enter your search API key:", "SEARCH_API_KEY", "AIza...", true),
		NewInputStep("Enter your search engine ID (cx):", "SEARCH_ENGINE_ID", "0123456789abcdef0", false),
		NewChoiceStep("Where should installed workspaces be stored?", "STORAGE_BACKEND", []choice{
			{label: "SQLite database in the runtime directory", value: "sqlite"},
			{label: "Memory (lost on restart)", value: "memory"},
		}).When(oauthOnly),
		NewChoiceStep("Which messages share conversation context?", "HISTORY_SCOPE", []choice{
			{label: "Messages in the same channel", value: "channel"},
			{label: "Messages in the same thread", value: "thread"},
			{label: "All messages", value: "global"},
		}),
		NewFinalizationStep(),
		NewSaveEnvStep(envPath),
	}
}

type nextMsg struct{}

// model is the main Bubble Tea model that orchestrates the steps
type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	err         error
	width       int
	height      int
}

func initialModel(envPath string) model {
	return model{
		steps:       getSteps(envPath),
		currentStep: 0,
		state:       NewInstallState(),
	}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) > 0 && m.steps[0] != nil {
		return m.steps[0].Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	nextStep, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)
	if nextStep != nil {
		m.steps[m.currentStep] = nextStep
		return m, cmd
	}

	// Step completed, advance past the ones that do not apply
	m.currentStep++
	for m.currentStep < len(m.steps) {
		if c, ok := m.steps[m.currentStep].(conditional); ok && !c.Applies(m.state) {
			m.currentStep++
			continue
		}
		break
	}
	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}
	return m, m.steps[m.currentStep].Init()
}

func (m model) View() string {
	if m.quitting {
		return "Installation cancelled.\n"
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(press ctrl+c to quit)\n"
	}

	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}

	return titleStyle.Render("Installing askbot") + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard starts the TUI and writes the collected values to envPath.
func RunWizard(envPath string) (*InstallState, error) {
	p := tea.NewProgram(initialModel(envPath), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	finalModel := m.(model)
	if finalModel.quitting {
		return nil, fmt.Errorf("askbot installation interrupted")
	}

	return finalModel.state, nil
}
