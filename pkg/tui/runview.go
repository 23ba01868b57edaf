package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agroscheme/provision/pkg/plan"
	"github.com/agroscheme/provision/pkg/runner"
)

// outputWindow is how many trailing output lines the view shows.
const outputWindow = 8

// Message types for async operations.
type (
	// ProgressMsg wraps a runner progress event.
	ProgressMsg runner.ProgressEvent

	// RunDoneMsg indicates the run finished.
	RunDoneMsg struct {
		Result *runner.Result
		Err    error
	}
)

// stepState tracks the display status of one step.
type stepState struct {
	id     string
	name   string
	status runner.StepStatus
	active bool
}

// RunModel is the provisioning run view.
type RunModel struct {
	profile string
	steps   []stepState

	spinner spinner.Model
	output  []string
	done    bool
	err     error
	result  *runner.Result
}

// NewRunModel creates a run view for the given plan.
func NewRunModel(p *plan.Plan) *RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	steps := make([]stepState, len(p.Steps))
	for i, step := range p.Steps {
		steps[i] = stepState{id: step.ID, name: step.Name}
	}

	return &RunModel{
		profile: p.Profile,
		steps:   steps,
		spinner: s,
	}
}

// Init initializes the run view.
func (m *RunModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// ctrl+c abandons the run; the caller cancels the in-flight step.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		m.applyEvent(runner.ProgressEvent(msg))

	case RunDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// applyEvent folds a progress event into the view state.
func (m *RunModel) applyEvent(e runner.ProgressEvent) {
	switch e.Kind {
	case runner.EventStepStarted:
		m.setActive(e.StepID)
	case runner.EventStepOutput:
		m.output = append(m.output, e.Line)
		if len(m.output) > outputWindow {
			m.output = m.output[1:]
		}
	case runner.EventStepDone:
		m.setStatus(e.StepID, runner.StatusOK)
	case runner.EventStepFailed:
		m.setStatus(e.StepID, runner.StatusFailed)
	}
}

func (m *RunModel) setActive(stepID string) {
	for i := range m.steps {
		m.steps[i].active = m.steps[i].id == stepID
	}
}

func (m *RunModel) setStatus(stepID string, status runner.StepStatus) {
	for i := range m.steps {
		if m.steps[i].id == stepID {
			m.steps[i].status = status
			m.steps[i].active = false
		}
	}
}

// View renders the run view.
func (m *RunModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Provisioning (%s profile)", m.profile)))
	b.WriteString("\n")

	for _, step := range m.steps {
		var marker string
		switch {
		case step.active:
			marker = m.spinner.View()
		case step.status == runner.StatusOK:
			marker = SuccessStyle.Render("✓")
		case step.status == runner.StatusFailed:
			marker = ErrorStyle.Render("✗")
		case step.status == runner.StatusSkipped:
			marker = DimStyle.Render("-")
		default:
			marker = DimStyle.Render("•")
		}
		b.WriteString(fmt.Sprintf(" %s %s\n", marker, step.name))
	}

	if len(m.output) > 0 && !m.done {
		b.WriteString("\n")
		for _, line := range m.output {
			b.WriteString(DimStyle.Render("  " + line))
			b.WriteString("\n")
		}
	}

	if m.done {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(ErrorStyle.Render("Provisioning failed: " + m.err.Error()))
		} else {
			b.WriteString(SuccessStyle.Render("Provisioning complete."))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Interrupted reports whether the view was left before the run
// finished.
func (m *RunModel) Interrupted() bool {
	return !m.done
}

// Err returns the run error, if any.
func (m *RunModel) Err() error {
	return m.err
}

// Result returns the run result once the view has finished.
func (m *RunModel) Result() *runner.Result {
	return m.result
}
