// internal/tui/batch.go
// Package tui hosts the Bubble Tea interface for batch submissions: a
// spinner while the single multipart call is in flight, one synthetic
// progress bar per queued image, and the per-item outcome once the backend
// answers.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/batch"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/display"
)

// progressInterval paces the synthetic upload ramp.
const progressInterval = 500 * time.Millisecond

// tickMsg advances the synthetic progress bars.
type tickMsg time.Time

// doneMsg carries the submission outcome back into the UI loop.
type doneMsg struct {
	resp *api.BatchResponse
	err  error
}

var (
	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	quitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// batchModel is the Bubble Tea model for one batch submission.
type batchModel struct {
	ctx          context.Context
	orchestrator *batch.Orchestrator
	modelID      string

	spinner spinner.Model
	bar     progress.Model

	submitting bool
	finished   bool
	err        error
}

// NewBatchModel builds the model; the submission starts on Init.
func NewBatchModel(ctx context.Context, orchestrator *batch.Orchestrator, modelID string) tea.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return batchModel{
		ctx:          ctx,
		orchestrator: orchestrator,
		modelID:      modelID,
		spinner:      s,
		bar:          progress.New(progress.WithDefaultGradient()),
		submitting:   true,
	}
}

// Init starts the submission, the spinner, and the progress ticker.
func (m batchModel) Init() tea.Cmd {
	return tea.Batch(m.submitCmd(), m.spinner.Tick, tick())
}

func (m batchModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.orchestrator.Submit(m.ctx, m.modelID)
		return doneMsg{resp: resp, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(progressInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles ticks, completion, and quit keys.
func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 30
		return m, nil

	case tickMsg:
		if !m.submitting {
			return m, nil
		}
		m.orchestrator.AdvanceProgress()
		return m, tick()

	case doneMsg:
		m.submitting = false
		m.finished = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the queue with live progress, then the final summary.
func (m batchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Analyse par lot") + "\n\n")

	if m.finished {
		if m.err != nil {
			b.WriteString(errStyle.Render(m.err.Error()) + "\n")
		}
		b.WriteString(display.BatchSummary(m.orchestrator.Items()))
		return b.String()
	}

	b.WriteString(m.spinner.View() + " Envoi des images au backend…\n\n")
	for _, item := range m.orchestrator.Items() {
		b.WriteString(fmt.Sprintf("  %-24s %s\n", item.Filename,
			m.bar.ViewAs(float64(item.Progress)/100)))
	}
	b.WriteString("\n" + quitStyle.Render("(esc to cancel)"))
	return b.String()
}

// RunBatch drives the batch submission UI to completion and reports the
// per-item outcome. The orchestrator keeps the authoritative state either way.
func RunBatch(ctx context.Context, orchestrator *batch.Orchestrator, modelID string) error {
	program := tea.NewProgram(NewBatchModel(ctx, orchestrator, modelID))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: running batch view: %w", err)
	}
	return nil
}
