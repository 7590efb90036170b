package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/raphaelgruber/dedup-go/internal/engine"
	"github.com/raphaelgruber/dedup-go/internal/service"
)

const pollInterval = 100 * time.Millisecond

// Theme holds the color scheme for terminal output.
type Theme struct {
	Status     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Hint       lipgloss.Color
	ProgressBg lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:     lipgloss.Color("#5FAFD7"), // light blue
	Success:    lipgloss.Color("#00D787"), // green
	Warning:    lipgloss.Color("#FFAF00"), // amber
	Error:      lipgloss.Color("#FF005F"), // red
	Hint:       lipgloss.Color("#6C6C6C"), // dim gray
	ProgressBg: lipgloss.Color("#3A3A3A"), // dark gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// tickMsg triggers polling the job.
type tickMsg time.Time

// jobState is the part of a job snapshot the view needs.
type jobState struct {
	status   service.JobStatus
	phase    service.Phase
	progress int
	total    int
	err      string
}

func readJob(j *service.Job) jobState {
	s := j.Snapshot()
	return jobState{status: s.Status, phase: s.Phase, progress: s.Progress, total: s.Total, err: s.Error}
}

// progressModel is the bubbletea model showing a running Find.
type progressModel struct {
	job      *service.Job
	state    jobState
	cancel   context.CancelFunc
	progress progress.Model
	theme    Theme
	done     bool
	quitting bool
}

func newProgressModel(job *service.Job, cancel context.CancelFunc) progressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return progressModel{
		job:      job,
		state:    readJob(job),
		cancel:   cancel,
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command (start polling).
func (m progressModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tickMsg:
		m.state = readJob(m.job)
		switch m.state.status {
		case service.JobStatusCompleted, service.JobStatusFailed:
			m.done = true
			return m, tea.Quit
		}
		return m, tickCmd()

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m progressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m progressModel) renderContent() string {
	if m.done || m.quitting {
		return m.finalView()
	}

	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", m.state.phase))
	if m.state.phase != service.PhaseComparing || m.state.total == 0 {
		return fmt.Sprintf("%s reading directories...\n", status)
	}

	pct := float64(m.state.progress) / float64(m.state.total)
	counts := fmt.Sprintf("%d/%d files", m.state.progress, m.state.total)
	hint := m.theme.hintStyle().Render("Press q to stop")

	return fmt.Sprintf("%s %s %s\n%s\n", status, m.progress.ViewAs(pct), counts, hint)
}

func (m progressModel) finalView() string {
	if m.quitting {
		return m.theme.hintStyle().Render("Stopped.") + "\n"
	}
	if m.state.status == service.JobStatusFailed {
		return m.theme.errorStyle().Render(fmt.Sprintf("✗ %s", m.state.err)) + "\n"
	}
	return m.theme.completedStyle().Render("✓ Compared all candidates") + "\n"
}

// tickCmd returns a command that sends a tick after the poll interval.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// runFindProgress runs svc.Find in the background while the progress UI
// polls its job. Stopping the UI cancels the run.
func runFindProgress(ctx context.Context, svc *service.DedupService, opts service.Options) (*service.FindResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	job := service.NewJob()
	type outcome struct {
		result *service.FindResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := svc.Find(ctx, opts, job)
		done <- outcome{result, err}
	}()

	p := tea.NewProgram(newProgressModel(job, cancel))
	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("progress UI error: %w", err)
	}

	out := <-done
	return out.result, out.err
}

// plainProgress writes a single self-overwriting progress line to w.
func plainProgress(w io.Writer) engine.ProgressFunc {
	return func(processed, total int) {
		fmt.Fprintf(w, "\rFile %d/%d (%d%%)", processed, total, processed*100/max(total, 1))
		if processed == total {
			fmt.Fprintln(w)
		}
	}
}
