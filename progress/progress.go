package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/thumbsprite/sprite"
)

// DefaultLogLines is the number of trailing log lines shown.
const DefaultLogLines = 5

// StageMsg reports that a stage has started.
type StageMsg struct {
	Stage sprite.Stage
}

// LogMsg carries one log line.
type LogMsg struct {
	Line string
}

// DoneMsg reports that the work has returned.
type DoneMsg struct {
	Err error
}

type tickMsg struct{}

// Model is the [tea.Model] for a sprite run.
type Model struct {
	start    time.Time
	now      time.Time
	err      error
	cancel   context.CancelFunc
	name     string
	current  sprite.Stage
	logs     []string
	stages   []sprite.Stage
	maxLogs  int
	done     bool
	canceled bool
}

// NewModel creates a [Model] for the named input. cancel is invoked when the
// user quits before the work is done; it may be nil.
func NewModel(name string, cancel context.CancelFunc) *Model {
	now := time.Now()

	return &Model{
		name:    name,
		cancel:  cancel,
		stages:  sprite.Stages(),
		maxLogs: DefaultLogLines,
		start:   now,
		now:     now,
	}
}

// Err returns the error the work returned, if any.
func (m *Model) Err() error {
	return m.err
}

// Init starts the elapsed-time ticker.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles stage, log, completion and key messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.done && m.cancel != nil {
				m.canceled = true
				m.cancel()
			}
		}

	case StageMsg:
		m.current = msg.Stage

	case LogMsg:
		m.logs = append(m.logs, msg.Line)
		if len(m.logs) > m.maxLogs {
			m.logs = m.logs[len(m.logs)-m.maxLogs:]
		}

	case DoneMsg:
		m.done = true
		m.err = msg.Err

		return m, tea.Quit

	case tickMsg:
		m.now = time.Now()

		if m.done {
			return m, nil
		}

		return m, tick()
	}

	return m, nil
}

// View renders the stage list and trailing log lines.
func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "thumbsprite %s (%s)\n\n", m.name, m.now.Sub(m.start).Truncate(time.Second))

	reached := m.current == ""

	for _, s := range m.stages {
		mark := " "

		switch {
		case m.done && m.err == nil:
			mark = "✓"
		case s == m.current && m.done:
			mark = "✗"
		case s == m.current:
			mark = "…"
		case !reached:
			mark = "✓"
		}

		if s == m.current {
			reached = true
		}

		fmt.Fprintf(&b, " [%s] %s\n", mark, s)
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")

		for _, line := range m.logs {
			b.WriteString("  " + line + "\n")
		}
	}

	switch {
	case m.done && m.err != nil:
		fmt.Fprintf(&b, "\nfailed: %v\n", m.err)
	case m.done:
		b.WriteString("\ndone\n")
	case m.canceled:
		b.WriteString("\ncanceling...\n")
	default:
		b.WriteString("\npress q to cancel\n")
	}

	return b.String()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Reporter forwards events from the work to the running program.
type Reporter struct {
	send func(tea.Msg)
}

// Stage reports that stage s has started.
func (r *Reporter) Stage(s sprite.Stage) {
	r.send(StageMsg{Stage: s})
}

// Log reports one log line.
func (r *Reporter) Log(line string) {
	r.send(LogMsg{Line: line})
}

// Run runs work while rendering progress to w. The context passed to work is
// canceled when the user quits. Run returns the error from work once both
// the work and the program have finished. opts are appended to the program
// options.
func Run(
	ctx context.Context,
	w io.Writer,
	name string,
	work func(context.Context, *Reporter) error,
	opts ...tea.ProgramOption,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(name, cancel)
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithOutput(w), tea.WithContext(ctx)}, opts...)...)

	workErr := make(chan error, 1)

	go func() {
		err := work(ctx, &Reporter{send: p.Send})
		workErr <- err

		p.Send(DoneMsg{Err: err})
	}()

	_, runErr := p.Run()

	// The program exited without a DoneMsg.
	if runErr != nil {
		cancel()
	}

	err := <-workErr
	if err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("running progress display: %w", runErr)
	}

	return nil
}
