package ui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Task is the work a spinner waits on.
type Task func(ctx context.Context) error

type taskDoneMsg struct {
	err error
}

// SpinnerModel is a Bubble Tea model that animates a spinner until its task
// finishes, then clears itself and quits.
type SpinnerModel struct {
	spinner spinner.Model
	label   string
	ctx     context.Context
	task    Task
	done    bool
	err     error
}

// NewSpinnerModel creates a model that runs task when the program starts.
func NewSpinnerModel(ctx context.Context, label string, task Task) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return SpinnerModel{
		spinner: s,
		label:   label,
		ctx:     ctx,
		task:    task,
	}
}

// Init implements tea.Model
func (m SpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m SpinnerModel) run() tea.Msg {
	return taskDoneMsg{err: m.task(m.ctx)}
}

// Update implements tea.Model
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m SpinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + SpinnerLabelStyle.Render(m.label)
}

// Done reports whether the task has finished.
func (m SpinnerModel) Done() bool {
	return m.done
}

// Err returns the task's error once Done is true.
func (m SpinnerModel) Err() error {
	return m.err
}

// RunSpinner runs task while showing a spinner on w. The spinner only runs
// when animate is true and w is a terminal; otherwise task runs directly.
// If the program is interrupted the task's context is cancelled.
func RunSpinner(ctx context.Context, w io.Writer, label string, animate bool, task Task) error {
	if !animate || !IsTerminal(w) {
		return task(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		NewSpinnerModel(ctx, label, task),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := final.(SpinnerModel)
	if !ok || !m.Done() {
		return context.Canceled
	}
	return m.Err()
}
