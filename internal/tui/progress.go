package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yurisbeljimenez/aitools/provision"
)

// Messages fed into the progress model by the ChannelReporter.
type (
	// ToolStartedMsg announces a tool's pipeline beginning.
	ToolStartedMsg struct {
		Name  string
		Index int
		Total int
	}
	// ToolFinishedMsg carries a completed tool's outcome.
	ToolFinishedMsg struct {
		Outcome provision.Outcome
	}
	// RunFinishedMsg ends the progress display.
	RunFinishedMsg struct{}
)

// ChannelReporter implements provision.Reporter by forwarding events into a
// running progress model. Close it when the run ends.
type ChannelReporter struct {
	events chan tea.Msg
}

// NewChannelReporter creates a reporter with a buffered event channel.
func NewChannelReporter() *ChannelReporter {
	return &ChannelReporter{events: make(chan tea.Msg, 16)}
}

func (r *ChannelReporter) ToolStarted(name string, index, total int) {
	r.events <- ToolStartedMsg{Name: name, Index: index, Total: total}
}

func (r *ChannelReporter) ToolFinished(o provision.Outcome) {
	r.events <- ToolFinishedMsg{Outcome: o}
}

// Close signals the model that the run is over.
func (r *ChannelReporter) Close() {
	r.events <- RunFinishedMsg{}
	close(r.events)
}

// Drain consumes remaining events until Close. Call it after the progress
// program exits: the coordinator's sends block once the buffer fills, so a
// dead display without a drain would wedge the run.
func (r *ChannelReporter) Drain() {
	for range r.events {
	}
}

func (r *ChannelReporter) next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-r.events
		if !ok {
			return RunFinishedMsg{}
		}
		return msg
	}
}

// ProgressModel is the bubbletea model shown while tools are provisioned.
type ProgressModel struct {
	styles   *StyleSet
	spin     spinner.Model
	reporter *ChannelReporter
	cancel   context.CancelFunc

	current     string
	index       int
	total       int
	results     []provision.Outcome
	interrupted bool
	done        bool
}

// NewProgressModel creates the progress display fed by reporter. cancel
// stops the run when the user interrupts; the display stays up until the
// coordinator finishes the current tool and closes the reporter.
func NewProgressModel(theme TermTheme, reporter *ChannelReporter, cancel context.CancelFunc) ProgressModel {
	styles := NewStyleSet(theme)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	return ProgressModel{styles: styles, spin: sp, reporter: reporter, cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.reporter.next())
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The terminal is in raw mode, so ctrl+c arrives here as a key
		// rather than a signal. Cancel the run and keep reading events
		// until the coordinator stops between tools.
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.interrupted && m.cancel != nil {
				m.cancel()
			}
			m.interrupted = true
		}
		return m, nil

	case ToolStartedMsg:
		m.current = msg.Name
		m.index = msg.Index
		m.total = msg.Total
		return m, m.reporter.next()

	case ToolFinishedMsg:
		m.results = append(m.results, msg.Outcome)
		m.current = ""
		return m, m.reporter.next()

	case RunFinishedMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var out string
	for _, o := range m.results {
		out += "  " + renderOutcomeLine(m.styles, o) + "\n"
	}
	if m.current != "" && !m.done {
		out += fmt.Sprintf("  %s %s %s\n",
			m.spin.View(),
			m.styles.PrimaryTxt.Render(m.current),
			m.styles.DimTxt.Render(fmt.Sprintf("(%d/%d)", m.index, m.total)),
		)
	}
	if m.interrupted && !m.done {
		out += "  " + m.styles.WarningTxt.Render("interrupted, stopping after the current tool") + "\n"
	}
	return out
}

func renderOutcomeLine(styles *StyleSet, o provision.Outcome) string {
	if o.Failed() {
		return styles.ErrorTxt.Render("✗ ") + styles.PrimaryTxt.Render(o.Tool) +
			styles.DimTxt.Render(" — ") + styles.SecondaryTxt.Render(o.Err.Error())
	}
	line := styles.SuccessTxt.Render("✓ ") + styles.PrimaryTxt.Render(o.Tool)
	if o.Published != "" {
		line += styles.DimTxt.Render(" → " + o.Published)
	}
	return line
}
