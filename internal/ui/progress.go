// Package ui renders directory expansion progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"splice/internal/pipeline"
)

const statusWidth = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	cachedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the Bubble Tea model for an ExpandDir run.
type Model struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	files   []fileRow
	index   map[string]int
	width   int
	failed  int
	done    bool
}

type fileRow struct {
	path   string
	stage  pipeline.Stage
	status pipeline.Status
}

type (
	eventMsg pipeline.Event
	closedMsg struct{}
)

// NewProgressModel returns a model listing files and advancing as events
// arrive on events. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = workingStyle

	m := &Model{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	m.bar.Width = m.width - 4
	for i, f := range files {
		m.files = append(m.files, fileRow{path: f, status: pipeline.StatusQueued})
		m.index[f] = i
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait())
}

func (m *Model) wait() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(pipeline.Event(msg)), m.wait())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// выход по ctrl+c; раскрытие продолжается в фоне до отмены контекста
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records ev and returns the command animating the bar.
func (m *Model) apply(ev pipeline.Event) tea.Cmd {
	i, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	row := &m.files[i]
	if row.status.Final() {
		return nil
	}
	if ev.Stage != "" {
		row.stage = ev.Stage
	}
	row.status = ev.Status
	if ev.Status == pipeline.StatusError {
		m.failed++
	}
	return m.bar.SetPercent(m.Fraction())
}

// Interrupted reports whether the model quit before the event stream ended.
func (m *Model) Interrupted() bool {
	return !m.done
}

// Fraction is the share of work done across all files.
func (m *Model) Fraction() float64 {
	if len(m.files) == 0 {
		return 1
	}
	var sum float64
	for _, f := range m.files {
		switch {
		case f.status.Final():
			sum++
		case f.status == pipeline.StatusWorking:
			sum += f.stage.Weight()
		}
	}
	return sum / float64(len(m.files))
}

func (m *Model) View() string {
	var b strings.Builder
	header := m.title
	if m.failed > 0 {
		header += errorStyle.Render(fmt.Sprintf(" (%d failed)", m.failed))
	}
	if m.done {
		b.WriteString(titleStyle.Render("done: " + header))
	} else {
		b.WriteString(m.spinner.View() + " " + titleStyle.Render(header))
	}
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	for _, f := range m.files {
		label, style := rowLabel(f)
		fmt.Fprintf(&b, "  %s %s\n", style.Render(fmt.Sprintf("%*s", statusWidth, label)), Truncate(f.path, nameWidth))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func rowLabel(f fileRow) (string, lipgloss.Style) {
	switch f.status {
	case pipeline.StatusDone:
		return "done", doneStyle
	case pipeline.StatusCached:
		return "cached", cachedStyle
	case pipeline.StatusError:
		return "error", errorStyle
	case pipeline.StatusWorking:
		if label, ok := stageLabels[f.stage]; ok {
			return label, workingStyle
		}
		return "working", workingStyle
	}
	return "queued", idleStyle
}

var stageLabels = map[pipeline.Stage]string{
	pipeline.StageLex:    "lexing",
	pipeline.StageTree:   "grouping",
	pipeline.StageExpand: "expanding",
	pipeline.StagePrint:  "printing",
	pipeline.StageWrite:  "writing",
}

// Truncate shortens value to at most width display cells, ending in "...".
func Truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
