package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qs/internal/domain"
)

// maxVisible bounds the item list; older finished items scroll off.
const maxVisible = 12

type progressModel struct {
	title   string
	events  <-chan domain.WarmEvent
	spinner spinner.Model
	prog    progress.Model
	items   []warmItem
	index   map[string]int
	total   int
	settled int
	failed  int
	width   int
	done    bool
	// interrupted is set when the user quit before the events ran out.
	interrupted bool
}

type warmItem struct {
	desc   string
	status string
}

type eventMsg domain.WarmEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders warm-up progress
// for total descriptions.
func NewProgressModel(title string, total int, events <-chan domain.WarmEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int, total),
		total:   total,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(domain.WarmEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		updated, cmd := m.prog.Update(msg)
		m.prog = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.settled, m.total)
	if m.failed > 0 {
		header = fmt.Sprintf("%s, %d failed", header, m.failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 10
	nameWidth := max(m.width-statusWidth-4, 20)
	start := max(len(m.items)-maxVisible, 0)
	for _, item := range m.items[start:] {
		status := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", status, Truncate(item.desc, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

// Interrupted reports whether the user quit the progress view returned by
// NewProgressModel before it finished.
func Interrupted(model tea.Model) bool {
	m, ok := model.(*progressModel)
	return ok && m.interrupted
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev domain.WarmEvent) tea.Cmd {
	idx, ok := m.index[ev.Desc]
	if !ok {
		idx = len(m.items)
		m.index[ev.Desc] = idx
		m.items = append(m.items, warmItem{desc: ev.Desc})
	}
	switch ev.Status {
	case domain.WarmStarted:
		m.items[idx].status = "resolving"
		return nil
	case domain.WarmDone:
		m.items[idx].status = "done"
	case domain.WarmFailed:
		m.items[idx].status = "error"
		m.failed++
	default:
		return nil
	}
	m.settled++
	if m.total == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.settled) / float64(m.total))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "resolving":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}
