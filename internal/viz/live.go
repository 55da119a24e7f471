package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/intercept/internal/search"
)

const (
	defaultReplayInterval = 250 * time.Millisecond
	tailLines             = 8
)

var (
	statsStyle = lipgloss.NewStyle().Padding(1, 2).Width(96)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// SearchModel replays the iterations of a finished bisection one at a time.
type SearchModel struct {
	history  []search.Iteration
	result   *search.Result
	cursor   int
	running  bool
	interval time.Duration
}

// NewSearchModel builds a replay over res.History. A non-positive interval
// selects the default replay speed.
func NewSearchModel(res *search.Result, interval time.Duration) SearchModel {
	if interval <= 0 {
		interval = defaultReplayInterval
	}
	return SearchModel{
		history:  res.History,
		result:   res,
		running:  true,
		interval: interval,
	}
}

// Cursor returns the index of the iteration on screen.
func (m SearchModel) Cursor() int { return m.cursor }

// Running reports whether the replay advances on each tick.
func (m SearchModel) Running() bool { return m.running }

func (m SearchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m SearchModel) Init() tea.Cmd { return m.tick() }

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.cursor = 0
			m.running = true
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		}
	case TickMsg:
		if m.running {
			if m.cursor < len(m.history)-1 {
				m.cursor++
			} else {
				m.running = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *SearchModel) scrub(dir int) {
	m.running = false
	m.cursor = min(max(m.cursor+dir, 0), max(len(m.history)-1, 0))
}

func (m SearchModel) View() string {
	var s strings.Builder
	s.WriteString(Title.Render("VELOCITY SEARCH") + "\n")
	if len(m.history) == 0 {
		s.WriteString(Subtle.Render("no iterations recorded") + "\n")
		return statsStyle.Render(s.String())
	}

	status := StatusRunning.Render("REPLAYING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(fmt.Sprintf("%s  %d/%d\n\n", status, m.cursor+1, len(m.history)))

	cur := m.history[m.cursor]
	first := m.history[0]
	s.WriteString(Field("velocity", fmt.Sprintf("%.4f m/s", cur.Velocity)) + "\n")
	s.WriteString(Field("diff", fmt.Sprintf("%.3f km", cur.Residual/1000)) + "\n")
	s.WriteString(Field("bracket", fmt.Sprintf("[%.4f, %.4f]", cur.VMin, cur.VMax)) + "\n")

	narrowed := 1.0
	if w0 := first.Width(); w0 > 0 {
		narrowed = 1 - cur.Width()/w0
	}
	s.WriteString(MetricLabel.Render("narrowed") + ProgressBar(narrowed, 30) + "\n")

	visible := m.history[:m.cursor+1]
	residuals := make([]float64, len(visible))
	for i, it := range visible {
		residuals[i] = math.Log10(math.Abs(it.Residual) + 1)
	}
	s.WriteString(MetricLabel.Render("log|diff|") + Sparkline(residuals, 40) + "\n")

	if len(visible) > 1 {
		vs := make([]float64, len(visible))
		for i, it := range visible {
			vs[i] = it.Velocity
		}
		chart := asciigraph.Plot(vs, asciigraph.Height(6), asciigraph.Width(60), asciigraph.Caption("velocity (m/s)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	start := max(0, len(visible)-tailLines)
	for _, it := range visible[start:] {
		s.WriteString(Subtle.Render(FormatIteration(it)) + "\n")
	}

	if m.cursor == len(m.history)-1 && m.result != nil {
		s.WriteString("\n" + Field("outcome", m.result.Status.String()) + "\n")
	}

	s.WriteString("\n" + KeyHint.Render("SP:Pause R:Restart [ ]:Step Q:Quit"))
	return statsStyle.Render(s.String())
}
