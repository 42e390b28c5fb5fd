package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/render"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

const (
	DefaultTick     = time.Second / 30
	DefaultCols     = 60
	DefaultRows     = 20
	historyCapacity = 600
	statsWidth      = 40
	speedStep       = 0.05

	// PixelsPerDot maps one braille dot to canvas pixels.
	PixelsPerDot = 5.0
)

type TickMsg time.Time

// ScenarioMsg swaps the scene. A running scene restarts with the new one.
type ScenarioMsg struct {
	Scenario *scenario.Scenario
	Err      error
}

type Options struct {
	// Sim is passed to the controller. Scheduler, Surface and OnFrame are
	// owned by the model.
	Sim   sim.Options
	Name  string
	Theme string
	Tick  time.Duration
	Cols  int
	Rows  int
}

// session is shared by every copy of a Model.
type session struct {
	ctrl    *sim.Controller
	sched   *sim.ManualScheduler
	surface *render.Braille
	diags   *diag.Collector
	sub     sim.Subscription

	last    sim.Telemetry
	samples int
	heights []float64
	speeds  []float64
	frames  int
}

func (s *session) record(t sim.Telemetry) {
	s.last = t
	s.samples++
	s.heights = appendCapped(s.heights, t.PositionY)
	s.speeds = appendCapped(s.speeds, t.VelocityX*t.VelocityX+t.VelocityY*t.VelocityY)
}

func (s *session) clearHistory() {
	s.last, s.samples = sim.Telemetry{}, 0
	s.heights, s.speeds = s.heights[:0], s.speeds[:0]
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[len(xs)-historyCapacity:]
	}
	return xs
}

type termCanvas struct{ cols, rows int }

func (t termCanvas) ClientSize() (float64, float64) {
	return float64(t.cols*2) * PixelsPerDot, float64(t.rows*4) * PixelsPerDot
}

// Model drives a controller from bubbletea ticks and draws it on a braille
// canvas.
type Model struct {
	s             *session
	name          string
	tick          time.Duration
	theme         int
	styles        styles
	width, height int
	showHelp      bool
	err           error
}

func NewModel(sc *scenario.Scenario, opts Options) Model {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	canvas := termCanvas{opts.Cols, opts.Rows}
	w, h := canvas.ClientSize()

	s := &session{
		sched:   sim.NewManualScheduler(),
		surface: render.NewBraille(opts.Cols, opts.Rows, w, h),
		diags:   diag.NewCollector(),
	}
	so := opts.Sim
	so.Width, so.Height = w, h
	so.Scheduler = s.sched
	so.Surface = s.surface
	so.OnFrame = func(render.Surface) { s.frames++ }
	so.Sink = diag.Multi(s.diags, so.Sink)
	s.ctrl = sim.New(sc, so)
	s.sub = s.ctrl.Subscribe(s.record)

	theme := ThemeIndex(opts.Theme)
	return Model{
		s:      s,
		name:   opts.Name,
		tick:   opts.Tick,
		theme:  theme,
		styles: newStyles(Themes[theme]),
	}
}

func (m Model) Controller() *sim.Controller { return m.s.ctrl }

func (m Model) Init() tea.Cmd {
	return m.nextTick()
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if st := m.s.ctrl.State(); st == sim.Running || st == sim.Paused {
			m.s.sched.Advance(m.tick)
		}
		return m, m.nextTick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cols := max(msg.Width-statsWidth-4, 10)
		rows := max(msg.Height-6, 5)
		m.s.surface.SetCells(cols, rows)
		m.s.ctrl.Resize(termCanvas{cols, rows})
		return m, nil

	case ScenarioMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		c := m.s.ctrl
		restart := c.State() == sim.Running || c.State() == sim.Paused
		c.Reset()
		m.s.clearHistory()
		m.err = c.SetScenario(msg.Scenario)
		if m.err == nil && restart {
			m.err = c.Start()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.s.ctrl
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		m.s.sub.Unsubscribe()
		c.Cleanup()
		return m, tea.Quit
	case "s":
		if c.State() == sim.Idle {
			m.s.clearHistory()
		}
		m.err = c.Start()
	case " ":
		switch c.State() {
		case sim.Running:
			c.Pause()
		case sim.Paused:
			c.Resume()
		case sim.Idle:
			m.s.clearHistory()
			m.err = c.Start()
		}
	case "r":
		c.Reset()
		m.s.surface.Clear()
		m.s.clearHistory()
	case "+", "=":
		c.SetSpeed(c.TimeScale() + speedStep)
	case "-", "_":
		c.SetSpeed(c.TimeScale() - speedStep)
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) View() string {
	st := m.styles
	s := m.s
	status := s.ctrl.Snapshot()

	title := gradient("PHYSVIS", st.theme.Title, st.theme.TitleTo)
	if m.name != "" {
		title += st.label.Render("  " + m.name)
	}

	var state string
	switch s.ctrl.State() {
	case sim.Running:
		state = st.running.Render("● running")
	case sim.Paused:
		state = st.paused.Render("❚❚ paused")
	default:
		state = st.label.Render("○ " + status.State)
	}

	canvasView := st.canvas.Render(s.surface.String())

	var stats strings.Builder
	stats.WriteString(st.header.Render("Telemetry") + "\n")
	row := func(label, value string) {
		stats.WriteString(st.label.Render(fmt.Sprintf("%-10s", label)) + st.value.Render(value) + "\n")
	}
	row("state", state)
	row("time", fmt.Sprintf("%.2f s", status.Elapsed))
	row("speed", fmt.Sprintf("%s %.2fx", gauge(s.ctrl.TimeScale(), 10), s.ctrl.TimeScale()))
	row("bodies", fmt.Sprintf("%d", status.Bodies))
	row("springs", fmt.Sprintf("%d", status.Constraints))
	if status.Primary != "" {
		row("primary", status.Primary)
		row("position", fmt.Sprintf("(%.2f, %.2f) m", s.last.PositionX, s.last.PositionY))
		row("velocity", fmt.Sprintf("(%.2f, %.2f) m/s", s.last.VelocityX, s.last.VelocityY))
	}
	row("frames", fmt.Sprintf("%d", s.frames))
	stats.WriteString(st.label.Render("speed²    ") + sparkline(s.speeds, statsWidth-14) + "\n")

	if len(s.heights) > 1 {
		stats.WriteString("\n" + asciigraph.Plot(s.heights,
			asciigraph.Height(5),
			asciigraph.Width(statsWidth-16),
			asciigraph.Caption("height (m)")) + "\n")
	}

	if n := s.diags.Len(); n > 0 {
		all := s.diags.All()
		stats.WriteString("\n" + st.warning.Render(fmt.Sprintf("%d issue(s)", n)) + "\n")
		stats.WriteString(st.warning.Render(truncate(all[n-1].Error(), statsWidth-4)) + "\n")
	}
	if m.err != nil {
		stats.WriteString("\n" + st.warning.Render(truncate(m.err.Error(), statsWidth-4)) + "\n")
	}

	statsView := st.panel.Width(statsWidth).Render(stats.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	help := st.hint.Render("s start  space pause  r reset  +/- speed  t theme  ? help  q quit")
	if m.showHelp {
		help = st.hint.Render(strings.Join([]string{
			"s      start the scene",
			"space  pause or resume",
			"r      reset to an empty world",
			"+ / -  change time scale",
			"t      theme: " + st.theme.Name,
			"q      quit",
		}, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run starts the live view in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
