package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/shallvtalk/chaospendulum/internal/config"
	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/experiment"
	"github.com/shallvtalk/chaospendulum/internal/metrics"
	"github.com/shallvtalk/chaospendulum/internal/sim"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const (
	frameInterval  = 16 * time.Millisecond
	trailLength    = 120
	analysisEvery  = 30
	lyapunovWindow = 50
	periodMin      = 10
	periodTol      = 1e-2
	maxSpeed       = 16
)

type screen int

const (
	screenMenu screen = iota
	screenSim
)

type trailPoint struct {
	x, y     float64
	velocity float64
}

// Model is the bubbletea model for the live view: a preset menu and the
// running simulation with a statistics panel.
type Model struct {
	screen screen
	cursor int
	base   config.Config
	reg    *experiment.Registry
	log    *logrus.Logger

	sim     *sim.Simulator
	initial dynamo.State
	name    string
	paused  bool
	speed   int
	trail   *metrics.Ring[trailPoint]
	frames  int
	period  int
	hasPer  bool
	lyap    float64
	hasLy   bool
	err     error

	width  int
	height int
}

// NewModel starts at the preset menu. The first entry runs cfg as given.
func NewModel(cfg *config.Config, log *logrus.Logger) *Model {
	return &Model{
		screen: screenMenu,
		base:   *cfg,
		reg:    experiment.NewRegistry(),
		log:    log,
		speed:  1,
		trail:  metrics.NewRing[trailPoint](trailLength),
		width:  80,
		height: 24,
	}
}

func (m Model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.screen == screenMenu {
			return m.menuKey(msg)
		}
		return m.simKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.screen != screenSim {
			return m, nil
		}
		if !m.paused && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) menuKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(config.Presets) {
			m.cursor++
		}
	case "enter", " ":
		if err := m.start(); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m Model) simKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		m.err = m.sim.Reset(m.initial)
		m.trail.Clear()
		m.hasPer, m.hasLy = false, false
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "esc", "m":
		m.screen = screenMenu
		m.sim = nil
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m *Model) startConfig() config.Config {
	cfg := m.base
	m.name = "custom"
	if m.cursor > 0 {
		p := config.Presets[m.cursor-1]
		p.Apply(&cfg)
		m.name = p.Slug()
	}
	return cfg
}

func (m *Model) start() error {
	cfg := m.startConfig()
	exp, err := experiment.New(&cfg, m.reg, m.log)
	if err != nil {
		return err
	}
	m.sim = exp.Simulator()
	m.initial = cfg.State
	m.screen = screenSim
	m.paused = false
	m.err = nil
	m.frames = 0
	m.hasPer, m.hasLy = false, false
	m.trail.Clear()
	return nil
}

// advance runs one frame worth of simulated time, scaled by speed.
func (m *Model) advance() {
	dt := m.sim.Engine().TimeStep()
	steps := max(int(frameInterval.Seconds()/dt), 1) * m.speed
	for i := 0; i < steps; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			return
		}
	}

	sys := m.sim.System()
	pos := sys.Positions()
	m.trail.Push(trailPoint{x: pos.X2, y: pos.Y2, velocity: math.Abs(sys.State.Omega2)})

	m.frames++
	if m.frames%analysisEvery == 0 {
		stats := m.sim.Statistics()
		m.period, m.hasPer = stats.DetectPeriodicity(periodTol, periodMin)
		m.lyap, m.hasLy = stats.EstimateLyapunov(lyapunovWindow)
	}
}

func (m Model) View() string {
	if m.screen == screenMenu {
		return m.viewMenu()
	}
	return m.viewSim()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("         " + cyan.Render("c h a o s p e n d u l u m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	entries := [][2]string{{"custom", "state and parameters from the config"}}
	for _, p := range config.Presets {
		entries = append(entries, [2]string{p.Slug(), p.Description})
	}

	for i, e := range entries {
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-18s", e[0])) + dim.Render(e[1]) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-18s", e[0])) + dimmer.Render(e[1]) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n      " + red.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m Model) viewSim() string {
	cw := max(m.width-36, 40)
	ch := max(m.height-8, 14)

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", cw))
	}
	m.drawDoublePendulum(canvas, cw, ch)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	switch {
	case m.err != nil:
		statusIcon = red.Render("✕")
		statusText = red.Render("stopped")
	case m.paused:
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	sys := m.sim.System()
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n\n",
		statusIcon, cyan.Render(m.name), statusText,
		dim.Render(fmt.Sprintf("t=%.2fs  %s  x%d", sys.Time, m.sim.Engine().Name(), m.speed))))

	panel := strings.Split(m.statsPanel(), "\n")
	for i, row := range canvas {
		side := ""
		if i < len(panel) {
			side = panel[i]
		}
		b.WriteString("   " + string(row) + "  " + side + "\n")
	}

	if m.err != nil {
		b.WriteString("\n   " + red.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + dim.Render("   space pause  ±speed  r reset  m menu  q quit") + "\n")

	return b.String()
}

func (m Model) statsPanel() string {
	stats := m.sim.Statistics()
	sys := m.sim.System()
	var b strings.Builder

	line := func(label, value string) {
		b.WriteString(dim.Render(fmt.Sprintf("%-12s", label)) + white.Render(value) + "\n")
	}

	e := sys.Energy()
	line("θ₁ ω₁", fmt.Sprintf("%6.2f %6.2f", sys.State.Theta1, sys.State.Omega1))
	line("θ₂ ω₂", fmt.Sprintf("%6.2f %6.2f", sys.State.Theta2, sys.State.Omega2))
	b.WriteString("\n")
	line("total", fmt.Sprintf("%9.4f J", e.Total))
	b.WriteString(dim.Render(fmt.Sprintf("%-12s", "kinetic")) + green.Render(fmt.Sprintf("%9.4f J", e.Kinetic)) + "\n")
	b.WriteString(dim.Render(fmt.Sprintf("%-12s", "potential")) + yellow.Render(fmt.Sprintf("%9.4f J", e.Potential)) + "\n")

	if lo, ok := stats.MinTotalEnergy(); ok {
		hi, _ := stats.MaxTotalEnergy()
		line("range", fmt.Sprintf("%.4f", hi-lo))
	}
	if sd, ok := stats.EnergyConservation(); ok {
		line("σ(E)", fmt.Sprintf("%.2e", sd))
	}
	line("step error", fmt.Sprintf("%.2e", m.sim.LastEnergyError()))
	b.WriteString("\n")

	if m.hasPer {
		line("period", fmt.Sprintf("%d samples", m.period))
	} else {
		line("period", "none")
	}
	if m.hasLy {
		style := green
		if m.lyap > 0 {
			style = magenta
		}
		b.WriteString(dim.Render(fmt.Sprintf("%-12s", "lyapunov")) + style.Render(fmt.Sprintf("%+.4f", m.lyap)) + "\n")
	} else {
		line("lyapunov", "…")
	}
	line("samples", fmt.Sprintf("%d/%d", stats.Len(), stats.Capacity()))

	history := stats.EnergyHistory()
	if len(history) > 1 {
		totals := make([]float64, len(history))
		for i, h := range history {
			totals[i] = h.Total
		}
		b.WriteString("\n" + dim.Render("E ") + cyan.Render(sparkline(totals, 20)) + "\n")
	}

	return b.String()
}

// drawDoublePendulum maps physical coordinates (y up) to the canvas.
// Columns are scaled twice as wide to offset the character aspect ratio.
func (m Model) drawDoublePendulum(canvas [][]rune, w, h int) {
	sys := m.sim.System()
	reach := sys.Params.L1 + sys.Params.L2
	scale := float64(h) * 0.45 / reach
	px, py := w/2, h/2

	toScreen := func(x, y float64) (int, int) {
		return px + int(math.Round(2*scale*x)), py - int(math.Round(scale*y))
	}

	maxVel := 0.0
	m.trail.Do(func(pt trailPoint) { maxVel = math.Max(maxVel, pt.velocity) })
	m.trail.Do(func(pt trailPoint) {
		tx, ty := toScreen(pt.x, pt.y)
		set(canvas, tx, ty, trailChar(pt.velocity, maxVel), w, h)
	})

	pos := sys.Positions()
	b1x, b1y := toScreen(pos.X1, pos.Y1)
	b2x, b2y := toScreen(pos.X2, pos.Y2)

	drawLine(canvas, w, h, px, py, b1x, b1y, '·')
	drawLine(canvas, w, h, b1x, b1y, b2x, b2y, '·')
	set(canvas, px, py, '┼', w, h)
	set(canvas, b1x, b1y, 'o', w, h)
	set(canvas, b2x, b2y, '●', w, h)
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := max(len(data)/width, 1)

	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		sb.WriteRune(chars[min(max(idx, 0), 7)])
	}
	return sb.String()
}

func trailChar(velocity, maxVel float64) rune {
	if maxVel == 0 {
		return '·'
	}
	ratio := velocity / maxVel
	switch {
	case ratio < 0.25:
		return '·'
	case ratio < 0.5:
		return '∘'
	case ratio < 0.75:
		return '○'
	}
	return '●'
}

func set(canvas [][]rune, x, y int, c rune, w, h int) {
	if x >= 0 && x < w && y >= 0 && y < h {
		canvas[y][x] = c
	}
}

func drawLine(canvas [][]rune, w, h, x1, y1, x2, y2 int, c rune) {
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		set(canvas, x1, y1, c, w, h)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Run opens the live view on the alternate screen and blocks until quit.
func Run(cfg *config.Config, log *logrus.Logger) error {
	p := tea.NewProgram(NewModel(cfg, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
