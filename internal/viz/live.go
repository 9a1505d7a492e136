package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 120

	// ImpulseSpeed is the velocity change an arrow key gives the selected body.
	ImpulseSpeed = 2.0
	// ThrustFactor scales the selected body's weight into upward thrust.
	ThrustFactor = 2.0
)

type TickMsg time.Time

// Model is the live view of a world built from a scene config.
type Model struct {
	cfg       *config.Config
	logger    *log.Logger
	observers []sim.Observer

	world   *physics.World
	proj    Projection
	canvas  *Canvas
	frameDt float64
	frame   int

	running  bool
	thrust   bool
	showHelp bool
	selected int

	lastSubsteps  int
	energyHistory []float64
	speedHistory  []float64
	trail         []mgl64.Vec3
}

// NewModel builds the scene and frames it on the canvas. Observers receive
// every frame the model steps.
func NewModel(cfg *config.Config, logger *log.Logger, observers ...sim.Observer) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		cfg:       cfg,
		logger:    logger,
		observers: observers,
		canvas:    NewCanvas(width, height),
		frameDt:   cfg.Run.FrameDt,
		running:   true,
	}
	if m.frameDt <= 0 {
		m.frameDt = config.DefaultFrameDt
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) World() *physics.World { return m.world }

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.frameDt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.logger.Error("reset failed", "err", err)
			}
		case "tab":
			m.cycleBody()
		case ".":
			if !m.running {
				m.step()
			}
		case "left", "h":
			m.kick(mgl64.Vec3{-1, 0, 0})
		case "right", "l":
			m.kick(mgl64.Vec3{1, 0, 0})
		case "up", "k":
			m.kick(mgl64.Vec3{0, 0, 1})
		case "down", "j":
			m.kick(mgl64.Vec3{0, 0, -1})
		case "f":
			m.thrust = !m.thrust
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := min(max(msg.Width-52, 20), 120)
		h := min(max(msg.Height-4, 8), 60)
		if w != m.canvas.Width || h != m.canvas.Height {
			m.canvas = NewCanvas(w, h)
			pw, ph := m.canvas.PixelSize()
			m.proj = FitProjection(m.world, pw, ph)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// reset rebuilds the world from the scene config.
func (m *Model) reset() error {
	w, err := scene.Build(m.cfg, m.logger)
	if err != nil {
		return err
	}
	m.world = w
	pw, ph := m.canvas.PixelSize()
	m.proj = FitProjection(w, pw, ph)
	m.frame = 0
	m.lastSubsteps = 0
	m.thrust = false
	m.energyHistory = m.energyHistory[:0]
	m.speedHistory = m.speedHistory[:0]
	m.trail = m.trail[:0]
	m.selected = 0
	if len(m.dynamicBodies()) == 0 {
		m.selected = -1
	}
	return nil
}

func (m *Model) dynamicBodies() []*physics.RigidBody {
	var out []*physics.RigidBody
	for _, b := range m.world.Bodies() {
		if !b.IsStatic() {
			out = append(out, b)
		}
	}
	return out
}

// Selected returns the body receiving keyboard input, or nil when the scene
// has no dynamic bodies.
func (m *Model) Selected() *physics.RigidBody {
	bodies := m.dynamicBodies()
	if m.selected < 0 || m.selected >= len(bodies) {
		return nil
	}
	return bodies[m.selected]
}

func (m *Model) cycleBody() {
	n := len(m.dynamicBodies())
	if n == 0 {
		return
	}
	m.selected = (m.selected + 1) % n
	m.trail = m.trail[:0]
	m.speedHistory = m.speedHistory[:0]
}

// kick gives the selected body an ImpulseSpeed velocity change along dir.
func (m *Model) kick(dir mgl64.Vec3) {
	b := m.Selected()
	if b == nil {
		return
	}
	mass := b.Inertia().Mass
	b.ApplyImpulse(dir.Mul(ImpulseSpeed*mass), b.CenterOfMass())
}

// step advances the world by one frame.
func (m *Model) step() {
	if b := m.Selected(); b != nil && m.thrust {
		g := m.world.Config().Gravity
		b.ApplyImpulse(g.Mul(-ThrustFactor*b.Inertia().Mass*m.frameDt), b.CenterOfMass())
	}

	m.lastSubsteps = m.world.Step(m.frameDt)
	m.frame++

	m.energyHistory = appendCapped(m.energyHistory, metrics.TotalEnergy(m.world), historyCapacity)
	if b := m.Selected(); b != nil {
		m.speedHistory = appendCapped(m.speedHistory, b.Velocity().Linear.Len(), historyCapacity)
		m.trail = append(m.trail, b.Pose().Position)
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[1:]
		}
	}

	if len(m.observers) > 0 {
		f := sim.Capture(m.world, m.frame, m.frameDt, m.lastSubsteps)
		for _, o := range m.observers {
			o.OnFrame(f)
		}
	}
}

func appendCapped(s []float64, v float64, capacity int) []float64 {
	s = append(s, v)
	if len(s) > capacity {
		s = s[1:]
	}
	return s
}

// View renders the TUI interface.
func (m Model) View() string {
	Render(m.canvas, m.proj, m.world)
	DrawTrail(m.canvas, m.proj, m.trail)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	name := m.cfg.Name
	if name == "" {
		name = "scene"
	}
	s.WriteString(HeaderStyle.Render(strings.ToUpper(name)) + "\n")
	switch {
	case !m.running:
		s.WriteString(StatusPaused.Render("PAUSED"))
	case m.thrust:
		s.WriteString(StatusRunning.Render("RUNNING + THRUST"))
	default:
		s.WriteString(StatusRunning.Render("RUNNING"))
	}
	s.WriteString("\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	energy := 0.0
	if n := len(m.energyHistory); n > 0 {
		energy = m.energyHistory[n-1]
	}
	maxSub := m.world.Config().MaxSubsteps
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.2fs", m.world.Time())) + "\n")
	s.WriteString(MetricLabel.Render("Energy") + MetricValue.Render(fmt.Sprintf("%.3f J", energy)) + "\n")
	s.WriteString(MetricLabel.Render("Contacts") + MetricValue.Render(fmt.Sprintf("%d", len(m.world.Contacts()))) + "\n")
	s.WriteString(MetricLabel.Render("Substeps") + ProgressBar(float64(m.lastSubsteps)/float64(maxSub), 10) +
		MetricValue.Render(fmt.Sprintf(" %d/%d", m.lastSubsteps, maxSub)) + "\n")

	s.WriteString("\nBODIES\n")
	sel := m.Selected()
	for _, b := range m.world.Bodies() {
		p := b.Pose().Position
		line := fmt.Sprintf("%-8s z=%6.2f |v|=%5.2f", truncate(b.Name(), 8), p.Z(), b.Velocity().Linear.Len())
		switch {
		case b == sel:
			s.WriteString(Selected.Render("> "+line) + "\n")
		case b.IsStatic():
			s.WriteString("  " + Subtle.Render(line) + "\n")
		default:
			s.WriteString("  " + MetricLabel.UnsetWidth().Render(line) + "\n")
		}
	}
	if sel != nil {
		s.WriteString("\n" + MetricLabel.Render("Speed") + Sparkline(m.speedHistory, 24) + "\n")
	}

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit ?:Help\nTab:Body ←→↑↓:Kick F:Thrust"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  .        - Step one frame (paused)  ║
║  R        - Rebuild the scene        ║
║  Tab      - Select next body         ║
║  ←/→      - Kick along x             ║
║  ↑/↓      - Kick along z             ║
║  F        - Toggle upward thrust     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Run opens the live view full screen and blocks until the user quits.
func Run(cfg *config.Config, logger *log.Logger, observers ...sim.Observer) error {
	m, err := NewModel(cfg, logger, observers...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
