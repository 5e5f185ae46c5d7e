package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600
	tickRate        = time.Second / 60
	gifPath         = "clothsim.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives one scene from the bubbletea update loop: every tick advances
// one fixed frame and redraws the cloth as a braille wireframe.
type Model struct {
	cfg      *config.Config
	scene    *sim.Scene
	theme    Theme
	styles   styles
	canvas   *Canvas
	camera   *Camera
	wire     *Wireframe
	edges    [][2]int
	stretch  *metrics.Stretch
	running  bool
	err      error
	status   string
	heights  []float64
	energy   []float64
	strains  []float64
	frames   []*image.Paletted
	record   bool
	showHelp bool
}

func NewModel(cfg *config.Config, theme string) (Model, error) {
	m := Model{
		cfg:     cfg,
		theme:   GetTheme(theme),
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(),
		wire:    NewWireframe(),
		running: true,
		heights: make([]float64, 0, historyCapacity),
		energy:  make([]float64, 0, historyCapacity),
		strains: make([]float64, 0, historyCapacity),
	}
	m.styles = newStyles(m.theme)
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case ".":
			if !m.running && m.err == nil {
				m.advance()
			}
		case "r":
			if err := m.reset(); err != nil {
				m.fail(err)
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// reset rebuilds the scene from the configuration.
func (m *Model) reset() error {
	scene, err := sim.NewDefaultScene(m.cfg)
	if err != nil {
		return err
	}
	m.scene = scene
	m.edges = MeshEdges(scene.Buffer().Triangles())
	m.stretch = metrics.NewStretch(scene.Links())
	m.heights = m.heights[:0]
	m.energy = m.energy[:0]
	m.strains = m.strains[:0]
	m.err = nil
	m.status = ""
	m.running = true
	return m.scene.Render(m)
}

// advance steps the scene one frame, records history and redraws.
func (m *Model) advance() {
	t := float64(m.scene.FrameCount()+1) * m.scene.Dt()
	if err := m.scene.Frame(t); err != nil {
		m.fail(err)
		return
	}

	f := m.scene.Snapshot()
	m.stretch.Reset()
	m.stretch.Observe(f)
	m.heights = pushHistory(m.heights, m.scene.Grid().MeanHeight())
	m.energy = pushHistory(m.energy, metrics.SystemEnergy(f.Bodies, m.cfg.GravityVec()))
	m.strains = pushHistory(m.strains, m.stretch.Value())

	if err := m.scene.Render(m); err != nil {
		m.fail(err)
	}
}

func (m *Model) fail(err error) {
	m.err = err
	m.running = false
}

func pushHistory(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

// Render draws a frame to the canvas and, while recording, captures it.
func (m *Model) Render(f dynamo.Frame) error {
	m.canvas.Clear()
	ClothWireframe(m.wire, f, m.edges)
	Render3D(m.canvas, m.wire, m.camera)
	if m.record {
		m.captureFrame()
	}
	return nil
}

func (m *Model) toggleRecording() {
	if !m.record {
		m.record = true
		m.frames = m.frames[:0]
		m.status = "recording"
		return
	}
	m.record = false
	if err := m.saveGIF(gifPath); err != nil {
		m.status = "gif: " + err.Error()
	} else if len(m.frames) > 0 {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
	}
	m.frames = nil
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper("cloth · "+m.cfg.Name)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.failed.Render("FAILED") + "\n" + st.value.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mean height"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.scene.Time()))
	row("Frame", fmt.Sprintf("%d", m.scene.FrameCount()))
	row("Grid", fmt.Sprintf("%dx%d", m.cfg.Cloth.Nx, m.cfg.Cloth.Ny))
	if n := len(m.energy); n > 0 {
		row("Energy", fmt.Sprintf("%.3f", m.energy[n-1]))
	}
	if n := len(m.strains); n > 0 {
		row("Stretch", fmt.Sprintf("%.2f%%", 100*m.strains[n-1]))
		s.WriteString(st.label.Render("") + st.Sparkline(m.strains, 30, 0, 0.2, 0.05, 0.1) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  .        - Single frame (paused)    ║
║  R        - Reset cloth              ║
║  Q        - Quit                     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// captureFrame rasterises the braille canvas, one 4x4 block per dot.
func (m *Model) captureFrame() {
	const dot = 4
	img := image.NewPaletted(
		image.Rect(0, 0, m.canvas.PixelWidth()*dot, m.canvas.PixelHeight()*dot),
		color.Palette{color.Black, color.White},
	)
	for y := 0; y < m.canvas.PixelHeight(); y++ {
		for x := 0; x < m.canvas.PixelWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.SetColorIndex(x*dot+px, y*dot+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// RunLive runs the live view until the user quits. A simulation failure is
// returned after the program exits.
func RunLive(cfg *config.Config, theme string) error {
	m, err := NewModel(cfg, theme)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
