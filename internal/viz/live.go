package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springlab/internal/metrics"
	"github.com/san-kum/springlab/internal/sim"
	"github.com/san-kum/springlab/internal/solver"
)

const (
	canvasWidth     = 70
	canvasHeight    = 20
	historyCapacity = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).MarginTop(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Live is a bubbletea view that steps a model in real time and draws
// it on a braille canvas. Pause is a property of this control loop:
// while paused the view simply skips stepping, the solver has no
// pause of its own.
type Live struct {
	model     *sim.Model
	slv       *solver.SemiImplicit
	renderer  *CanvasRenderer
	sceneName string

	in, out *sim.State

	dt            float64
	frameRate     int
	stepsPerFrame int

	paused        bool
	steps         int
	energyHistory []float64
}

func NewLive(m *sim.Model, sceneName string, dt float64, frameRate int) *Live {
	stepsPerFrame := int(1.0 / (float64(frameRate) * dt))
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	return &Live{
		model:         m,
		slv:           solver.NewSemiImplicit(),
		renderer:      NewCanvasRenderer(m, nil, canvasWidth, canvasHeight),
		sceneName:     sceneName,
		in:            m.State(),
		out:           m.State(),
		dt:            dt,
		frameRate:     frameRate,
		stepsPerFrame: stepsPerFrame,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (l *Live) Init() tea.Cmd {
	return l.tick()
}

func (l *Live) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(l.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.paused = !l.paused
		case "r":
			l.in = l.model.State()
			l.out = l.model.State()
			l.steps = 0
			l.energyHistory = l.energyHistory[:0]
		}
		return l, nil

	case TickMsg:
		if !l.paused {
			for i := 0; i < l.stepsPerFrame; i++ {
				if err := l.slv.Step(l.model, l.in, l.out, l.dt); err != nil {
					return l, tea.Quit
				}
				l.in, l.out = l.out, l.in
				l.steps++
			}

			l.energyHistory = append(l.energyHistory, metrics.Total(l.model, l.in))
			if len(l.energyHistory) > historyCapacity {
				l.energyHistory = l.energyHistory[1:]
			}
		}
		return l, l.tick()
	}

	return l, nil
}

func (l *Live) View() string {
	l.renderer.BeginFrame(l.in.Time)
	l.renderer.Render(l.in)
	l.renderer.EndFrame()

	header := headerStyle.Render(fmt.Sprintf("springlab live — %s", l.sceneName))

	stats := []string{
		statRow("time", fmt.Sprintf("%.3f s", l.in.Time)),
		statRow("steps", fmt.Sprintf("%d", l.steps)),
		statRow("dt", fmt.Sprintf("%g", l.dt)),
		statRow("particles", fmt.Sprintf("%d", l.model.ParticleCount)),
		statRow("springs", fmt.Sprintf("%d", l.model.SpringCount)),
		statRow("device", l.model.Device),
	}
	if l.paused {
		stats = append(stats, pausedStyle.Render("PAUSED"))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		l.renderer.lastFrame,
		statsStyle.Render(strings.Join(stats, "\n")),
	)

	var graph string
	if len(l.energyHistory) > 2 {
		graph = graphStyle.Render(asciigraph.Plot(l.energyHistory,
			asciigraph.Height(6),
			asciigraph.Width(canvasWidth),
			asciigraph.Caption("total energy"),
		))
	}

	help := helpStyle.Render("space pause · r reset · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, graph, help)
}

func statRow(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// RunLive starts the live view and blocks until the user quits.
func RunLive(m *sim.Model, sceneName string, dt float64, frameRate int) error {
	p := tea.NewProgram(NewLive(m, sceneName, dt, frameRate))
	_, err := p.Run()
	return err
}
