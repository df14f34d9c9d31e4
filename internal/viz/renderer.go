package viz

import (
	"fmt"
	"io"
	"os"

	"github.com/san-kum/springlab/internal/sim"
)

// Renderer is the frame-loop contract for external consumers of
// simulation states. BeginFrame and EndFrame bracket observation of a
// State and must not mutate physical quantities; the stepping loop
// guarantees the State is stable between them. Save persists whatever
// the renderer accumulated.
type Renderer interface {
	BeginFrame(simTime float64)
	Render(s *sim.State)
	EndFrame()
	Save() error
}

// Null discards every frame.
type Null struct{}

func (Null) BeginFrame(float64) {}
func (Null) Render(*sim.State)  {}
func (Null) EndFrame()          {}
func (Null) Save() error        { return nil }

// CanvasRenderer draws particles and springs of one model onto a
// braille canvas and writes each finished frame to an io.Writer.
type CanvasRenderer struct {
	model  *sim.Model
	canvas *Canvas
	out    io.Writer

	// world window mapped onto the canvas
	minX, maxX, minY, maxY float64

	simTime   float64
	lastFrame string
	savePath  string
}

func NewCanvasRenderer(m *sim.Model, out io.Writer, w, h int) *CanvasRenderer {
	r := &CanvasRenderer{
		model:  m,
		canvas: NewCanvas(w, h),
		out:    out,
	}
	r.fitWindow()
	return r
}

// SetSavePath selects where Save writes the final frame.
func (r *CanvasRenderer) SetSavePath(path string) {
	r.savePath = path
}

// fitWindow sizes the world window to the initial particle extent with
// a margin, so the scene stays visible as it swings.
func (r *CanvasRenderer) fitWindow() {
	r.minX, r.maxX = -1, 1
	r.minY, r.maxY = -1, 1
	for i := 0; i < r.model.ParticleCount; i++ {
		x := r.model.ParticleQ[i*3]
		y := r.model.ParticleQ[i*3+1]
		r.minX = min(r.minX, x-0.5)
		r.maxX = max(r.maxX, x+0.5)
		r.minY = min(r.minY, y-1.5)
		r.maxY = max(r.maxY, y+0.5)
	}
}

func (r *CanvasRenderer) BeginFrame(simTime float64) {
	r.simTime = simTime
	r.canvas.Clear()
}

func (r *CanvasRenderer) Render(s *sim.State) {
	for k := 0; k < r.model.SpringCount; k++ {
		i := r.model.SpringIndices[k*2]
		j := r.model.SpringIndices[k*2+1]
		x0, y0 := r.project(s.Position(i))
		x1, y1 := r.project(s.Position(j))
		r.canvas.DrawLine(x0, y0, x1, y1)
	}
	for i := 0; i < r.model.ParticleCount; i++ {
		x, y := r.project(s.Position(i))
		r.canvas.Set(x, y)
	}
}

func (r *CanvasRenderer) EndFrame() {
	r.lastFrame = fmt.Sprintf("t=%.3f\n%s", r.simTime, r.canvas.String())
	if r.out != nil {
		fmt.Fprint(r.out, r.lastFrame)
	}
}

func (r *CanvasRenderer) Save() error {
	if r.savePath == "" {
		return nil
	}
	return os.WriteFile(r.savePath, []byte(r.lastFrame), 0644)
}

// project maps a world position onto canvas sub-pixel coordinates
// (x-y plane; z is dropped).
func (r *CanvasRenderer) project(p sim.Vec3) (int, int) {
	w := float64(r.canvas.Width * 2)
	h := float64(r.canvas.Height * 4)
	x := (p.X - r.minX) / (r.maxX - r.minX) * w
	y := (r.maxY - p.Y) / (r.maxY - r.minY) * h
	return int(x), int(y)
}
