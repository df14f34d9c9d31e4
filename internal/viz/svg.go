package viz

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/springlab/internal/sim"
)

// SVGRenderer implements the frame-loop contract for offline output:
// it keeps the last observed frame plus per-particle trails, and Save
// writes a single SVG snapshot.
type SVGRenderer struct {
	model *sim.Model
	path  string

	width, height          float64
	minX, maxX, minY, maxY float64

	last   *sim.State
	trails [][]sim.Vec3
}

func NewSVGRenderer(m *sim.Model, path string) *SVGRenderer {
	r := &SVGRenderer{
		model:  m,
		path:   path,
		width:  800,
		height: 600,
		trails: make([][]sim.Vec3, m.ParticleCount),
	}
	r.minX, r.maxX = -1, 1
	r.minY, r.maxY = -1, 1
	return r
}

func (r *SVGRenderer) BeginFrame(simTime float64) {}

func (r *SVGRenderer) Render(s *sim.State) {
	r.last = s.Clone()
	for i := 0; i < r.model.ParticleCount; i++ {
		p := s.Position(i)
		r.trails[i] = append(r.trails[i], p)
		r.minX = min(r.minX, p.X)
		r.maxX = max(r.maxX, p.X)
		r.minY = min(r.minY, p.Y)
		r.maxY = max(r.maxY, p.Y)
	}
}

func (r *SVGRenderer) EndFrame() {}

func (r *SVGRenderer) Save() error {
	if r.last == nil {
		return fmt.Errorf("viz: no frame rendered")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, r.width, r.height, r.width, r.height))

	// faint trails first, scene on top
	sb.WriteString(`<g stroke="#1f6f45" stroke-width="1" fill="none">` + "\n")
	for _, trail := range r.trails {
		if len(trail) < 2 {
			continue
		}
		sb.WriteString(`<polyline points="`)
		for _, p := range trail {
			x, y := r.project(p)
			sb.WriteString(fmt.Sprintf("%.1f,%.1f ", x, y))
		}
		sb.WriteString(`"/>` + "\n")
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g stroke="#00ff00" stroke-width="2">` + "\n")
	for k := 0; k < r.model.SpringCount; k++ {
		i := r.model.SpringIndices[k*2]
		j := r.model.SpringIndices[k*2+1]
		x0, y0 := r.project(r.last.Position(i))
		x1, y1 := r.project(r.last.Position(j))
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y0, x1, y1))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#00ff00">` + "\n")
	for i := 0; i < r.model.ParticleCount; i++ {
		x, y := r.project(r.last.Position(i))
		radius := 3.0
		if r.model.ParticleMass[i] == 0 {
			radius = 5.0 // anchors drawn larger
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", x, y, radius))
	}
	sb.WriteString("</g>\n</svg>\n")

	return os.WriteFile(r.path, []byte(sb.String()), 0644)
}

func (r *SVGRenderer) project(p sim.Vec3) (float64, float64) {
	pad := 40.0
	sx := (r.width - 2*pad) / (r.maxX - r.minX)
	sy := (r.height - 2*pad) / (r.maxY - r.minY)
	return pad + (p.X-r.minX)*sx, pad + (r.maxY-p.Y)*sy
}
