package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/springlab/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	if c.Grid[0][0] == 0x2800 {
		t.Error("pixel (0,0) not set")
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(100, 100)

	c.Clear()
	if c.Grid[0][0] != 0x2800 {
		t.Error("clear did not reset cell")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	out := c.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) != 3 {
			t.Errorf("line width = %d runes, want 3", len([]rune(line)))
		}
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 19, 39)

	if c.Grid[0][0] == 0x2800 {
		t.Error("line start not set")
	}
	if c.Grid[9][9] == 0x2800 {
		t.Error("line end not set")
	}
}

func TestCanvasRendererFrame(t *testing.T) {
	b := sim.NewBuilder()
	b.AddParticle(sim.Vec3{}, sim.Vec3{}, 0)
	b.AddParticle(sim.Vec3{Y: -1}, sim.Vec3{}, 1)
	b.AddSpring(0, 1, 100, 0, sim.SpringPassive)
	m, err := b.Finalize("cpu")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	var buf strings.Builder
	r := NewCanvasRenderer(m, &buf, 20, 10)

	s := m.State()
	r.BeginFrame(0.5)
	r.Render(s)
	r.EndFrame()

	out := buf.String()
	if !strings.Contains(out, "t=0.500") {
		t.Errorf("frame missing timestamp: %q", out[:min(len(out), 40)])
	}
	if !strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) {
		t.Error("frame drew no pixels")
	}
}
