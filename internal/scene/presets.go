package scene

import "sort"

// Presets are ready-made scenes for the CLI. Each call returns a fresh
// Scene so callers can mutate the result.
var presets = map[string]func() *Scene{
	"pendulum": pendulumScene,
	"chain":    chainScene,
	"rope":     ropeScene,
	"cloth":    clothScene,
}

func Preset(name string) (*Scene, bool) {
	fn, ok := presets[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// pendulumScene is a single bob on a stiff spring below an anchor.
func pendulumScene() *Scene {
	sc := Default()
	sc.Name = "pendulum"
	sc.Particles = []Particle{
		{Pos: []float64{0, 0, 0}, Mass: 0},
		{Pos: []float64{0.5, -0.5, 0}, Mass: 1},
	}
	sc.Springs = []Spring{
		{I: 0, J: 1, Stiffness: 5000, Damping: 1},
	}
	return sc
}

// chainScene is a horizontal chain of ten unit masses hanging from a
// single anchor at the origin.
func chainScene() *Scene {
	sc := Default()
	sc.Name = "chain"

	const n = 10
	for i := 0; i < n; i++ {
		mass := 1.0
		if i == 0 {
			mass = 0
		}
		sc.Particles = append(sc.Particles, Particle{
			Pos:  []float64{float64(i) * 0.1, 0, 0},
			Mass: mass,
		})
	}
	for i := 0; i < n-1; i++ {
		sc.Springs = append(sc.Springs, Spring{
			I: i, J: i + 1, Stiffness: 1000, Damping: 0.5,
		})
	}
	return sc
}

// ropeScene is a vertical rope of twenty segments, lightly damped.
func ropeScene() *Scene {
	sc := Default()
	sc.Name = "rope"
	sc.Dt = 0.0005

	const n = 20
	for i := 0; i < n; i++ {
		mass := 0.1
		if i == 0 {
			mass = 0
		}
		sc.Particles = append(sc.Particles, Particle{
			Pos:  []float64{0, -float64(i) * 0.05, 0},
			Mass: mass,
		})
	}
	for i := 0; i < n-1; i++ {
		sc.Springs = append(sc.Springs, Spring{
			I: i, J: i + 1, Stiffness: 3000, Damping: 2,
		})
	}
	return sc
}

// clothScene is a square grid pinned at its two top corners, with
// structural and shear springs.
func clothScene() *Scene {
	sc := Default()
	sc.Name = "cloth"
	sc.Dt = 0.0005

	const dim = 8
	const spacing = 0.1

	at := func(x, y int) int { return y*dim + x }

	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			mass := 0.05
			if y == 0 && (x == 0 || x == dim-1) {
				mass = 0 // pinned corners
			}
			sc.Particles = append(sc.Particles, Particle{
				Pos:  []float64{float64(x) * spacing, -float64(y) * spacing, 0},
				Mass: mass,
			})
		}
	}

	add := func(i, j int, ke float64) {
		sc.Springs = append(sc.Springs, Spring{I: i, J: j, Stiffness: ke, Damping: 0.5})
	}
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if x+1 < dim {
				add(at(x, y), at(x+1, y), 2000) // structural
			}
			if y+1 < dim {
				add(at(x, y), at(x, y+1), 2000)
			}
			if x+1 < dim && y+1 < dim {
				add(at(x, y), at(x+1, y+1), 500) // shear
				add(at(x+1, y), at(x, y+1), 500)
			}
		}
	}
	return sc
}
