package scene

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestPresetsFinalize(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			sc, ok := Preset(name)
			if !ok {
				t.Fatalf("preset %q missing", name)
			}
			m, err := sc.Finalize()
			if err != nil {
				t.Fatalf("finalize failed: %v", err)
			}
			if m.ParticleCount == 0 {
				t.Error("preset has no particles")
			}
			if m.SpringCount == 0 {
				t.Error("preset has no springs")
			}
		})
	}
}

func TestChainPresetLayout(t *testing.T) {
	sc, _ := Preset("chain")
	m, err := sc.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if m.ParticleCount != 10 || m.SpringCount != 9 {
		t.Fatalf("chain has %d particles, %d springs", m.ParticleCount, m.SpringCount)
	}
	if m.ParticleMass[0] != 0 {
		t.Error("chain particle 0 should be an anchor")
	}
	for i := 1; i < 10; i++ {
		if m.ParticleMass[i] != 1 {
			t.Errorf("chain particle %d mass = %g, want 1", i, m.ParticleMass[i])
		}
	}

	want := []int{0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9}
	if !reflect.DeepEqual(m.SpringIndices, want) {
		t.Errorf("spring indices = %v, want %v", m.SpringIndices, want)
	}
}

func TestSceneRoundTrip(t *testing.T) {
	sc, _ := Preset("pendulum")
	rest := 0.25
	sc.Springs[0].Rest = &rest

	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := Save(path, sc); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != sc.Name || loaded.Dt != sc.Dt || loaded.Device != sc.Device {
		t.Errorf("run parameters changed: %+v", loaded)
	}
	if len(loaded.Particles) != len(sc.Particles) || len(loaded.Springs) != len(sc.Springs) {
		t.Fatalf("entity counts changed")
	}
	if loaded.Springs[0].Rest == nil || *loaded.Springs[0].Rest != rest {
		t.Error("explicit rest length lost in round trip")
	}

	m1, err := sc.Finalize()
	if err != nil {
		t.Fatalf("finalize original: %v", err)
	}
	m2, err := loaded.Finalize()
	if err != nil {
		t.Fatalf("finalize loaded: %v", err)
	}
	if !reflect.DeepEqual(m1.ParticleQ, m2.ParticleQ) ||
		!reflect.DeepEqual(m1.SpringRest, m2.SpringRest) {
		t.Error("round-tripped scene finalizes differently")
	}
}

func TestBadVectorLength(t *testing.T) {
	sc := Default()
	sc.Particles = []Particle{{Pos: []float64{1, 2}, Mass: 1}}

	if _, err := sc.Builder(); err == nil {
		t.Error("expected error for 2-component position")
	}
}

func TestDefaultGravityWhenOmitted(t *testing.T) {
	sc := Default()
	sc.Particles = []Particle{{Pos: []float64{0, 0, 0}, Mass: 1}}
	sc.Springs = nil

	b, err := sc.Builder()
	if err != nil {
		t.Fatalf("builder failed: %v", err)
	}
	m, err := b.Finalize("cpu")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if m.Gravity.Y != -9.81 {
		t.Errorf("gravity.y = %g, want -9.81", m.Gravity.Y)
	}
}
