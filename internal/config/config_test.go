package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Run.FrameDt <= 0 {
		t.Error("frame_dt should be positive")
	}
	if cfg.Run.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if !cfg.World.GroundEnabled {
		t.Error("ground should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("resting")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 1 || cfg.Bodies[0].Shape != ShapeBox {
		t.Errorf("expected one box, got %+v", cfg.Bodies)
	}

	cfg.Bodies[0].Mass = 99
	if Presets["resting"].Bodies[0].Mass == 99 {
		t.Error("GetPreset should not alias the preset bodies")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresetsSorted(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("got %d names, want %d", len(names), len(Presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("not sorted: %v", names)
		}
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
name: ramp
world:
  friction: 0.8
run:
  duration: 2
  jitter: 0.1
  seed: 7
bodies:
  - name: ball
    shape: sphere
    radius: 0.25
    mass: 2
    position: [0, 0, 3]
    material:
      restitution: 0.9
      friction: 0.2
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.World.Friction != 0.8 {
		t.Errorf("friction = %v, want 0.8", cfg.World.Friction)
	}
	if cfg.World.FixedDt != DefaultFixedDt {
		t.Errorf("fixed_dt = %v, want default", cfg.World.FixedDt)
	}
	if cfg.Run.FrameDt != DefaultFrameDt {
		t.Errorf("frame_dt = %v, want default", cfg.Run.FrameDt)
	}
	if cfg.Run.Seed != 7 || cfg.Run.Jitter != 0.1 {
		t.Errorf("run = %+v", cfg.Run)
	}
	if len(cfg.Bodies) != 1 {
		t.Fatalf("bodies = %d, want 1", len(cfg.Bodies))
	}
	b := cfg.Bodies[0]
	if b.Position != [3]float64{0, 0, 3} || b.Material == nil || b.Material.Restitution != 0.9 {
		t.Errorf("body = %+v", b)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		body BodyConfig
		want error
	}{
		{"unknown shape", BodyConfig{Shape: "cone", Mass: 1}, ErrUnknownShape},
		{"zero radius", BodyConfig{Shape: ShapeSphere, Mass: 1}, ErrInvalidBody},
		{"flat box", BodyConfig{Shape: ShapeBox, Size: [3]float64{1, 0, 1}, Mass: 1}, ErrInvalidBody},
		{"massless dynamic", BodyConfig{Shape: ShapeSphere, Radius: 1}, ErrInvalidBody},
		{"negative friction", BodyConfig{Shape: ShapeSphere, Radius: 1, Mass: 1, Material: &MaterialConfig{Friction: -1}}, ErrInvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Bodies = []BodyConfig{tt.body}
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	if err := (&BodyConfig{Shape: ShapeBox, Size: [3]float64{1, 1, 1}, Static: true}).Validate(); err != nil {
		t.Errorf("massless static box should be valid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	want := GetPreset("mixed")
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Bodies) != len(want.Bodies) {
		t.Fatalf("bodies = %d, want %d", len(got.Bodies), len(want.Bodies))
	}
	for i := range want.Bodies {
		if got.Bodies[i].Name != want.Bodies[i].Name || got.Bodies[i].Static != want.Bodies[i].Static {
			t.Errorf("body %d = %+v, want %+v", i, got.Bodies[i], want.Bodies[i])
		}
	}
}
