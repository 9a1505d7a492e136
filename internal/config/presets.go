package config

import "sort"

func run(duration float64) RunConfig {
	return RunConfig{Duration: duration, FrameDt: DefaultFrameDt}
}

var Presets = map[string]*Config{
	"drop": {
		Name: "drop", World: DefaultWorld(), Run: run(5),
		Bodies: []BodyConfig{
			{Name: "ball", Shape: ShapeSphere, Radius: 0.5, Mass: 1, Position: [3]float64{0, 0, 5}},
		},
	},
	"resting": {
		Name: "resting", World: DefaultWorld(), Run: run(3),
		Bodies: []BodyConfig{
			{Name: "crate", Shape: ShapeBox, Size: [3]float64{1, 1, 1}, Mass: 1, Position: [3]float64{0, 0, 0.5},
				Material: &MaterialConfig{Restitution: 0, Friction: 0.5}},
		},
	},
	"collision": {
		Name: "collision",
		World: WorldConfig{
			Iterations: DefaultIterations, Restitution: 1, Friction: DefaultFriction,
			FixedDt: DefaultFixedDt, MaxSubsteps: DefaultMaxSubsteps,
		},
		Run: run(4),
		Bodies: []BodyConfig{
			{Name: "left", Shape: ShapeSphere, Radius: 0.5, Mass: 1, Position: [3]float64{-3, 0, 0}, Velocity: [3]float64{2, 0, 0}},
			{Name: "right", Shape: ShapeSphere, Radius: 0.5, Mass: 1, Position: [3]float64{3, 0, 0}, Velocity: [3]float64{-2, 0, 0}},
		},
	},
	"stack": {
		Name: "stack", World: DefaultWorld(), Run: run(6),
		Bodies: []BodyConfig{
			{Name: "floor", Shape: ShapeGround, Size: [3]float64{20, 20, 1}},
			{Name: "base", Shape: ShapeSphere, Radius: 0.5, Mass: 3, Position: [3]float64{0, 0, 0.5}},
			{Name: "middle", Shape: ShapeSphere, Radius: 0.4, Mass: 2, Position: [3]float64{0, 0, 1.5}},
			{Name: "top", Shape: ShapeSphere, Radius: 0.3, Mass: 1, Position: [3]float64{0.05, 0, 2.4}},
		},
	},
	"spin": {
		Name: "spin",
		World: WorldConfig{
			Iterations: DefaultIterations, Restitution: DefaultRestitution, Friction: DefaultFriction,
			FixedDt: DefaultFixedDt, MaxSubsteps: DefaultMaxSubsteps,
		},
		Run: run(10),
		Bodies: []BodyConfig{
			{Name: "brick", Shape: ShapeBox, Size: [3]float64{1, 2, 3}, Mass: 1, Position: [3]float64{0, 0, 5},
				AngularVelocity: [3]float64{0.1, 4, 0.1}},
		},
	},
	"mixed": {
		Name: "mixed", World: DefaultWorld(), Run: run(8),
		Bodies: []BodyConfig{
			{Name: "table", Shape: ShapeBox, Size: [3]float64{4, 4, 0.5}, Static: true, Position: [3]float64{0, 0, 1}},
			{Name: "ball", Shape: ShapeSphere, Radius: 0.4, Mass: 1, Position: [3]float64{0.3, 0, 4},
				Material: &MaterialConfig{Restitution: 0.7, Friction: 0.4}},
			{Name: "pill", Shape: ShapeCapsule, Radius: 0.25, Length: 1, Mass: 1, Position: [3]float64{-1, 0.5, 3},
				Orientation: [3]float64{90, 0, 0}},
			{Name: "crate", Shape: ShapeBox, Size: [3]float64{0.8, 0.8, 0.8}, Mass: 2, Position: [3]float64{3, 0, 2},
				Orientation: [3]float64{0, 20, 30}, AngularVelocity: [3]float64{0, 0, 1}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bodies = make([]BodyConfig, len(p.Bodies))
	copy(cfg.Bodies, p.Bodies)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
