package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDuration     = 5.0
	DefaultFrameDt      = 1.0 / 60.0
	DefaultFixedDt      = 1.0 / 60.0
	DefaultIterations   = 10
	DefaultMaxSubsteps  = 8
	DefaultRestitution  = 0.3
	DefaultFriction     = 0.5
	DefaultGravityZ     = -9.81
	DefaultGroundHeight = 0.0
)

const (
	ShapeSphere  = "sphere"
	ShapeBox     = "box"
	ShapeCapsule = "capsule"
	ShapeGround  = "ground"
)

var (
	ErrUnknownShape = errors.New("config: unknown shape")
	ErrInvalidBody  = errors.New("config: invalid body")
)

type Config struct {
	Name   string       `yaml:"name,omitempty"`
	World  WorldConfig  `yaml:"world"`
	Run    RunConfig    `yaml:"run"`
	Bodies []BodyConfig `yaml:"bodies"`
}

type WorldConfig struct {
	Gravity       [3]float64 `yaml:"gravity"`
	Iterations    int        `yaml:"iterations"`
	Restitution   float64    `yaml:"restitution"`
	Friction      float64    `yaml:"friction"`
	FixedDt       float64    `yaml:"fixed_dt"`
	MaxSubsteps   int        `yaml:"max_substeps"`
	GroundHeight  float64    `yaml:"ground_height"`
	GroundEnabled bool       `yaml:"ground_enabled"`
}

// RunConfig controls the frame loop. Jitter is the relative spread of each
// frame's duration around FrameDt, drawn from a Seed-ed source.
type RunConfig struct {
	Duration float64 `yaml:"duration"`
	FrameDt  float64 `yaml:"frame_dt"`
	Jitter   float64 `yaml:"jitter"`
	Seed     int64   `yaml:"seed"`
}

type MaterialConfig struct {
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

// BodyConfig describes one body. Orientation is roll, pitch and yaw in
// degrees. Size is the full box extent (or the slab extent for ground).
type BodyConfig struct {
	Name            string          `yaml:"name"`
	Shape           string          `yaml:"shape"`
	Size            [3]float64      `yaml:"size,omitempty"`
	Radius          float64         `yaml:"radius,omitempty"`
	Length          float64         `yaml:"length,omitempty"`
	Mass            float64         `yaml:"mass,omitempty"`
	Position        [3]float64      `yaml:"position"`
	Orientation     [3]float64      `yaml:"orientation,omitempty"`
	Velocity        [3]float64      `yaml:"velocity,omitempty"`
	AngularVelocity [3]float64      `yaml:"angular_velocity,omitempty"`
	Static          bool            `yaml:"static,omitempty"`
	Material        *MaterialConfig `yaml:"material,omitempty"`
}

func DefaultWorld() WorldConfig {
	return WorldConfig{
		Gravity:       [3]float64{0, 0, DefaultGravityZ},
		Iterations:    DefaultIterations,
		Restitution:   DefaultRestitution,
		Friction:      DefaultFriction,
		FixedDt:       DefaultFixedDt,
		MaxSubsteps:   DefaultMaxSubsteps,
		GroundHeight:  DefaultGroundHeight,
		GroundEnabled: true,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:  "drop",
		World: DefaultWorld(),
		Run: RunConfig{
			Duration: DefaultDuration,
			FrameDt:  DefaultFrameDt,
		},
		Bodies: []BodyConfig{
			{Name: "ball", Shape: ShapeSphere, Radius: 0.5, Mass: 1, Position: [3]float64{0, 0, 5}},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML scene over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Run.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Run.Duration)
	}
	if c.Run.FrameDt <= 0 {
		return fmt.Errorf("frame_dt must be positive, got %f", c.Run.FrameDt)
	}
	if c.Run.Jitter < 0 || c.Run.Jitter >= 1 {
		return fmt.Errorf("jitter must be in [0, 1), got %f", c.Run.Jitter)
	}
	if c.World.FixedDt <= 0 {
		return fmt.Errorf("fixed_dt must be positive, got %f", c.World.FixedDt)
	}
	if c.World.MaxSubsteps <= 0 {
		return fmt.Errorf("max_substeps must be positive, got %d", c.World.MaxSubsteps)
	}
	if c.World.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", c.World.Iterations)
	}
	for i := range c.Bodies {
		if err := c.Bodies[i].Validate(); err != nil {
			return fmt.Errorf("body %d (%s): %w", i, c.Bodies[i].Name, err)
		}
	}
	return nil
}

func (b *BodyConfig) Validate() error {
	switch b.Shape {
	case ShapeSphere:
		if b.Radius <= 0 {
			return fmt.Errorf("%w: radius must be positive", ErrInvalidBody)
		}
	case ShapeBox:
		for _, s := range b.Size {
			if s <= 0 {
				return fmt.Errorf("%w: size must be positive, got %v", ErrInvalidBody, b.Size)
			}
		}
	case ShapeCapsule:
		if b.Radius <= 0 || b.Length < 0 {
			return fmt.Errorf("%w: capsule needs radius > 0 and length >= 0", ErrInvalidBody)
		}
	case ShapeGround:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownShape, b.Shape)
	}
	if !b.Static && b.Mass <= 0 {
		return fmt.Errorf("%w: dynamic body needs positive mass, got %f", ErrInvalidBody, b.Mass)
	}
	if m := b.Material; m != nil && (m.Restitution < 0 || m.Friction < 0) {
		return fmt.Errorf("%w: material coefficients must be non-negative", ErrInvalidBody)
	}
	return nil
}
