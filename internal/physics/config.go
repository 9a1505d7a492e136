package physics

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// Config holds the world-wide solver parameters.
type Config struct {
	Gravity          mgl64.Vec3
	SolverIterations int
	Restitution      float64
	Friction         float64
	FixedTimestep    float64
	MaxSubsteps      int
	GroundHeight     float64
	GroundEnabled    bool
}

func DefaultConfig() Config {
	return Config{
		Gravity:          mgl64.Vec3{0, 0, -9.81},
		SolverIterations: 10,
		Restitution:      0.3,
		Friction:         0.5,
		FixedTimestep:    1.0 / 60.0,
		MaxSubsteps:      8,
		GroundHeight:     0,
		GroundEnabled:    true,
	}
}

func (c Config) Validate() error {
	if c.FixedTimestep <= 0 {
		return fmt.Errorf("%w: got %f", ErrInvalidTimestep, c.FixedTimestep)
	}
	if c.MaxSubsteps <= 0 {
		return fmt.Errorf("max substeps must be positive, got %d", c.MaxSubsteps)
	}
	if c.SolverIterations < 0 {
		return fmt.Errorf("solver iterations must be non-negative, got %d", c.SolverIterations)
	}
	return nil
}

type Option func(*World)

// WithLogger routes solver diagnostics to logger. The default discards them.
func WithLogger(logger *log.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
