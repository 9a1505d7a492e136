package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/san-kum/rigidsim/internal/physics"
)

// Runner drives a world frame by frame, feeding metrics and observers.
type Runner struct {
	world     *physics.World
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

// New creates a runner for w. A nil logger discards output.
func New(w *physics.World, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (r *Runner) World() *physics.World { return r.world }

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(cfg.Duration/cfg.FrameDt + 0.5)
	result := &Result{Metrics: make(map[string]float64)}
	if cfg.KeepFrames {
		result.Frames = make([]Frame, 0, frames+1)
		result.Frames = append(result.Frames, Capture(r.world, 0, 0, 0))
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	err := r.loop(ctx, cfg, frames, func(f Frame) bool {
		if cfg.KeepFrames {
			result.Frames = append(result.Frames, f)
		}
		result.StepsTaken++
		return true
	})

	result.Substeps = r.world.Substeps()
	result.SimTime = r.world.Time()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	r.logger.Debug("run finished", "frames", result.StepsTaken, "substeps", result.Substeps, "time", result.SimTime)
	return result, err
}

// RunWithCallback runs like Run without collecting frames; returning false
// from callback stops the run early.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	for _, m := range r.metrics {
		m.Reset()
	}
	frames := int(cfg.Duration/cfg.FrameDt + 0.5)
	return r.loop(ctx, cfg, frames, callback)
}

func (r *Runner) loop(ctx context.Context, cfg Config, frames int, callback func(Frame) bool) error {
	rng := rand.New(rand.NewSource(cfg.Seed))

	for i := 1; i <= frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		dt := FrameDuration(cfg, rng)
		n := r.world.Step(dt)
		f := Capture(r.world, i, dt, n)

		if cfg.ValidateState {
			for _, b := range f.Bodies {
				if !b.IsValid() {
					return &StepError{Frame: i, Time: f.Time, Body: b.ID, Err: ErrNonFinite}
				}
			}
		}

		for _, m := range r.metrics {
			m.Observe(r.world, f)
		}
		for _, obs := range r.observers {
			obs.OnFrame(f)
		}
		if !callback(f) {
			return nil
		}
	}
	return nil
}

// FrameDuration draws the next frame length: FrameDt, spread uniformly by
// ±Jitter·FrameDt when Jitter is set.
func FrameDuration(cfg Config, rng *rand.Rand) float64 {
	if cfg.Jitter <= 0 {
		return cfg.FrameDt
	}
	return cfg.FrameDt * (1 + cfg.Jitter*(2*rng.Float64()-1))
}

func validateConfig(cfg Config) error {
	if cfg.FrameDt <= 0 {
		return fmt.Errorf("%w: frame_dt %f", ErrInvalidFrame, cfg.FrameDt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration %f", ErrInvalidFrame, cfg.Duration)
	}
	if cfg.Jitter < 0 || cfg.Jitter >= 1 {
		return fmt.Errorf("jitter must be in [0, 1), got %f", cfg.Jitter)
	}
	return nil
}
