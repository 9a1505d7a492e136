package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/physics"
)

var (
	// ErrInvalidFrame indicates a non-positive frame or run duration.
	ErrInvalidFrame = errors.New("sim: frame duration must be positive")

	// ErrNonFinite indicates a body pose or velocity became NaN or Inf.
	ErrNonFinite = errors.New("sim: non-finite body state")
)

// BodyState is a snapshot of one body at the end of a frame. Orientation is
// stored as w, x, y, z.
type BodyState struct {
	ID          physics.BodyID `json:"id"`
	Name        string         `json:"name"`
	Static      bool           `json:"static,omitempty"`
	Position    mgl64.Vec3     `json:"position"`
	Orientation [4]float64     `json:"orientation"`
	Linear      mgl64.Vec3     `json:"linear"`
	Angular     mgl64.Vec3     `json:"angular"`
}

func (b BodyState) Quat() mgl64.Quat {
	return mgl64.Quat{W: b.Orientation[0], V: mgl64.Vec3{b.Orientation[1], b.Orientation[2], b.Orientation[3]}}
}

// IsValid reports whether every component is finite.
func (b BodyState) IsValid() bool {
	for _, v := range [][3]float64{b.Position, b.Linear, b.Angular} {
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
	}
	for _, x := range b.Orientation {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

type Frame struct {
	Index    int         `json:"index"`
	Time     float64     `json:"time"`
	Dt       float64     `json:"dt"`
	Substeps int         `json:"substeps"`
	Contacts int         `json:"contacts"`
	Alpha    float64     `json:"alpha"`
	Bodies   []BodyState `json:"bodies"`
}

// Capture snapshots the world after a frame.
func Capture(w *physics.World, index int, dt float64, substeps int) Frame {
	bodies := w.Bodies()
	f := Frame{
		Index:    index,
		Time:     w.Time(),
		Dt:       dt,
		Substeps: substeps,
		Contacts: len(w.Contacts()),
		Alpha:    w.Alpha(),
		Bodies:   make([]BodyState, len(bodies)),
	}
	for i, b := range bodies {
		p, v := b.Pose(), b.Velocity()
		q := p.Orientation
		f.Bodies[i] = BodyState{
			ID:          b.ID(),
			Name:        b.Name(),
			Static:      b.IsStatic(),
			Position:    p.Position,
			Orientation: [4]float64{q.W, q.V.X(), q.V.Y(), q.V.Z()},
			Linear:      v.Linear,
			Angular:     v.Angular,
		}
	}
	return f
}

type Metric interface {
	Name() string
	Observe(w *physics.World, f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Config struct {
	Duration      float64
	FrameDt       float64
	Jitter        float64
	Seed          int64
	ValidateState bool
	KeepFrames    bool
}

func DefaultConfig() Config {
	return Config{
		Duration:      5.0,
		FrameDt:       1.0 / 60.0,
		ValidateState: true,
		KeepFrames:    true,
	}
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Substeps   uint64
	SimTime    float64
}

// StepError reports a failure with the frame it happened in.
type StepError struct {
	Frame int
	Time  float64
	Body  physics.BodyID
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f) body %d: %v", e.Frame, e.Time, e.Body, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
