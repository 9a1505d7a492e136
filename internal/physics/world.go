package physics

import (
	"errors"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/collide"
)

const (
	// CorrectionFactor is the fraction of penetration removed per substep.
	CorrectionFactor = 0.8

	// RayTolerance is the largest ray-to-surface distance counted as a hit.
	RayTolerance = 1e-3
)

// Up is the ground plane normal.
var Up = mgl64.Vec3{0, 0, 1}

// RayHit describes the nearest body struck by a ray.
type RayHit struct {
	Body     *RigidBody
	Point    mgl64.Vec3
	Distance float64
}

// World owns a set of bodies and advances them with a fixed timestep.
// A World is not safe for concurrent use.
type World struct {
	cfg         Config
	bodies      []*RigidBody
	nextID      BodyID
	accumulator float64
	time        float64
	substeps    uint64
	contacts    []Contact
	logger      *log.Logger
}

// NewWorld creates an empty world. An invalid FixedTimestep or MaxSubsteps is
// replaced by the default.
func NewWorld(cfg Config, opts ...Option) *World {
	def := DefaultConfig()
	if cfg.FixedTimestep <= 0 {
		cfg.FixedTimestep = def.FixedTimestep
	}
	if cfg.MaxSubsteps <= 0 {
		cfg.MaxSubsteps = def.MaxSubsteps
	}
	w := &World{cfg: cfg, logger: discardLogger()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Config() Config { return w.cfg }

// AddBody takes ownership of b and returns its handle.
func (w *World) AddBody(b *RigidBody) BodyID {
	w.nextID++
	b.id = w.nextID
	w.bodies = append(w.bodies, b)
	w.logger.Debug("body added", "id", b.id, "name", b.name, "static", b.static)
	return b.id
}

// RemoveBody deletes the body with the given handle.
func (w *World) RemoveBody(id BodyID) error {
	for i, b := range w.bodies {
		if b.id == id {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			w.contacts = nil
			return nil
		}
	}
	return ErrUnknownBody
}

func (w *World) Body(id BodyID) (*RigidBody, error) {
	for _, b := range w.bodies {
		if b.id == id {
			return b, nil
		}
	}
	return nil, ErrUnknownBody
}

// Bodies returns the bodies in insertion order. The slice is a copy; the
// bodies are not.
func (w *World) Bodies() []*RigidBody {
	out := make([]*RigidBody, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// Contacts returns the contacts solved during the most recent substep.
func (w *World) Contacts() []Contact {
	out := make([]Contact, len(w.contacts))
	copy(out, w.contacts)
	return out
}

func (w *World) SetGravity(g mgl64.Vec3) { w.cfg.Gravity = g }

func (w *World) SetGround(height float64, enabled bool) {
	w.cfg.GroundHeight = height
	w.cfg.GroundEnabled = enabled
}

// Time is the simulated time covered by completed substeps.
func (w *World) Time() float64 { return w.time }

func (w *World) Substeps() uint64 { return w.substeps }

// Alpha is the fraction of a fixed timestep waiting in the accumulator, for
// interpolating between the last two poses.
func (w *World) Alpha() float64 { return w.accumulator / w.cfg.FixedTimestep }

// Step adds dt to the accumulator and runs as many fixed substeps as it
// covers, up to MaxSubsteps. It returns the number of substeps run. When the
// cap is reached, only the remainder below one timestep is kept.
func (w *World) Step(dt float64) int {
	if dt > 0 {
		w.accumulator += dt
	}
	h := w.cfg.FixedTimestep
	n := 0
	for w.accumulator >= h && n < w.cfg.MaxSubsteps {
		w.substep(h)
		w.accumulator -= h
		n++
	}
	if w.accumulator >= h {
		w.logger.Debug("substep cap reached", "max", w.cfg.MaxSubsteps, "dropped", w.accumulator-math.Mod(w.accumulator, h))
		w.accumulator = math.Mod(w.accumulator, h)
	}
	return n
}

func (w *World) substep(h float64) {
	for _, b := range w.bodies {
		b.integrateForces(h, w.cfg.Gravity)
	}
	for _, b := range w.bodies {
		b.integratePositions(h)
	}

	contacts := w.detect()
	constraints := make([]ContactConstraint, len(contacts))
	for i := range contacts {
		e, mu := w.coefficients(contacts[i].A, contacts[i].B)
		constraints[i] = NewContactConstraint(&contacts[i], e, mu)
	}
	for it := 0; it < w.cfg.SolverIterations; it++ {
		for i := range constraints {
			constraints[i].SolveNormal()
			constraints[i].SolveFriction()
		}
	}
	w.contacts = contacts

	w.correctPositions()

	w.time += h
	w.substeps++
}

// coefficients mixes the restitution (max) and friction (geometric mean) of
// a pair. A nil body or one without a material uses the world defaults.
func (w *World) coefficients(a, b *RigidBody) (float64, float64) {
	ma := Material{Restitution: w.cfg.Restitution, Friction: w.cfg.Friction}
	mb := ma
	if a != nil && a.material != nil {
		ma = *a.material
	}
	if b != nil && b.material != nil {
		mb = *b.material
	}
	return math.Max(ma.Restitution, mb.Restitution), math.Sqrt(ma.Friction * mb.Friction)
}

// detect finds ground contacts for every dynamic body, then pairwise
// contacts between bodies with colliders.
func (w *World) detect() []Contact {
	var contacts []Contact
	colliders := make([]collide.Collider, len(w.bodies))
	for i, b := range w.bodies {
		colliders[i] = b.WorldCollider()
	}

	if w.cfg.GroundEnabled {
		for i, b := range w.bodies {
			if !b.static {
				contacts = w.groundContacts(b, colliders[i], contacts)
			}
		}
	}

	for i, a := range w.bodies {
		if colliders[i] == nil {
			continue
		}
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if colliders[j] == nil || (a.static && b.static) {
				continue
			}
			pa, pb, dist, err := colliders[i].ClosestToCollider(colliders[j])
			if err != nil {
				if errors.Is(err, collide.ErrUnsupportedPair) {
					w.logger.Debug("pair skipped", "a", a.id, "b", b.id, "err", err)
				}
				continue
			}
			if dist >= 0 {
				continue
			}
			contacts = append(contacts, Contact{
				A:           a,
				B:           b,
				Point:       pb,
				Normal:      pa.Normalize(),
				Penetration: -dist,
			})
		}
	}
	return contacts
}

func (w *World) groundContacts(b *RigidBody, c collide.Collider, out []Contact) []Contact {
	h := w.cfg.GroundHeight
	add := func(point mgl64.Vec3, pen float64) {
		out = append(out, Contact{B: b, Point: point, Normal: Up, Penetration: pen})
	}

	switch c := c.(type) {
	case nil:
		if p := b.pose.Position; p.Z() < h {
			add(p, h-p.Z())
		}
	case *collide.Sphere:
		if bottom := c.Center.Z() - c.Radius; bottom < h {
			add(c.Center.Sub(Up.Mul(c.Radius)), h-bottom)
		}
	case *collide.Box:
		for _, p := range c.Corners() {
			if p.Z() < h {
				add(p, h-p.Z())
			}
		}
	case *collide.Capsule:
		for _, end := range c.Ends() {
			if bottom := end.Z() - c.Radius; bottom < h {
				add(end.Sub(Up.Mul(c.Radius)), h-bottom)
			}
		}
	}
	return out
}

// correctPositions re-detects contacts and moves bodies apart by a fraction
// of each penetration, split by inverse mass. Displacement already applied
// to a pair earlier in the pass counts against later contacts. With a single
// contact this is exactly the plain rule: the pair moves apart by
// penetration*CorrectionFactor (0.8), shared in proportion to inverse mass.
func (w *World) correctPositions() {
	shift := make(map[*RigidBody]mgl64.Vec3)
	move := func(b *RigidBody, d mgl64.Vec3) {
		b.pose.Position = b.pose.Position.Add(d)
		shift[b] = shift[b].Add(d)
	}

	for _, c := range w.detect() {
		applied := shift[c.B]
		if c.A != nil {
			applied = applied.Sub(shift[c.A])
		}
		pen := c.Penetration - applied.Dot(c.Normal)
		if pen <= 0 {
			continue
		}
		corr := pen * CorrectionFactor

		if c.A == nil {
			move(c.B, c.Normal.Mul(corr))
			continue
		}
		invA, invB := c.A.InverseMass(), c.B.InverseMass()
		total := invA + invB
		if total <= 0 {
			continue
		}
		if invA > 0 {
			move(c.A, c.Normal.Mul(-corr*invA/total))
		}
		if invB > 0 {
			move(c.B, c.Normal.Mul(corr*invB/total))
		}
	}
}

// RayCast returns the nearest body whose collider the ray touches within
// maxDistance. Bodies without colliders are ignored.
func (w *World) RayCast(origin, direction mgl64.Vec3, maxDistance float64) (RayHit, bool) {
	if direction.Len() == 0 {
		return RayHit{}, false
	}
	dir := direction.Normalize()
	ray := collide.Ray{Origin: origin, Direction: dir}

	best := RayHit{Distance: math.Inf(1)}
	for _, b := range w.bodies {
		c := b.WorldCollider()
		if c == nil {
			continue
		}
		_, onRay, dist := c.ClosestToRay(ray)
		if dist > RayTolerance {
			continue
		}
		t := onRay.Sub(origin).Dot(dir)
		if t <= 0 || t > maxDistance || t >= best.Distance {
			continue
		}
		best = RayHit{Body: b, Point: onRay, Distance: t}
	}
	return best, best.Body != nil
}
