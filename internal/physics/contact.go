package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// RestitutionVelocityThreshold is the approach speed below which
	// contacts do not bounce.
	RestitutionVelocityThreshold = 1.0

	massEpsilon = 1e-12
)

// Contact is one point of contact detected during a substep. A is nil for
// contacts with the ground plane. Normal points from A into B.
type Contact struct {
	A, B        *RigidBody
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64

	NormalImpulse  float64
	TangentImpulse [2]float64
}

// ContactConstraint holds the solver state for one contact.
type ContactConstraint struct {
	contact     *Contact
	tangents    [2]mgl64.Vec3
	normalMass  float64
	tangentMass [2]float64
	restitution float64
	friction    float64

	initialApproach float64
	started         bool
}

// NewContactConstraint precomputes the tangent basis and effective masses.
// The contact's accumulated impulses are reset.
func NewContactConstraint(c *Contact, restitution, friction float64) ContactConstraint {
	c.NormalImpulse = 0
	c.TangentImpulse = [2]float64{}
	cc := ContactConstraint{
		contact:     c,
		tangents:    tangentBasis(c.Normal),
		restitution: restitution,
		friction:    friction,
	}
	cc.normalMass = effectiveMass(c.A, c.B, c.Point, c.Normal)
	for i, t := range cc.tangents {
		cc.tangentMass[i] = effectiveMass(c.A, c.B, c.Point, t)
	}
	return cc
}

func (cc *ContactConstraint) Contact() *Contact { return cc.contact }

func (cc *ContactConstraint) Tangents() [2]mgl64.Vec3 { return cc.tangents }

// SolveNormal applies the normal impulse increment that drives the relative
// normal velocity to its target, keeping the accumulated impulse
// non-negative. The first call records the approach speed used for
// restitution.
func (cc *ContactConstraint) SolveNormal() {
	c := cc.contact
	vn := cc.relativeVelocity().Dot(c.Normal)
	if !cc.started {
		cc.initialApproach = vn
		cc.started = true
	}

	target := 0.0
	if cc.initialApproach < -RestitutionVelocityThreshold {
		target = -cc.restitution * cc.initialApproach
	}

	lambda := cc.normalMass * (target - vn)
	old := c.NormalImpulse
	c.NormalImpulse = math.Max(old+lambda, 0)
	cc.apply(c.Normal.Mul(c.NormalImpulse - old))
}

// SolveFriction applies friction along both tangents, clamping each
// accumulated tangent impulse to friction times the normal impulse.
func (cc *ContactConstraint) SolveFriction() {
	c := cc.contact
	limit := cc.friction * c.NormalImpulse
	for i, t := range cc.tangents {
		vt := cc.relativeVelocity().Dot(t)
		lambda := -cc.tangentMass[i] * vt
		old := c.TangentImpulse[i]
		c.TangentImpulse[i] = mgl64.Clamp(old+lambda, -limit, limit)
		cc.apply(t.Mul(c.TangentImpulse[i] - old))
	}
}

func (cc *ContactConstraint) relativeVelocity() mgl64.Vec3 {
	c := cc.contact
	v := c.B.PointVelocity(c.Point)
	if c.A != nil {
		v = v.Sub(c.A.PointVelocity(c.Point))
	}
	return v
}

// apply pushes B along impulse and A against it.
func (cc *ContactConstraint) apply(impulse mgl64.Vec3) {
	c := cc.contact
	c.B.ApplyImpulse(impulse, c.Point)
	if c.A != nil {
		c.A.ApplyImpulse(impulse.Mul(-1), c.Point)
	}
}

func effectiveMass(a, b *RigidBody, point, dir mgl64.Vec3) float64 {
	k := 0.0
	for _, body := range [2]*RigidBody{a, b} {
		if body == nil {
			continue
		}
		rn := point.Sub(body.pose.Position).Cross(dir)
		k += body.InverseMass() + body.WorldInverseInertia().Mul3x1(rn).Dot(rn)
	}
	if k < massEpsilon {
		return 0
	}
	return 1 / k
}

// tangentBasis returns two unit vectors orthogonal to n and to each other.
func tangentBasis(n mgl64.Vec3) [2]mgl64.Vec3 {
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	t1 := ref.Sub(n.Mul(n.Dot(ref))).Normalize()
	return [2]mgl64.Vec3{t1, n.Cross(t1)}
}
