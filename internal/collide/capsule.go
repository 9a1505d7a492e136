package collide

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/spatial"
)

const rayBisections = 48

// Capsule is the set of points within Radius of the segment AB.
type Capsule struct {
	A, B   mgl64.Vec3
	Radius float64
}

// NewCapsule builds a capsule whose axis of the given length runs along local z.
func NewCapsule(radius, length float64) *Capsule {
	half := mgl64.Vec3{0, 0, length / 2}
	return &Capsule{A: half.Mul(-1), B: half, Radius: radius}
}

func (c *Capsule) Kind() Kind { return KindCapsule }

func (c *Capsule) TransformBy(p spatial.Pose) Collider {
	return &Capsule{A: p.TransformPoint(c.A), B: p.TransformPoint(c.B), Radius: c.Radius}
}

func (c *Capsule) ClosestToRay(r Ray) (mgl64.Vec3, mgl64.Vec3, float64) {
	mid := c.A.Add(c.B).Mul(0.5)
	reach := r.Origin.Sub(mid).Len() + c.A.Sub(c.B).Len() + c.Radius + 1
	end := r.At(reach)

	onRay, onAxis := closestSegments(r.Origin, end, c.A, c.B)
	d := onRay.Sub(onAxis)
	l := d.Len()
	if l > c.Radius {
		return onAxis.Add(d.Mul(c.Radius / l)), onRay, l - c.Radius
	}

	// distance to the axis is convex along the ray, so it falls
	// monotonically until the closest approach
	tHit := onRay.Sub(r.Origin).Len()
	if c.axisDistance(r.Origin) <= c.Radius {
		return r.Origin, r.Origin, 0
	}
	lo, hi := 0.0, tHit
	for i := 0; i < rayBisections; i++ {
		m := 0.5 * (lo + hi)
		if c.axisDistance(r.At(m)) > c.Radius {
			lo = m
		} else {
			hi = m
		}
	}
	p := r.At(hi)
	return p, p, 0
}

func (c *Capsule) axisDistance(p mgl64.Vec3) float64 {
	return p.Sub(closestOnSegment(c.A, c.B, p)).Len()
}

func (c *Capsule) ClosestToCollider(other Collider) (mgl64.Vec3, mgl64.Vec3, float64, error) {
	switch o := other.(type) {
	case *Sphere:
		onAxis := closestOnSegment(c.A, c.B, o.Center)
		return spheres(onAxis, c.Radius, o.Center, o.Radius)
	case *Capsule:
		pa, pb := closestSegments(c.A, c.B, o.A, o.B)
		return spheres(pa, c.Radius, pb, o.Radius)
	}
	return mgl64.Vec3{}, mgl64.Vec3{}, 0, unsupported(c, other)
}

// Ends returns the centres of the two cap spheres.
func (c *Capsule) Ends() [2]mgl64.Vec3 {
	return [2]mgl64.Vec3{c.A, c.B}
}

func (c *Capsule) Length() float64 {
	return c.B.Sub(c.A).Len()
}
