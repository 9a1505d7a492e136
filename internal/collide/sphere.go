package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/spatial"
)

type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) TransformBy(p spatial.Pose) Collider {
	return &Sphere{Center: p.TransformPoint(s.Center), Radius: s.Radius}
}

func (s *Sphere) ClosestToRay(r Ray) (mgl64.Vec3, mgl64.Vec3, float64) {
	m := r.Origin.Sub(s.Center)
	b := m.Dot(r.Direction)
	c := m.Dot(m) - s.Radius*s.Radius

	disc := b*b - c
	if disc >= 0 && (c <= 0 || b <= 0) {
		t := -b - math.Sqrt(disc)
		if t < 0 {
			t = 0
		}
		hit := r.At(t)
		return hit, hit, 0
	}

	onRay := r.At(math.Max(-b, 0))
	return sphereSurfaceToward(s.Center, s.Radius, onRay)
}

func (s *Sphere) ClosestToCollider(other Collider) (mgl64.Vec3, mgl64.Vec3, float64, error) {
	switch o := other.(type) {
	case *Sphere:
		return spheres(s.Center, s.Radius, o.Center, o.Radius)
	case *Box:
		return sphereBox(s, o)
	case *Capsule:
		onSeg := closestOnSegment(o.A, o.B, s.Center)
		return spheres(s.Center, s.Radius, onSeg, o.Radius)
	}
	return mgl64.Vec3{}, mgl64.Vec3{}, 0, unsupported(s, other)
}

// spheres is the sphere/sphere test, also used for swept-sphere shapes once
// their closest axis points are known.
func spheres(ca mgl64.Vec3, ra float64, cb mgl64.Vec3, rb float64) (mgl64.Vec3, mgl64.Vec3, float64, error) {
	d := cb.Sub(ca)
	l := d.Len()
	dist := l - ra - rb

	n := mgl64.Vec3{0, 0, 1}
	if l > epsilon {
		n = d.Mul(1 / l)
	}
	pa := ca.Add(n.Mul(ra))
	pb := cb.Sub(n.Mul(rb))
	if dist < 0 {
		return n, pa.Add(pb).Mul(0.5), dist, nil
	}
	return pa, pb, dist, nil
}

func sphereSurfaceToward(center mgl64.Vec3, radius float64, p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, float64) {
	d := p.Sub(center)
	l := d.Len()
	if l < epsilon {
		return p, p, -radius
	}
	return center.Add(d.Mul(radius / l)), p, l - radius
}
