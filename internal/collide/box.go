package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/spatial"
)

// Box is an oriented box centred on Pose.
type Box struct {
	Pose        spatial.Pose
	HalfExtents mgl64.Vec3
}

func NewBox(size mgl64.Vec3) *Box {
	return &Box{Pose: spatial.Identity(), HalfExtents: size.Mul(0.5)}
}

func (b *Box) Kind() Kind { return KindBox }

func (b *Box) TransformBy(p spatial.Pose) Collider {
	return &Box{Pose: p.Compose(b.Pose), HalfExtents: b.HalfExtents}
}

// Corners returns the eight vertices in the box's parent frame.
func (b *Box) Corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	h := b.HalfExtents
	for i := 0; i < 8; i++ {
		local := mgl64.Vec3{h[0], h[1], h[2]}
		if i&1 != 0 {
			local[0] = -local[0]
		}
		if i&2 != 0 {
			local[1] = -local[1]
		}
		if i&4 != 0 {
			local[2] = -local[2]
		}
		out[i] = b.Pose.TransformPoint(local)
	}
	return out
}

func (b *Box) clamp(local mgl64.Vec3) mgl64.Vec3 {
	h := b.HalfExtents
	return mgl64.Vec3{
		mgl64.Clamp(local[0], -h[0], h[0]),
		mgl64.Clamp(local[1], -h[1], h[1]),
		mgl64.Clamp(local[2], -h[2], h[2]),
	}
}

func (b *Box) ClosestToRay(r Ray) (mgl64.Vec3, mgl64.Vec3, float64) {
	o := b.Pose.InverseTransformPoint(r.Origin)
	d := b.Pose.InverseRotate(r.Direction)
	h := b.HalfExtents

	tmin, tmax := 0.0, math.Inf(1)
	hit := true
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < epsilon {
			if math.Abs(o[i]) > h[i] {
				hit = false
				break
			}
			continue
		}
		t1 := (-h[i] - o[i]) / d[i]
		t2 := (h[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			hit = false
			break
		}
	}
	if hit {
		p := r.At(tmin)
		return p, p, 0
	}

	// closest approach to the centre, then onto the surface
	t := math.Max(-o.Dot(d), 0)
	onRayLocal := o.Add(d.Mul(t))
	onBoxLocal := b.clamp(onRayLocal)
	return b.Pose.TransformPoint(onBoxLocal), r.At(t), onRayLocal.Sub(onBoxLocal).Len()
}

func (b *Box) ClosestToCollider(other Collider) (mgl64.Vec3, mgl64.Vec3, float64, error) {
	if s, ok := other.(*Sphere); ok {
		return flip(sphereBox(s, b))
	}
	return mgl64.Vec3{}, mgl64.Vec3{}, 0, unsupported(b, other)
}

func sphereBox(s *Sphere, b *Box) (mgl64.Vec3, mgl64.Vec3, float64, error) {
	c := b.Pose.InverseTransformPoint(s.Center)
	q := b.clamp(c)
	d := c.Sub(q)
	l := d.Len()

	if l > epsilon {
		// centre outside the box
		n := b.Pose.Rotate(d.Mul(-1 / l))
		onBox := b.Pose.TransformPoint(q)
		onSphere := s.Center.Add(n.Mul(s.Radius))
		dist := l - s.Radius
		if dist < 0 {
			return n, onSphere.Add(onBox).Mul(0.5), dist, nil
		}
		return onSphere, onBox, dist, nil
	}

	// centre inside: push out through the nearest face
	axis, depth := 0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if pen := b.HalfExtents[i] - math.Abs(c[i]); pen < depth {
			axis, depth = i, pen
		}
	}
	var outward mgl64.Vec3
	outward[axis] = 1
	if c[axis] < 0 {
		outward[axis] = -1
	}
	face := c
	face[axis] = outward[axis] * b.HalfExtents[axis]

	n := b.Pose.Rotate(outward.Mul(-1))
	return n, b.Pose.TransformPoint(face), -(depth + s.Radius), nil
}
