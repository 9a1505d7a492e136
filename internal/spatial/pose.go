package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose locates a frame relative to its parent. The zero value is not a valid
// pose (its quaternion has zero length); use Identity or NewPose.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

func Identity() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

func NewPose(position mgl64.Vec3, orientation mgl64.Quat) Pose {
	return Pose{Position: position, Orientation: orientation}
}

// Translation returns an identity-oriented pose at position.
func Translation(position mgl64.Vec3) Pose {
	return Pose{Position: position, Orientation: mgl64.QuatIdent()}
}

// Compose returns p ∘ q: q expressed in p's parent frame.
func (p Pose) Compose(q Pose) Pose {
	return Pose{
		Position:    p.Position.Add(p.Orientation.Rotate(q.Position)),
		Orientation: p.Orientation.Mul(q.Orientation),
	}
}

func (p Pose) Inverse() Pose {
	inv := p.Orientation.Conjugate()
	return Pose{
		Position:    inv.Rotate(p.Position).Mul(-1),
		Orientation: inv,
	}
}

func (p Pose) Rotate(v mgl64.Vec3) mgl64.Vec3 {
	return p.Orientation.Rotate(v)
}

func (p Pose) InverseRotate(v mgl64.Vec3) mgl64.Vec3 {
	return p.Orientation.Conjugate().Rotate(v)
}

func (p Pose) TransformPoint(v mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Orientation.Rotate(v))
}

func (p Pose) InverseTransformPoint(v mgl64.Vec3) mgl64.Vec3 {
	return p.InverseRotate(v.Sub(p.Position))
}

// Matrix returns the rotation part as a 3x3 matrix.
func (p Pose) Matrix() mgl64.Mat3 {
	return p.Orientation.Mat4().Mat3()
}

// Normalized returns the pose with a unit-length orientation.
func (p Pose) Normalized() Pose {
	p.Orientation = p.Orientation.Normalize()
	return p
}

// ApproxEqual compares component-wise with an absolute tolerance.
func (p Pose) ApproxEqual(q Pose, eps float64) bool {
	if !near(p.Position[:], q.Position[:], eps) {
		return false
	}
	// q and -q encode the same rotation
	a, b := p.Orientation, q.Orientation
	qa := []float64{a.W, a.V[0], a.V[1], a.V[2]}
	return near(qa, []float64{b.W, b.V[0], b.V[1], b.V[2]}, eps) ||
		near(qa, []float64{-b.W, -b.V[0], -b.V[1], -b.V[2]}, eps)
}

func near(a, b []float64, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
