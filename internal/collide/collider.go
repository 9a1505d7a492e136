// Package collide implements the narrow-phase collider capability consumed by
// the physics world: closest points between shapes and against rays.
package collide

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/spatial"
)

// ErrUnsupportedPair reports a shape combination the narrow phase has no test for.
var ErrUnsupportedPair = errors.New("collide: unsupported collider pair")

type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindCapsule
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindCapsule:
		return "capsule"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Ray is a half-line; Direction must be unit length.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Collider is a shape expressed in some frame.
//
// ClosestToCollider returns the closest points on the receiver and on other
// with their separation. A negative distance signals penetration; in that case
// the first vector is the unit separating normal pointing from the receiver
// toward other and the second is a representative contact point.
type Collider interface {
	Kind() Kind
	ClosestToRay(r Ray) (onCollider, onRay mgl64.Vec3, dist float64)
	ClosestToCollider(other Collider) (a, b mgl64.Vec3, dist float64, err error)
	TransformBy(p spatial.Pose) Collider
}

func unsupported(a, b Collider) error {
	return fmt.Errorf("%w: %s/%s", ErrUnsupportedPair, a.Kind(), b.Kind())
}

// flip swaps the roles of the two shapes in a query result.
func flip(a, b mgl64.Vec3, dist float64, err error) (mgl64.Vec3, mgl64.Vec3, float64, error) {
	if err != nil {
		return a, b, dist, err
	}
	if dist < 0 {
		return a.Mul(-1), b, dist, nil
	}
	return b, a, dist, nil
}
