package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/spatial"
)

// groundThickness is the depth of the slab built by NewStaticGround.
const groundThickness = 1.0

// NewBox creates a solid box of the given full size with its centre of mass
// at the body origin.
func NewBox(size mgl64.Vec3, mass float64, pose spatial.Pose, static bool) *RigidBody {
	x2, y2, z2 := size.X()*size.X(), size.Y()*size.Y(), size.Z()*size.Z()
	moments := mgl64.Vec3{y2 + z2, x2 + z2, x2 + y2}.Mul(mass / 12)
	return NewRigidBody(pose, bodyInertia(mass, moments, static), collide.NewBox(size), static)
}

// NewSphere creates a solid sphere centred on the body origin.
func NewSphere(radius, mass float64, pose spatial.Pose, static bool) *RigidBody {
	i := 0.4 * mass * radius * radius
	return NewRigidBody(pose, bodyInertia(mass, mgl64.Vec3{i, i, i}, static), collide.NewSphere(radius), static)
}

// NewCapsule creates a capsule whose segment of the given length runs along
// the local z axis, centred on the body origin.
func NewCapsule(radius, length, mass float64, pose spatial.Pose, static bool) *RigidBody {
	return NewRigidBody(pose, bodyInertia(mass, capsuleMoments(radius, length, mass), static), collide.NewCapsule(radius, length), static)
}

// NewStaticGround creates a static slab whose top face lies at height.
func NewStaticGround(size, height float64) *RigidBody {
	pose := spatial.Translation(mgl64.Vec3{0, 0, height - groundThickness/2})
	b := NewRigidBody(pose, spatial.ZeroInertia(), collide.NewBox(mgl64.Vec3{size, size, groundThickness}), true)
	b.SetName("ground")
	return b
}

func bodyInertia(mass float64, moments mgl64.Vec3, static bool) spatial.Inertia {
	if static {
		return spatial.ZeroInertia()
	}
	return spatial.NewInertia(mass, moments, spatial.Identity())
}

// capsuleMoments splits the mass between the cylinder and the two
// hemispherical caps by volume.
func capsuleMoments(radius, length, mass float64) mgl64.Vec3 {
	r2 := radius * radius
	cyl := math.Pi * r2 * length
	caps := 4.0 / 3.0 * math.Pi * r2 * radius
	mc := mass * cyl / (cyl + caps)
	ms := mass - mc

	axial := mc*r2/2 + ms*2*r2/5
	transverse := mc*(r2/4+length*length/12) +
		ms*(2*r2/5+length*length/4+3*length*radius/8)
	return mgl64.Vec3{transverse, transverse, axial}
}
