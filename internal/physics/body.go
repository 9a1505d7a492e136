package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/spatial"
)

// BodyID is a stable handle to a body inside a World.
type BodyID uint64

// Material overrides the world's contact coefficients for one body.
type Material struct {
	Restitution float64
	Friction    float64
}

// RigidBody is a single simulated body. Inertia is expressed in the body
// frame; the velocity follows the convention described in the package doc.
type RigidBody struct {
	id       BodyID
	name     string
	pose     spatial.Pose
	velocity spatial.Twist
	wrench   spatial.Wrench
	inertia  spatial.Inertia
	collider collide.Collider
	static   bool
	material *Material
}

// NewRigidBody creates a body at rest. collider may be nil.
func NewRigidBody(pose spatial.Pose, inertia spatial.Inertia, collider collide.Collider, static bool) *RigidBody {
	return &RigidBody{
		pose:     pose.Normalized(),
		inertia:  inertia,
		collider: collider,
		static:   static,
	}
}

func (b *RigidBody) ID() BodyID                 { return b.id }
func (b *RigidBody) Name() string               { return b.name }
func (b *RigidBody) SetName(name string)        { b.name = name }
func (b *RigidBody) Pose() spatial.Pose         { return b.pose }
func (b *RigidBody) Velocity() spatial.Twist    { return b.velocity }
func (b *RigidBody) Inertia() spatial.Inertia   { return b.inertia }
func (b *RigidBody) Collider() collide.Collider { return b.collider }
func (b *RigidBody) IsStatic() bool             { return b.static }
func (b *RigidBody) Wrench() spatial.Wrench     { return b.wrench }

func (b *RigidBody) Material() (Material, bool) {
	if b.material == nil {
		return Material{}, false
	}
	return *b.material, true
}

func (b *RigidBody) SetMaterial(m Material) {
	b.material = &m
}

// SetPose teleports a dynamic body. Static bodies keep their pose.
func (b *RigidBody) SetPose(p spatial.Pose) {
	if b.static {
		return
	}
	b.pose = p.Normalized()
}

// SetVelocity replaces the velocity of a dynamic body.
func (b *RigidBody) SetVelocity(v spatial.Twist) {
	if b.static {
		return
	}
	b.velocity = v
}

// ApplyForce accumulates a world-frame force acting at the body origin.
func (b *RigidBody) ApplyForce(force mgl64.Vec3) {
	b.wrench.Force = b.wrench.Force.Add(force)
}

// ApplyForceAtPoint accumulates a world-frame force acting at a world point.
func (b *RigidBody) ApplyForceAtPoint(force, point mgl64.Vec3) {
	r := point.Sub(b.pose.Position)
	b.wrench.Force = b.wrench.Force.Add(force)
	b.wrench.Torque = b.wrench.Torque.Add(r.Cross(force))
}

// ApplyWrench accumulates a world-frame wrench about the body origin.
func (b *RigidBody) ApplyWrench(w spatial.Wrench) {
	b.wrench = b.wrench.Add(w)
}

// ApplyImpulse changes the velocity instantly as if impulse acted at point.
func (b *RigidBody) ApplyImpulse(impulse, point mgl64.Vec3) {
	if b.static {
		return
	}
	r := point.Sub(b.pose.Position)
	b.velocity.Linear = b.velocity.Linear.Add(impulse.Mul(b.InverseMass()))
	b.velocity.Angular = b.velocity.Angular.Add(b.WorldInverseInertia().Mul3x1(r.Cross(impulse)))
}

func (b *RigidBody) InverseMass() float64 {
	if b.static {
		return 0
	}
	return b.inertia.InverseMass()
}

// WorldInverseInertia returns the inverse rotational inertia in world axes.
func (b *RigidBody) WorldInverseInertia() mgl64.Mat3 {
	if b.static {
		return mgl64.Mat3{}
	}
	r := b.pose.Matrix()
	return r.Mul3(b.inertia.InverseTensor()).Mul3(r.Transpose())
}

// PointVelocity returns the world velocity of the material point at p.
func (b *RigidBody) PointVelocity(p mgl64.Vec3) mgl64.Vec3 {
	return b.velocity.Linear.Add(b.velocity.Angular.Cross(p.Sub(b.pose.Position)))
}

// WorldCollider returns the collider placed at the current pose, or nil.
func (b *RigidBody) WorldCollider() collide.Collider {
	if b.collider == nil {
		return nil
	}
	return b.collider.TransformBy(b.pose)
}

// CenterOfMass returns the centre of mass in world coordinates.
func (b *RigidBody) CenterOfMass() mgl64.Vec3 {
	return b.pose.TransformPoint(b.inertia.CenterOfMass())
}

func (b *RigidBody) KineticEnergy() float64 {
	if b.static {
		return 0
	}
	return b.inertia.KineticEnergy(b.bodyVelocity())
}

// PotentialEnergy is the gravitational energy relative to the world origin.
func (b *RigidBody) PotentialEnergy(gravity mgl64.Vec3) float64 {
	if b.static {
		return 0
	}
	return -b.inertia.Mass * gravity.Dot(b.CenterOfMass())
}

// bodyVelocity expresses the velocity in body axes.
func (b *RigidBody) bodyVelocity() spatial.Twist {
	return b.velocity.InverseRotate(b.pose.Orientation)
}

// integrateForces advances the velocity by dt under gravity, the accumulated
// wrench and the velocity-product terms, then clears the wrench.
func (b *RigidBody) integrateForces(dt float64, gravity mgl64.Vec3) {
	if b.static {
		b.wrench = spatial.Wrench{}
		return
	}
	q := b.pose.Orientation
	vb := b.bodyVelocity()

	total := b.wrench.InverseRotate(q).
		Add(b.inertia.GravityWrench(q.Conjugate().Rotate(gravity))).
		Sub(b.inertia.BiasWrench(vb))
	ab := b.inertia.Solve(total)

	// The body-frame acceleration of the origin misses the transport term
	// ω × v when re-expressed as the rate of change of a world vector.
	accel := spatial.Twist{
		Angular: q.Rotate(ab.Angular),
		Linear:  q.Rotate(ab.Linear).Add(b.velocity.Angular.Cross(b.velocity.Linear)),
	}
	b.velocity = b.velocity.Add(accel.Scale(dt))
	b.wrench = spatial.Wrench{}
}

// integratePositions moves the pose along the current velocity for dt.
func (b *RigidBody) integratePositions(dt float64) {
	if b.static {
		return
	}
	v := b.velocity
	screw := spatial.Twist{
		Angular: v.Angular,
		Linear:  v.Linear.Sub(v.Angular.Cross(b.pose.Position)),
	}
	b.pose = spatial.Exp(screw.Scale(dt)).Compose(b.pose).Normalized()
}
