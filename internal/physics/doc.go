// Package physics provides the rigid-body world: bodies, contacts and the
// fixed-timestep solver that advances them.
//
// A [World] owns its bodies and steps them with a constant internal timestep.
// Each substep runs, in order:
//
//   - force integration: gravity, external wrenches and gyroscopic terms
//     update every dynamic body's velocity
//   - position integration: the SE(3) exponential map advances each pose
//   - contact detection against the ground plane and between colliders
//   - sequential impulses: normal impulses with restitution, then boxed
//     Coulomb friction, repeated for a fixed number of iterations
//   - position correction: a fraction of any remaining penetration is
//     removed by moving bodies apart
//
// # Velocity convention
//
// A body's [spatial.Twist] holds its world angular velocity and the world
// velocity of the body-frame origin. The velocity of any material point p is
// Linear + Angular × (p − position).
//
// # Example
//
//	w := physics.NewWorld(physics.DefaultConfig())
//	id := w.AddBody(physics.NewSphere(0.5, 1, spatial.Translation(mgl64.Vec3{0, 0, 3}), false))
//	for i := 0; i < 60; i++ {
//	    w.Step(1.0 / 60)
//	}
//	b, _ := w.Body(id)
//	fmt.Println(b.Pose().Position)
package physics
