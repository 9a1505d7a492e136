package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/spatial"
)

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestFactoryInertia(t *testing.T) {
	tests := []struct {
		name    string
		body    *RigidBody
		mass    float64
		moments mgl64.Vec3
	}{
		{"cube", NewBox(mgl64.Vec3{1, 1, 1}, 6, spatial.Identity(), false), 6, mgl64.Vec3{1, 1, 1}},
		{"slab", NewBox(mgl64.Vec3{2, 1, 1}, 12, spatial.Identity(), false), 12, mgl64.Vec3{2, 5, 5}},
		{"sphere", NewSphere(1, 5, spatial.Identity(), false), 5, mgl64.Vec3{2, 2, 2}},
		{"static", NewBox(mgl64.Vec3{1, 1, 1}, 6, spatial.Identity(), true), 0, mgl64.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.body.Inertia()
			if in.Mass != tt.mass {
				t.Errorf("mass = %v, want %v", in.Mass, tt.mass)
			}
			if !vecNear(in.Moments, tt.moments, 1e-12) {
				t.Errorf("moments = %v, want %v", in.Moments, tt.moments)
			}
		})
	}
}

func TestCapsuleInertiaBetweenBounds(t *testing.T) {
	b := NewCapsule(0.5, 2, 1, spatial.Identity(), false)
	m := b.Inertia().Moments
	if m.X() != m.Y() {
		t.Errorf("transverse moments differ: %v", m)
	}
	// The caps push mass away from the centre but stay close to the axis.
	cylinder := (0.25/4 + 4.0/12)
	if m.X() <= cylinder {
		t.Errorf("transverse = %v, want > %v", m.X(), cylinder)
	}
	if m.Z() >= 0.25/2 {
		t.Errorf("axial = %v, want < %v", m.Z(), 0.25/2)
	}
}

func TestStaticGroundTopFace(t *testing.T) {
	g := NewStaticGround(20, 1.5)
	if !g.IsStatic() {
		t.Fatal("ground should be static")
	}
	if g.InverseMass() != 0 {
		t.Errorf("inverse mass = %v, want 0", g.InverseMass())
	}
	if got := g.Pose().Position.Z() + groundThickness/2; got != 1.5 {
		t.Errorf("top face at %v, want 1.5", got)
	}
}

func TestStaticBodyIgnoresUpdates(t *testing.T) {
	b := NewBox(mgl64.Vec3{1, 1, 1}, 1, spatial.Translation(mgl64.Vec3{0, 0, 2}), true)
	b.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{1, 0, 0}})
	b.SetPose(spatial.Identity())
	b.ApplyImpulse(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{0.5, 0, 2})
	b.integrateForces(0.1, mgl64.Vec3{0, 0, -9.81})
	b.integratePositions(0.1)

	if !b.Velocity().IsZero() {
		t.Errorf("velocity = %+v, want zero", b.Velocity())
	}
	if b.Pose().Position != (mgl64.Vec3{0, 0, 2}) {
		t.Errorf("position = %v, want (0,0,2)", b.Pose().Position)
	}
}

func TestApplyImpulse(t *testing.T) {
	tests := []struct {
		name    string
		impulse mgl64.Vec3
		point   mgl64.Vec3
		linear  mgl64.Vec3
		angular mgl64.Vec3
	}{
		{"through centre", mgl64.Vec3{6, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}},
		{"offset", mgl64.Vec3{0, 6, 0}, mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBox(mgl64.Vec3{1, 1, 1}, 6, spatial.Identity(), false)
			b.ApplyImpulse(tt.impulse, tt.point)
			v := b.Velocity()
			if !vecNear(v.Linear, tt.linear, 1e-12) {
				t.Errorf("linear = %v, want %v", v.Linear, tt.linear)
			}
			if !vecNear(v.Angular, tt.angular, 1e-12) {
				t.Errorf("angular = %v, want %v", v.Angular, tt.angular)
			}
		})
	}
}

func TestWorldInverseInertiaRotates(t *testing.T) {
	pose := spatial.NewPose(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	b := NewBox(mgl64.Vec3{2, 1, 1}, 12, pose, false)
	inv := b.WorldInverseInertia()
	// Body x (moment 2) now lies along world y.
	if math.Abs(inv.At(1, 1)-0.5) > 1e-9 || math.Abs(inv.At(0, 0)-0.2) > 1e-9 {
		t.Errorf("diagonal = (%v, %v), want (0.2, 0.5)", inv.At(0, 0), inv.At(1, 1))
	}
}

func TestIntegrateForcesFreeFall(t *testing.T) {
	b := NewSphere(0.5, 2, spatial.Translation(mgl64.Vec3{0, 0, 10}), false)
	g := mgl64.Vec3{0, 0, -9.81}
	h := 0.01
	b.integrateForces(h, g)
	b.integratePositions(h)

	if got := b.Velocity().Linear.Z(); math.Abs(got+9.81*h) > 1e-12 {
		t.Errorf("vz = %v, want %v", got, -9.81*h)
	}
	if got := b.Pose().Position.Z(); math.Abs(got-(10-9.81*h*h)) > 1e-12 {
		t.Errorf("z = %v, want %v", got, 10-9.81*h*h)
	}
}

func TestIntegrateForcesClearsWrench(t *testing.T) {
	b := NewSphere(1, 1, spatial.Identity(), false)
	b.ApplyForce(mgl64.Vec3{2, 0, 0})
	b.integrateForces(0.5, mgl64.Vec3{})
	if got := b.Velocity().Linear; !vecNear(got, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("velocity = %v, want (1,0,0)", got)
	}
	if w := b.Wrench(); w.Force.Len() != 0 || w.Torque.Len() != 0 {
		t.Errorf("wrench not cleared: %+v", w)
	}
}

func TestApplyForceAtPointAddsTorque(t *testing.T) {
	b := NewSphere(1, 1, spatial.Translation(mgl64.Vec3{1, 0, 0}), false)
	b.ApplyForceAtPoint(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{2, 0, 0})
	w := b.Wrench()
	if !vecNear(w.Torque, mgl64.Vec3{0, 0, 3}, 1e-12) {
		t.Errorf("torque = %v, want (0,0,3)", w.Torque)
	}
}

func TestTorqueFreeSpinKeepsAngularVelocity(t *testing.T) {
	b := NewBox(mgl64.Vec3{1, 2, 3}, 1, spatial.Identity(), false)
	w0 := mgl64.Vec3{0, 0, 2}
	b.SetVelocity(spatial.Twist{Angular: w0})
	for i := 0; i < 100; i++ {
		b.integrateForces(0.01, mgl64.Vec3{})
		b.integratePositions(0.01)
	}
	if got := b.Velocity().Angular; !vecNear(got, w0, 1e-9) {
		t.Errorf("angular = %v, want %v", got, w0)
	}
	if n := b.Pose().Orientation.Len(); math.Abs(n-1) > 1e-9 {
		t.Errorf("|q| = %v", n)
	}
}

func TestSpinningBodyKeepsLinearVelocity(t *testing.T) {
	// With the centre of mass at the origin and no forces, the origin keeps
	// its world velocity while the body spins. The per-step screw motion
	// bends the path by O(h).
	b := NewBox(mgl64.Vec3{1, 1, 1}, 1, spatial.Identity(), false)
	b.SetVelocity(spatial.Twist{Angular: mgl64.Vec3{0, 0, 3}, Linear: mgl64.Vec3{1, 0, 0}})
	for i := 0; i < 100; i++ {
		b.integrateForces(0.01, mgl64.Vec3{})
		b.integratePositions(0.01)
	}
	if got := b.Velocity().Linear; !vecNear(got, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("linear = %v, want (1,0,0)", got)
	}
	if got := b.Pose().Position; !vecNear(got, mgl64.Vec3{1, 0, 0}, 0.05) {
		t.Errorf("position = %v, want near (1,0,0)", got)
	}
}

func TestEnergy(t *testing.T) {
	b := NewSphere(1, 2, spatial.Translation(mgl64.Vec3{0, 0, 3}), false)
	b.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{0, 3, 0}})
	if got := b.KineticEnergy(); math.Abs(got-9) > 1e-12 {
		t.Errorf("kinetic = %v, want 9", got)
	}
	if got := b.PotentialEnergy(mgl64.Vec3{0, 0, -10}); math.Abs(got-60) > 1e-12 {
		t.Errorf("potential = %v, want 60", got)
	}
}
