package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/spatial"
)

func TestTangentBasis(t *testing.T) {
	normals := []mgl64.Vec3{
		{0, 0, 1},
		{1, 0, 0},
		{0, -1, 0},
		mgl64.Vec3{1, 1, 1}.Normalize(),
		mgl64.Vec3{0.99, 0.01, 0}.Normalize(),
	}
	for _, n := range normals {
		tb := tangentBasis(n)
		for i, tv := range tb {
			if math.Abs(tv.Len()-1) > 1e-12 {
				t.Errorf("n=%v: |t%d| = %v", n, i, tv.Len())
			}
			if math.Abs(tv.Dot(n)) > 1e-12 {
				t.Errorf("n=%v: t%d·n = %v", n, i, tv.Dot(n))
			}
		}
		if math.Abs(tb[0].Dot(tb[1])) > 1e-12 {
			t.Errorf("n=%v: t0·t1 = %v", n, tb[0].Dot(tb[1]))
		}
	}
}

func TestEffectiveMass(t *testing.T) {
	a := NewSphere(0.5, 1, spatial.Translation(mgl64.Vec3{-0.5, 0, 0}), false)
	b := NewSphere(0.5, 1, spatial.Translation(mgl64.Vec3{0.5, 0, 0}), false)
	ground := NewStaticGround(10, 0)

	tests := []struct {
		name string
		a, b *RigidBody
		want float64
	}{
		{"two spheres head on", a, b, 0.5},
		{"sphere on ground", nil, b, 1},
		{"static only", nil, ground, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := effectiveMass(tt.a, tt.b, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("effectiveMass = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSolveNormalSeparatingContact(t *testing.T) {
	b := NewSphere(0.5, 1, spatial.Translation(mgl64.Vec3{0, 0, 0.49}), false)
	b.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{0, 0, 2}})
	c := Contact{B: b, Point: mgl64.Vec3{0, 0, -0.01}, Normal: Up, Penetration: 0.01}
	cc := NewContactConstraint(&c, 0.5, 0.5)
	cc.SolveNormal()
	cc.SolveFriction()

	if c.NormalImpulse != 0 {
		t.Errorf("normal impulse = %v, want 0", c.NormalImpulse)
	}
	if got := b.Velocity().Linear.Z(); got != 2 {
		t.Errorf("vz = %v, want 2", got)
	}
}

func TestSolveNormalRestitutionThreshold(t *testing.T) {
	tests := []struct {
		name     string
		approach float64
		want     float64
	}{
		{"slow contact sticks", -0.5, 0},
		{"fast contact bounces", -4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewSphere(0.5, 1, spatial.Translation(mgl64.Vec3{0, 0, 0.5}), false)
			b.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{0, 0, tt.approach}})
			c := Contact{B: b, Point: mgl64.Vec3{}, Normal: Up}
			cc := NewContactConstraint(&c, 0.5, 0)
			for i := 0; i < 4; i++ {
				cc.SolveNormal()
			}
			if got := b.Velocity().Linear.Z(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("vz = %v, want %v", got, tt.want)
			}
			if c.NormalImpulse < 0 {
				t.Errorf("normal impulse = %v, want >= 0", c.NormalImpulse)
			}
		})
	}
}

func TestSolveFrictionIsBoxed(t *testing.T) {
	b := NewSphere(0.5, 1, spatial.Translation(mgl64.Vec3{0, 0, 0.5}), false)
	b.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{5, 0, -0.1}})
	c := Contact{B: b, Point: mgl64.Vec3{0, 0, 0.5}, Normal: Up}
	cc := NewContactConstraint(&c, 0, 0.5)
	cc.SolveNormal()
	cc.SolveFriction()

	limit := 0.5 * c.NormalImpulse
	for i, ti := range c.TangentImpulse {
		if math.Abs(ti) > limit+1e-12 {
			t.Errorf("tangent impulse %d = %v exceeds %v", i, ti, limit)
		}
	}
	if math.Abs(c.TangentImpulse[0]+limit) > 1e-12 {
		t.Errorf("sliding friction = %v, want %v", c.TangentImpulse[0], -limit)
	}
}

func TestMaterialMixing(t *testing.T) {
	w := NewWorld(DefaultConfig())
	bouncy := NewSphere(1, 1, spatial.Identity(), false)
	bouncy.SetMaterial(Material{Restitution: 0.9, Friction: 0.125})
	plain := NewSphere(1, 1, spatial.Identity(), false)

	tests := []struct {
		name        string
		a, b        *RigidBody
		restitution float64
		friction    float64
	}{
		{"defaults", nil, plain, 0.3, 0.5},
		{"ground and material", nil, bouncy, 0.9, 0.25},
		{"material pair", bouncy, bouncy, 0.9, 0.125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mu := w.coefficients(tt.a, tt.b)
			if math.Abs(e-tt.restitution) > 1e-12 || math.Abs(mu-tt.friction) > 1e-12 {
				t.Errorf("coefficients = (%v, %v), want (%v, %v)", e, mu, tt.restitution, tt.friction)
			}
		})
	}
}

func TestStepAccounting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FixedTimestep = 0.25
	cfg.MaxSubsteps = 2
	w := NewWorld(cfg)

	if n := w.Step(0.1); n != 0 {
		t.Errorf("Step(0.1) = %d, want 0", n)
	}
	if math.Abs(w.Alpha()-0.4) > 1e-12 {
		t.Errorf("alpha = %v, want 0.4", w.Alpha())
	}
	if n := w.Step(0.2); n != 1 {
		t.Errorf("Step(0.2) = %d, want 1", n)
	}
	if n := w.Step(1.1); n != 2 {
		t.Errorf("Step(1.1) = %d, want 2", n)
	}
	if w.Alpha() >= 1 {
		t.Errorf("alpha = %v after hitting the cap, want < 1", w.Alpha())
	}
	if w.Substeps() != 3 || math.Abs(w.Time()-0.75) > 1e-12 {
		t.Errorf("substeps = %d time = %v, want 3 and 0.75", w.Substeps(), w.Time())
	}
}

func TestBodyHandles(t *testing.T) {
	w := NewWorld(DefaultConfig())
	a := w.AddBody(NewSphere(1, 1, spatial.Identity(), false))
	b := w.AddBody(NewSphere(1, 1, spatial.Identity(), false))
	if a == b {
		t.Fatal("handles should be distinct")
	}
	if err := w.RemoveBody(a); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	if _, err := w.Body(a); err != ErrUnknownBody {
		t.Errorf("Body(removed) err = %v, want ErrUnknownBody", err)
	}
	if got, err := w.Body(b); err != nil || got.ID() != b {
		t.Errorf("Body(b) = %v, %v", got, err)
	}
	if err := w.RemoveBody(a); err != ErrUnknownBody {
		t.Errorf("second RemoveBody err = %v", err)
	}
}
