package physics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/spatial"
)

const frame = 1.0 / 60.0

func at(x, y, z float64) spatial.Pose {
	return spatial.Translation(mgl64.Vec3{x, y, z})
}

func mustBody(w *physics.World, id physics.BodyID) *physics.RigidBody {
	b, err := w.Body(id)
	Expect(err).NotTo(HaveOccurred())
	return b
}

var _ = Describe("World", func() {
	var cfg physics.Config

	BeforeEach(func() {
		cfg = physics.DefaultConfig()
	})

	Describe("a box resting on the ground", func() {
		It("settles without sinking", func() {
			cfg.Restitution = 0
			w := physics.NewWorld(cfg)
			id := w.AddBody(physics.NewBox(mgl64.Vec3{1, 1, 1}, 1, at(0, 0, 0.5), false))

			for i := 0; i < 30; i++ {
				w.Step(frame)
			}

			b := mustBody(w, id)
			Expect(math.Abs(b.Velocity().Linear.Z())).To(BeNumerically("<", 0.01))
			Expect(b.Pose().Position.Z()).To(BeNumerically(">", 0.5-0.01))
		})
	})

	Describe("ray casting", func() {
		It("hits the nearest sphere surface", func() {
			w := physics.NewWorld(cfg)
			id := w.AddBody(physics.NewSphere(1, 1, at(0, 0, 5), false))

			hit, ok := w.RayCast(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 100)
			Expect(ok).To(BeTrue())
			Expect(hit.Body.ID()).To(Equal(id))
			Expect(hit.Distance).To(BeNumerically("~", 4, 1e-9))
			Expect(hit.Point.Z()).To(BeNumerically("~", 4, 1e-9))
		})

		It("prefers the closer of two bodies", func() {
			w := physics.NewWorld(cfg)
			w.AddBody(physics.NewSphere(1, 1, at(0, 0, 9), false))
			near := w.AddBody(physics.NewBox(mgl64.Vec3{2, 2, 2}, 1, at(0, 0, 4), false))

			hit, ok := w.RayCast(mgl64.Vec3{}, mgl64.Vec3{0, 0, 2}, 100)
			Expect(ok).To(BeTrue())
			Expect(hit.Body.ID()).To(Equal(near))
			Expect(hit.Distance).To(BeNumerically("~", 3, 1e-9))
		})

		It("misses beyond the maximum distance", func() {
			w := physics.NewWorld(cfg)
			w.AddBody(physics.NewSphere(1, 1, at(0, 0, 5), false))

			_, ok := w.RayCast(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 3)
			Expect(ok).To(BeFalse())
		})

		It("ignores bodies behind the origin", func() {
			w := physics.NewWorld(cfg)
			w.AddBody(physics.NewSphere(1, 1, at(0, 0, -5), false))

			_, ok := w.RayCast(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 100)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("a head-on collision", func() {
		var w *physics.World
		var left, right physics.BodyID

		BeforeEach(func() {
			cfg.Gravity = mgl64.Vec3{}
			cfg.GroundEnabled = false
			cfg.Restitution = 1
			w = physics.NewWorld(cfg)
			l := physics.NewSphere(0.5, 1, at(-0.5, 0, 0), false)
			l.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{1, 0, 0}})
			r := physics.NewSphere(0.5, 1, at(0.5, 0, 0), false)
			r.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{-1, 0, 0}})
			left, right = w.AddBody(l), w.AddBody(r)
		})

		It("reverses both velocities when perfectly elastic", func() {
			w.Step(frame)
			Expect(mustBody(w, left).Velocity().Linear.X()).To(BeNumerically("~", -1, 1e-9))
			Expect(mustBody(w, right).Velocity().Linear.X()).To(BeNumerically("~", 1, 1e-9))
		})

		It("conserves linear momentum", func() {
			for i := 0; i < 10; i++ {
				w.Step(frame)
			}
			p := mustBody(w, left).Velocity().Linear.Add(mustBody(w, right).Velocity().Linear)
			Expect(p.Len()).To(BeNumerically("<", 1e-9))
		})

		It("separates the spheres", func() {
			for i := 0; i < 10; i++ {
				w.Step(frame)
			}
			gap := mustBody(w, right).Pose().Position.Sub(mustBody(w, left).Pose().Position).Len()
			Expect(gap).To(BeNumerically(">", 1))
		})
	})

	Describe("overlapping boxes", func() {
		It("pass through each other untouched", func() {
			cfg.Gravity = mgl64.Vec3{}
			cfg.GroundEnabled = false
			w := physics.NewWorld(cfg)
			a := physics.NewBox(mgl64.Vec3{1, 1, 1}, 1, at(0, 0, 0), false)
			a.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{1, 0, 0}})
			ida := w.AddBody(a)
			idb := w.AddBody(physics.NewBox(mgl64.Vec3{1, 1, 1}, 1, at(0.5, 0, 0), false))

			w.Step(frame)

			Expect(w.Contacts()).To(BeEmpty())
			Expect(mustBody(w, ida).Velocity()).To(Equal(spatial.Twist{Linear: mgl64.Vec3{1, 0, 0}}))
			Expect(mustBody(w, idb).Velocity()).To(Equal(spatial.Twist{}))
		})
	})

	Describe("restitution", func() {
		bounce := func(e float64) float64 {
			cfg.Restitution = e
			w := physics.NewWorld(cfg)
			id := w.AddBody(physics.NewSphere(0.5, 1, at(0, 0, 2), false))
			peak := 0.0
			for i := 0; i < 180; i++ {
				w.Step(frame)
				if i >= 50 {
					peak = math.Max(peak, mustBody(w, id).Pose().Position.Z())
				}
			}
			return peak
		}

		It("bounces higher with a larger coefficient", func() {
			low, high := bounce(0.2), bounce(0.8)
			Expect(high).To(BeNumerically(">", low+0.3))
		})

		It("stays below the drop height and rises with the coefficient", func() {
			prev := 0.0
			for _, e := range []float64{0.1, 0.3, 0.5, 0.7, 0.9, 0.99} {
				apex := bounce(e)
				Expect(apex).To(BeNumerically(">", 0), "e=%v", e)
				Expect(apex).To(BeNumerically("<", 2), "e=%v", e)
				Expect(apex).To(BeNumerically(">=", prev), "e=%v", e)
				prev = apex
			}
		})

		It("uses a body material over the world default", func() {
			cfg.Restitution = 0
			w := physics.NewWorld(cfg)
			s := physics.NewSphere(0.5, 1, at(0, 0, 2), false)
			s.SetMaterial(physics.Material{Restitution: 0.8, Friction: 0.5})
			id := w.AddBody(s)
			bounced := false
			for i := 0; i < 60; i++ {
				w.Step(frame)
				if mustBody(w, id).Velocity().Linear.Z() > 1 {
					bounced = true
				}
			}
			Expect(bounced).To(BeTrue())
		})
	})

	Describe("friction", func() {
		It("slows a sliding box", func() {
			cfg.Restitution = 0
			w := physics.NewWorld(cfg)
			b := physics.NewBox(mgl64.Vec3{1, 1, 1}, 1, at(0, 0, 0.5), false)
			b.SetVelocity(spatial.Twist{Linear: mgl64.Vec3{2, 0, 0}})
			id := w.AddBody(b)

			for i := 0; i < 12; i++ {
				w.Step(frame)
			}
			vx := mustBody(w, id).Velocity().Linear.X()
			Expect(vx).To(BeNumerically("<", 1.6))
			Expect(vx).To(BeNumerically(">", 0))
		})
	})

	Describe("invariants", func() {
		It("is deterministic for identical worlds", func() {
			build := func() *physics.World {
				w := physics.NewWorld(cfg)
				w.AddBody(physics.NewBox(mgl64.Vec3{1, 1, 1}, 1, spatial.NewPose(
					mgl64.Vec3{0, 0, 2}, mgl64.QuatRotate(0.3, mgl64.Vec3{1, 1, 0}.Normalize())), false))
				w.AddBody(physics.NewSphere(0.4, 2, at(0.2, 0.1, 4), false))
				return w
			}
			a, b := build(), build()
			for i := 0; i < 120; i++ {
				a.Step(frame)
				b.Step(frame)
			}
			ba, bb := a.Bodies(), b.Bodies()
			for i := range ba {
				Expect(ba[i].Pose()).To(Equal(bb[i].Pose()))
				Expect(ba[i].Velocity()).To(Equal(bb[i].Velocity()))
			}
		})

		It("never moves a static body", func() {
			w := physics.NewWorld(cfg)
			table := w.AddBody(physics.NewBox(mgl64.Vec3{4, 4, 1}, 0, at(0, 0, 1), true))
			w.AddBody(physics.NewSphere(0.5, 1, at(0, 0, 3), false))
			for i := 0; i < 120; i++ {
				w.Step(frame)
				s := mustBody(w, table)
				Expect(s.Velocity().IsZero()).To(BeTrue())
				Expect(s.Pose().Position).To(Equal(mgl64.Vec3{0, 0, 1}))
			}
		})

		It("keeps orientations normalised", func() {
			cfg.Gravity = mgl64.Vec3{}
			w := physics.NewWorld(cfg)
			b := physics.NewBox(mgl64.Vec3{1, 2, 3}, 1, at(0, 0, 5), false)
			b.SetVelocity(spatial.Twist{Angular: mgl64.Vec3{1, 2, 3}})
			id := w.AddBody(b)
			for i := 0; i < 600; i++ {
				w.Step(frame)
				Expect(mustBody(w, id).Pose().Orientation.Len()).To(BeNumerically("~", 1, 1e-5))
			}
		})

		It("never accumulates a pulling normal impulse", func() {
			w := physics.NewWorld(cfg)
			w.AddBody(physics.NewBox(mgl64.Vec3{1, 1, 1}, 1, spatial.NewPose(
				mgl64.Vec3{0, 0, 1.5}, mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0})), false))
			w.AddBody(physics.NewSphere(0.5, 1, at(0.1, 0, 3), false))
			for i := 0; i < 240; i++ {
				w.Step(frame)
				for _, c := range w.Contacts() {
					Expect(c.NormalImpulse).To(BeNumerically(">=", 0))
					for _, t := range c.TangentImpulse {
						Expect(math.Abs(t)).To(BeNumerically("<=", w.Config().Friction*c.NormalImpulse+1e-12))
					}
				}
			}
		})
	})
})
