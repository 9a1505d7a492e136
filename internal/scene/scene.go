// Package scene turns a config.Config into a populated physics.World.
package scene

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/spatial"
)

// WorldConfig converts the YAML world block.
func WorldConfig(c config.WorldConfig) physics.Config {
	return physics.Config{
		Gravity:          mgl64.Vec3(c.Gravity),
		SolverIterations: c.Iterations,
		Restitution:      c.Restitution,
		Friction:         c.Friction,
		FixedTimestep:    c.FixedDt,
		MaxSubsteps:      c.MaxSubsteps,
		GroundHeight:     c.GroundHeight,
		GroundEnabled:    c.GroundEnabled,
	}
}

// Build validates cfg and returns a world holding its bodies in order.
func Build(cfg *config.Config, logger *log.Logger) (*physics.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := physics.NewWorld(WorldConfig(cfg.World), physics.WithLogger(logger))
	for i := range cfg.Bodies {
		b, err := NewBody(&cfg.Bodies[i], cfg.World)
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, cfg.Bodies[i].Name, err)
		}
		w.AddBody(b)
	}
	return w, nil
}

// NewBody creates the body described by bc. Ground slabs are placed with
// their top face at the world's ground height plus the body's z position.
func NewBody(bc *config.BodyConfig, world config.WorldConfig) (*physics.RigidBody, error) {
	pose := spatial.NewPose(mgl64.Vec3(bc.Position), Orientation(bc.Orientation))

	var b *physics.RigidBody
	switch bc.Shape {
	case config.ShapeSphere:
		b = physics.NewSphere(bc.Radius, bc.Mass, pose, bc.Static)
	case config.ShapeBox:
		b = physics.NewBox(mgl64.Vec3(bc.Size), bc.Mass, pose, bc.Static)
	case config.ShapeCapsule:
		b = physics.NewCapsule(bc.Radius, bc.Length, bc.Mass, pose, bc.Static)
	case config.ShapeGround:
		size := bc.Size[0]
		if size <= 0 {
			size = 100
		}
		b = physics.NewStaticGround(size, world.GroundHeight+bc.Position[2])
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownShape, bc.Shape)
	}

	if bc.Name != "" {
		b.SetName(bc.Name)
	}
	b.SetVelocity(spatial.Twist{
		Angular: mgl64.Vec3(bc.AngularVelocity),
		Linear:  mgl64.Vec3(bc.Velocity),
	})
	if m := bc.Material; m != nil {
		b.SetMaterial(physics.Material{Restitution: m.Restitution, Friction: m.Friction})
	}
	return b, nil
}

// Orientation converts roll, pitch and yaw in degrees (applied about x, y
// then z) to a quaternion.
func Orientation(rpy [3]float64) mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(rpy[2]),
		mgl64.DegToRad(rpy[1]),
		mgl64.DegToRad(rpy[0]),
		mgl64.ZYX,
	).Normalize()
}
