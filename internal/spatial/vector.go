package spatial

import "github.com/go-gl/mathgl/mgl64"

// Twist is a spatial motion vector: angular velocity and the linear velocity
// of the frame origin.
type Twist struct {
	Angular mgl64.Vec3
	Linear  mgl64.Vec3
}

// Wrench is a spatial force vector: torque about the frame origin and force.
type Wrench struct {
	Torque mgl64.Vec3
	Force  mgl64.Vec3
}

func (t Twist) Add(o Twist) Twist {
	return Twist{t.Angular.Add(o.Angular), t.Linear.Add(o.Linear)}
}

func (t Twist) Sub(o Twist) Twist {
	return Twist{t.Angular.Sub(o.Angular), t.Linear.Sub(o.Linear)}
}

func (t Twist) Scale(s float64) Twist {
	return Twist{t.Angular.Mul(s), t.Linear.Mul(s)}
}

// Cross is the spatial force cross product t ×* f.
func (t Twist) Cross(f Wrench) Wrench {
	return Wrench{
		Torque: t.Angular.Cross(f.Torque).Add(t.Linear.Cross(f.Force)),
		Force:  t.Angular.Cross(f.Force),
	}
}

// CrossMotion is the spatial motion cross product t × o.
func (t Twist) CrossMotion(o Twist) Twist {
	return Twist{
		Angular: t.Angular.Cross(o.Angular),
		Linear:  t.Angular.Cross(o.Linear).Add(t.Linear.Cross(o.Angular)),
	}
}

// Dot is the power pairing between motion and force.
func (t Twist) Dot(f Wrench) float64 {
	return t.Angular.Dot(f.Torque) + t.Linear.Dot(f.Force)
}

func (t Twist) Rotate(q mgl64.Quat) Twist {
	return Twist{q.Rotate(t.Angular), q.Rotate(t.Linear)}
}

func (t Twist) InverseRotate(q mgl64.Quat) Twist {
	c := q.Conjugate()
	return Twist{c.Rotate(t.Angular), c.Rotate(t.Linear)}
}

func (t Twist) IsZero() bool {
	return t.Angular == (mgl64.Vec3{}) && t.Linear == (mgl64.Vec3{})
}

func (w Wrench) Add(o Wrench) Wrench {
	return Wrench{w.Torque.Add(o.Torque), w.Force.Add(o.Force)}
}

func (w Wrench) Sub(o Wrench) Wrench {
	return Wrench{w.Torque.Sub(o.Torque), w.Force.Sub(o.Force)}
}

func (w Wrench) Scale(s float64) Wrench {
	return Wrench{w.Torque.Mul(s), w.Force.Mul(s)}
}

func (w Wrench) Rotate(q mgl64.Quat) Wrench {
	return Wrench{q.Rotate(w.Torque), q.Rotate(w.Force)}
}

func (w Wrench) InverseRotate(q mgl64.Quat) Wrench {
	c := q.Conjugate()
	return Wrench{c.Rotate(w.Torque), c.Rotate(w.Force)}
}
