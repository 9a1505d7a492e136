package spatial

import "github.com/go-gl/mathgl/mgl64"

// Inertia is the spatial inertia of one body. Moments are the diagonal of the
// rotational inertia about the centre of mass in the principal frame;
// Principal locates that frame (centre of mass and axes) in the parent frame.
type Inertia struct {
	Mass      float64
	Moments   mgl64.Vec3
	Principal Pose
}

func NewInertia(mass float64, moments mgl64.Vec3, principal Pose) Inertia {
	return Inertia{Mass: mass, Moments: moments, Principal: principal}
}

// ZeroInertia is the inertia of a body that never moves.
func ZeroInertia() Inertia {
	return Inertia{Principal: Identity()}
}

// InertiaFromMatrix diagonalises a symmetric rotational inertia tensor given
// about com in the parent frame.
func InertiaFromMatrix(mass float64, com mgl64.Vec3, m mgl64.Mat3) Inertia {
	values, vectors := symmetricEigen(m)
	q := mgl64.Mat4ToQuat(vectors.Mat4()).Normalize()
	return Inertia{
		Mass:      mass,
		Moments:   values,
		Principal: Pose{Position: com, Orientation: q},
	}
}

// CenterOfMass returns the centre of mass in the parent frame.
func (in Inertia) CenterOfMass() mgl64.Vec3 {
	return in.Principal.Position
}

// Apply maps a twist (about the parent origin) to spatial momentum.
func (in Inertia) Apply(t Twist) Wrench {
	c := in.Principal.Position
	vc := t.Linear.Add(t.Angular.Cross(c))

	wp := in.Principal.InverseRotate(t.Angular)
	vp := in.Principal.InverseRotate(vc)

	lp := mgl64.Vec3{in.Moments[0] * wp[0], in.Moments[1] * wp[1], in.Moments[2] * wp[2]}
	pp := vp.Mul(in.Mass)

	p := in.Principal.Rotate(pp)
	l := in.Principal.Rotate(lp).Add(c.Cross(p))
	return Wrench{Torque: l, Force: p}
}

// Solve is the inverse of Apply: it maps a wrench to the twist it produces.
// Zero mass or zero moments divide by zero; static bodies must not call it.
func (in Inertia) Solve(w Wrench) Twist {
	c := in.Principal.Position
	nc := w.Torque.Sub(c.Cross(w.Force))

	np := in.Principal.InverseRotate(nc)
	fp := in.Principal.InverseRotate(w.Force)

	wp := mgl64.Vec3{np[0] / in.Moments[0], np[1] / in.Moments[1], np[2] / in.Moments[2]}
	vp := fp.Mul(1 / in.Mass)

	omega := in.Principal.Rotate(wp)
	vc := in.Principal.Rotate(vp)
	return Twist{Angular: omega, Linear: vc.Sub(omega.Cross(c))}
}

// GravityWrench returns the gravity load for acceleration g given in the
// same frame as the inertia.
func (in Inertia) GravityWrench(g mgl64.Vec3) Wrench {
	f := g.Mul(in.Mass)
	return Wrench{Torque: in.Principal.Position.Cross(f), Force: f}
}

// BiasWrench is the velocity-product term v ×* (I v).
func (in Inertia) BiasWrench(v Twist) Wrench {
	return v.Cross(in.Apply(v))
}

func (in Inertia) KineticEnergy(v Twist) float64 {
	return 0.5 * v.Dot(in.Apply(v))
}

// TransformBy re-expresses the inertia in the frame pose is given in.
func (in Inertia) TransformBy(pose Pose) Inertia {
	in.Principal = pose.Compose(in.Principal).Normalized()
	return in
}

// RotatedBy applies only the rotation part of pose.
func (in Inertia) RotatedBy(pose Pose) Inertia {
	in.Principal = Pose{
		Position:    pose.Rotate(in.Principal.Position),
		Orientation: pose.Orientation.Mul(in.Principal.Orientation).Normalize(),
	}
	return in
}

func (in Inertia) InverseMass() float64 {
	if in.Mass == 0 {
		return 0
	}
	return 1 / in.Mass
}

// Tensor returns the rotational inertia about the centre of mass, in the
// parent orientation.
func (in Inertia) Tensor() mgl64.Mat3 {
	r := in.Principal.Matrix()
	return r.Mul3(mgl64.Diag3(in.Moments)).Mul3(r.Transpose())
}

// InverseTensor inverts the rotational inertia axis by axis; zero moments map
// to zero so immovable axes absorb no impulse.
func (in Inertia) InverseTensor() mgl64.Mat3 {
	var d mgl64.Vec3
	for i := 0; i < 3; i++ {
		if in.Moments[i] != 0 {
			d[i] = 1 / in.Moments[i]
		}
	}
	r := in.Principal.Matrix()
	return r.Mul3(mgl64.Diag3(d)).Mul3(r.Transpose())
}

// Combine sums two inertias expressed in the same frame.
func Combine(a, b Inertia) Inertia {
	mass := a.Mass + b.Mass
	if mass == 0 {
		return ZeroInertia()
	}
	com := a.CenterOfMass().Mul(a.Mass).Add(b.CenterOfMass().Mul(b.Mass)).Mul(1 / mass)
	tensor := a.shiftedTensor(com).Add(b.shiftedTensor(com))
	return InertiaFromMatrix(mass, com, tensor)
}

// shiftedTensor moves the rotational inertia to point (Huygens-Steiner).
func (in Inertia) shiftedTensor(point mgl64.Vec3) mgl64.Mat3 {
	d := in.CenterOfMass().Sub(point)
	dd := d.Dot(d)
	shift := mgl64.Ident3().Mul(dd).Sub(outer(d, d))
	return in.Tensor().Add(shift.Mul(in.Mass))
}

func outer(a, b mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromCols(b.Mul(a[0]), b.Mul(a[1]), b.Mul(a[2])).Transpose()
}
