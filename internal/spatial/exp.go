package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const smallAngle = 1e-6

// Exp maps a screw displacement (twist times duration, about the frame
// origin) to the finite rigid motion it generates.
func Exp(d Twist) Pose {
	w, u := d.Angular, d.Linear
	theta := w.Len()

	var a, b float64
	var q mgl64.Quat
	if theta < smallAngle {
		t2 := theta * theta
		a = 0.5 - t2/24
		b = 1.0/6 - t2/120
		q = mgl64.Quat{W: 1, V: w.Mul(0.5)}.Normalize()
	} else {
		sin, cos := math.Sincos(theta)
		a = (1 - cos) / (theta * theta)
		b = (theta - sin) / (theta * theta * theta)
		q = mgl64.QuatRotate(theta, w.Mul(1/theta))
	}

	wu := w.Cross(u)
	translation := u.Add(wu.Mul(a)).Add(w.Cross(wu).Mul(b))
	return Pose{Position: translation, Orientation: q}
}
