package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const jacobiSweeps = 32

// symmetricEigen runs cyclic Jacobi rotations on a symmetric 3x3 matrix. It
// returns the eigenvalues and a right-handed matrix whose columns are the
// matching eigenvectors.
func symmetricEigen(m mgl64.Mat3) (mgl64.Vec3, mgl64.Mat3) {
	var a, v [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			a[r][c] = 0.5 * (m.At(r, c) + m.At(c, r))
		}
		v[r][r] = 1
	}

	for sweep := 0; sweep < jacobiSweeps; sweep++ {
		off := a[0][1]*a[0][1] + a[0][2]*a[0][2] + a[1][2]*a[1][2]
		scale := a[0][0]*a[0][0] + a[1][1]*a[1][1] + a[2][2]*a[2][2]
		if off <= 1e-30*scale || off == 0 {
			break
		}
		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				if a[p][q] == 0 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				for k := 0; k < 3; k++ {
					akp, akq := a[k][p], a[k][q]
					a[k][p] = c*akp - s*akq
					a[k][q] = s*akp + c*akq
				}
				for k := 0; k < 3; k++ {
					apk, aqk := a[p][k], a[q][k]
					a[p][k] = c*apk - s*aqk
					a[q][k] = s*apk + c*aqk
				}
				for k := 0; k < 3; k++ {
					vkp, vkq := v[k][p], v[k][q]
					v[k][p] = c*vkp - s*vkq
					v[k][q] = s*vkp + c*vkq
				}
			}
		}
	}

	values := mgl64.Vec3{a[0][0], a[1][1], a[2][2]}
	cols := [3]mgl64.Vec3{}
	for c := 0; c < 3; c++ {
		cols[c] = mgl64.Vec3{v[0][c], v[1][c], v[2][c]}
	}
	if cols[0].Cross(cols[1]).Dot(cols[2]) < 0 {
		cols[2] = cols[2].Mul(-1)
	}
	return values, mgl64.Mat3FromCols(cols[0], cols[1], cols[2])
}
