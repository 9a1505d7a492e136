package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/physics"
)

const (
	minSpan     = 4.0
	fitMargin   = 1.0
	largeExtent = 10.0
)

// Projection maps the world's x-z plane onto canvas pixels, looking along +y.
type Projection struct {
	Width, Height int
	Center        mgl64.Vec2
	Scale         float64
}

// Point returns the pixel for a world point. Depth (y) is dropped.
func (p Projection) Point(v mgl64.Vec3) (int, int) {
	x := float64(p.Width)/2 + (v.X()-p.Center[0])*p.Scale
	y := float64(p.Height)/2 - (v.Z()-p.Center[1])*p.Scale
	return int(math.Round(x)), int(math.Round(y))
}

func (p Projection) Length(l float64) int { return int(math.Round(l * p.Scale)) }

// FitProjection frames every body that fits in a few metres, plus the ground
// line when it is enabled. Large static slabs only contribute their centre.
func FitProjection(w *physics.World, width, height int) Projection {
	lo := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	grow := func(x, z, r float64) {
		lo[0], hi[0] = math.Min(lo[0], x-r), math.Max(hi[0], x+r)
		lo[1], hi[1] = math.Min(lo[1], z-r), math.Max(hi[1], z+r)
	}
	for _, b := range w.Bodies() {
		p := b.Pose().Position
		r := extent(b.Collider())
		if r > largeExtent {
			r = 0
		}
		grow(p.X(), p.Z(), r)
	}
	if cfg := w.Config(); cfg.GroundEnabled {
		lo[1] = math.Min(lo[1], cfg.GroundHeight)
		hi[1] = math.Max(hi[1], cfg.GroundHeight)
	}
	if math.IsInf(lo[0], 1) {
		lo, hi = mgl64.Vec2{-1, -1}, mgl64.Vec2{1, 1}
	}

	spanX := math.Max(hi[0]-lo[0]+2*fitMargin, minSpan)
	spanZ := math.Max(hi[1]-lo[1]+2*fitMargin, minSpan)
	return Projection{
		Width:  width,
		Height: height,
		Center: lo.Add(hi).Mul(0.5),
		Scale:  math.Min(float64(width)/spanX, float64(height)/spanZ),
	}
}

// extent is a bounding radius around the body origin.
func extent(c collide.Collider) float64 {
	switch c := c.(type) {
	case *collide.Sphere:
		return c.Radius
	case *collide.Box:
		return c.HalfExtents.Len()
	case *collide.Capsule:
		return c.Length()/2 + c.Radius
	}
	return 0
}

// Render clears the canvas and draws the ground line and every body.
func Render(c *Canvas, p Projection, w *physics.World) {
	c.Clear()
	if cfg := w.Config(); cfg.GroundEnabled {
		_, y := p.Point(mgl64.Vec3{0, 0, cfg.GroundHeight})
		c.DrawLine(0, y, p.Width-1, y)
	}
	for _, b := range w.Bodies() {
		DrawBody(c, p, b)
	}
}

// DrawBody draws the side outline of one body. Bodies without a collider are
// drawn as a small cross.
func DrawBody(c *Canvas, p Projection, b *physics.RigidBody) {
	switch col := b.WorldCollider().(type) {
	case *collide.Sphere:
		x, y := p.Point(col.Center)
		c.DrawCircle(x, y, p.Length(col.Radius))
		// orientation marker
		tip := col.Center.Add(b.Pose().Orientation.Rotate(mgl64.Vec3{col.Radius, 0, 0}))
		tx, ty := p.Point(tip)
		c.DrawLine(x, y, tx, ty)
	case *collide.Box:
		corners := col.Corners()
		for i := 0; i < 8; i++ {
			for bit := 1; bit < 8; bit <<= 1 {
				if j := i | bit; j != i {
					x0, y0 := p.Point(corners[i])
					x1, y1 := p.Point(corners[j])
					c.DrawLine(x0, y0, x1, y1)
				}
			}
		}
	case *collide.Capsule:
		ends := col.Ends()
		r := p.Length(col.Radius)
		x0, y0 := p.Point(ends[0])
		x1, y1 := p.Point(ends[1])
		c.DrawCircle(x0, y0, r)
		c.DrawCircle(x1, y1, r)
		c.DrawLine(x0, y0, x1, y1)
	default:
		x, y := p.Point(b.Pose().Position)
		c.DrawLine(x-1, y, x+1, y)
		c.DrawLine(x, y-1, x, y+1)
	}
}

// DrawTrail plots recent positions of the selected body.
func DrawTrail(c *Canvas, p Projection, trail []mgl64.Vec3) {
	for _, v := range trail {
		c.Set(p.Point(v))
	}
}
