package metrics

import (
	"math"

	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/sim"
)

// ContactImpulse averages the summed normal impulse of the last substep's
// contacts per frame.
type ContactImpulse struct {
	name    string
	sum     float64
	samples int
}

func NewContactImpulse() *ContactImpulse {
	return &ContactImpulse{
		name: "contact_impulse",
	}
}

func (c *ContactImpulse) Name() string {
	return c.name
}

func (c *ContactImpulse) Observe(w *physics.World, f sim.Frame) {
	for _, ct := range w.Contacts() {
		c.sum += ct.NormalImpulse
	}
	c.samples++
}

func (c *ContactImpulse) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ContactImpulse) Reset() {
	c.sum = 0
	c.samples = 0
}

// MaxPenetration is the deepest contact seen in any observed frame.
type MaxPenetration struct {
	name string
	max  float64
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration"}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(w *physics.World, f sim.Frame) {
	for _, ct := range w.Contacts() {
		m.max = math.Max(m.max, ct.Penetration)
	}
}

func (m *MaxPenetration) Value() float64 { return m.max }
func (m *MaxPenetration) Reset()         { m.max = 0 }

// ContactCount averages the number of contacts per frame.
type ContactCount struct {
	name    string
	total   int
	samples int
}

func NewContactCount() *ContactCount {
	return &ContactCount{name: "contacts"}
}

func (c *ContactCount) Name() string { return c.name }

func (c *ContactCount) Observe(w *physics.World, f sim.Frame) {
	c.total += f.Contacts
	c.samples++
}

func (c *ContactCount) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *ContactCount) Reset() {
	c.total = 0
	c.samples = 0
}
