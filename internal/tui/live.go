// Package tui prints a plain ANSI side view of a running world, for
// terminals or pipes where the full-screen viewer is unwanted.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/viz"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that redraws the world at most frameRate
// times per wall-clock second.
type LiveRenderer struct {
	world     *physics.World
	out       io.Writer
	name      string
	frameRate int
	lastFrame time.Time
	canvas    *viz.Canvas
	proj      viz.Projection
	now       func() time.Time
}

func NewLiveRenderer(w *physics.World, out io.Writer, name string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	c := viz.NewCanvas(width, height)
	pw, ph := c.PixelSize()
	return &LiveRenderer{
		world:     w,
		out:       out,
		name:      name,
		frameRate: frameRate,
		canvas:    c,
		proj:      viz.FitProjection(w, pw, ph),
		now:       time.Now,
	}
}

func (r *LiveRenderer) OnFrame(f sim.Frame) {
	now := r.now()
	if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now

	viz.Render(r.canvas, r.proj, r.world)
	r.render(f)
}

func (r *LiveRenderer) render(f sim.Frame) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%.2fs  frame=%d  contacts=%d\n", r.name, f.Time, f.Index, f.Contacts)
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	for i, body := range f.Bodies {
		if i >= 4 {
			break
		}
		if body.Static {
			continue
		}
		fmt.Fprintf(&b, "  %s z=%.2f vz=%.2f", body.Name, body.Position.Z(), body.Linear.Z())
	}
	b.WriteString("\n")

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
