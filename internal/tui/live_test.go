package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/sim"
)

func TestLiveRendererThrottles(t *testing.T) {
	w, err := scene.Build(config.GetPreset("drop"), nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	r := NewLiveRenderer(w, &buf, "drop", 10)

	clock := time.Unix(100, 0)
	r.now = func() time.Time { return clock }

	r.OnFrame(sim.Capture(w, 1, 0, 0))
	first := buf.Len()
	if first == 0 {
		t.Fatal("nothing rendered")
	}

	clock = clock.Add(50 * time.Millisecond)
	r.OnFrame(sim.Capture(w, 2, 0, 0))
	if buf.Len() != first {
		t.Error("rendered faster than frame rate")
	}

	clock = clock.Add(100 * time.Millisecond)
	r.OnFrame(sim.Capture(w, 3, 0, 0))
	if buf.Len() == first {
		t.Error("second frame not rendered")
	}

	out := buf.String()
	if !strings.Contains(out, "drop") || !strings.Contains(out, "ball z=5.00") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
