package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/odeint/internal/analysis"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/viz"
)

func TestCanvasSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasSVG(c, 10)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("got %d dots, want 2", got)
	}
	if !strings.Contains(svg, `width="40" height="40"`) {
		t.Errorf("unexpected size in %q", svg[:120])
	}
	if !strings.Contains(svg, `cx="5.0" cy="5.0"`) || !strings.Contains(svg, `cx="35.0" cy="35.0"`) {
		t.Error("dots not at expected positions")
	}
	if CanvasSVG(nil, 1) != "" {
		t.Error("nil canvas should render nothing")
	}
}

func TestPortraitSVG(t *testing.T) {
	p, err := analysis.NewPhasePortrait([]dynamo.State{{0, 0}, {1, 1}, {2, 0}}, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := PortraitSVG(&buf, p, 120, 60, "#ff00ff"); err != nil {
		t.Fatal(err)
	}
	svg := buf.String()
	if !strings.Contains(svg, `stroke="#ff00ff"`) || strings.Count(svg, "L") != 2 {
		t.Errorf("unexpected path in %s", svg)
	}
	// x spans 0..2 padded to -0.2..2.2, so the first point sits at 120/12.
	if !strings.Contains(svg, "M10.0,") {
		t.Errorf("first point misplaced: %s", svg)
	}

	single := &analysis.PhasePortrait{Points: []analysis.Point{{X: 1, Y: 1}}}
	if err := PortraitSVG(&buf, single, 10, 10, "red"); err == nil {
		t.Error("expected error for a single point")
	}
}
