package spray

import (
	"math"
	"testing"

	"github.com/esimov/spraycan/surface"
)

func TestCanSceneFollowsResize(t *testing.T) {
	p, err := Lookup("spraycan")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	box := surface.NewBox(300, 300)
	rec := &surface.Recorder{}
	surf, err := surface.New(box, rec)
	if err != nil {
		t.Fatalf("surface.New: %v", err)
	}
	sim, err := NewSimulator(p.Source, p.Scene, surf, WithRand(&seqRand{vals: []float64{0.5}}))
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := sim.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tick(t, sim)
	before := sim.Particles()

	box.SetSize(600, 400)
	if err := surf.Resize(); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	rec.Reset()
	sim.Redraw()

	rects := rec.Filter(surface.OpFillRect)
	want := [][]float64{
		{0, 0, 600, 400}, // background
		{0, 0, 5, 5},     // corner markers
		{595, 0, 5, 5},
		{0, 395, 5, 5},
		{595, 395, 5, 5},
		{280, 120, 40, 80}, // can body
		{295, 110, 10, 10}, // cap
	}
	if len(rects) != len(want) {
		t.Fatalf("drew %d rectangles, want %d", len(rects), len(want))
	}
	for i, w := range want {
		for j := range w {
			if rects[i].Rect[j] != w[j] {
				t.Errorf("rect %d = %v, want %v", i, rects[i].Rect, w)
				break
			}
		}
	}
	border := rec.Filter(surface.OpStrokeRect)
	if len(border) != 1 || border[0].Rect[2] != 600 || border[0].Rect[3] != 400 {
		t.Errorf("border = %+v, want 600x400", border)
	}
	cone := rec.Filter(surface.OpFillPolygon)
	if len(cone) != 1 || cone[0].Points[0] != surface.Pt(300, 100) {
		t.Fatalf("cone = %+v, want apex at (300, 100)", cone)
	}

	after := sim.Particles()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("particle %d changed on resize: %+v -> %+v", i, before[i], after[i])
		}
	}

	tick(t, sim)
	ps := sim.Particles()
	newest := ps[len(ps)-1]
	// Spawned at the new nozzle (300, 100), then advanced by speed 2 at angle 0.
	if newest.GetX() != 302 || newest.GetY() != 100 {
		t.Errorf("new particle at (%v, %v), want (302, 100)", newest.GetX(), newest.GetY())
	}
}

func TestConeOutline(t *testing.T) {
	c := &CanScene{ConeLength: 100, Facing: 0, HalfSpread: math.Pi / 2}
	pts := c.ConeOutline(surface.Pt(10, 10))

	const eps = 1e-9
	if math.Abs(pts[1].X-10) > eps || math.Abs(pts[1].Y+90) > eps {
		t.Errorf("left edge end = %+v, want (10, -90)", pts[1])
	}
	if math.Abs(pts[2].X-10) > eps || math.Abs(pts[2].Y-110) > eps {
		t.Errorf("right edge end = %+v, want (10, 110)", pts[2])
	}
}

func TestCircleScene(t *testing.T) {
	c := &CircleScene{Fill: surface.MustHex("#0000ff"), Margin: 5}

	tests := []struct {
		w, h, want float64
	}{
		{300, 200, 95},
		{200, 300, 95},
		{8, 8, 0},
	}
	for _, tt := range tests {
		if got := c.Radius(tt.w, tt.h); got != tt.want {
			t.Errorf("Radius(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
	if _, ok := c.Nozzle(100, 100); ok {
		t.Error("circle scene reported a nozzle")
	}

	rec := &surface.Recorder{}
	surf, err := surface.New(surface.NewBox(300, 200), rec)
	if err != nil {
		t.Fatalf("surface.New: %v", err)
	}
	c.Draw(surf)

	arcs := rec.Filter(surface.OpFillArc)
	if len(arcs) != 1 || arcs[0].Rect[0] != 150 || arcs[0].Rect[1] != 100 || arcs[0].Rect[2] != 95 {
		t.Errorf("circle = %+v, want centered radius 95", arcs)
	}
	if len(rec.Filter(surface.OpFillRect)) != 0 {
		t.Error("transparent background should not be painted")
	}
}

func TestPresets(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Fatalf("Names() = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("Names() not sorted: %v", names)
		}
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if p.Name != name || p.Interval <= 0 || p.Scene == nil {
				t.Errorf("incomplete preset %+v", p)
			}
			if err := p.Source.Validate(); err != nil {
				t.Errorf("invalid source: %v", err)
			}
			if cs, ok := p.Scene.(*CanScene); ok {
				if cs.Facing != p.Source.Facing || cs.HalfSpread != p.Source.HalfSpread {
					t.Errorf("cone %v±%v does not match source %v±%v",
						cs.Facing, cs.HalfSpread, p.Source.Facing, p.Source.HalfSpread)
				}
			}
		})
	}

	a, _ := Lookup("spraycan")
	b, _ := Lookup("spraycan")
	if a.Scene == b.Scene {
		t.Error("Lookup shares scene instances between calls")
	}
	if _, err := Lookup("graffiti"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestCanSceneConeFollowsSource(t *testing.T) {
	src := Source{Facing: math.Pi / 3, HalfSpread: 0.3}
	cs := canScene(surface.Black, src)
	if cs.Facing != src.Facing || cs.HalfSpread != src.HalfSpread {
		t.Errorf("cone %v±%v, want %v±%v", cs.Facing, cs.HalfSpread, src.Facing, src.HalfSpread)
	}
}
