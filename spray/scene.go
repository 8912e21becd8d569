package spray

import (
	"math"

	"github.com/esimov/spraycan/surface"
)

// Scene draws the static, non-particle part of a frame. Immediate-mode
// surfaces keep nothing between frames, so the scene is repainted before
// the particles on every tick and after every resize.
type Scene interface {
	Draw(s *surface.Surface)
	// Nozzle returns the emission point for a surface of the given size.
	// It reports false when the scene has no emitter.
	Nozzle(width, height float64) (surface.Point, bool)
}

// CanScene is a spray can standing in the middle of a framed background,
// with a translucent cone showing where the paint goes.
type CanScene struct {
	Background surface.Color
	Border     surface.Color
	Marker     surface.Color
	MarkerSize float64

	Body         surface.Color
	BodyWidth    float64
	BodyHeight   float64
	Cap          surface.Color
	CapSize      float64
	NozzleOffset float64

	Cone       surface.Color
	ConeLength float64
	Facing     float64
	HalfSpread float64
}

var _ Scene = (*CanScene)(nil)

// Draw implements Scene.
func (c *CanScene) Draw(s *surface.Surface) {
	w, h := float64(s.Width()), float64(s.Height())

	s.FillRect(0, 0, w, h, c.Background)
	s.StrokeRect(0, 0, w, h, c.Border)

	m := c.MarkerSize
	for _, p := range c.Markers(w, h) {
		s.FillRect(p.X, p.Y, m, m, c.Marker)
	}

	cx, cy := w/2, h/2
	s.FillRect(cx-c.BodyWidth/2, cy-c.BodyHeight, c.BodyWidth, c.BodyHeight, c.Body)
	s.FillRect(cx-c.CapSize/2, cy-c.BodyHeight-c.CapSize, c.CapSize, c.CapSize, c.Cap)

	o, _ := c.Nozzle(w, h)
	s.FillPolygon(c.ConeOutline(o), c.Cone)
}

// Markers returns the top-left corners of the four corner markers.
func (c *CanScene) Markers(width, height float64) [4]surface.Point {
	m := c.MarkerSize
	return [4]surface.Point{
		surface.Pt(0, 0),
		surface.Pt(width-m, 0),
		surface.Pt(0, height-m),
		surface.Pt(width-m, height-m),
	}
}

// Nozzle implements Scene. The emission point sits NozzleOffset pixels
// above the center of the surface.
func (c *CanScene) Nozzle(width, height float64) (surface.Point, bool) {
	return surface.Pt(width/2, height/2-c.NozzleOffset), true
}

// ConeOutline returns the triangle spanned by the spray cone from origin o.
func (c *CanScene) ConeOutline(o surface.Point) []surface.Point {
	left := c.Facing - c.HalfSpread
	right := c.Facing + c.HalfSpread
	return []surface.Point{
		o,
		surface.Pt(o.X+c.ConeLength*math.Cos(left), o.Y+c.ConeLength*math.Sin(left)),
		surface.Pt(o.X+c.ConeLength*math.Cos(right), o.Y+c.ConeLength*math.Sin(right)),
	}
}

// CircleScene is a filled circle centered on the surface.
type CircleScene struct {
	Background surface.Color
	Fill       surface.Color
	// Margin is kept between the circle and the nearest surface edge.
	Margin float64
}

var _ Scene = (*CircleScene)(nil)

// Draw implements Scene.
func (c *CircleScene) Draw(s *surface.Surface) {
	w, h := float64(s.Width()), float64(s.Height())

	s.Clear()
	if c.Background.A > 0 {
		s.FillRect(0, 0, w, h, c.Background)
	}
	s.FillCircle(w/2, h/2, c.Radius(w, h), c.Fill)
}

// Radius returns the circle radius for a surface of the given size.
func (c *CircleScene) Radius(width, height float64) float64 {
	return math.Max(0, math.Min(width/2, height/2)-c.Margin)
}

// Nozzle implements Scene. The circle has no emitter.
func (c *CircleScene) Nozzle(float64, float64) (surface.Point, bool) {
	return surface.Point{}, false
}
