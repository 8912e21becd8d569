// Package surface keeps a raster drawing surface in sync with the size of its
// hosting container and exposes the immediate-mode primitives the animation
// draws with.
package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

var (
	// ErrNoContainer is returned when no container element is available.
	ErrNoContainer = errors.New("surface: container not available")
	// ErrNoContext is returned when no drawing context can be acquired.
	ErrNoContext = errors.New("surface: drawing context not available")
	// ErrContainerLost is returned when the container can no longer report its bounds.
	ErrContainerLost = errors.New("surface: container lost")
	// ErrInvalidSize is returned when the container reports an empty area.
	ErrInvalidSize = errors.New("surface: invalid size")
)

// Point is a position in surface pixel coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Container is the host element the surface is displayed in.
type Container interface {
	// Bounds returns the current display size of the container in pixels.
	Bounds() (width, height int, err error)
}

// Context is an immediate-mode 2D drawing context. Every drawing call is
// rendered right away; nothing is retained between calls.
type Context interface {
	Resize(width, height int) error
	Clear()
	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h float64, c Color)
	FillArc(cx, cy, r, start, end float64, c Color)
	FillPolygon(pts []Point, c Color)
}

// Surface is the drawing target of the animation.
type Surface struct {
	container Container
	ctx       Context
	width     int
	height    int
	logger    *slog.Logger
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used to report resizes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.logger = l
		}
	}
}

// New binds a drawing context to its container and sizes it to the
// container's current bounds. A missing container or context is a fatal
// initialization error.
func New(container Container, ctx Context, opts ...Option) (*Surface, error) {
	if container == nil {
		return nil, ErrNoContainer
	}
	if ctx == nil {
		return nil, ErrNoContext
	}
	s := &Surface{
		container: container,
		ctx:       ctx,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Resize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize reads the container's current bounds and resizes the drawing
// context to match. Calling it again without a container size change is a no-op.
func (s *Surface) Resize() error {
	w, h, err := s.container.Bounds()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrContainerLost, err)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if w == s.width && h == s.height {
		return nil
	}
	if err := s.ctx.Resize(w, h); err != nil {
		return fmt.Errorf("surface: resize to %dx%d: %w", w, h, err)
	}
	s.width, s.height = w, h
	s.logger.Debug("surface resized", "width", w, "height", h)

	return nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Context returns the underlying drawing context.
func (s *Surface) Context() Context { return s.ctx }

// Clear resets the surface to a blank state.
func (s *Surface) Clear() {
	s.ctx.Clear()
}

// FillRect fills the rectangle with its top-left corner at (x, y).
func (s *Surface) FillRect(x, y, w, h float64, c Color) {
	s.ctx.FillRect(x, y, w, h, c)
}

// StrokeRect outlines the rectangle with a one pixel line.
func (s *Surface) StrokeRect(x, y, w, h float64, c Color) {
	s.ctx.StrokeRect(x, y, w, h, c)
}

// FillArc fills the arc of the circle centered on (cx, cy) between the start
// and end angles, in radians, closed by its chord. A negative or non finite
// radius, or non finite angles, are programming errors and cause a panic.
func (s *Surface) FillArc(cx, cy, r, start, end float64, c Color) {
	if r < 0 || !finite(r) {
		panic(fmt.Sprintf("surface: invalid arc radius %v", r))
	}
	if !finite(start) || !finite(end) {
		panic(fmt.Sprintf("surface: invalid arc angles [%v, %v]", start, end))
	}
	s.ctx.FillArc(cx, cy, r, start, end, c)
}

// FillCircle fills a full circle.
func (s *Surface) FillCircle(cx, cy, r float64, c Color) {
	s.FillArc(cx, cy, r, 0, 2*math.Pi, c)
}

// FillPolygon fills the closed polygon through pts.
// Fewer than three points describe no area and draw nothing.
func (s *Surface) FillPolygon(pts []Point, c Color) {
	if len(pts) < 3 {
		return
	}
	s.ctx.FillPolygon(pts, c)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
