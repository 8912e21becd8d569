package surface

import (
	"image"
	"io"
	"log/slog"

	"github.com/gogpu/gg"
)

// Raster is a software rendered Context backed by a gg drawing context.
type Raster struct {
	dc     *gg.Context
	logger *slog.Logger
}

var _ Context = (*Raster)(nil)

// NewRaster creates a raster context. The initial size is replaced by the
// container bounds as soon as the raster is bound to a Surface.
func NewRaster(width, height int, logger *slog.Logger) *Raster {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Raster{
		dc:     gg.NewContext(width, height),
		logger: logger,
	}
}

// Resize implements Context.
func (r *Raster) Resize(width, height int) error {
	return r.dc.Resize(width, height)
}

// Clear implements Context. The raster becomes fully transparent.
func (r *Raster) Clear() {
	r.dc.Clear()
}

// FillRect implements Context.
func (r *Raster) FillRect(x, y, w, h float64, c Color) {
	r.setColor(c)
	r.dc.DrawRectangle(x, y, w, h)
	r.fill()
}

// StrokeRect implements Context.
func (r *Raster) StrokeRect(x, y, w, h float64, c Color) {
	r.setColor(c)
	r.dc.SetLineWidth(1)
	r.dc.DrawRectangle(x, y, w, h)
	if err := r.dc.Stroke(); err != nil {
		r.logger.Warn("raster stroke failed", "err", err)
	}
}

// FillArc implements Context.
func (r *Raster) FillArc(cx, cy, radius, start, end float64, c Color) {
	if radius == 0 {
		return
	}
	r.setColor(c)
	r.dc.ClearPath()
	r.dc.DrawArc(cx, cy, radius, start, end)
	r.dc.ClosePath()
	r.fill()
}

// FillPolygon implements Context.
func (r *Raster) FillPolygon(pts []Point, c Color) {
	r.setColor(c)
	r.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	r.dc.ClosePath()
	r.fill()
}

// Image returns a snapshot of the rendered pixels.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the current frame as a PNG image.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// Close releases the gg context.
func (r *Raster) Close() error {
	return r.dc.Close()
}

func (r *Raster) setColor(c Color) {
	r.dc.SetRGBA(c.R, c.G, c.B, c.A)
}

// fill drains the current path. The software renderer only fails on
// malformed paths, which the Surface rejects before they get here.
func (r *Raster) fill() {
	if err := r.dc.Fill(); err != nil {
		r.logger.Warn("raster fill failed", "err", err)
	}
}
