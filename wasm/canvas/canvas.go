//go:build js && wasm
// +build js,wasm

package canvas

import (
	"errors"
	"syscall/js"

	"github.com/esimov/spraycan/surface"
)

// errDetached is reported once the canvas element left the document.
var errDetached = errors.New("canvas element detached from the document")

// Canvas binds a browser canvas element: it is both the container whose
// bounds drive the surface size and the 2D context the surface draws on.
type Canvas struct {
	window js.Value
	canvas js.Value
	ctx    js.Value
}

var (
	_ surface.Container = (*Canvas)(nil)
	_ surface.Context   = (*Canvas)(nil)
)

// NewCanvas looks up the canvas element by id and acquires its 2D context.
func NewCanvas(id string) (*Canvas, error) {
	var c Canvas
	c.window = js.Global()

	c.canvas = c.window.Get("document").Call("getElementById", id)
	if c.canvas.IsNull() || c.canvas.IsUndefined() {
		return nil, surface.ErrNoContainer
	}
	c.ctx = c.canvas.Call("getContext", "2d")
	if c.ctx.IsNull() || c.ctx.IsUndefined() {
		return nil, surface.ErrNoContext
	}
	return &c, nil
}

// Bounds implements surface.Container using the element's bounding box.
func (c *Canvas) Bounds() (int, int, error) {
	if !c.canvas.Get("isConnected").Truthy() {
		return 0, 0, errDetached
	}
	rect := c.canvas.Call("getBoundingClientRect")
	return rect.Get("width").Int(), rect.Get("height").Int(), nil
}

// Resize implements surface.Context by setting the canvas backing store size.
func (c *Canvas) Resize(width, height int) error {
	c.canvas.Set("width", width)
	c.canvas.Set("height", height)
	return nil
}

// Clear implements surface.Context.
func (c *Canvas) Clear() {
	c.ctx.Call("clearRect", 0, 0, c.canvas.Get("width"), c.canvas.Get("height"))
}

// FillRect implements surface.Context.
func (c *Canvas) FillRect(x, y, w, h float64, col surface.Color) {
	c.ctx.Set("fillStyle", col.CSS())
	c.ctx.Call("fillRect", x, y, w, h)
}

// StrokeRect implements surface.Context.
func (c *Canvas) StrokeRect(x, y, w, h float64, col surface.Color) {
	c.ctx.Set("strokeStyle", col.CSS())
	c.ctx.Set("lineWidth", 1)
	c.ctx.Call("strokeRect", x, y, w, h)
}

// FillArc implements surface.Context.
func (c *Canvas) FillArc(cx, cy, r, start, end float64, col surface.Color) {
	c.ctx.Call("beginPath")
	c.ctx.Call("arc", cx, cy, r, start, end)
	c.ctx.Set("fillStyle", col.CSS())
	c.ctx.Call("fill")
}

// FillPolygon implements surface.Context.
func (c *Canvas) FillPolygon(pts []surface.Point, col surface.Color) {
	c.ctx.Call("beginPath")
	c.ctx.Call("moveTo", pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.ctx.Call("lineTo", p.X, p.Y)
	}
	c.ctx.Call("closePath")
	c.ctx.Set("fillStyle", col.CSS())
	c.ctx.Call("fill")
}

// OnResize calls fn whenever the window is resized. The returned function
// removes the listener.
func (c *Canvas) OnResize(fn func()) (release func()) {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	c.window.Call("addEventListener", "resize", cb)

	return func() {
		c.window.Call("removeEventListener", "resize", cb)
		cb.Release()
	}
}

// Alert calls the `alert` Javascript function
func (c *Canvas) Alert(msg string) {
	c.window.Call("alert", msg)
}

// Log calls the `console.log` Javascript function
func (c *Canvas) Log(args ...any) {
	c.window.Get("console").Call("log", args...)
}

// Query returns the value of a URL query parameter of the hosting page.
func (c *Canvas) Query(key string) string {
	params := c.window.Get("URLSearchParams").New(c.window.Get("location").Get("search"))
	v := params.Call("get", key)
	if v.IsNull() {
		return ""
	}
	return v.String()
}
