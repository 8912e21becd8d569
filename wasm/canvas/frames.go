//go:build js && wasm
// +build js,wasm

package canvas

import (
	"sync"
	"syscall/js"
	"time"

	"github.com/esimov/spraycan/animation"
)

// AnimationFrames is a scheduler firing once per display refresh through
// requestAnimationFrame.
type AnimationFrames struct {
	window js.Value
	frames chan time.Time

	mu      sync.Mutex
	cb      js.Func
	id      js.Value
	stopped bool
}

var _ animation.Scheduler = (*AnimationFrames)(nil)

// NewAnimationFrames creates a display-synchronized scheduler.
func NewAnimationFrames() *AnimationFrames {
	return &AnimationFrames{
		window: js.Global(),
		frames: make(chan time.Time, 1),
	}
}

// Start implements animation.Scheduler.
func (a *AnimationFrames) Start() <-chan time.Time {
	a.cb = js.FuncOf(func(js.Value, []js.Value) any {
		// The callback runs on the browser event loop and must not block:
		// a frame the loop has not picked up yet is simply dropped.
		select {
		case a.frames <- time.Now():
		default:
		}
		a.request()
		return nil
	})
	a.request()

	return a.frames
}

func (a *AnimationFrames) request() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.stopped {
		a.id = a.window.Call("requestAnimationFrame", a.cb)
	}
}

// Stop implements animation.Scheduler.
func (a *AnimationFrames) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	a.stopped = true
	if !a.id.IsUndefined() {
		a.window.Call("cancelAnimationFrame", a.id)
	}
	a.cb.Release()
}
