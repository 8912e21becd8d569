package surface

import "sync"

// Box is an in-memory Container whose size is assigned by the host, e.g. the
// canvas bounds reported by a browser or the terminal dimensions.
// It is safe for concurrent use.
type Box struct {
	mu     sync.RWMutex
	width  int
	height int
	err    error
}

// NewBox returns a container of the given size.
func NewBox(width, height int) *Box {
	return &Box{width: width, height: height}
}

// SetSize updates the container size. It reports whether the size changed.
func (b *Box) SetSize(width, height int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed := b.width != width || b.height != height
	b.width, b.height = width, height

	return changed
}

// Detach marks the container as gone; subsequent Bounds calls return err.
func (b *Box) Detach(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

// Bounds implements Container.
func (b *Box) Bounds() (int, int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.err != nil {
		return 0, 0, b.err
	}
	return b.width, b.height, nil
}
