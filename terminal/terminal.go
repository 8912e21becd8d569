package terminal

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"

	"github.com/nsf/termbox-go"
	"golang.org/x/image/draw"

	"github.com/esimov/spraycan/animation"
	"github.com/esimov/spraycan/surface"
)

// upperHalf shows the upper pixel of a cell in the foreground color and
// the lower one in the background color.
const upperHalf = '▀'

// ErrNoImage is returned when the presented surface can't be read back.
var ErrNoImage = errors.New("terminal: surface has no readable image")

type imager interface {
	Image() image.Image
}

// Terminal shows a raster surface in the terminal. Every cell covers
// scale×2·scale surface pixels.
type Terminal struct {
	backbuf  []termbox.Cell
	bbw, bbh int
	scale    int
	box      *surface.Box
	scaled   *image.RGBA
	logger   *slog.Logger
}

var (
	_ surface.Container   = (*Terminal)(nil)
	_ animation.Presenter = (*Terminal)(nil)
)

// New creates a terminal viewer. It does not touch the terminal until Init.
func New(scale int, logger *slog.Logger) *Terminal {
	if scale < 1 {
		scale = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Terminal{
		scale:  scale,
		box:    surface.NewBox(0, 0),
		logger: logger,
	}
}

// Init takes over the terminal. Close must be called to restore it.
func (t *Terminal) Init() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.SetOutputMode(termbox.Output256)
	t.setSize(termbox.Size())

	return nil
}

// Close restores the terminal.
func (t *Terminal) Close() {
	termbox.Close()
}

// Bounds implements surface.Container. The surface size follows the
// terminal size in cells.
func (t *Terminal) Bounds() (int, int, error) {
	return t.box.Bounds()
}

// Run drives loop until ctx is done, the loop fails or the user quits with
// Esc, Ctrl-C or q. Terminal resizes are forwarded to the loop.
func (t *Terminal) Run(ctx context.Context, loop *animation.Loop) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.pollEvents(cancel, loop)
	}()

	err := loop.Run(ctx)
	termbox.Interrupt()
	<-done

	return err
}

func (t *Terminal) pollEvents(cancel context.CancelFunc, loop *animation.Loop) {
	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				cancel()
			}
		case termbox.EventResize:
			t.logger.Debug("terminal resized", "cols", ev.Width, "rows", ev.Height)
			if t.setSize(ev.Width, ev.Height) {
				loop.RequestResize()
			}
		case termbox.EventError:
			t.logger.Error("terminal event", "err", ev.Err)
			cancel()
			return
		case termbox.EventInterrupt:
			return
		}
	}
}

func (t *Terminal) setSize(cols, rows int) bool {
	return t.box.SetSize(cols*t.scale, rows*2*t.scale)
}

// Present implements animation.Presenter.
func (t *Terminal) Present(s *surface.Surface) error {
	src, ok := s.Context().(imager)
	if !ok {
		return ErrNoImage
	}
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	w, h := termbox.Size()
	if w != t.bbw || h != t.bbh {
		t.reallocBackBuffer(w, h)
	}
	t.scaled = Cells(t.backbuf, t.scaled, src.Image(), w, h)
	copy(termbox.CellBuffer(), t.backbuf)

	return termbox.Flush()
}

func (t *Terminal) reallocBackBuffer(w, h int) {
	t.bbw, t.bbh = w, h
	t.backbuf = make([]termbox.Cell, w*h)
}

// Cells renders img into a w×h cell buffer, two pixels per cell. The image
// is downscaled into the scratch image first, which is returned for reuse.
func Cells(dst []termbox.Cell, scratch *image.RGBA, img image.Image, w, h int) *image.RGBA {
	rect := image.Rect(0, 0, w, h*2)
	px, ok := img.(*image.RGBA)
	if !ok || px.Bounds() != rect {
		if scratch == nil || scratch.Bounds() != rect {
			scratch = image.NewRGBA(rect)
		}
		draw.ApproxBiLinear.Scale(scratch, rect, img, img.Bounds(), draw.Src, nil)
		px = scratch
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst[y*w+x] = termbox.Cell{
				Ch: upperHalf,
				Fg: Attribute(px.RGBAAt(x, 2*y)),
				Bg: Attribute(px.RGBAAt(x, 2*y+1)),
			}
		}
	}
	return scratch
}

// Attribute maps a color onto the 6×6×6 cube of the xterm 256 color palette.
func Attribute(c color.Color) termbox.Attribute {
	r, g, b, _ := c.RGBA()
	q := func(v uint32) uint32 {
		return ((v>>8)*5 + 127) / 255
	}
	// In Output256 mode termbox attributes are the palette index plus one.
	return termbox.Attribute(16 + 36*q(r) + 6*q(g) + q(b) + 1)
}
