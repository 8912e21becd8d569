package animation

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/esimov/spraycan/spray"
	"github.com/esimov/spraycan/surface"
)

// Simulation is the per-frame state machine driven by a Loop.
// *spray.Simulator implements it.
type Simulation interface {
	Start() error
	Stop()
	Tick() (spray.Stats, error)
	Redraw()
}

// Presenter publishes a finished frame, e.g. to a terminal or to browser clients.
type Presenter interface {
	Present(s *surface.Surface) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(s *surface.Surface) error

// Present implements Presenter.
func (f PresenterFunc) Present(s *surface.Surface) error {
	return f(s)
}

// Loop owns a simulation and ticks it once per scheduled frame. All
// simulation and surface access happens on the goroutine calling Run.
type Loop struct {
	sim       Simulation
	surf      *surface.Surface
	sched     Scheduler
	presenter Presenter
	logger    *slog.Logger
	maxFrames uint64
	noScene   bool

	resize chan struct{}
	frames atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithPresenter sets the presenter called after every frame and every resize.
func WithPresenter(p Presenter) Option {
	return func(l *Loop) {
		l.presenter = p
	}
}

// WithLogger sets the loop logger.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Loop) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithMaxFrames stops the loop after n frames. Zero means no limit.
func WithMaxFrames(n uint64) Option {
	return func(l *Loop) {
		l.maxFrames = n
	}
}

// WithoutScenePresent skips presenting the bare scene drawn before the
// first frame, so every presented frame is a ticked one.
func WithoutScenePresent() Option {
	return func(l *Loop) {
		l.noScene = true
	}
}

// NewLoop creates a loop for sim drawing on surf, paced by sched.
func NewLoop(sim Simulation, surf *surface.Surface, sched Scheduler, opts ...Option) *Loop {
	l := &Loop{
		sim:    sim,
		surf:   surf,
		sched:  sched,
		logger: slog.New(slog.DiscardHandler),
		resize: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RequestResize asks the loop to re-read the container size before the
// next frame. It never blocks and repeated requests are coalesced.
// It is safe to call from any goroutine.
func (l *Loop) RequestResize() {
	select {
	case l.resize <- struct{}{}:
	default:
	}
}

// Frames returns the number of frames ticked so far.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Run starts the simulation and ticks it until ctx is done, the scheduler
// stops, the frame limit is reached or a fatal error occurs. The simulation
// is stopped and the scheduler deregistered before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.sim.Start(); err != nil {
		return err
	}
	frames := l.sched.Start()
	defer func() {
		l.sched.Stop()
		l.sim.Stop()
		l.logger.Info("animation loop stopped", "frames", l.Frames())
	}()

	l.sim.Redraw()
	if !l.noScene {
		if err := l.present(); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.resize:
			if err := l.applyResize(); err != nil {
				return err
			}
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			// A resize requested together with this frame must land first.
			select {
			case <-l.resize:
				if err := l.applyResize(); err != nil {
					return err
				}
			default:
			}
			if err := l.tick(); err != nil {
				return err
			}
			if l.maxFrames > 0 && l.Frames() >= l.maxFrames {
				return nil
			}
		}
	}
}

func (l *Loop) tick() error {
	st, err := l.sim.Tick()
	if err != nil {
		return fmt.Errorf("animation: tick: %w", err)
	}
	n := l.frames.Add(1)
	l.logger.Debug("frame", "n", n, "live", st.Live, "spawned", st.Spawned, "expired", st.Expired)

	return l.present()
}

func (l *Loop) applyResize() error {
	w, h := l.surf.Width(), l.surf.Height()
	if err := l.surf.Resize(); err != nil {
		return fmt.Errorf("animation: resize: %w", err)
	}
	if w == l.surf.Width() && h == l.surf.Height() {
		return nil
	}
	l.logger.Info("surface resized", "width", l.surf.Width(), "height", l.surf.Height())
	l.sim.Redraw()

	return l.present()
}

func (l *Loop) present() error {
	if l.presenter == nil {
		return nil
	}
	if err := l.presenter.Present(l.surf); err != nil {
		return fmt.Errorf("animation: present: %w", err)
	}
	return nil
}
