// Package spray implements a spray-can particle effect: a bounded lifetime
// particle set emitted in a cone, advanced and repainted once per frame.
package spray

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/esimov/spraycan/surface"
)

var (
	// ErrNotRunning is returned by Tick when the simulator was not started or was stopped.
	ErrNotRunning = errors.New("spray: simulator not running")
	// ErrAlreadyStarted is returned by Start on a running simulator.
	ErrAlreadyStarted = errors.New("spray: simulator already started")
	// ErrStopped is returned by Start on a stopped simulator.
	ErrStopped = errors.New("spray: simulator stopped")
	// ErrNoSurface is returned when the simulator has nothing to draw on.
	ErrNoSurface = errors.New("spray: no surface")
)

// State is the lifecycle state of a Simulator.
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats describes what a single tick did.
type Stats struct {
	Spawned  int // particles appended by the spawn step
	Advanced int // particles moved by the advance step
	Rendered int // particles drawn
	Expired  int // particles removed by compaction
	Live     int // particles left after compaction
}

// Simulator owns the live particle set and renders it onto a surface.
// It is not safe for concurrent use; ticks must be issued sequentially.
type Simulator struct {
	src    Source
	scene  Scene
	surf   *surface.Surface
	rnd    Rand
	logger *slog.Logger

	state     State
	particles []Particle
	ticks     uint64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand injects the random source used for spawn angles and speeds.
func WithRand(r Rand) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rnd = r
		}
	}
}

// WithLogger sets the simulator logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSimulator creates an idle simulator for the given source. The scene
// may be nil, in which case only the particles are drawn over a cleared surface.
func NewSimulator(src Source, scene Scene, surf *surface.Surface, opts ...Option) (*Simulator, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if surf == nil {
		return nil, ErrNoSurface
	}
	s := &Simulator{
		src:       src,
		scene:     scene,
		surf:      surf,
		logger:    slog.New(slog.DiscardHandler),
		particles: make([]Particle, 0, steadyCap(src)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = NewRand(uint64(math.Float64bits(src.Life)) ^ uint64(src.Rate))
	}
	return s, nil
}

// maxPrealloc bounds the initial particle capacity; long lived sources
// grow the set on demand instead.
const maxPrealloc = 4096

// steadyCap returns the capacity needed to hold the steady state live set.
func steadyCap(src Source) int {
	return int(math.Min(float64(src.Rate)*math.Ceil(src.Life), maxPrealloc))
}

// Start moves the simulator from Idle to Running. It can only happen once.
func (s *Simulator) Start() error {
	switch s.state {
	case Running:
		return ErrAlreadyStarted
	case Stopped:
		return ErrStopped
	}
	s.state = Running
	s.logger.Info("spray started", "rate", s.src.Rate, "life", s.src.Life)

	return nil
}

// Stop halts the simulator for good. Further ticks fail with ErrNotRunning.
func (s *Simulator) Stop() {
	if s.state == Stopped {
		return
	}
	s.state = Stopped
	s.logger.Info("spray stopped", "ticks", s.ticks, "live", len(s.particles))
}

// State returns the current lifecycle state.
func (s *Simulator) State() State {
	return s.state
}

// Len returns the number of live particles.
func (s *Simulator) Len() int {
	return len(s.particles)
}

// Ticks returns the number of completed ticks.
func (s *Simulator) Ticks() uint64 {
	return s.ticks
}

// Particles returns a copy of the live particle set.
func (s *Simulator) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Redraw repaints the static scene without touching particle state.
func (s *Simulator) Redraw() {
	if s.scene == nil {
		s.surf.Clear()
		return
	}
	s.scene.Draw(s.surf)
}

// Tick runs one animation frame: repaint the scene, spawn, advance,
// render the particles still alive and drop the expired ones.
func (s *Simulator) Tick() (Stats, error) {
	if s.state != Running {
		return Stats{}, fmt.Errorf("%w: %v", ErrNotRunning, s.state)
	}
	s.Redraw()

	var st Stats
	st.Spawned = s.spawn()

	for i := range s.particles {
		s.particles[i].advance()
	}
	st.Advanced = len(s.particles)
	st.Rendered = s.render()
	st.Expired = s.compact()
	st.Live = len(s.particles)

	s.ticks++
	s.logger.Debug("tick", "n", s.ticks, "live", st.Live, "expired", st.Expired)

	return st, nil
}

// origin returns the emission point for the current surface size.
func (s *Simulator) origin() surface.Point {
	if s.scene != nil {
		if p, ok := s.scene.Nozzle(float64(s.surf.Width()), float64(s.surf.Height())); ok {
			return p
		}
	}
	return s.src.Origin
}

func (s *Simulator) spawn() int {
	o := s.origin()
	for i := 0; i < s.src.Rate; i++ {
		angle := uniform(s.rnd, s.src.Facing-s.src.HalfSpread, s.src.Facing+s.src.HalfSpread)
		speed := uniform(s.rnd, s.src.MinSpeed, s.src.MaxSpeed)
		if math.IsNaN(angle) || math.IsNaN(speed) {
			panic(fmt.Sprintf("spray: random source produced angle=%v speed=%v", angle, speed))
		}
		s.particles = append(s.particles, NewParticle(
			o.X, o.Y,
			speed*math.Cos(angle), speed*math.Sin(angle),
			s.src.Life,
		))
	}
	return s.src.Rate
}

func (s *Simulator) render() int {
	n := 0
	for _, p := range s.particles {
		if p.IsDead() {
			continue
		}
		fade := p.life / s.src.Life
		c := s.src.Color.WithAlpha(s.src.Color.A * fade)
		s.surf.FillCircle(p.x, p.y, s.src.Radius*fade, c)
		n++
	}
	return n
}

// compact removes the expired particles in place.
func (s *Simulator) compact() int {
	alive := s.particles[:0]
	for _, p := range s.particles {
		if !p.IsDead() {
			alive = append(alive, p)
		}
	}
	expired := len(s.particles) - len(alive)
	s.particles = alive

	return expired
}
