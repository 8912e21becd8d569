package animation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/esimov/spraycan/spray"
	"github.com/esimov/spraycan/surface"
)

type fixture struct {
	box  *surface.Box
	rec  *surface.Recorder
	surf *surface.Surface
	sim  *spray.Simulator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	p, err := spray.Lookup("spraycan")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	f := &fixture{box: surface.NewBox(300, 300), rec: &surface.Recorder{}}
	f.surf, err = surface.New(f.box, f.rec)
	if err != nil {
		t.Fatalf("surface.New: %v", err)
	}
	f.sim, err = spray.NewSimulator(p.Source, p.Scene, f.surf, spray.WithRand(spray.NewRand(1)))
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return f
}

// presented records the surface size at every Present call.
type presented chan [2]int

func (p presented) Present(s *surface.Surface) error {
	p <- [2]int{s.Width(), s.Height()}
	return nil
}

func (p presented) next(t *testing.T) [2]int {
	t.Helper()

	select {
	case sz := <-p:
		return sz
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a frame")
		return [2]int{}
	}
}

func runLoop(ctx context.Context, l *Loop) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	return errc
}

func wait(t *testing.T, errc <-chan error) error {
	t.Helper()

	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not return")
		return nil
	}
}

func TestLoopTicksSequentially(t *testing.T) {
	f := newFixture(t)
	sched := NewManual()
	out := make(presented, 16)
	l := NewLoop(f.sim, f.surf, sched, WithPresenter(out))

	ctx, cancel := context.WithCancel(context.Background())
	errc := runLoop(ctx, l)
	out.next(t) // initial scene

	for i := 1; i <= 3; i++ {
		if !sched.Step() {
			t.Fatal("scheduler stopped early")
		}
		out.next(t)
		if f.sim.Len() != 5*i {
			t.Errorf("after %d frames live = %d, want %d", i, f.sim.Len(), 5*i)
		}
	}

	cancel()
	if err := wait(t, errc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Frames() != 3 {
		t.Errorf("frames = %d, want 3", l.Frames())
	}
	if f.sim.State() != spray.Stopped {
		t.Errorf("simulator state = %v, want stopped", f.sim.State())
	}
	if sched.Step() {
		t.Error("scheduler still delivering after the loop returned")
	}
}

func TestLoopAppliesResizeBeforeNextFrame(t *testing.T) {
	f := newFixture(t)
	sched := NewManual()
	out := make(presented, 16)
	l := NewLoop(f.sim, f.surf, sched, WithPresenter(out))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := runLoop(ctx, l)
	out.next(t)

	sched.Step()
	out.next(t)
	live := f.sim.Particles()

	f.box.SetSize(600, 400)
	l.RequestResize()
	l.RequestResize()
	sched.Step()

	// One present for the resize, one for the frame; coalesced requests
	// must not produce more.
	for i := 0; i < 2; i++ {
		if sz := out.next(t); sz != [2]int{600, 400} {
			t.Errorf("present %d at %v, want 600x400", i, sz)
		}
	}
	select {
	case sz := <-out:
		t.Errorf("unexpected extra present at %v", sz)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	if err := wait(t, errc); err != nil {
		t.Fatalf("Run: %v", err)
	}

	resizes := f.rec.Filter(surface.OpResize)
	if len(resizes) != 2 || resizes[1].Rect[0] != 600 || resizes[1].Rect[1] != 400 {
		t.Errorf("context resizes = %+v", resizes)
	}
	bg := f.rec.Filter(surface.OpFillRect)
	if last := bg[len(bg)-7]; last.Rect[2] != 600 || last.Rect[3] != 400 {
		t.Errorf("last background = %v, want 600x400", last.Rect)
	}
	// Particles alive before the resize kept moving from where they were.
	ps := f.sim.Particles()
	for i, p := range live {
		q := ps[i]
		if math.Abs(q.GetX()-(p.GetX()+p.GetVx())) > 1e-9 || math.Abs(q.GetY()-(p.GetY()+p.GetVy())) > 1e-9 {
			t.Errorf("particle %d jumped on resize: %+v -> %+v", i, p, q)
		}
	}
}

func TestLoopStopsWhenContainerLost(t *testing.T) {
	f := newFixture(t)
	sched := NewManual()
	l := NewLoop(f.sim, f.surf, sched)

	errc := runLoop(context.Background(), l)
	sched.Step()

	f.box.Detach(errors.New("canvas removed"))
	l.RequestResize()

	if err := wait(t, errc); !errors.Is(err, surface.ErrContainerLost) {
		t.Fatalf("Run error = %v, want ErrContainerLost", err)
	}
	if f.sim.State() != spray.Stopped {
		t.Errorf("simulator state = %v, want stopped", f.sim.State())
	}
	if _, err := f.sim.Tick(); !errors.Is(err, spray.ErrNotRunning) {
		t.Errorf("Tick after fatal error: %v", err)
	}
}

func TestLoopPresenterFailure(t *testing.T) {
	f := newFixture(t)
	sched := NewManual()
	boom := errors.New("client gone")
	calls := 0
	l := NewLoop(f.sim, f.surf, sched, WithPresenter(PresenterFunc(func(*surface.Surface) error {
		calls++
		if calls > 1 {
			return boom
		}
		return nil
	})))

	errc := runLoop(context.Background(), l)
	sched.Step()

	if err := wait(t, errc); !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
}

func TestLoopMaxFrames(t *testing.T) {
	f := newFixture(t)
	l := NewLoop(f.sim, f.surf, NewInterval(time.Millisecond), WithMaxFrames(5))

	if err := wait(t, runLoop(context.Background(), l)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Frames() != 5 {
		t.Errorf("frames = %d, want 5", l.Frames())
	}
	if f.sim.Len() != 25 {
		t.Errorf("live = %d, want 25", f.sim.Len())
	}
}

func TestLoopRejectsStartedSimulation(t *testing.T) {
	f := newFixture(t)
	if err := f.sim.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	l := NewLoop(f.sim, f.surf, NewManual())
	if err := l.Run(context.Background()); !errors.Is(err, spray.ErrAlreadyStarted) {
		t.Errorf("Run error = %v, want ErrAlreadyStarted", err)
	}
}

func TestLoopWithoutScenePresent(t *testing.T) {
	f := newFixture(t)
	sched := NewManual()
	go func() {
		for sched.Step() {
		}
	}()
	n := 0
	count := PresenterFunc(func(*surface.Surface) error {
		n++
		return nil
	})
	l := NewLoop(f.sim, f.surf, sched, WithPresenter(count), WithMaxFrames(3), WithoutScenePresent())

	if err := wait(t, runLoop(context.Background(), l)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 3 {
		t.Errorf("presented %d frames, want 3", n)
	}
}
