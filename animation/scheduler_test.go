package animation

import (
	"testing"
	"time"
)

func TestInterval(t *testing.T) {
	s := NewInterval(time.Millisecond)
	c := s.Start()
	for i := 0; i < 3; i++ {
		select {
		case <-c:
		case <-time.After(time.Second):
			t.Fatalf("frame %d not delivered", i)
		}
	}
	s.Stop()
	s.Stop()
}

func TestIntervalDefaultPeriod(t *testing.T) {
	if s := NewInterval(0); s.period != time.Second/60 {
		t.Errorf("period = %v, want display rate", s.period)
	}
}

func TestManual(t *testing.T) {
	s := NewManual()
	c := s.Start()

	go func() { <-c }()
	if !s.Step() {
		t.Fatal("Step on running scheduler returned false")
	}

	s.Stop()
	s.Stop()
	if s.Step() {
		t.Error("Step after Stop returned true")
	}
}
