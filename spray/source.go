package spray

import (
	"errors"
	"fmt"
	"math"

	"github.com/esimov/spraycan/surface"
)

// ErrInvalidSource is returned when a spray source configuration is out of range.
var ErrInvalidSource = errors.New("spray: invalid source")

// Source configures where and how particles are emitted.
type Source struct {
	// Origin is the emission point, used when the scene has no nozzle.
	Origin surface.Point
	// Facing is the direction of the cone axis, in radians.
	Facing float64
	// HalfSpread is the cone half angle, in radians. Must lie in [0, π].
	HalfSpread float64
	// Rate is the number of particles spawned every tick.
	Rate int
	// MinSpeed and MaxSpeed bound the initial speed, in pixels per tick.
	MinSpeed, MaxSpeed float64
	// Life is the number of ticks a particle lives.
	Life float64
	// Radius is the particle radius at full life.
	Radius float64
	// Color is the particle color at full life.
	Color surface.Color
}

// Validate checks the source invariants.
func (s Source) Validate() error {
	for name, v := range map[string]float64{
		"origin.x":    s.Origin.X,
		"origin.y":    s.Origin.Y,
		"facing":      s.Facing,
		"half spread": s.HalfSpread,
		"min speed":   s.MinSpeed,
		"max speed":   s.MaxSpeed,
		"life":        s.Life,
		"radius":      s.Radius,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidSource, name)
		}
	}
	switch {
	case s.HalfSpread < 0 || s.HalfSpread > math.Pi:
		return fmt.Errorf("%w: half spread %v outside [0, π]", ErrInvalidSource, s.HalfSpread)
	case s.Rate < 0:
		return fmt.Errorf("%w: negative spawn rate %d", ErrInvalidSource, s.Rate)
	case s.MinSpeed < 0 || s.MaxSpeed < s.MinSpeed:
		return fmt.Errorf("%w: speed range [%v, %v]", ErrInvalidSource, s.MinSpeed, s.MaxSpeed)
	case s.Life <= 0:
		return fmt.Errorf("%w: life %v must be positive", ErrInvalidSource, s.Life)
	case s.Radius < 0:
		return fmt.Errorf("%w: negative radius %v", ErrInvalidSource, s.Radius)
	}
	return nil
}
