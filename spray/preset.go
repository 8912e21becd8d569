package spray

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/esimov/spraycan/surface"
)

// Display-rate and fixed-interval frame periods.
const (
	DisplayRate   = time.Second / 60
	FixedInterval = 100 * time.Millisecond
)

// Preset bundles a spray source with the scene it is drawn over.
type Preset struct {
	Name        string
	Description string
	Source      Source
	Scene       Scene
	// Interval is the frame period the preset was tuned for.
	Interval time.Duration
}

var presets = map[string]func() Preset{
	"spraycan":   sprayCan,
	"bluecircle": blueCircle,
	"fan":        fan,
	"drizzle":    drizzle,
}

// Names returns the available preset names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Lookup returns a fresh copy of the named preset.
func Lookup(name string) (Preset, error) {
	fn, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("spray: unknown preset %q", name)
	}
	return fn(), nil
}

// canScene draws the can with a cone covering the spawn angles of src.
func canScene(cone surface.Color, src Source) *CanScene {
	return &CanScene{
		Background:   surface.MustHex("#ADD8E6"),
		Border:       surface.Black,
		Marker:       surface.Black,
		MarkerSize:   5,
		Body:         surface.MustHex("#808080"),
		BodyWidth:    40,
		BodyHeight:   80,
		Cap:          surface.Black,
		CapSize:      10,
		NozzleOffset: 100,
		Cone:         cone,
		ConeLength:   100,
		Facing:       src.Facing,
		HalfSpread:   src.HalfSpread,
	}
}

func sprayCan() Preset {
	red := surface.RGBA(255, 0, 0, 1)
	src := Source{
		HalfSpread: math.Pi / 16,
		Rate:       5,
		MinSpeed:   1,
		MaxSpeed:   3,
		Life:       60,
		Radius:     2,
		Color:      red,
	}
	return Preset{
		Name:        "spraycan",
		Description: "red mist from a gray can, narrow cone",
		Source:      src,
		Scene:       canScene(red.WithAlpha(0.2), src),
		Interval:    DisplayRate,
	}
}

func blueCircle() Preset {
	return Preset{
		Name:        "bluecircle",
		Description: "static blue circle, no particles",
		Source:      Source{Life: 1},
		Scene: &CircleScene{
			Background: surface.White,
			Fill:       surface.MustHex("#0000FF"),
			Margin:     5,
		},
		Interval: DisplayRate,
	}
}

func fan() Preset {
	orange := surface.MustHex("#FF8C00")
	src := Source{
		HalfSpread: math.Pi / 4,
		Rate:       8,
		MinSpeed:   1.5,
		MaxSpeed:   4,
		Life:       45,
		Radius:     3,
		Color:      orange,
	}
	return Preset{
		Name:        "fan",
		Description: "wide orange fan",
		Source:      src,
		Scene:       canScene(orange.WithAlpha(0.15), src),
		Interval:    DisplayRate,
	}
}

func drizzle() Preset {
	green := surface.MustHex("#228B22")
	src := Source{
		Facing:     math.Pi / 4,
		HalfSpread: math.Pi / 12,
		Rate:       2,
		MinSpeed:   4,
		MaxSpeed:   8,
		Life:       30,
		Radius:     4,
		Color:      green,
	}
	return Preset{
		Name:        "drizzle",
		Description: "slow green drizzle on a fixed 100ms clock",
		Source:      src,
		Scene:       canScene(green.WithAlpha(0.2), src),
		Interval:    FixedInterval,
	}
}
