//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/esimov/spraycan/animation"
	"github.com/esimov/spraycan/spray"
	"github.com/esimov/spraycan/surface"
	"github.com/esimov/spraycan/wasm/canvas"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	c, err := canvas.NewCanvas("canvas")
	if err != nil {
		logger.Error("canvas not available", "err", err)
		return
	}
	name := c.Query("preset")
	if name == "" {
		name = "spraycan"
	}
	p, err := spray.Lookup(name)
	if err != nil {
		c.Alert(err.Error())
		return
	}

	surf, err := surface.New(c, c, surface.WithLogger(logger))
	if err != nil {
		c.Alert(err.Error())
		return
	}
	sim, err := spray.NewSimulator(p.Source, p.Scene, surf,
		spray.WithRand(spray.NewRand(uint64(time.Now().UnixNano()))),
		spray.WithLogger(logger),
	)
	if err != nil {
		c.Alert(err.Error())
		return
	}

	var sched animation.Scheduler = canvas.NewAnimationFrames()
	if p.Interval >= spray.FixedInterval {
		sched = animation.NewInterval(p.Interval)
	}
	loop := animation.NewLoop(sim, surf, sched, animation.WithLogger(logger))

	release := c.OnResize(loop.RequestResize)
	defer release()

	logger.Info("starting", "preset", p.Name)
	if err := loop.Run(context.Background()); err != nil {
		c.Log("animation stopped:", err.Error())
	}
}
