package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gogpu/gg"

	"github.com/esimov/spraycan/animation"
	"github.com/esimov/spraycan/http"
	"github.com/esimov/spraycan/spray"
	"github.com/esimov/spraycan/surface"
	"github.com/esimov/spraycan/terminal"
	"github.com/esimov/spraycan/websocket"
)

const logFile = "debug.log"

type options struct {
	preset   spray.Preset
	params   websocket.HttpParams
	width    int
	height   int
	frames   int
	out      string
	seed     uint64
	interval time.Duration
	scale    int
}

func main() {
	defaults := http.DefaultParams()

	var (
		presetName = flag.String("preset", "spraycan", "preset to run (see -list)")
		mode       = flag.String("mode", "terminal", "output: terminal, server or png")
		addr       = flag.String("a", defaults.Address, "address to serve(host:port)")
		prefix     = flag.String("p", defaults.Prefix, "prefix path under")
		root       = flag.String("r", defaults.Root, "root path to serve (empty: built-in viewer)")
		width      = flag.Int("width", 600, "surface width until a viewer reports its size")
		height     = flag.Int("height", 400, "surface height until a viewer reports its size")
		frames     = flag.Int("frames", 120, "number of frames to render in png mode")
		out        = flag.String("out", "frames", "output directory in png mode")
		seed       = flag.Uint64("seed", 0, "random seed (0: time based)")
		interval   = flag.Duration("interval", 0, "frame interval (0: preset default)")
		scale      = flag.Int("scale", 4, "surface pixels per terminal column")
		verbose    = flag.Bool("v", false, "enable debug logging")
		list       = flag.Bool("list", false, "list the presets and exit")
	)
	flag.Parse()

	if *list {
		for _, name := range spray.Names() {
			p, _ := spray.Lookup(name)
			fmt.Printf("%-12s %s\n", name, p.Description)
		}
		return
	}

	p, err := spray.Lookup(*presetName)
	if err != nil {
		log.Fatalln(err)
	}
	opts := options{
		preset:   p,
		params:   websocket.HttpParams{Address: *addr, Prefix: *prefix, Root: *root},
		width:    *width,
		height:   *height,
		frames:   *frames,
		out:      *out,
		seed:     *seed,
		interval: *interval,
		scale:    *scale,
	}
	if err := opts.validate(*mode); err != nil {
		log.Fatalln(err)
	}
	if opts.seed == 0 {
		opts.seed = uint64(time.Now().UnixNano())
	}
	if opts.interval == 0 {
		opts.interval = p.Interval
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logw := os.Stderr
	if *mode == "terminal" {
		// The terminal is taken over by the viewer, keep the log out of it.
		logw, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalln(err)
		}
		defer logw.Close()
	}
	logger := slog.New(slog.NewTextHandler(logw, &slog.HandlerOptions{Level: level}))
	gg.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "terminal":
		err = runTerminal(ctx, opts, logger)
	case "server":
		err = runServer(ctx, opts, logger)
	case "png":
		err = runPNG(ctx, opts, logger)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Error("spraycan failed", "err", err)
		stop()
		log.Fatalln(err)
	}
}

func (o options) validate(mode string) error {
	switch {
	case o.width <= 0 || o.height <= 0:
		return fmt.Errorf("invalid surface size %dx%d", o.width, o.height)
	case o.interval < 0:
		return fmt.Errorf("negative frame interval %v", o.interval)
	case mode == "terminal" && o.scale <= 0:
		return fmt.Errorf("terminal scale must be positive, got %d", o.scale)
	case mode == "png" && o.frames <= 0:
		return fmt.Errorf("png mode needs a positive frame count, got %d", o.frames)
	}
	return nil
}

// newSimulation binds a raster to the container and builds the preset's simulator on it.
func newSimulation(opts options, container surface.Container, logger *slog.Logger) (*surface.Raster, *surface.Surface, *spray.Simulator, error) {
	raster := surface.NewRaster(opts.width, opts.height, logger)
	surf, err := surface.New(container, raster, surface.WithLogger(logger))
	if err != nil {
		raster.Close()
		return nil, nil, nil, err
	}
	sim, err := spray.NewSimulator(opts.preset.Source, opts.preset.Scene, surf,
		spray.WithRand(spray.NewRand(opts.seed)),
		spray.WithLogger(logger),
	)
	if err != nil {
		raster.Close()
		return nil, nil, nil, err
	}
	return raster, surf, sim, nil
}

func runTerminal(ctx context.Context, opts options, logger *slog.Logger) error {
	term := terminal.New(opts.scale, logger)
	if err := term.Init(); err != nil {
		return err
	}
	defer term.Close()

	raster, surf, sim, err := newSimulation(opts, term, logger)
	if err != nil {
		return err
	}
	defer raster.Close()

	loop := animation.NewLoop(sim, surf, animation.NewInterval(opts.interval),
		animation.WithPresenter(term),
		animation.WithLogger(logger),
	)
	return term.Run(ctx, loop)
}

func runServer(ctx context.Context, opts options, logger *slog.Logger) error {
	box := surface.NewBox(opts.width, opts.height)
	hub := websocket.NewHub(box, logger)

	raster, surf, sim, err := newSimulation(opts, box, logger)
	if err != nil {
		return err
	}
	defer raster.Close()

	loop := animation.NewLoop(sim, surf, animation.NewInterval(opts.interval),
		animation.WithPresenter(hub),
		animation.WithLogger(logger),
	)
	hub.OnResize(loop.RequestResize)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	go func() { errc <- http.InitServer(ctx, opts.params, hub, logger) }()
	go func() { errc <- loop.Run(ctx) }()

	// Whichever side ends first takes the other one down.
	err = <-errc
	cancel()
	if err2 := <-errc; err == nil {
		err = err2
	}
	return err
}

func runPNG(ctx context.Context, opts options, logger *slog.Logger) error {
	if err := os.MkdirAll(opts.out, 0755); err != nil {
		return err
	}
	raster, surf, sim, err := newSimulation(opts, surface.NewBox(opts.width, opts.height), logger)
	if err != nil {
		return err
	}
	defer raster.Close()

	n := 0
	save := animation.PresenterFunc(func(*surface.Surface) error {
		name := filepath.Join(opts.out, fmt.Sprintf("frame_%04d.png", n))
		n++

		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := raster.EncodePNG(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})

	// Offline rendering runs as fast as the frames can be written.
	sched := animation.NewManual()
	go func() {
		for sched.Step() {
		}
	}()
	loop := animation.NewLoop(sim, surf, sched,
		animation.WithPresenter(save),
		animation.WithLogger(logger),
		animation.WithMaxFrames(uint64(opts.frames)),
		animation.WithoutScenePresent(),
	)
	if err := loop.Run(ctx); err != nil {
		return err
	}
	logger.Info("frames written", "dir", opts.out, "count", n)

	return nil
}
