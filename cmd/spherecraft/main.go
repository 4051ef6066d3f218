package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"spherecraft/internal/config"
	"spherecraft/internal/profiling"
	"spherecraft/internal/world"

	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "spherecraft.json", "settings file; a missing file means defaults")
	headless := flag.Bool("headless", false, "run the world loop without a window")
	ticks := flag.Int("ticks", 600, "number of ticks to run in headless mode")
	telemetryAddr := flag.String("telemetry", "", "serve /stats and /ws on this address")
	fpsLimit := flag.Int("fps", 120, "frame rate cap, 0 for unlimited")
	flag.Parse()

	logger := log.New(os.Stderr, "spherecraft: ", log.LstdFlags)
	defer closer.Close()

	settings, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if *telemetryAddr != "" {
		settings.Telemetry = *telemetryAddr
	}

	prof := profiling.New()
	w, err := world.New(settings.Planet, world.Options{
		Streaming: settings.Streaming,
		Logger:    logger,
		Profiler:  prof,
	})
	if err != nil {
		panic(err)
	}
	logger.Printf("world %s: radius %.0f, surface at %.0f", w.ID(), settings.Planet.Radius, w.Sphere().SurfaceRadius())

	hub := startTelemetry(settings.Telemetry, logger)

	if *headless {
		runHeadless(w, hub, prof, logger, *ticks)
		return
	}
	runWindowed(w, hub, settings, prof, logger, *fpsLimit)
}
