package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/sim"
	"github.com/pthm-cable/spark/term"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml or config.toml (empty = use defaults)")
	sceneName := flag.String("scene", "", "Scene to run (empty = use config)")
	headless := flag.Bool("headless", false, "Run without graphics")
	termMode := flag.Bool("term", false, "Render into the terminal instead of a window")
	describe := flag.Bool("describe", false, "Print the scene object tree and exit")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logText := flag.Bool("log-text", false, "Log as text instead of JSON")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Logs go to stderr so terminal mode and -describe keep stdout.
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, nil)
	if *logText {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := sim.Options{
		Seed:           rngSeed,
		Scene:          *sceneName,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Error("failed to close simulation", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *describe:
		if err := s.Describe(os.Stdout); err != nil {
			slog.Error("describe failed", "error", err)
		}

	case *headless:
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"scene", s.Scene(),
			"max_frames", *maxFrames,
		)
		if err := s.RunHeadless(ctx, *maxFrames); err != nil {
			slog.Warn("headless run interrupted", "error", err, "frames", s.Frames())
		}

	case *termMode:
		screen, err := tcell.NewScreen()
		if err != nil {
			slog.Error("failed to create terminal screen", "error", err)
			return
		}
		if err := screen.Init(); err != nil {
			slog.Error("failed to init terminal screen", "error", err)
			return
		}
		defer screen.Fini()

		w, h := screen.Size()
		canvas := term.NewCanvas(screen, newCamera(cfg, float64(w), float64(h)))
		term.Run(ctx, screen, canvas, s, term.Options{FPS: cfg.Screen.TargetFPS, MaxFrames: *maxFrames})

	default:
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Spark")
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		v := newViewer(s, cfg)
		defer v.close()
		v.run(*maxFrames)
	}
}
