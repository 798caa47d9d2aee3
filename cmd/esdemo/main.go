package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/l1jgo/esworld/internal/config"
	"github.com/l1jgo/esworld/internal/core/ecs"
	"github.com/l1jgo/esworld/internal/core/loop"
	"github.com/l1jgo/esworld/internal/data"
	"github.com/l1jgo/esworld/internal/system"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Demo ──────────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/esdemo.toml"
	if p := os.Getenv("ESDEMO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch cfg.Demo.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	// 3. World and systems
	printSection("World")
	types := ecs.NewTypeRegistry(cfg.World.TypeCapacity)
	world := ecs.NewWorld(
		ecs.WithLogger(log),
		ecs.WithTypes(types),
		ecs.WithIDSource(ecs.NewSequence(0)),
	)

	game := system.NewGameSystem(log)
	life, err := system.NewLifeSystem(types, cfg.Demo.HealthDrain, log)
	if err != nil {
		return fmt.Errorf("life system: %w", err)
	}
	physics, err := system.NewPhysicsSystem(types, log)
	if err != nil {
		return fmt.Errorf("physics system: %w", err)
	}
	graphic, err := system.NewGraphicSystem(types, log)
	if err != nil {
		return fmt.Errorf("graphic system: %w", err)
	}
	for _, s := range []ecs.System{game, life, physics, graphic} {
		if err := world.AddSystem(s); err != nil {
			return fmt.Errorf("add system: %w", err)
		}
	}
	printStat("Systems", len(world.Systems()))

	// 4. Scene
	scene, err := data.LoadScene(cfg.Demo.Scene)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if _, err := scene.Spawn(world); err != nil {
		return fmt.Errorf("spawn scene: %w", err)
	}
	printStat("Entities", len(world.Entities()))
	printStat("Component types", types.Len())
	printOK(fmt.Sprintf("world %s ready", world.ID()))
	fmt.Println()

	// 5. Frame loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := loop.NewRunner(world, cfg.World.TickRate, cfg.World.MaxFrames, log)
	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("loop: %w", err)
	}

	log.Info("demo finished",
		zap.Uint64("frames", runner.Frames()),
		zap.Int("entities", len(world.Entities())),
		zap.Int("deaths", game.Deaths()),
		zap.Bool("game_over", game.Over()),
		zap.Uint64("physics_steps", physics.Steps()),
		zap.Int("last_drawn", graphic.LastDrawn()),
	)
	world.Clear()
	return nil
}

// newLogger builds one encoder config for both formats. Frame deltas are
// logged in milliseconds and every line carries the demo name.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	encoding := "json"
	if cfg.Format != "json" {
		encoding = "console"
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc.ConsoleSeparator = "  "
	}

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     enc,
		DisableCaller:     encoding == "console",
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     map[string]any{"app": "esdemo"},
	}.Build()
}
