package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terragen/internal/config"
	"terragen/internal/telemetry"
)

func main() {
	var (
		cfgPath string
		dir     string
		seedArg string
		legacy  bool
		radius  int
	)
	flag.StringVar(&cfgPath, "config", "", "path to world configuration file (json, yaml or toml)")
	flag.StringVar(&dir, "world", "", "world directory, overrides world.dir")
	flag.StringVar(&seedArg, "seed", "", "world seed, overrides world.seed")
	flag.BoolVar(&legacy, "legacy", false, "use the fixed legacy terrain generator")
	flag.IntVar(&radius, "radius", -1, "pregeneration radius in chunks, overrides pregen.radius")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if wrote, err := writeConfigFromEnv(cfgPath); err != nil {
		fatal(logger, "sync config from environment", err)
	} else if wrote {
		logger.Info("configuration written from environment", "path", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(logger, "load config", err)
	}
	if dir != "" {
		cfg.World.Dir = dir
	}
	if seedArg != "" {
		cfg.World.Seed = seedArg
	}
	if legacy {
		cfg.World.Legacy = true
	}
	if radius >= 0 {
		cfg.Pregen.Radius = radius
	}

	ctx, cancel := signalContext()
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint, cfg.Telemetry.Insecure)
	if err != nil {
		fatal(logger, "initialise telemetry", err)
	}
	flush := func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("flush telemetry", "error", err)
		}
	}

	summary, err := run(ctx, cfg, logger)
	flush()
	if err != nil {
		fatal(logger, "generation failed", err)
	}
	logger.Info("world ready",
		"world", summary.WorldID.String(),
		"seed", summary.Seed,
		"strategy", summary.Strategy,
		"segments", summary.Segments,
		"regions", summary.Regions,
	)
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
			return
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
