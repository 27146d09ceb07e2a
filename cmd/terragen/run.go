package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"terragen/internal/config"
	"terragen/internal/generator"
	"terragen/internal/region"
	"terragen/internal/seed"
	"terragen/internal/telemetry"
	"terragen/internal/world"
)

const (
	segmentLogFile = "segments.log"
	levelDBDir     = "regions.ldb"
)

// summary reports what one invocation produced.
type summary struct {
	WorldID  uuid.UUID
	Seed     string
	Strategy string
	Preset   config.Preset
	Size     config.Size
	Segments int
	Regions  int
}

// run opens or creates the world described by cfg, pregenerates the
// configured area and persists segments and regional data.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (summary, error) {
	meta, err := openMetadata(cfg, logger)
	if err != nil {
		return summary{}, err
	}
	s := seed.FromString(meta.Seed)
	params := worldParameters(cfg, meta, logger)

	store, err := openRegionStore(cfg)
	if err != nil {
		return summary{}, err
	}
	db := region.NewDatabase(store, region.WithLogger(logger))
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("close region store", "error", err)
		}
	}()

	segments, err := world.OpenDiskStorage(filepath.Join(cfg.World.Dir, segmentLogFile))
	if err != nil {
		return summary{}, err
	}
	defer segments.Close()

	gen := generator.New(s, params,
		generator.WithLegacy(meta.LegacyCompatible),
		generator.WithLogger(logger),
		generator.WithTracer(telemetry.Tracer()),
		generator.WithDatabase(db),
	)
	strategy := "regional"
	if gen.Legacy() {
		strategy = "legacy"
	}
	logger.Info("generating world",
		"name", meta.Name,
		"seed", s.String(),
		"strategy", strategy,
		"preset", params.Preset.String(),
		"size", params.Size.String(),
	)

	area := generator.AreaAround(cfg.Pregen.Radius, cfg.Pregen.Layers)
	interval := cfg.Pregen.ProgressInterval.Duration()
	var lastReport time.Time
	done, err := gen.Pregenerate(ctx, area, segments, generator.PregenOptions{
		Workers: cfg.Pregen.Workers,
		Progress: func(done, total int) {
			if interval <= 0 || time.Since(lastReport) < interval {
				return
			}
			lastReport = time.Now()
			logger.Info("pregenerating", "done", done, "total", total)
		},
	})
	out := summary{
		WorldID:  meta.ID,
		Seed:     s.String(),
		Strategy: strategy,
		Preset:   params.Preset,
		Size:     params.Size,
		Segments: done,
		Regions:  db.CacheSize(),
	}
	if err != nil {
		return out, fmt.Errorf("pregenerate: %w", err)
	}
	return out, nil
}

// openMetadata loads the world descriptor, creating it on first use. An
// existing world keeps its recorded seed and strategy.
func openMetadata(cfg *config.Config, logger *slog.Logger) (world.Metadata, error) {
	meta, err := world.LoadMetadata(cfg.World.Dir)
	switch {
	case err == nil:
		if cfg.World.Seed != "" && cfg.World.Seed != meta.Seed {
			logger.Warn("ignoring configured seed for existing world", "configured", cfg.World.Seed, "world", meta.Seed)
		}
		return meta, nil
	case errors.Is(err, fs.ErrNotExist):
	default:
		return world.Metadata{}, err
	}

	s := seed.FromString(cfg.World.Seed)
	meta = world.NewMetadata(cfg.World.Name, s.String(), cfg.Parameters.Preset.String(), cfg.Parameters.Size.String(), cfg.World.Legacy)
	if err := meta.Save(cfg.World.Dir); err != nil {
		return world.Metadata{}, err
	}
	logger.Info("created world", "dir", cfg.World.Dir, "id", meta.ID.String())
	return meta, nil
}

// worldParameters resolves the parameters for meta. A world keeps the preset
// and size it was created with; configured values only apply when they
// name the same preset and size.
func worldParameters(cfg *config.Config, meta world.Metadata, logger *slog.Logger) config.WorldParameters {
	preset, err := config.ParsePreset(meta.Preset)
	if err != nil {
		logger.Warn("world has unknown preset, using configured parameters", "preset", meta.Preset)
		return cfg.Parameters
	}
	size, err := config.ParseSize(meta.Size)
	if err != nil {
		logger.Warn("world has unknown size, using configured parameters", "size", meta.Size)
		return cfg.Parameters
	}
	if preset == cfg.Parameters.Preset && size == cfg.Parameters.Size {
		return cfg.Parameters
	}
	logger.Warn("ignoring configured preset for existing world",
		"configured", cfg.Parameters.Preset.String()+"/"+cfg.Parameters.Size.String(),
		"world", meta.Preset+"/"+meta.Size,
	)
	if preset == config.PresetCustom {
		params := cfg.Parameters
		params.Preset, params.Size = preset, size
		return params
	}
	params := config.NewParameters(preset, size)
	params.Validate()
	return params
}

func openRegionStore(cfg *config.Config) (region.Store, error) {
	switch cfg.World.Store {
	case config.StoreFile:
		return region.OpenFileStore(cfg.World.Dir)
	case config.StoreLevelDB:
		return region.OpenLevelDBStore(filepath.Join(cfg.World.Dir, levelDBDir))
	case config.StoreMemory:
		return region.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown region store %q", cfg.World.Store)
	}
}
