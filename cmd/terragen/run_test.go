package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"terragen/internal/config"
	"terragen/internal/region"
	"terragen/internal/world"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.World.Dir = t.TempDir()
	cfg.World.Seed = "12345"
	cfg.World.Store = store
	cfg.Pregen.Radius = 1
	cfg.Pregen.Layers = 1
	cfg.Pregen.Workers = 2
	cfg.Pregen.ProgressInterval = 0
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunRegionalWorld(t *testing.T) {
	for _, store := range []string{config.StoreFile, config.StoreLevelDB, config.StoreMemory} {
		t.Run(store, func(t *testing.T) {
			cfg := testConfig(t, store)
			out, err := run(context.Background(), cfg, quietLogger())
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if out.Segments != 9 {
				t.Fatalf("segments = %d, want 9", out.Segments)
			}
			// Chunks -1..1 straddle the four regions around the origin.
			if out.Regions != 4 {
				t.Fatalf("regions = %d, want 4", out.Regions)
			}
			if out.Strategy != "regional" || out.Seed != "12345" {
				t.Fatalf("summary = %+v", out)
			}
			if _, err := os.Stat(filepath.Join(cfg.World.Dir, world.MetadataFile)); err != nil {
				t.Fatalf("metadata not written: %v", err)
			}

			segments, err := world.OpenDiskStorage(filepath.Join(cfg.World.Dir, segmentLogFile))
			if err != nil {
				t.Fatalf("reopen segments: %v", err)
			}
			defer segments.Close()
			count := 0
			if err := segments.ForEach(func(world.ChunkCoord, *world.ChunkSegment) bool {
				count++
				return true
			}); err != nil {
				t.Fatalf("for each segment: %v", err)
			}
			if count != 9 {
				t.Fatalf("stored segments = %d, want 9", count)
			}
		})
	}
}

func TestRunPersistsRegionFiles(t *testing.T) {
	cfg := testConfig(t, config.StoreFile)
	if _, err := run(context.Background(), cfg, quietLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}
	store, err := region.OpenFileStore(cfg.World.Dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	var regions []region.RegionalData
	if err := store.ForEach(func(d region.RegionalData) bool {
		regions = append(regions, d)
		return true
	}); err != nil {
		t.Fatalf("for each region: %v", err)
	}
	if len(regions) != 4 {
		t.Fatalf("region files = %d, want 4", len(regions))
	}
	for _, d := range regions {
		if d.Flags&region.FlagGenerated == 0 {
			t.Fatalf("region %d,%d not flagged as generated", d.X, d.Z)
		}
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), region.FileName(0, 0))); err != nil {
		t.Fatalf("origin region file missing: %v", err)
	}
}

func TestRunReopensExistingWorld(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	cfg.World.Legacy = true
	first, err := run(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Strategy != "legacy" || first.Regions != 0 {
		t.Fatalf("legacy summary = %+v", first)
	}

	cfg.World.Seed = "999"
	cfg.World.Legacy = false
	second, err := run(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.WorldID != first.WorldID {
		t.Fatalf("world id changed: %s -> %s", first.WorldID, second.WorldID)
	}
	if second.Seed != "12345" || second.Strategy != "legacy" {
		t.Fatalf("existing world settings not kept: %+v", second)
	}
}

func TestRunKeepsWorldPreset(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	cfg.Parameters = config.NewParameters(config.PresetFlat, config.SizeMassive)
	first, err := run(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Preset != config.PresetFlat || first.Size != config.SizeMassive {
		t.Fatalf("first summary = %+v", first)
	}

	cfg.Parameters = config.DefaultParameters()
	second, err := run(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Preset != config.PresetFlat || second.Size != config.SizeMassive {
		t.Fatalf("reopened world lost its preset: %+v", second)
	}

	meta, err := world.LoadMetadata(cfg.World.Dir)
	if err != nil {
		t.Fatalf("load metadata: %v", err)
	}
	params := worldParameters(cfg, meta, quietLogger())
	if params.Terrain.HeightVariation != 4 || params.Biomes.TemperatureScale != 0.00025 {
		t.Fatalf("resolved parameters = %+v %+v", params.Terrain, params.Biomes)
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	cfg.Pregen.Radius = 4
	cfg.Pregen.Layers = 2
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := run(ctx, cfg, quietLogger()); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
