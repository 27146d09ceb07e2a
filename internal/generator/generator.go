// Package generator turns a world seed, world parameters and a chunk
// coordinate into voxel content. Regional climate and hydrology come from a
// region.Database when one is attached.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"terragen/internal/biome"
	"terragen/internal/config"
	"terragen/internal/region"
	"terragen/internal/seed"
	"terragen/internal/telemetry"
	"terragen/internal/world"
)

// strategy fills one chunk segment. The legacy strategy is frozen for
// parity; the regional strategy is free to evolve.
type strategy interface {
	name() string
	fill(seg *world.ChunkSegment, cx, cy, cz int)
	height(gx, gz int) int
}

// Generator is safe for concurrent use across coordinates.
type Generator struct {
	seed     seed.WorldSeed
	params   config.WorldParameters
	registry *biome.Registry
	logger   *slog.Logger
	tracer   trace.Tracer
	legacy   bool
	strategy strategy

	mu sync.RWMutex
	db *region.Database
}

// Option configures a Generator.
type Option func(*Generator)

// WithLegacy selects the parity strategy, which ignores the seed and the
// regional pipeline.
func WithLegacy(legacy bool) Option {
	return func(g *Generator) { g.legacy = legacy }
}

// WithRegistry shares an initialised biome registry between generators.
func WithRegistry(r *biome.Registry) Option {
	return func(g *Generator) { g.registry = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(g *Generator) { g.tracer = t }
}

// WithDatabase attaches a regional database at construction.
func WithDatabase(db *region.Database) Option {
	return func(g *Generator) { g.db = db }
}

// New builds a generator. The strategy is fixed for the generator's lifetime.
func New(s seed.WorldSeed, params config.WorldParameters, opts ...Option) *Generator {
	g := &Generator{
		seed:   s,
		params: params,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.registry == nil {
		g.registry = biome.NewRegistry()
	}
	g.registry.Initialize()
	if g.tracer == nil {
		g.tracer = telemetry.Tracer()
	}
	g.params.Validate()

	if g.legacy {
		g.strategy = legacyStrategy{}
	} else {
		g.strategy = newRegionalStrategy(g)
	}
	g.logger.Debug("generator ready",
		"seed", s.String(),
		"strategy", g.strategy.name(),
		"preset", g.params.Preset.String(),
	)
	return g
}

func (g *Generator) Seed() seed.WorldSeed { return g.seed }

func (g *Generator) Parameters() config.WorldParameters { return g.params }

func (g *Generator) Legacy() bool { return g.legacy }

func (g *Generator) Registry() *biome.Registry { return g.registry }

// SetRegionalDatabase attaches or, with nil, detaches the regional database.
func (g *Generator) SetRegionalDatabase(db *region.Database) {
	g.mu.Lock()
	g.db = db
	g.mu.Unlock()
}

// RegionalDatabase returns the attached database or nil.
func (g *Generator) RegionalDatabase() *region.Database {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.db
}

// GenerateChunkSegment fills seg with the content of chunk (cx, cy, cz).
// Chunk indices are multiplied by world.SegmentSize to get world positions.
func (g *Generator) GenerateChunkSegment(seg *world.ChunkSegment, cx, cy, cz int) {
	g.strategy.fill(seg, cx, cy, cz)
}

// GenerateChunk is GenerateChunkSegment wrapped in a trace span.
func (g *Generator) GenerateChunk(ctx context.Context, coord world.ChunkCoord) *world.ChunkSegment {
	_, span := g.tracer.Start(ctx, "generator.chunk", trace.WithAttributes(
		attribute.Int("chunk.x", coord.X),
		attribute.Int("chunk.y", coord.Y),
		attribute.Int("chunk.z", coord.Z),
		attribute.String("strategy", g.strategy.name()),
	))
	defer span.End()

	seg := world.NewChunkSegment()
	g.GenerateChunkSegment(seg, coord.X, coord.Y, coord.Z)
	return seg
}

// TerrainHeight is the surface height of the column at world (gx, gz).
func (g *Generator) TerrainHeight(gx, gz int) int {
	return g.strategy.height(gx, gz)
}

// DefaultRegionalData is returned for every region when no database is
// attached.
func DefaultRegionalData(x, z int32) region.RegionalData {
	d := region.NewRegionalData(x, z)
	d.Biome = biome.Plains
	d.Temperature = 20
	d.Humidity = 50
	d.Elevation = 64
	d.Precipitation = 800
	return d
}

// GetRegionalData returns the record for region (x, z). Without a database
// it is the plains default; with one it is the stored record, generated and
// persisted on first access.
func (g *Generator) GetRegionalData(x, z int32) region.RegionalData {
	db := g.RegionalDatabase()
	if db == nil {
		return DefaultRegionalData(x, z)
	}
	if d, ok := db.Get(x, z); ok {
		return d
	}
	d := g.GenerateRegionalData(x, z)
	if err := db.Set(x, z, d); err != nil {
		g.logger.Warn("persist generated region failed", "region", fmt.Sprintf("(%d,%d)", x, z), "error", err)
	}
	return d
}

// RegionContext is GetRegionalData wrapped in a trace span.
func (g *Generator) RegionContext(ctx context.Context, x, z int32) region.RegionalData {
	_, span := g.tracer.Start(ctx, "generator.region", trace.WithAttributes(
		attribute.Int("region.x", int(x)),
		attribute.Int("region.z", int(z)),
	))
	defer span.End()

	d := g.GetRegionalData(x, z)
	span.SetAttributes(attribute.String("region.biome", d.Biome.String()))
	return d
}
