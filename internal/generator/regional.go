package generator

import (
	"math"

	"terragen/internal/biome"
	"terragen/internal/config"
	"terragen/internal/noise"
	"terragen/internal/region"
	"terragen/internal/river"
	"terragen/internal/seed"
	"terragen/internal/world"
)

const (
	// Legacy heights sit in [4,52]; this is their midpoint.
	legacyMidHeight = 28
	// Carving deeper than this would punch through thin segments of terrain.
	maxCarveDepth = 16
	snowLine      = 150
	lavaLevel     = 8
	// Carving depth is calibrated for this erosion strength.
	referenceErosion = 0.5
	// Subsystem names for WorldSeed.Component.
	riversComponent = "rivers"
	cavesComponent  = "caves"
	oresComponent   = "ores"
)

// regionalStrategy shapes terrain from the region's biome, carves rivers and
// adds caves, ores and bedrock.
type regionalStrategy struct {
	g      *Generator
	params config.WorldParameters

	offX, offZ float32
	erosion    float64

	terrainSeed uint64
	caveSeed    uint64
	oreSeed     uint64
	waterSeed   uint64
	surfaceSeed uint64
}

func newRegionalStrategy(g *Generator) *regionalStrategy {
	ts := g.seed.Feature(seed.Terrain, 0, 0, 0)
	return &regionalStrategy{
		g:           g,
		params:      g.params,
		offX:        float32((ts&0xFFFF)%10000) * 0.001,
		offZ:        float32(((ts>>16)&0xFFFF)%10000) * 0.001,
		erosion:     g.params.Terrain.ErosionStrength / referenceErosion,
		terrainSeed: g.seed.Domain(seed.Terrain),
		caveSeed:    g.seed.Component(cavesComponent, 0, 0, 0),
		oreSeed:     g.seed.Component(oresComponent, 0, 0, 0),
		waterSeed:   g.riverSeed(),
		surfaceSeed: g.seed.Domain(seed.Vegetation),
	}
}

func (s *regionalStrategy) name() string { return "regional" }

// riverSeed is shared by surface carving and regional hydrology so both see
// the same rivers.
func (g *Generator) riverSeed() uint64 {
	return g.seed.Component(riversComponent, 0, 0, 0)
}

// column is everything needed to classify the voxels of one column.
type column struct {
	height      int
	carve       river.Carving
	biome       biome.Data
	temperature float32
}

// regionCache memoises regional lookups for the few regions one segment
// touches.
type regionCache map[world.RegionCoord]region.RegionalData

func (c regionCache) get(g *Generator, coord world.RegionCoord) region.RegionalData {
	if d, ok := c[coord]; ok {
		return d
	}
	d := g.GetRegionalData(coord.X, coord.Z)
	c[coord] = d
	return d
}

// seedHeight is the legacy column height with the seed's noise offset.
func (s *regionalStrategy) seedHeight(gx, gz int) int {
	nx := float32(float32(gx)*legacyNoiseScale) + s.offX
	nz := float32(float32(gz)*legacyNoiseScale) + s.offZ
	return legacyColumnHeight(nx, nz)
}

func (s *regionalStrategy) surface(gx, gz int, b biome.Data) float64 {
	t := s.params.Terrain
	freq := t.NoiseScale / b.Scale
	shape := noise.Fractal(float64(gx)*freq, float64(gz)*freq, s.terrainSeed, t.NoiseOctaves, t.NoisePersistence, t.NoiseLacunarity)*2 - 1
	detail := noise.Gradient(float64(gx), float64(gz), s.terrainSeed+1, 0.05) * b.Roughness
	variation := float64(b.HeightVariation) * t.HeightVariation / 24

	h := float64(b.BaseHeight) + (t.BaseHeight - 64)
	h += (shape + detail) * variation
	h += float64(s.seedHeight(gx, gz)-legacyMidHeight) * 0.25
	return h
}

func (s *regionalStrategy) sample(gx, gz int, regions regionCache) column {
	rd := regions.get(s.g, world.RegionAt(gx, gz))
	b := s.g.registry.Biome(rd.Biome)

	h := s.surface(gx, gz, b)
	carve := river.Carve(float64(gx), float64(gz), s.waterSeed)
	h -= math.Min(carve.Amount*s.erosion, maxCarveDepth)

	return column{
		height:      max(int(math.Floor(h)), 1),
		carve:       carve,
		biome:       b,
		temperature: rd.Temperature,
	}
}

func (s *regionalStrategy) height(gx, gz int) int {
	return s.sample(gx, gz, regionCache{}).height
}

func (s *regionalStrategy) fill(seg *world.ChunkSegment, cx, cy, cz int) {
	baseX, baseY, baseZ := cx*world.SegmentSize, cy*world.SegmentSize, cz*world.SegmentSize
	regions := regionCache{}
	for x := 0; x < world.SegmentSize; x++ {
		for z := 0; z < world.SegmentSize; z++ {
			gx, gz := baseX+x, baseZ+z
			col := s.sample(gx, gz, regions)
			for y := 0; y < world.SegmentSize; y++ {
				seg.SetVoxel(x, y, z, s.voxel(gx, baseY+y, gz, col))
			}
		}
	}
}

func (s *regionalStrategy) voxel(gx, gy, gz int, col column) world.VoxelType {
	h := col.height
	water := int(s.params.Terrain.WaterLevel)

	if gy > h {
		if col.carve.InChannel && gy <= h+int(math.Ceil(col.carve.Depth)) {
			return world.Water
		}
		if gy <= water {
			if gy == water && col.temperature < 0 {
				return world.Ice
			}
			return world.Water
		}
		return world.Air
	}
	if gy == 0 {
		return world.Bedrock
	}

	depth := h - gy
	b := col.biome
	if depth == 0 {
		return s.topBlock(gx, gz, h, water, col)
	}
	if depth <= 3 {
		return b.Subsurface
	}
	if s.isCave(gx, gy, gz, depth) {
		if gy <= lavaLevel {
			return world.Lava
		}
		return world.Air
	}
	if ore, ok := s.ore(gx, gy, gz, depth); ok && b.Deep == world.Stone {
		return ore
	}
	return b.Deep
}

func (s *regionalStrategy) topBlock(gx, gz, h, water int, col column) world.VoxelType {
	b := col.biome
	if h < water || col.carve.InChannel {
		if b.Subsurface == world.Dirt {
			return world.Sand
		}
		return b.Subsurface
	}
	top := b.Surface
	if top == world.Water {
		top = b.Subsurface
	}
	if h >= snowLine || (col.temperature < -2 && top == world.Grass) {
		return world.Snow
	}
	if seed.NewStream(s.surfaceSeed, int64(gx), 0, int64(gz), 1).Float64() < 0.02 {
		return b.Feature
	}
	return top
}

func (s *regionalStrategy) isCave(gx, gy, gz, depth int) bool {
	c := s.params.Caves
	if depth < c.MinDepth || depth > c.MaxDepth || c.CaveFrequency <= 0 {
		return false
	}
	freq := 1 / (math.Max(c.TunnelWidth, 1) * 8)
	v := noise.Value3D(float64(gx)*freq, float64(gy)*freq, float64(gz)*freq, s.caveSeed)
	if math.Abs(v-0.5) < c.CaveFrequency {
		return true
	}
	if c.CavernFrequency > 0 {
		cf := 1 / math.Max(c.CavernSize*4, 1)
		return noise.Value3D(float64(gx)*cf, float64(gy)*cf, float64(gz)*cf, s.caveSeed+1) > 1-c.CavernFrequency
	}
	return false
}

// ore picks at most one ore per block from the coordinate hash. Rarer ores
// are restricted to lower altitudes.
func (s *regionalStrategy) ore(gx, gy, gz, depth int) (world.VoxelType, bool) {
	r := s.params.Resources
	if depth < r.MinDepth || depth > r.MaxDepth {
		return world.Air, false
	}
	roll := seed.NewStream(s.oreSeed, int64(gx), int64(gy), int64(gz), 0).Float64()
	limit := 0.0
	for _, o := range []struct {
		block world.VoxelType
		freq  float64
		maxY  int
	}{
		{world.DiamondOre, r.DiamondFrequency, 16},
		{world.GoldOre, r.GoldFrequency, 32},
		{world.IronOre, r.IronFrequency, 64},
		{world.CoalOre, r.CoalFrequency, math.MaxInt},
	} {
		if gy > o.maxY {
			continue
		}
		limit += o.freq * r.OreAbundance
		if roll < limit {
			return o.block, true
		}
	}
	return world.Air, false
}
