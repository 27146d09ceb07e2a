package generator

import (
	"terragen/internal/noise"
	"terragen/internal/world"
)

const (
	legacyNoiseScale float32 = 0.02
	// Segment height times 1.5 and one eighth of it.
	legacyAmplitude float32 = world.SegmentSize * 1.5
	legacyBase              = world.SegmentSize / 8
)

// legacyStrategy reproduces the original fixed terrain bit for bit. It is
// independent of the seed and the parameters.
type legacyStrategy struct{}

func (legacyStrategy) name() string { return "legacy" }

func (legacyStrategy) height(gx, gz int) int {
	nx := float32(gx) * legacyNoiseScale
	nz := float32(gz) * legacyNoiseScale
	return legacyColumnHeight(nx, nz)
}

func (s legacyStrategy) fill(seg *world.ChunkSegment, cx, cy, cz int) {
	baseX, baseY, baseZ := cx*world.SegmentSize, cy*world.SegmentSize, cz*world.SegmentSize
	for x := 0; x < world.SegmentSize; x++ {
		for z := 0; z < world.SegmentSize; z++ {
			h := s.height(baseX+x, baseZ+z)
			for y := 0; y < world.SegmentSize; y++ {
				seg.SetVoxel(x, y, z, legacyVoxel(baseY+y, h))
			}
		}
	}
}

// legacyColumnHeight converts noise coordinates to a column height. The
// float32 product is truncated toward zero.
func legacyColumnHeight(nx, nz float32) int {
	v := noise.LegacyValue(nx, 0, nz)
	return int(float32(v*legacyAmplitude)) + legacyBase
}

// legacyVoxel is the original three-layer column: grass on top, dirt for the
// two blocks below, stone underneath.
func legacyVoxel(y, h int) world.VoxelType {
	switch {
	case y > h:
		return world.Air
	case y == h:
		return world.Grass
	case y > h-3:
		return world.Dirt
	}
	return world.Stone
}
