package world

import "fmt"

// RegionSize is the edge length of a region in world units.
const RegionSize = 1000

// ChunkCoord identifies a chunk segment by its index along each axis.
type ChunkCoord struct {
	X int
	Y int
	Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Origin returns the world position of the segment's minimum corner.
func (c ChunkCoord) Origin() BlockCoord {
	return BlockCoord{X: c.X * SegmentSize, Y: c.Y * SegmentSize, Z: c.Z * SegmentSize}
}

// BlockCoord is a voxel position in world space.
type BlockCoord struct {
	X int
	Y int
	Z int
}

// RegionCoord identifies a 1 km square region.
type RegionCoord struct {
	X int32
	Z int32
}

func (r RegionCoord) String() string {
	return fmt.Sprintf("(%d,%d)", r.X, r.Z)
}

// Center returns the world position of the region's centre.
func (r RegionCoord) Center() (x, z float64) {
	return (float64(r.X) + 0.5) * RegionSize, (float64(r.Z) + 0.5) * RegionSize
}

// Pack folds the coordinate into one int64 key.
func (r RegionCoord) Pack() int64 {
	return int64(r.X)<<32 | int64(uint32(r.Z))
}

// UnpackRegion reverses Pack.
func UnpackRegion(key int64) RegionCoord {
	return RegionCoord{X: int32(key >> 32), Z: int32(uint32(key))}
}

// RegionAt returns the region containing world position (x, z).
func RegionAt(x, z int) RegionCoord {
	return RegionCoord{X: int32(FloorDiv(x, RegionSize)), Z: int32(FloorDiv(z, RegionSize))}
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}
