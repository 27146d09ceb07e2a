package world

// SegmentSize is the edge length of a chunk segment in voxels.
const SegmentSize = 32

const segmentVolume = SegmentSize * SegmentSize * SegmentSize

// ChunkSegment is a dense 32x32x32 voxel cube. It is not safe for concurrent
// mutation; generation fills one segment per goroutine.
type ChunkSegment struct {
	voxels [segmentVolume]VoxelType
}

// NewChunkSegment returns an all-air segment.
func NewChunkSegment() *ChunkSegment {
	return &ChunkSegment{}
}

func segmentIndex(x, y, z int) (int, bool) {
	if x < 0 || y < 0 || z < 0 || x >= SegmentSize || y >= SegmentSize || z >= SegmentSize {
		return 0, false
	}
	return (y*SegmentSize+z)*SegmentSize + x, true
}

// SetVoxel writes a voxel. Out-of-range coordinates are ignored.
func (s *ChunkSegment) SetVoxel(x, y, z int, v VoxelType) {
	if idx, ok := segmentIndex(x, y, z); ok {
		s.voxels[idx] = v
	}
}

// GetVoxel reads a voxel. Out-of-range coordinates read as air.
func (s *ChunkSegment) GetVoxel(x, y, z int) VoxelType {
	if idx, ok := segmentIndex(x, y, z); ok {
		return s.voxels[idx]
	}
	return Air
}

// Fill sets every voxel to v.
func (s *ChunkSegment) Fill(v VoxelType) {
	for i := range s.voxels {
		s.voxels[i] = v
	}
}

// Count returns the number of voxels of type v.
func (s *ChunkSegment) Count(v VoxelType) int {
	n := 0
	for _, cur := range s.voxels {
		if cur == v {
			n++
		}
	}
	return n
}

// Empty reports whether the segment only holds air.
func (s *ChunkSegment) Empty() bool {
	return s.Count(Air) == segmentVolume
}

// Diff counts voxel positions whose types differ between s and other.
func (s *ChunkSegment) Diff(other *ChunkSegment) int {
	n := 0
	for i := range s.voxels {
		if s.voxels[i] != other.voxels[i] {
			n++
		}
	}
	return n
}

// Bytes returns a copy of the raw voxel ids in storage order.
func (s *ChunkSegment) Bytes() []byte {
	out := make([]byte, segmentVolume)
	for i, v := range s.voxels {
		out[i] = byte(v)
	}
	return out
}

// SetBytes replaces the voxel ids from raw storage order.
func (s *ChunkSegment) SetBytes(b []byte) bool {
	if len(b) != segmentVolume {
		return false
	}
	for i, v := range b {
		s.voxels[i] = VoxelType(v)
	}
	return true
}
