package world

// SegmentStorage persists generated chunk segments.
type SegmentStorage interface {
	Load(coord ChunkCoord) (*ChunkSegment, bool, error)
	Save(coord ChunkCoord, segment *ChunkSegment) error
	Delete(coord ChunkCoord) error
	ForEach(fn func(coord ChunkCoord, segment *ChunkSegment) bool) error
	Close() error
}
