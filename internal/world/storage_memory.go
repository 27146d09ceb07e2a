package world

import "sync"

// MemoryStorage keeps segments in process memory.
type MemoryStorage struct {
	mu       sync.RWMutex
	segments map[ChunkCoord][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{segments: make(map[ChunkCoord][]byte)}
}

func (m *MemoryStorage) Load(coord ChunkCoord) (*ChunkSegment, bool, error) {
	m.mu.RLock()
	raw, ok := m.segments[coord]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	segment := NewChunkSegment()
	segment.SetBytes(raw)
	return segment, true, nil
}

func (m *MemoryStorage) Save(coord ChunkCoord, segment *ChunkSegment) error {
	raw := segment.Bytes()
	m.mu.Lock()
	m.segments[coord] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(coord ChunkCoord) error {
	m.mu.Lock()
	delete(m.segments, coord)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) ForEach(fn func(coord ChunkCoord, segment *ChunkSegment) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for coord, raw := range m.segments {
		segment := NewChunkSegment()
		segment.SetBytes(raw)
		if !fn(coord, segment) {
			break
		}
	}
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
