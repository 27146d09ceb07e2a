package region

import (
	"sort"
	"sync"

	"terragen/internal/world"
)

// MemoryStore keeps encoded records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[world.RegionCoord][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[world.RegionCoord][]byte)}
}

func (m *MemoryStore) Load(coord world.RegionCoord) (RegionalData, bool, error) {
	m.mu.RLock()
	raw, ok := m.records[coord]
	m.mu.RUnlock()
	if !ok {
		return RegionalData{}, false, nil
	}
	d, err := UnmarshalRegionalData(raw)
	if err != nil {
		return RegionalData{}, false, err
	}
	return d, true, nil
}

func (m *MemoryStore) Save(data RegionalData) error {
	raw, err := data.MarshalBinary()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[coordOf(data)] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(coord world.RegionCoord) error {
	m.mu.Lock()
	delete(m.records, coord)
	m.mu.Unlock()
	return nil
}

// ForEach visits records in (x, z) order.
func (m *MemoryStore) ForEach(fn func(data RegionalData) bool) error {
	m.mu.RLock()
	coords := make([]world.RegionCoord, 0, len(m.records))
	for c := range m.records {
		coords = append(coords, c)
	}
	m.mu.RUnlock()
	sortCoords(coords)

	for _, c := range coords {
		d, ok, err := m.Load(c)
		if err != nil {
			return err
		}
		if ok && !fn(d) {
			break
		}
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func sortCoords(coords []world.RegionCoord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Z < coords[j].Z
	})
}
