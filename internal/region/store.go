package region

import "terragen/internal/world"

// Store persists regional records.
type Store interface {
	Load(coord world.RegionCoord) (RegionalData, bool, error)
	Save(data RegionalData) error
	Delete(coord world.RegionCoord) error
	ForEach(fn func(data RegionalData) bool) error
	Close() error
}

func coordOf(d RegionalData) world.RegionCoord {
	return world.RegionCoord{X: d.X, Z: d.Z}
}
