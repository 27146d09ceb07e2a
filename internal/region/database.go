package region

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/brentp/intintmap"

	"terragen/internal/world"
)

// MaxCachedRegions bounds the in-memory cache of a Database.
const MaxCachedRegions = 256

// Database is a Store fronted by a bounded cache that evicts the least
// recently used region.
type Database struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	cache  map[world.RegionCoord]RegionalData
	stamps *intintmap.Map
	clock  int64
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(db *Database) { db.logger = l }
}

// NewDatabase wraps store with a cache.
func NewDatabase(store Store, opts ...Option) *Database {
	db := &Database{
		store:  store,
		logger: slog.Default(),
		cache:  make(map[world.RegionCoord]RegionalData, MaxCachedRegions),
		stamps: intintmap.New(MaxCachedRegions, 0.6),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Get returns the record for region (x, z) from the cache or the store. A
// missing, unreadable or invalid record reports false.
func (db *Database) Get(x, z int32) (RegionalData, bool) {
	coord := world.RegionCoord{X: x, Z: z}

	db.mu.Lock()
	if d, ok := db.cache[coord]; ok {
		db.touch(coord)
		db.mu.Unlock()
		return d.Clone(), true
	}
	db.mu.Unlock()

	d, ok, err := db.store.Load(coord)
	if err != nil {
		db.logger.Warn("load region failed", "region", coord.String(), "error", err)
		return RegionalData{}, false
	}
	if !ok {
		return RegionalData{}, false
	}

	db.mu.Lock()
	db.insert(coord, d)
	db.mu.Unlock()
	return d.Clone(), true
}

// Set validates data, persists it and then refreshes the cache.
func (db *Database) Set(x, z int32, data RegionalData) error {
	data = data.Clone()
	data.X, data.Z = x, z
	if err := data.Validate(); err != nil {
		return fmt.Errorf("set region %d,%d: %w", x, z, err)
	}
	if err := db.store.Save(data); err != nil {
		db.logger.Error("save region failed", "region", fmt.Sprintf("(%d,%d)", x, z), "error", err)
		return fmt.Errorf("set region %d,%d: %w", x, z, err)
	}

	db.mu.Lock()
	db.insert(world.RegionCoord{X: x, Z: z}, data)
	db.mu.Unlock()
	return nil
}

// Delete removes a region from the store and the cache.
func (db *Database) Delete(x, z int32) error {
	coord := world.RegionCoord{X: x, Z: z}
	db.mu.Lock()
	db.evict(coord)
	db.mu.Unlock()
	return db.store.Delete(coord)
}

// LoadBatch warms the cache with the given regions and returns how many were
// found.
func (db *Database) LoadBatch(coords []world.RegionCoord) int {
	found := 0
	for _, c := range coords {
		if _, ok := db.Get(c.X, c.Z); ok {
			found++
		}
	}
	return found
}

// LoadedRegions lists the cached region coordinates in (x, z) order.
func (db *Database) LoadedRegions() []world.RegionCoord {
	db.mu.Lock()
	coords := make([]world.RegionCoord, 0, len(db.cache))
	for c := range db.cache {
		coords = append(coords, c)
	}
	db.mu.Unlock()
	sortCoords(coords)
	return coords
}

// CacheSize is the number of cached regions.
func (db *Database) CacheSize() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.cache)
}

// ClearCache drops every cached region. Stored records are untouched.
func (db *Database) ClearCache() {
	db.mu.Lock()
	db.cache = make(map[world.RegionCoord]RegionalData, MaxCachedRegions)
	db.stamps = intintmap.New(MaxCachedRegions, 0.6)
	db.mu.Unlock()
}

// Close clears the cache and closes the store.
func (db *Database) Close() error {
	db.ClearCache()
	return db.store.Close()
}

func (db *Database) touch(coord world.RegionCoord) {
	db.clock++
	db.stamps.Put(coord.Pack(), db.clock)
}

func (db *Database) insert(coord world.RegionCoord, d RegionalData) {
	if _, ok := db.cache[coord]; !ok && len(db.cache) >= MaxCachedRegions {
		db.evictOldest()
	}
	db.cache[coord] = d
	db.touch(coord)
}

func (db *Database) evict(coord world.RegionCoord) {
	delete(db.cache, coord)
	db.stamps.Del(coord.Pack())
}

func (db *Database) evictOldest() {
	var (
		oldest int64
		stamp  int64 = -1
	)
	for kv := range db.stamps.Items() {
		if stamp < 0 || kv[1] < stamp {
			oldest, stamp = kv[0], kv[1]
		}
	}
	if stamp < 0 {
		return
	}
	db.evict(world.UnpackRegion(oldest))
}
