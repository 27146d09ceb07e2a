package region

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"terragen/internal/biome"
	"terragen/internal/world"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStores(t *testing.T) {
	backends := []struct {
		name string
		open func(t *testing.T) Store
	}{
		{name: "memory", open: func(t *testing.T) Store { return NewMemoryStore() }},
		{name: "file", open: func(t *testing.T) Store {
			s, err := OpenFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("open file store: %v", err)
			}
			return s
		}},
		{name: "leveldb", open: func(t *testing.T) Store {
			s, err := OpenLevelDBStore(filepath.Join(t.TempDir(), "regions.ldb"))
			if err != nil {
				t.Fatalf("open leveldb store: %v", err)
			}
			return s
		}},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			store := backend.open(t)
			defer store.Close()

			if _, ok, err := store.Load(world.RegionCoord{X: 1, Z: 1}); ok || err != nil {
				t.Fatalf("load of missing region = %v, %v", ok, err)
			}

			want := sampleRegion(t)
			if err := store.Save(want); err != nil {
				t.Fatalf("save: %v", err)
			}
			other := NewRegionalData(-10, 2)
			if err := store.Save(other); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, ok, err := store.Load(coordOf(want))
			if err != nil || !ok {
				t.Fatalf("load = %v, %v", ok, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("loaded record differs:\n got %+v\nwant %+v", got, want)
			}

			var seen []world.RegionCoord
			if err := store.ForEach(func(d RegionalData) bool {
				seen = append(seen, coordOf(d))
				return true
			}); err != nil {
				t.Fatalf("for each: %v", err)
			}
			if len(seen) != 2 {
				t.Fatalf("ForEach visited %d regions, want 2", len(seen))
			}

			if err := store.Delete(coordOf(want)); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := store.Load(coordOf(want)); ok {
				t.Fatalf("region still present after delete")
			}
			if err := store.Delete(coordOf(want)); err != nil {
				t.Fatalf("second delete: %v", err)
			}
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	d := NewRegionalData(-1, 3)
	if err := store.Save(d); err != nil {
		t.Fatalf("save: %v", err)
	}
	path := filepath.Join(dir, "regions", "region_0001n_0003p.bin")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() != int64(d.EncodedSize()) {
		t.Fatalf("file size %d, want %d", info.Size(), d.EncodedSize())
	}

	if err := os.WriteFile(store.Path(world.RegionCoord{X: 5, Z: 5}), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if _, ok, err := store.Load(world.RegionCoord{X: 5, Z: 5}); ok || !errors.Is(err, ErrTruncated) {
		t.Fatalf("garbage load = %v, %v", ok, err)
	}
}

func TestDatabaseGetSet(t *testing.T) {
	db := NewDatabase(NewMemoryStore(), WithLogger(quietLogger()))
	defer db.Close()

	if _, ok := db.Get(0, 0); ok {
		t.Fatalf("empty database returned a region")
	}

	d := NewRegionalData(0, 0)
	d.SetDefaults(biome.Desert)
	if err := db.Set(4, 5, d); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := db.Get(4, 5)
	if !ok {
		t.Fatalf("get after set missed")
	}
	if got.X != 4 || got.Z != 5 || got.Biome != biome.Desert {
		t.Fatalf("got %+v", got)
	}

	db.ClearCache()
	if db.CacheSize() != 0 {
		t.Fatalf("cache not cleared")
	}
	if _, ok := db.Get(4, 5); !ok {
		t.Fatalf("get after clear missed the store")
	}
	if db.CacheSize() != 1 {
		t.Fatalf("cache size = %d after reload, want 1", db.CacheSize())
	}

	if err := db.Delete(4, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := db.Get(4, 5); ok {
		t.Fatalf("deleted region still returned")
	}
}

func TestDatabaseRejectsInvalid(t *testing.T) {
	store := NewMemoryStore()
	db := NewDatabase(store, WithLogger(quietLogger()))

	d := NewRegionalData(1, 1)
	d.Humidity = 150
	if err := db.Set(1, 1, d); !errors.Is(err, ErrInvalid) {
		t.Fatalf("set invalid = %v, want ErrInvalid", err)
	}
	if _, ok, _ := store.Load(world.RegionCoord{X: 1, Z: 1}); ok {
		t.Fatalf("invalid record persisted")
	}
	if db.CacheSize() != 0 {
		t.Fatalf("invalid record cached")
	}
}

func TestDatabaseReturnsCopies(t *testing.T) {
	db := NewDatabase(NewMemoryStore(), WithLogger(quietLogger()))
	if err := db.Set(0, 0, sampleRegion(t)); err != nil {
		t.Fatalf("set: %v", err)
	}
	a, _ := db.Get(0, 0)
	_ = a.Hydrology.Rivers.Remove(0)
	b, _ := db.Get(0, 0)
	if b.Hydrology.Rivers.Len() != 2 {
		t.Fatalf("caller mutation leaked into the cache")
	}
}

func TestDatabaseEviction(t *testing.T) {
	db := NewDatabase(NewMemoryStore(), WithLogger(quietLogger()))
	for i := int32(0); i < MaxCachedRegions; i++ {
		if err := db.Set(i, 0, NewRegionalData(i, 0)); err != nil {
			t.Fatalf("set %d: %v", i, err)
		}
	}
	if db.CacheSize() != MaxCachedRegions {
		t.Fatalf("cache size = %d, want %d", db.CacheSize(), MaxCachedRegions)
	}

	// Touch region 0 so region 1 becomes the oldest.
	if _, ok := db.Get(0, 0); !ok {
		t.Fatalf("get 0 missed")
	}
	if err := db.Set(MaxCachedRegions, 0, NewRegionalData(MaxCachedRegions, 0)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if db.CacheSize() != MaxCachedRegions {
		t.Fatalf("cache grew to %d", db.CacheSize())
	}

	loaded := make(map[world.RegionCoord]bool)
	for _, c := range db.LoadedRegions() {
		loaded[c] = true
	}
	if !loaded[world.RegionCoord{X: 0}] {
		t.Fatalf("recently used region evicted")
	}
	if loaded[world.RegionCoord{X: 1}] {
		t.Fatalf("oldest region kept")
	}
	if !loaded[world.RegionCoord{X: MaxCachedRegions}] {
		t.Fatalf("new region not cached")
	}

	// Evicted regions are still served from the store.
	if _, ok := db.Get(1, 0); !ok {
		t.Fatalf("evicted region lost")
	}
	if db.CacheSize() != MaxCachedRegions {
		t.Fatalf("cache grew to %d", db.CacheSize())
	}
}

func TestDatabaseLoadBatch(t *testing.T) {
	store := NewMemoryStore()
	for _, c := range []world.RegionCoord{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: -1, Z: -1}} {
		if err := store.Save(NewRegionalData(c.X, c.Z)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	db := NewDatabase(store, WithLogger(quietLogger()))
	found := db.LoadBatch([]world.RegionCoord{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 2, Z: 2}, {X: -1, Z: -1}})
	if found != 3 {
		t.Fatalf("LoadBatch found %d, want 3", found)
	}
	want := []world.RegionCoord{{X: -1, Z: -1}, {X: 0, Z: 0}, {X: 1, Z: 0}}
	if got := db.LoadedRegions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("LoadedRegions = %v, want %v", got, want)
	}
}

type failingStore struct{ MemoryStore }

func (*failingStore) Load(world.RegionCoord) (RegionalData, bool, error) {
	return RegionalData{}, false, errors.New("disk on fire")
}

func (*failingStore) Save(RegionalData) error { return errors.New("disk on fire") }

func TestDatabaseStoreFailures(t *testing.T) {
	var logs bytes.Buffer
	db := NewDatabase(&failingStore{}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	if _, ok := db.Get(0, 0); ok {
		t.Fatalf("failed load reported a region")
	}
	if !bytes.Contains(logs.Bytes(), []byte("disk on fire")) {
		t.Fatalf("load failure not logged: %q", logs.String())
	}
	if err := db.Set(0, 0, NewRegionalData(0, 0)); err == nil {
		t.Fatalf("failed save reported success")
	}
	if db.CacheSize() != 0 {
		t.Fatalf("failed save was cached")
	}
}
