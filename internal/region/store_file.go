package region

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"terragen/internal/world"
)

// FileStore writes one file per region under <world>/regions.
type FileStore struct {
	dir string
}

// OpenFileStore creates the regions directory below worldDir if needed.
func OpenFileStore(worldDir string) (*FileStore, error) {
	dir := filepath.Join(worldDir, "regions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create region directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir is the directory holding the region files.
func (s *FileStore) Dir() string { return s.dir }

// Path is the file that holds region (x, z).
func (s *FileStore) Path(coord world.RegionCoord) string {
	return filepath.Join(s.dir, FileName(coord.X, coord.Z))
}

func (s *FileStore) Load(coord world.RegionCoord) (RegionalData, bool, error) {
	raw, err := os.ReadFile(s.Path(coord))
	if errors.Is(err, fs.ErrNotExist) {
		return RegionalData{}, false, nil
	}
	if err != nil {
		return RegionalData{}, false, fmt.Errorf("read region %s: %w", coord, err)
	}
	d, err := UnmarshalRegionalData(raw)
	if err != nil {
		return RegionalData{}, false, fmt.Errorf("decode region %s: %w", coord, err)
	}
	return d, true, nil
}

// Save writes to a temporary file and renames it over the old record.
func (s *FileStore) Save(data RegionalData) error {
	raw, err := data.MarshalBinary()
	if err != nil {
		return err
	}
	path := s.Path(coordOf(data))
	tmp, err := os.CreateTemp(s.dir, ".region-*")
	if err != nil {
		return fmt.Errorf("create temp region file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write region file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close region file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename region file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(coord world.RegionCoord) error {
	err := os.Remove(s.Path(coord))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete region %s: %w", coord, err)
	}
	return nil
}

// ForEach visits every well-named region file in (x, z) order.
func (s *FileStore) ForEach(fn func(data RegionalData) bool) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("list regions: %w", err)
	}
	var coords []world.RegionCoord
	for _, e := range entries {
		if c, ok := ParseFileName(e.Name()); ok && !e.IsDir() {
			coords = append(coords, c)
		}
	}
	sortCoords(coords)
	for _, c := range coords {
		d, ok, err := s.Load(c)
		if err != nil {
			return err
		}
		if ok && !fn(d) {
			break
		}
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// ParseFileName reverses FileName.
func ParseFileName(name string) (world.RegionCoord, bool) {
	rest, ok := strings.CutPrefix(name, "region_")
	if !ok {
		return world.RegionCoord{}, false
	}
	rest, ok = strings.CutSuffix(rest, ".bin")
	if !ok {
		return world.RegionCoord{}, false
	}
	xs, zs, ok := strings.Cut(rest, "_")
	if !ok {
		return world.RegionCoord{}, false
	}
	x, ok := parseComponent(xs)
	if !ok {
		return world.RegionCoord{}, false
	}
	z, ok := parseComponent(zs)
	if !ok {
		return world.RegionCoord{}, false
	}
	return world.RegionCoord{X: x, Z: z}, true
}

func parseComponent(s string) (int32, bool) {
	if len(s) < 5 {
		return 0, false
	}
	sign := s[len(s)-1]
	v, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	switch sign {
	case 'p':
		if v > 1<<31-1 {
			return 0, false
		}
		return int32(v), true
	case 'n':
		if v == 0 || v > 1<<31 {
			return 0, false
		}
		return int32(-v), true
	}
	return 0, false
}
