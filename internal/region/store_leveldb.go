package region

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"

	"terragen/internal/world"
)

// LevelDBStore keeps every region of a world in one LevelDB database keyed by
// the packed region coordinate.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDBStore opens or creates the database at path.
func OpenLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open region database: %w", err)
	}
	return &LevelDBStore{db: db}, nil
}

func regionKey(coord world.RegionCoord) []byte {
	key := make([]byte, 9)
	key[0] = 'r'
	binary.BigEndian.PutUint64(key[1:], uint64(coord.Pack()))
	return key
}

func (s *LevelDBStore) Load(coord world.RegionCoord) (RegionalData, bool, error) {
	raw, err := s.db.Get(regionKey(coord), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
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

func (s *LevelDBStore) Save(data RegionalData) error {
	raw, err := data.MarshalBinary()
	if err != nil {
		return err
	}
	if err := s.db.Put(regionKey(coordOf(data)), raw, nil); err != nil {
		return fmt.Errorf("write region %d,%d: %w", data.X, data.Z, err)
	}
	return nil
}

func (s *LevelDBStore) Delete(coord world.RegionCoord) error {
	if err := s.db.Delete(regionKey(coord), nil); err != nil {
		return fmt.Errorf("delete region %s: %w", coord, err)
	}
	return nil
}

// ForEach visits records in key order.
func (s *LevelDBStore) ForEach(fn func(data RegionalData) bool) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()
		if len(key) != 9 || key[0] != 'r' {
			continue
		}
		d, err := UnmarshalRegionalData(iter.Value())
		if err != nil {
			return fmt.Errorf("decode region %d: %w", int64(binary.BigEndian.Uint64(key[1:])), err)
		}
		if !fn(d) {
			break
		}
	}
	return iter.Error()
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
