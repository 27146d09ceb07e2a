package world

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const (
	diskOpDelete byte = 0
	diskOpSet    byte = 1

	// op, x, y, z, payload size
	diskHeaderSize = 1 + 4 + 4 + 4 + 4
)

var errCorruptSegment = errors.New("corrupt segment payload")

type diskRecordMeta struct {
	offset int64
	size   uint32
}

// DiskStorage appends run-length encoded segments to a single log file and
// keeps an in-memory index of the latest record per coordinate.
type DiskStorage struct {
	file    *os.File
	mu      sync.RWMutex
	records map[ChunkCoord]diskRecordMeta
}

// OpenDiskStorage opens or creates the segment log at path.
func OpenDiskStorage(path string) (*DiskStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create segment directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open segment file: %w", err)
	}
	storage := &DiskStorage{
		file:    f,
		records: make(map[ChunkCoord]diskRecordMeta),
	}
	if err := storage.loadIndex(); err != nil {
		f.Close()
		return nil, err
	}
	return storage, nil
}

func (s *DiskStorage) loadIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind segment file: %w", err)
	}

	header := make([]byte, diskHeaderSize)
	var offset int64
	for {
		if _, err := io.ReadFull(s.file, header); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				return fmt.Errorf("truncated segment header: %w", err)
			}
			return fmt.Errorf("read segment header: %w", err)
		}
		op, coord, size := decodeDiskHeader(header)
		recordOffset := offset
		offset += int64(len(header)) + int64(size)

		if _, err := s.file.Seek(int64(size), io.SeekCurrent); err != nil {
			return fmt.Errorf("seek past payload: %w", err)
		}
		if op == diskOpSet {
			s.records[coord] = diskRecordMeta{offset: recordOffset, size: size}
		} else {
			delete(s.records, coord)
		}
	}
	return nil
}

func (s *DiskStorage) Load(coord ChunkCoord) (*ChunkSegment, bool, error) {
	s.mu.RLock()
	meta, ok := s.records[coord]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	payload := make([]byte, meta.size)
	if _, err := s.file.ReadAt(payload, meta.offset+diskHeaderSize); err != nil {
		return nil, false, fmt.Errorf("read payload: %w", err)
	}
	raw, err := decodeRuns(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode segment %v: %w", coord, err)
	}
	segment := NewChunkSegment()
	if !segment.SetBytes(raw) {
		return nil, false, fmt.Errorf("decode segment %v: %w", coord, errCorruptSegment)
	}
	return segment, true, nil
}

func (s *DiskStorage) Save(coord ChunkCoord, segment *ChunkSegment) error {
	payload := encodeRuns(segment.Bytes())
	header := encodeDiskHeader(diskOpSet, coord, uint32(len(payload)))

	s.mu.Lock()
	defer s.mu.Unlock()

	offset, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek segment end: %w", err)
	}
	if _, err := s.file.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := s.file.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync segment file: %w", err)
	}
	s.records[coord] = diskRecordMeta{offset: offset, size: uint32(len(payload))}
	return nil
}

func (s *DiskStorage) Delete(coord ChunkCoord) error {
	header := encodeDiskHeader(diskOpDelete, coord, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek segment end: %w", err)
	}
	if _, err := s.file.Write(header); err != nil {
		return fmt.Errorf("write delete header: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync segment file: %w", err)
	}
	delete(s.records, coord)
	return nil
}

// ForEach visits stored segments in coordinate order.
func (s *DiskStorage) ForEach(fn func(coord ChunkCoord, segment *ChunkSegment) bool) error {
	s.mu.RLock()
	coords := make([]ChunkCoord, 0, len(s.records))
	for coord := range s.records {
		coords = append(coords, coord)
	}
	s.mu.RUnlock()

	sort.Slice(coords, func(i, j int) bool {
		a, b := coords[i], coords[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.Y < b.Y
	})

	for _, coord := range coords {
		segment, ok, err := s.Load(coord)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if !fn(coord, segment) {
			break
		}
	}
	return nil
}

func (s *DiskStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func encodeDiskHeader(op byte, coord ChunkCoord, size uint32) []byte {
	header := make([]byte, diskHeaderSize)
	header[0] = op
	binary.LittleEndian.PutUint32(header[1:5], uint32(int32(coord.X)))
	binary.LittleEndian.PutUint32(header[5:9], uint32(int32(coord.Y)))
	binary.LittleEndian.PutUint32(header[9:13], uint32(int32(coord.Z)))
	binary.LittleEndian.PutUint32(header[13:17], size)
	return header
}

func decodeDiskHeader(header []byte) (byte, ChunkCoord, uint32) {
	coord := ChunkCoord{
		X: int(int32(binary.LittleEndian.Uint32(header[1:5]))),
		Y: int(int32(binary.LittleEndian.Uint32(header[5:9]))),
		Z: int(int32(binary.LittleEndian.Uint32(header[9:13]))),
	}
	return header[0], coord, binary.LittleEndian.Uint32(header[13:17])
}

// encodeRuns stores (u16 length, u8 value) pairs. Terrain segments are mostly
// long runs of air or stone.
func encodeRuns(raw []byte) []byte {
	out := make([]byte, 0, 64)
	for i := 0; i < len(raw); {
		v := raw[i]
		n := 1
		for i+n < len(raw) && raw[i+n] == v && n < 0xFFFF {
			n++
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(n))
		out = append(out, v)
		i += n
	}
	return out
}

func decodeRuns(payload []byte) ([]byte, error) {
	if len(payload)%3 != 0 {
		return nil, errCorruptSegment
	}
	out := make([]byte, 0, segmentVolume)
	for i := 0; i < len(payload); i += 3 {
		n := int(binary.LittleEndian.Uint16(payload[i : i+2]))
		if n == 0 || len(out)+n > segmentVolume {
			return nil, errCorruptSegment
		}
		for j := 0; j < n; j++ {
			out = append(out, payload[i+2])
		}
	}
	return out, nil
}
