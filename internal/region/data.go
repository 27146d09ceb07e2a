// Package region holds the persisted per-region climate record, its binary
// codec and the cached regional database.
package region

import (
	"errors"
	"fmt"

	"terragen/internal/biome"
)

const (
	// Magic identifies a regional record ("REGC").
	Magic uint32 = 0x52454743
	// CurrentVersion is the newest record version this package writes.
	CurrentVersion uint32 = 2

	baseSize   = 76
	headerSize = 16
)

// Record flags. Unknown bits are carried through unchanged.
const (
	FlagGenerated uint32 = 1 << iota
	FlagUserEdited
)

var (
	ErrBadMagic           = errors.New("bad magic number")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrSizeMismatch       = errors.New("size mismatch")
	ErrTruncated          = errors.New("truncated record")
	ErrInvalid            = errors.New("invalid regional data")
)

// RegionalData is the climate and hydrology summary of one 1000x1000 block
// region.
type RegionalData struct {
	Version       uint32
	Flags         uint32
	X, Z          int32
	Biome         biome.Type
	Temperature   float32
	Humidity      float32
	Elevation     float32
	Precipitation float32
	Reserved      [32]byte
	Hydrology     Hydrology
}

// NewRegionalData returns a plains record for the region at (x, z).
func NewRegionalData(x, z int32) RegionalData {
	d := RegionalData{
		Version:   CurrentVersion,
		X:         x,
		Z:         z,
		Hydrology: NewHydrology(),
	}
	d.SetDefaults(biome.Plains)
	return d
}

// SetDefaults sets the biome and its typical climate.
func (d *RegionalData) SetDefaults(t biome.Type) {
	d.Biome = t
	switch t {
	case biome.Desert:
		d.Temperature, d.Humidity, d.Precipitation = 30, 20, 200
	case biome.Mountains:
		d.Temperature, d.Humidity, d.Precipitation = 5, 60, 600
	case biome.Forest:
		d.Temperature, d.Humidity, d.Precipitation = 12, 70, 1000
	case biome.Ocean:
		d.Temperature, d.Humidity, d.Precipitation = 18, 85, 1200
	default:
		d.Temperature, d.Humidity, d.Precipitation = 15, 60, 800
	}
}

// Coord returns the region coordinate of the record.
func (d RegionalData) Coord() (int32, int32) { return d.X, d.Z }

// Valid reports whether every field is inside its physical range.
func (d RegionalData) Valid() bool {
	return d.Validate() == nil
}

// Validate returns a descriptive error wrapping ErrInvalid for the first
// field out of range.
func (d RegionalData) Validate() error {
	switch {
	case d.Version == 0 || d.Version > CurrentVersion:
		return fmt.Errorf("%w: version %d", ErrInvalid, d.Version)
	case !d.Biome.Valid():
		return fmt.Errorf("%w: biome %d", ErrInvalid, uint32(d.Biome))
	case !inRange(d.Temperature, -100, 100):
		return fmt.Errorf("%w: temperature %v", ErrInvalid, d.Temperature)
	case !inRange(d.Humidity, 0, 100):
		return fmt.Errorf("%w: humidity %v", ErrInvalid, d.Humidity)
	case !inRange(d.Elevation, -500, 10000):
		return fmt.Errorf("%w: elevation %v", ErrInvalid, d.Elevation)
	case !inRange(d.Precipitation, 0, 10000):
		return fmt.Errorf("%w: precipitation %v", ErrInvalid, d.Precipitation)
	case d.Version < 2 && !d.Hydrology.Empty():
		return fmt.Errorf("%w: hydrology requires version 2", ErrInvalid)
	case !d.Hydrology.Valid():
		return fmt.Errorf("%w: hydrology", ErrInvalid)
	}
	return nil
}

// Clone returns a copy that shares no backing storage with d.
func (d RegionalData) Clone() RegionalData {
	c := d
	c.Hydrology = d.Hydrology.clone()
	return c
}

// FileName is the on-disk name of the record for region (x, z).
func FileName(x, z int32) string {
	return fmt.Sprintf("region_%s_%s.bin", signedComponent(x), signedComponent(z))
}

func signedComponent(v int32) string {
	if v < 0 {
		return fmt.Sprintf("%04dn", -int64(v))
	}
	return fmt.Sprintf("%04dp", v)
}
