package region

import (
	"encoding/binary"
	"fmt"

	"terragen/internal/biome"
)

func (d RegionalData) wireVersion() uint32 {
	if d.Version == 1 && d.Hydrology.Empty() {
		return 1
	}
	return CurrentVersion
}

// EncodedSize is the length of the buffer MarshalBinary returns.
func (d RegionalData) EncodedSize() int {
	if d.wireVersion() == 1 {
		return baseSize
	}
	return baseSize + d.Hydrology.encodedSize()
}

// MarshalBinary encodes the record in little-endian order. A version 1 record
// without hydrology is written as version 1; everything else is written at
// CurrentVersion.
func (d RegionalData) MarshalBinary() ([]byte, error) {
	if d.Hydrology.Rivers.Len() > MaxRiverSegments || d.Hydrology.Bodies.Len() > MaxWaterBodies {
		return nil, fmt.Errorf("marshal region %d,%d: %w", d.X, d.Z, ErrCapacityExceeded)
	}
	version := d.wireVersion()
	size := d.EncodedSize()

	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint32(buf, Magic)
	buf = binary.LittleEndian.AppendUint32(buf, version)
	buf = binary.LittleEndian.AppendUint32(buf, d.Flags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(size-headerSize))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(d.X))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(d.Z))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(d.Biome))
	buf = appendFloat32(buf, d.Temperature)
	buf = appendFloat32(buf, d.Humidity)
	buf = appendFloat32(buf, d.Elevation)
	buf = appendFloat32(buf, d.Precipitation)
	buf = append(buf, d.Reserved[:]...)
	if version >= 2 {
		buf = d.Hydrology.appendBinary(buf)
	}
	return buf, nil
}

// UnmarshalBinary decodes b into d. d is left untouched on error.
func (d *RegionalData) UnmarshalBinary(b []byte) error {
	out, err := UnmarshalRegionalData(b)
	if err != nil {
		return err
	}
	*d = out
	return nil
}

// UnmarshalRegionalData decodes and validates a record.
func UnmarshalRegionalData(b []byte) (RegionalData, error) {
	var d RegionalData
	if len(b) < headerSize {
		return d, fmt.Errorf("header is %d bytes: %w", len(b), ErrTruncated)
	}
	if m := binary.LittleEndian.Uint32(b[0:]); m != Magic {
		return d, fmt.Errorf("magic %#08x: %w", m, ErrBadMagic)
	}
	d.Version = binary.LittleEndian.Uint32(b[4:])
	if d.Version == 0 || d.Version > CurrentVersion {
		return d, fmt.Errorf("version %d: %w", d.Version, ErrUnsupportedVersion)
	}
	d.Flags = binary.LittleEndian.Uint32(b[8:])
	if size := binary.LittleEndian.Uint32(b[12:]); uint64(size)+headerSize != uint64(len(b)) {
		return d, fmt.Errorf("data size %d for %d byte buffer: %w", size, len(b), ErrSizeMismatch)
	}
	if len(b) < baseSize {
		return d, fmt.Errorf("record is %d bytes: %w", len(b), ErrTruncated)
	}
	if d.Version == 1 && len(b) != baseSize {
		return d, fmt.Errorf("version 1 record is %d bytes: %w", len(b), ErrSizeMismatch)
	}

	d.X = int32(binary.LittleEndian.Uint32(b[16:]))
	d.Z = int32(binary.LittleEndian.Uint32(b[20:]))
	d.Biome = biome.Type(binary.LittleEndian.Uint32(b[24:]))
	d.Temperature = readFloat32(b[28:])
	d.Humidity = readFloat32(b[32:])
	d.Elevation = readFloat32(b[36:])
	d.Precipitation = readFloat32(b[40:])
	copy(d.Reserved[:], b[44:baseSize])

	if d.Version >= 2 {
		h, err := decodeHydrology(b[baseSize:])
		if err != nil {
			return RegionalData{}, err
		}
		d.Hydrology = h
	} else {
		d.Hydrology = NewHydrology()
	}

	if err := d.Validate(); err != nil {
		return RegionalData{}, err
	}
	return d, nil
}
