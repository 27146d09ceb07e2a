package region

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	MaxRiverSegments = 32
	MaxWaterBodies   = 16

	// NoConnection marks an unused connection slot.
	NoConnection uint8 = 255

	riverSegmentSize   = 40
	waterBodySize      = 40
	hydrologyHeaderLen = 20
)

// RiverSize classifies a river segment.
type RiverSize uint8

const (
	SizeStream RiverSize = iota
	SizeCreek
	SizeRiver
	SizeMajorRiver
)

var riverSizeNames = [...]string{
	SizeStream:     "stream",
	SizeCreek:      "creek",
	SizeRiver:      "river",
	SizeMajorRiver: "major river",
}

func (s RiverSize) String() string {
	if int(s) >= len(riverSizeNames) {
		return "unknown"
	}
	return riverSizeNames[s]
}

// WaterBodyType classifies standing or special water.
type WaterBodyType uint8

const (
	WaterNone WaterBodyType = iota
	WaterRiver
	WaterLake
	WaterPond
	WaterMarsh
	WaterWetland
	WaterSpring
	WaterWaterfall
)

var waterBodyNames = [...]string{
	WaterNone:      "none",
	WaterRiver:     "river",
	WaterLake:      "lake",
	WaterPond:      "pond",
	WaterMarsh:     "marsh",
	WaterWetland:   "wetland",
	WaterSpring:    "spring",
	WaterWaterfall: "waterfall",
}

func (t WaterBodyType) String() string {
	if int(t) >= len(waterBodyNames) {
		return "unknown"
	}
	return waterBodyNames[t]
}

// RiverSegment is one straight stretch of river inside a region. Positions
// are local to the region.
type RiverSegment struct {
	StartX, StartZ float32
	EndX, EndZ     float32
	Width          float32
	Depth          float32
	Flow           float32
	Elevation      float32
	Size           RiverSize
	ConnectsTo     [4]uint8
}

// NewRiverSegment returns a segment with default dimensions and no connections.
func NewRiverSegment(sx, sz, ex, ez float32) RiverSegment {
	return RiverSegment{
		StartX: sx, StartZ: sz, EndX: ex, EndZ: ez,
		Width: 2, Depth: 0.5, Flow: 1,
		ConnectsTo: [4]uint8{NoConnection, NoConnection, NoConnection, NoConnection},
	}
}

// Valid checks physical ranges.
func (s RiverSegment) Valid() bool {
	return inRange(s.Width, 0, 1000) && inRange(s.Depth, 0, 100) && s.Flow >= 0 && s.Size <= SizeMajorRiver
}

// Length is the straight-line length of the segment.
func (s RiverSegment) Length() float64 {
	return math.Hypot(float64(s.EndX-s.StartX), float64(s.EndZ-s.StartZ))
}

// WaterBody is a lake, spring, waterfall or similar feature.
type WaterBody struct {
	Type             WaterBodyType
	CenterX, CenterZ float32
	Area             float32
	Volume           float32
	Depth            float32
	Elevation        float32
	Temperature      float32
	ConnectedRivers  [8]uint8
}

// NewWaterBody returns a body with no river connections.
func NewWaterBody(t WaterBodyType, x, z, area, volume, depth float32) WaterBody {
	b := WaterBody{Type: t, CenterX: x, CenterZ: z, Area: area, Volume: volume, Depth: depth, Temperature: 15}
	for i := range b.ConnectedRivers {
		b.ConnectedRivers[i] = NoConnection
	}
	return b
}

// Valid checks physical ranges.
func (b WaterBody) Valid() bool {
	return b.Type <= WaterWaterfall && b.Area >= 0 && b.Volume >= 0 &&
		inRange(b.Depth, 0, 1000) && inRange(b.Temperature, -50, 100)
}

// Feature flags summarising a region's hydrology.
const (
	HasWaterfall uint8 = 1 << iota
	HasSpring
	HasFloodplain
	HasWetlands
)

// Hydrology is the version 2 section of a regional record.
type Hydrology struct {
	TotalFlow        float32
	FlowDirection    float32
	GroundwaterLevel float32
	DrainageArea     float32
	Features         uint8
	Rivers           Bounded[RiverSegment]
	Bodies           Bounded[WaterBody]
}

// NewHydrology returns an empty section with the standard capacities.
func NewHydrology() Hydrology {
	return Hydrology{
		Rivers: NewBounded[RiverSegment](MaxRiverSegments),
		Bodies: NewBounded[WaterBody](MaxWaterBodies),
	}
}

// Empty reports whether the section carries no information.
func (h Hydrology) Empty() bool {
	return h.TotalFlow == 0 && h.FlowDirection == 0 && h.GroundwaterLevel == 0 &&
		h.DrainageArea == 0 && h.Features == 0 && h.Rivers.Len() == 0 && h.Bodies.Len() == 0
}

// Valid checks every stored feature.
func (h Hydrology) Valid() bool {
	if h.TotalFlow < 0 || h.DrainageArea < 0 || isNaN(h.FlowDirection) || isNaN(h.GroundwaterLevel) {
		return false
	}
	for _, s := range h.Rivers.items {
		if !s.Valid() {
			return false
		}
	}
	for _, b := range h.Bodies.items {
		if !b.Valid() {
			return false
		}
	}
	return true
}

func (h Hydrology) clone() Hydrology {
	c := h
	c.Rivers = h.Rivers.clone()
	c.Bodies = h.Bodies.clone()
	return c
}

func (h Hydrology) encodedSize() int {
	return hydrologyHeaderLen + h.Rivers.Len()*riverSegmentSize + h.Bodies.Len()*waterBodySize
}

func (h Hydrology) appendBinary(buf []byte) []byte {
	buf = appendFloat32(buf, h.TotalFlow)
	buf = appendFloat32(buf, h.FlowDirection)
	buf = appendFloat32(buf, h.GroundwaterLevel)
	buf = appendFloat32(buf, h.DrainageArea)
	buf = append(buf, h.Features, uint8(h.Rivers.Len()), uint8(h.Bodies.Len()), 0)
	for _, s := range h.Rivers.items {
		buf = appendFloat32(buf, s.StartX)
		buf = appendFloat32(buf, s.StartZ)
		buf = appendFloat32(buf, s.EndX)
		buf = appendFloat32(buf, s.EndZ)
		buf = appendFloat32(buf, s.Width)
		buf = appendFloat32(buf, s.Depth)
		buf = appendFloat32(buf, s.Flow)
		buf = appendFloat32(buf, s.Elevation)
		buf = append(buf, uint8(s.Size))
		buf = append(buf, s.ConnectsTo[:]...)
		buf = append(buf, 0, 0, 0)
	}
	for _, b := range h.Bodies.items {
		buf = append(buf, uint8(b.Type), 0, 0, 0)
		buf = appendFloat32(buf, b.CenterX)
		buf = appendFloat32(buf, b.CenterZ)
		buf = appendFloat32(buf, b.Area)
		buf = appendFloat32(buf, b.Volume)
		buf = appendFloat32(buf, b.Depth)
		buf = appendFloat32(buf, b.Elevation)
		buf = appendFloat32(buf, b.Temperature)
		buf = append(buf, b.ConnectedRivers[:]...)
	}
	return buf
}

func decodeHydrology(b []byte) (Hydrology, error) {
	h := NewHydrology()
	if len(b) < hydrologyHeaderLen {
		return h, fmt.Errorf("hydrology header: %w", ErrTruncated)
	}
	h.TotalFlow = readFloat32(b[0:])
	h.FlowDirection = readFloat32(b[4:])
	h.GroundwaterLevel = readFloat32(b[8:])
	h.DrainageArea = readFloat32(b[12:])
	h.Features = b[16]
	rivers, bodies := int(b[17]), int(b[18])
	if rivers > MaxRiverSegments || bodies > MaxWaterBodies {
		return h, fmt.Errorf("hydrology counts %d/%d: %w", rivers, bodies, ErrCapacityExceeded)
	}
	want := hydrologyHeaderLen + rivers*riverSegmentSize + bodies*waterBodySize
	if len(b) != want {
		return h, fmt.Errorf("hydrology section is %d bytes, want %d: %w", len(b), want, ErrSizeMismatch)
	}

	off := hydrologyHeaderLen
	for i := 0; i < rivers; i++ {
		r := b[off : off+riverSegmentSize]
		s := RiverSegment{
			StartX:    readFloat32(r[0:]),
			StartZ:    readFloat32(r[4:]),
			EndX:      readFloat32(r[8:]),
			EndZ:      readFloat32(r[12:]),
			Width:     readFloat32(r[16:]),
			Depth:     readFloat32(r[20:]),
			Flow:      readFloat32(r[24:]),
			Elevation: readFloat32(r[28:]),
			Size:      RiverSize(r[32]),
		}
		copy(s.ConnectsTo[:], r[33:37])
		if err := h.Rivers.Push(s); err != nil {
			return h, err
		}
		off += riverSegmentSize
	}
	for i := 0; i < bodies; i++ {
		r := b[off : off+waterBodySize]
		w := WaterBody{
			Type:        WaterBodyType(r[0]),
			CenterX:     readFloat32(r[4:]),
			CenterZ:     readFloat32(r[8:]),
			Area:        readFloat32(r[12:]),
			Volume:      readFloat32(r[16:]),
			Depth:       readFloat32(r[20:]),
			Elevation:   readFloat32(r[24:]),
			Temperature: readFloat32(r[28:]),
		}
		copy(w.ConnectedRivers[:], r[32:40])
		if err := h.Bodies.Push(w); err != nil {
			return h, err
		}
		off += waterBodySize
	}
	return h, nil
}

func appendFloat32(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func inRange(v, lo, hi float32) bool {
	return v >= lo && v <= hi
}

func isNaN(v float32) bool {
	return v != v
}
