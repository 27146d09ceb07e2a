package seed

import (
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/fasthash/fnv1a"
)

// Feature identifies an independent seed domain so that, for example, cave
// layout never correlates with ore placement.
type Feature uint8

const (
	Terrain Feature = iota
	Caves
	Ores
	Structures
	Biomes
	Weather
	Water
	Vegetation
	featureCount
)

var featureNames = [featureCount]string{
	Terrain:    "terrain",
	Caves:      "caves",
	Ores:       "ores",
	Structures: "structures",
	Biomes:     "biomes",
	Weather:    "weather",
	Water:      "water",
	Vegetation: "vegetation",
}

var featurePrimes = [featureCount]uint64{
	Terrain:    2654435761,
	Caves:      4294967291,
	Ores:       6700417233,
	Structures: 9576890767,
	Biomes:     12884901888,
	Weather:    16106127360,
	Water:      19327352832,
	Vegetation: 22548578304,
}

func (f Feature) String() string {
	if f >= featureCount {
		return "unknown"
	}
	return featureNames[f]
}

// WorldSeed is the immutable root of every random decision made for a world.
type WorldSeed struct {
	input   uint64
	master  uint64
	text    string
	domains [featureCount]uint64
}

// New mixes value into a master seed and precomputes the feature domains.
func New(value uint64) WorldSeed {
	s := WorldSeed{input: value, master: Avalanche(value)}
	for i := range s.domains {
		s.domains[i] = Avalanche(s.master ^ featurePrimes[i])
	}
	return s
}

// FromString accepts either a decimal number or arbitrary text. Empty text
// produces a clock-derived seed.
func FromString(text string) WorldSeed {
	text = strings.TrimSpace(text)
	if text == "" {
		return New(uint64(time.Now().UnixNano()))
	}
	if v, err := strconv.ParseUint(text, 10, 64); err == nil {
		return New(v)
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return New(uint64(v))
	}
	s := New(xxhash.Sum64String(text))
	s.text = text
	return s
}

// Value returns the seed as supplied by the caller.
func (s WorldSeed) Value() uint64 { return s.input }

// Master returns the mixed master seed.
func (s WorldSeed) Master() uint64 { return s.master }

// String returns the original text for textual seeds, the numeric input otherwise.
func (s WorldSeed) String() string {
	if s.text != "" {
		return s.text
	}
	return strconv.FormatUint(s.input, 10)
}

// Domain returns the root seed of a feature domain.
func (s WorldSeed) Domain(f Feature) uint64 {
	if f >= featureCount {
		return s.master
	}
	return s.domains[f]
}

// Feature returns the seed of feature f at a coordinate.
func (s WorldSeed) Feature(f Feature, x, y, z int64) uint64 {
	return Derive(s.Domain(f), x, y, z)
}

// Region returns the seed of feature f for a region coordinate.
func (s WorldSeed) Region(f Feature, rx, rz int64) uint64 {
	return Derive(s.Domain(f), rx, 0, rz)
}

// Component derives a seed for a named subsystem such as "rivers".
func (s WorldSeed) Component(name string, x, y, z int64) uint64 {
	return Derive(s.master^fnv1a.HashString64(name), x, y, z)
}

// Avalanche is the 64-bit MurmurHash3 finalizer.
func Avalanche(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Derive mixes a base seed with a 3D coordinate.
func Derive(base uint64, x, y, z int64) uint64 {
	h := base
	h ^= Avalanche(uint64(x) * 73856093)
	h ^= Avalanche(uint64(y) * 19349663)
	h ^= Avalanche(uint64(z) * 83492791)
	return Avalanche(h)
}

// ToRange maps a seed onto the inclusive range [lo, hi].
func ToRange(v uint64, lo, hi int32) int32 {
	if lo >= hi {
		return lo
	}
	span := uint64(int64(hi)-int64(lo)) + 1
	return int32(int64(lo) + int64(v%span))
}
