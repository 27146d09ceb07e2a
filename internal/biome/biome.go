// Package biome holds the fixed biome table and the climate to biome scoring.
package biome

import "terragen/internal/world"

// Type enumerates the supported biomes.
type Type uint32

const (
	Plains Type = iota
	Forest
	Desert
	Mountains
	Ocean
	typeCount
)

var typeNames = [typeCount]string{
	Plains:    "Plains",
	Forest:    "Forest",
	Desert:    "Desert",
	Mountains: "Mountains",
	Ocean:     "Ocean",
}

func (t Type) String() string {
	if !t.Valid() {
		return "Unknown"
	}
	return typeNames[t]
}

// Valid reports whether t is one of the enumerated biomes.
func (t Type) Valid() bool {
	return t < typeCount
}

// Count is the number of biome types.
const Count = int(typeCount)

// Data is the immutable definition of one biome.
type Data struct {
	Type Type
	Name string

	MinTemperature float64
	MaxTemperature float64
	MinHumidity    float64
	MaxHumidity    float64

	BaseHeight      int
	HeightVariation int
	Roughness       float64
	Scale           float64

	Surface    world.VoxelType
	Subsurface world.VoxelType
	Deep       world.VoxelType
	Feature    world.VoxelType
}

// Valid checks block assignments and terrain shaping ranges.
func (d Data) Valid() bool {
	if d.Surface == world.Air || d.Subsurface == world.Air || d.Deep == world.Air {
		return false
	}
	if d.Scale < 0.1 || d.Scale > 5 {
		return false
	}
	if d.BaseHeight < 0 || d.BaseHeight > 255 {
		return false
	}
	if d.HeightVariation < 0 || d.HeightVariation > 100 {
		return false
	}
	return d.MinTemperature <= d.MaxTemperature && d.MinHumidity <= d.MaxHumidity
}

// MinHeight and MaxHeight give the nominal terrain band of the biome.
func (d Data) MinHeight() int { return d.BaseHeight - d.HeightVariation }

func (d Data) MaxHeight() int { return d.BaseHeight + d.HeightVariation }

func define(t Type, minT, maxT, minH, maxH float64, minElev, maxElev int, roughness, scale float64, surface, sub, deep, feature world.VoxelType) Data {
	return Data{
		Type:            t,
		Name:            t.String(),
		MinTemperature:  minT,
		MaxTemperature:  maxT,
		MinHumidity:     minH,
		MaxHumidity:     maxH,
		BaseHeight:      (minElev + maxElev) / 2,
		HeightVariation: (maxElev - minElev) / 2,
		Roughness:       roughness,
		Scale:           scale,
		Surface:         surface,
		Subsurface:      sub,
		Deep:            deep,
		Feature:         feature,
	}
}

func defaultTable() []Data {
	return []Data{
		define(Plains, 0.1, 0.6, 0.3, 0.8, 60, 80, 0.1, 1.0, world.Grass, world.Dirt, world.Stone, world.Topsoil),
		define(Forest, -0.2, 0.5, 0.5, 1.0, 70, 120, 0.3, 1.2, world.Grass, world.Dirt, world.Stone, world.Topsoil),
		define(Desert, 0.4, 1.0, 0.0, 0.3, 55, 90, 0.2, 0.8, world.Sand, world.Sand, world.Sandstone, world.Gravel),
		define(Mountains, -0.5, 0.2, 0.2, 0.7, 120, 200, 0.7, 2.0, world.Stone, world.Stone, world.Stone, world.Gravel),
		define(Ocean, -0.1, 0.4, 0.8, 1.0, 20, 50, 0.1, 0.6, world.Water, world.Sand, world.Stone, world.Gravel),
	}
}
