package config

import (
	"fmt"
	"strings"
)

// Preset selects a family of terrain parameters.
type Preset uint32

const (
	PresetNormal Preset = iota
	PresetFlat
	PresetAmplified
	PresetIslands
	PresetCustom
)

var presetNames = [...]string{
	PresetNormal:    "normal",
	PresetFlat:      "flat",
	PresetAmplified: "amplified",
	PresetIslands:   "islands",
	PresetCustom:    "custom",
}

var presetDescriptions = [...]string{
	PresetNormal:    "Balanced terrain with moderate variation",
	PresetFlat:      "Minimal height variation for building",
	PresetAmplified: "Exaggerated terrain with high mountains",
	PresetIslands:   "Archipelago terrain with water between landmasses",
	PresetCustom:    "User-defined parameter set",
}

func (p Preset) String() string {
	if int(p) >= len(presetNames) {
		return fmt.Sprintf("preset(%d)", uint32(p))
	}
	return presetNames[p]
}

// Description is a one-line summary for display.
func (p Preset) Description() string {
	if int(p) >= len(presetDescriptions) {
		return "Unknown preset"
	}
	return presetDescriptions[p]
}

func (p Preset) MarshalText() ([]byte, error) {
	if int(p) >= len(presetNames) {
		return nil, fmt.Errorf("unknown preset %d", uint32(p))
	}
	return []byte(presetNames[p]), nil
}

func (p *Preset) UnmarshalText(b []byte) error {
	v, err := ParsePreset(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePreset accepts a preset name in any case.
func ParsePreset(s string) (Preset, error) {
	for i, name := range presetNames {
		if strings.EqualFold(s, name) {
			return Preset(i), nil
		}
	}
	return 0, fmt.Errorf("unknown preset %q", s)
}

// Presets lists every preset in declaration order.
func Presets() []Preset {
	out := make([]Preset, len(presetNames))
	for i := range presetNames {
		out[i] = Preset(i)
	}
	return out
}

// Size is the intended extent of a world.
type Size uint32

const (
	SizeStarter Size = iota
	SizeRegional
	SizeContinental
	SizeMassive
)

var sizeNames = [...]string{
	SizeStarter:     "starter",
	SizeRegional:    "regional",
	SizeContinental: "continental",
	SizeMassive:     "massive",
}

var sizeDescriptions = [...]string{
	SizeStarter:     "10 to 100 square kilometres",
	SizeRegional:    "1,000 to 10,000 square kilometres",
	SizeContinental: "100,000 to 1,000,000 square kilometres",
	SizeMassive:     "5 to 25 million square kilometres",
}

func (s Size) String() string {
	if int(s) >= len(sizeNames) {
		return fmt.Sprintf("size(%d)", uint32(s))
	}
	return sizeNames[s]
}

func (s Size) Description() string {
	if int(s) >= len(sizeDescriptions) {
		return "Unknown size"
	}
	return sizeDescriptions[s]
}

func (s Size) MarshalText() ([]byte, error) {
	if int(s) >= len(sizeNames) {
		return nil, fmt.Errorf("unknown world size %d", uint32(s))
	}
	return []byte(sizeNames[s]), nil
}

func (s *Size) UnmarshalText(b []byte) error {
	v, err := ParseSize(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSize accepts a size name in any case.
func ParseSize(s string) (Size, error) {
	for i, name := range sizeNames {
		if strings.EqualFold(s, name) {
			return Size(i), nil
		}
	}
	return 0, fmt.Errorf("unknown world size %q", s)
}

// HistoricalDepth is how much history a world simulates.
type HistoricalDepth uint32

const (
	HistoryNone HistoricalDepth = iota
	HistoryBasic
	HistoryStandard
	HistoryDetailed
	HistoryEpic
)

type TerrainParameters struct {
	BaseHeight       float64 `json:"baseHeight" yaml:"baseHeight" toml:"baseHeight"`
	HeightVariation  float64 `json:"heightVariation" yaml:"heightVariation" toml:"heightVariation"`
	NoiseScale       float64 `json:"noiseScale" yaml:"noiseScale" toml:"noiseScale"`
	ErosionStrength  float64 `json:"erosionStrength" yaml:"erosionStrength" toml:"erosionStrength"`
	WaterLevel       float64 `json:"waterLevel" yaml:"waterLevel" toml:"waterLevel"`
	NoiseOctaves     int     `json:"noiseOctaves" yaml:"noiseOctaves" toml:"noiseOctaves"`
	NoisePersistence float64 `json:"noisePersistence" yaml:"noisePersistence" toml:"noisePersistence"`
	NoiseLacunarity  float64 `json:"noiseLacunarity" yaml:"noiseLacunarity" toml:"noiseLacunarity"`
}

type BiomeParameters struct {
	TemperatureScale   float64 `json:"temperatureScale" yaml:"temperatureScale" toml:"temperatureScale"`
	PrecipitationScale float64 `json:"precipitationScale" yaml:"precipitationScale" toml:"precipitationScale"`
	TransitionSize     float64 `json:"transitionSize" yaml:"transitionSize" toml:"transitionSize"`
	AltitudeEffect     float64 `json:"altitudeEffect" yaml:"altitudeEffect" toml:"altitudeEffect"`
	EnableSeasons      bool    `json:"enableSeasons" yaml:"enableSeasons" toml:"enableSeasons"`
}

// CaveParameters depths are in blocks below the surface.
type CaveParameters struct {
	CaveFrequency   float64 `json:"caveFrequency" yaml:"caveFrequency" toml:"caveFrequency"`
	TunnelWidth     float64 `json:"tunnelWidth" yaml:"tunnelWidth" toml:"tunnelWidth"`
	CavernFrequency float64 `json:"cavernFrequency" yaml:"cavernFrequency" toml:"cavernFrequency"`
	CavernSize      float64 `json:"cavernSize" yaml:"cavernSize" toml:"cavernSize"`
	MinDepth        int     `json:"minDepth" yaml:"minDepth" toml:"minDepth"`
	MaxDepth        int     `json:"maxDepth" yaml:"maxDepth" toml:"maxDepth"`
}

type ResourceParameters struct {
	OreAbundance     float64 `json:"oreAbundance" yaml:"oreAbundance" toml:"oreAbundance"`
	CoalFrequency    float64 `json:"coalFrequency" yaml:"coalFrequency" toml:"coalFrequency"`
	IronFrequency    float64 `json:"ironFrequency" yaml:"ironFrequency" toml:"ironFrequency"`
	GoldFrequency    float64 `json:"goldFrequency" yaml:"goldFrequency" toml:"goldFrequency"`
	DiamondFrequency float64 `json:"diamondFrequency" yaml:"diamondFrequency" toml:"diamondFrequency"`
	MinDepth         int     `json:"minDepth" yaml:"minDepth" toml:"minDepth"`
	MaxDepth         int     `json:"maxDepth" yaml:"maxDepth" toml:"maxDepth"`
}

type StructureParameters struct {
	RuinFrequency    float64 `json:"ruinFrequency" yaml:"ruinFrequency" toml:"ruinFrequency"`
	DungeonFrequency float64 `json:"dungeonFrequency" yaml:"dungeonFrequency" toml:"dungeonFrequency"`
	VillageFrequency float64 `json:"villageFrequency" yaml:"villageFrequency" toml:"villageFrequency"`
	EnableLandmarks  bool    `json:"enableLandmarks" yaml:"enableLandmarks" toml:"enableLandmarks"`
	EnableRuins      bool    `json:"enableRuins" yaml:"enableRuins" toml:"enableRuins"`
}

type HistoryParameters struct {
	Depth             HistoricalDepth `json:"depth" yaml:"depth" toml:"depth"`
	SimulationYears   int             `json:"simulationYears" yaml:"simulationYears" toml:"simulationYears"`
	CivilizationCount int             `json:"civilizationCount" yaml:"civilizationCount" toml:"civilizationCount"`
	EventFrequency    float64         `json:"eventFrequency" yaml:"eventFrequency" toml:"eventFrequency"`
	Parallel          bool            `json:"parallel" yaml:"parallel" toml:"parallel"`
}

// WorldParameters tunes every stage of generation. Structure and history
// values are carried for world metadata; generation does not consume them.
type WorldParameters struct {
	Preset     Preset              `json:"preset" yaml:"preset" toml:"preset"`
	Size       Size                `json:"size" yaml:"size" toml:"size"`
	Terrain    TerrainParameters   `json:"terrain" yaml:"terrain" toml:"terrain"`
	Biomes     BiomeParameters     `json:"biomes" yaml:"biomes" toml:"biomes"`
	Caves      CaveParameters      `json:"caves" yaml:"caves" toml:"caves"`
	Resources  ResourceParameters  `json:"resources" yaml:"resources" toml:"resources"`
	Structures StructureParameters `json:"structures" yaml:"structures" toml:"structures"`
	History    HistoryParameters   `json:"history" yaml:"history" toml:"history"`
}

// DefaultParameters is the normal preset at regional size.
func DefaultParameters() WorldParameters {
	return WorldParameters{
		Preset: PresetNormal,
		Size:   SizeRegional,
		Terrain: TerrainParameters{
			BaseHeight:       64,
			HeightVariation:  24,
			NoiseScale:       0.01,
			ErosionStrength:  0.5,
			WaterLevel:       32,
			NoiseOctaves:     4,
			NoisePersistence: 0.5,
			NoiseLacunarity:  2,
		},
		Biomes: BiomeParameters{
			TemperatureScale:   0.001,
			PrecipitationScale: 0.001,
			TransitionSize:     0.1,
			AltitudeEffect:     0.5,
			EnableSeasons:      true,
		},
		Caves: CaveParameters{
			CaveFrequency:   0.03,
			TunnelWidth:     3,
			CavernFrequency: 0.01,
			CavernSize:      15,
			MinDepth:        32,
			MaxDepth:        3200,
		},
		Resources: ResourceParameters{
			OreAbundance:     1,
			CoalFrequency:    0.05,
			IronFrequency:    0.03,
			GoldFrequency:    0.01,
			DiamondFrequency: 0.002,
			MinDepth:         16,
			MaxDepth:         3840,
		},
		Structures: StructureParameters{
			RuinFrequency:    0.001,
			DungeonFrequency: 0.0005,
			VillageFrequency: 0.002,
			EnableLandmarks:  true,
			EnableRuins:      true,
		},
		History: HistoryParameters{
			Depth:             HistoryStandard,
			SimulationYears:   1000,
			CivilizationCount: 5,
			EventFrequency:    0.1,
			Parallel:          true,
		},
	}
}

// NewParameters returns defaults with the preset and size applied.
func NewParameters(p Preset, s Size) WorldParameters {
	w := DefaultParameters()
	w.ApplyPreset(p, s)
	return w
}

// ApplyPreset overrides the fields the preset controls, then scales for s.
func (w *WorldParameters) ApplyPreset(p Preset, s Size) {
	w.Preset = p
	switch p {
	case PresetFlat:
		w.Terrain.HeightVariation = 4
		w.Terrain.NoiseScale = 0.005
		w.Terrain.ErosionStrength = 0.1
		w.Caves.CaveFrequency = 0.01
	case PresetAmplified:
		w.Terrain.HeightVariation = 60
		w.Terrain.NoiseScale = 0.02
		w.Terrain.ErosionStrength = 0.8
		w.Terrain.NoiseOctaves = 6
		w.Caves.CaveFrequency = 0.05
		w.Structures.RuinFrequency = 0.002
	case PresetIslands:
		w.Terrain.BaseHeight = 24
		w.Terrain.WaterLevel = 48
		w.Terrain.HeightVariation = 32
		w.Terrain.NoiseScale = 0.015
		w.Biomes.TemperatureScale = 0.002
	}
	w.ScaleForSize(s)
}

// ScaleForSize adjusts feature density and climate zone size for s.
func (w *WorldParameters) ScaleForSize(s Size) {
	w.Size = s
	switch s {
	case SizeStarter:
		w.Terrain.NoiseOctaves = min(w.Terrain.NoiseOctaves+1, 6)
		w.Structures.VillageFrequency *= 1.5
		w.History.SimulationYears = max(w.History.SimulationYears/2, 100)
		w.History.CivilizationCount = max(w.History.CivilizationCount/2, 1)
	case SizeContinental:
		w.Biomes.TemperatureScale *= 0.5
		w.Biomes.PrecipitationScale *= 0.5
		w.Structures.VillageFrequency *= 0.7
		w.History.SimulationYears *= 2
		w.History.CivilizationCount *= 2
	case SizeMassive:
		w.Biomes.TemperatureScale *= 0.25
		w.Biomes.PrecipitationScale *= 0.25
		w.Structures.VillageFrequency *= 0.5
		w.History.SimulationYears *= 5
		w.History.CivilizationCount *= 3
		w.History.Parallel = true
	}
}

// Validate clamps out-of-range values in place and reports whether every
// value was already in range.
func (w *WorldParameters) Validate() bool {
	ok := true
	clamp := func(v *float64, lo, hi float64) {
		if !(*v >= lo && *v <= hi) {
			*v = clampFloat(*v, lo, hi)
			ok = false
		}
	}
	clamp(&w.Terrain.BaseHeight, 1, 200)
	clamp(&w.Terrain.HeightVariation, 0, 100)
	clamp(&w.Terrain.NoiseScale, 0.001, 0.1)
	clamp(&w.Terrain.ErosionStrength, 0, 1)
	clamp(&w.Biomes.TemperatureScale, 1e-5, 0.1)
	clamp(&w.Biomes.PrecipitationScale, 1e-5, 0.1)
	clamp(&w.Biomes.TransitionSize, 0.01, 1)
	clamp(&w.Biomes.AltitudeEffect, 0, 2)
	clamp(&w.Caves.CaveFrequency, 0, 0.2)
	clamp(&w.Resources.OreAbundance, 0.1, 5)
	if w.Terrain.NoiseOctaves < 1 || w.Terrain.NoiseOctaves > 8 {
		w.Terrain.NoiseOctaves = min(max(w.Terrain.NoiseOctaves, 1), 8)
		ok = false
	}
	if w.History.SimulationYears < 0 || w.History.SimulationYears > 50000 {
		w.History.SimulationYears = min(max(w.History.SimulationYears, 0), 50000)
		ok = false
	}
	return ok
}

func clampFloat(v, lo, hi float64) float64 {
	if v != v {
		return lo
	}
	return min(max(v, lo), hi)
}

// TerrainParameter reads a terrain value by name.
func (w WorldParameters) TerrainParameter(name string) (float64, bool) {
	p := w.terrainField(name)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// SetTerrainParameter writes a terrain value by name and reports whether the
// name was known.
func (w *WorldParameters) SetTerrainParameter(name string, v float64) bool {
	p := w.terrainField(name)
	if p == nil {
		return false
	}
	*p = v
	return true
}

func (w *WorldParameters) terrainField(name string) *float64 {
	switch name {
	case "baseHeight":
		return &w.Terrain.BaseHeight
	case "heightVariation":
		return &w.Terrain.HeightVariation
	case "noiseScale":
		return &w.Terrain.NoiseScale
	case "erosionStrength":
		return &w.Terrain.ErosionStrength
	case "waterLevel":
		return &w.Terrain.WaterLevel
	case "noisePersistence":
		return &w.Terrain.NoisePersistence
	case "noiseLacunarity":
		return &w.Terrain.NoiseLacunarity
	}
	return nil
}
