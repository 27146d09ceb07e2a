package river

import (
	"math"

	"terragen/internal/climate"
	"terragen/internal/noise"
)

// geologicalNoise samples slowly varying rock properties in [0,1].
func geologicalNoise(x, z float64, seed uint64) float64 {
	return noise.Value(x*0.001, z*0.001, seed)
}

// Waterfall describes channel steps caused by steep, hard rock.
type Waterfall struct {
	Gradient     float64
	HasWaterfall bool
	Height       float64
	HasRapids    bool
}

// CalculateWaterfall classifies the channel at (x, z). Waterfalls need a
// gradient above WaterfallGradient, hard rock and a real river; rapids only
// need RapidsGradient and moderately hard rock.
func CalculateWaterfall(x, z, strength float64, seed uint64) Waterfall {
	w := Waterfall{Gradient: TerrainGradient(x, z, seed)}
	hardness := geologicalNoise(x, z, seed+8000)
	switch {
	case w.Gradient > WaterfallGradient && hardness > 0.6 && strength > 50:
		w.HasWaterfall = true
		w.Height = w.Gradient * 30
	case w.Gradient > RapidsGradient && hardness > 0.4:
		w.HasRapids = true
	}
	return w
}

// MeanderIntensity grows with river size and shrinks on steep ground.
func MeanderIntensity(strength, gradient float64, seed uint64) float64 {
	base := strength / 200
	gradientFactor := 1 / (1 + gradient*20)
	variation := 0.7 + noise.Value(strength*0.01, gradient*10, seed+9000)*0.6
	return base * gradientFactor * variation
}

// Groundwater describes the water table below a position.
type Groundwater struct {
	WaterTableDepth   float64
	IsSpringSource    bool
	SpringFlowRate    float64
	AquiferConnection bool
}

// CalculateGroundwater finds springs where the water table reaches the
// surface through permeable rock.
func CalculateGroundwater(x, z, surfaceElevation float64, seed uint64) Groundwater {
	regional := noise.Value(x*0.0002, z*0.0002, seed+12000) * 50
	permeability := noise.Value(x*0.01, z*0.01, seed+13000)

	g := Groundwater{WaterTableDepth: regional + permeability*20}
	if g.WaterTableDepth < surfaceElevation*0.05+5 && permeability > 0.6 {
		g.IsSpringSource = true
		g.SpringFlowRate = math.Max(0, (5-g.WaterTableDepth)*permeability*10)
		g.AquiferConnection = true
		return g
	}
	g.AquiferConnection = permeability > 0.3
	return g
}

// Width in metres. Non-decreasing in strength.
func Width(strength float64) float64 {
	return math.Max(0, strength) * WidthScaleFactor
}

// Depth in metres.
func Depth(strength float64) float64 {
	return math.Max(0, strength) * DepthScaleFactor
}

// Velocity in m/s, clamped to [0.1, 5].
func Velocity(strength, gradient float64) float64 {
	base := math.Sqrt(math.Max(0, strength)) * 0.1
	return noise.Clamp(base*(1+gradient*10), 0.1, 5)
}

// StreamOrder maps strength onto a Strahler-like order in [1,12].
func StreamOrder(strength float64) int {
	switch {
	case strength < 2:
		return 1
	case strength < 8:
		return 2
	case strength < 30:
		return 3
	case strength < 100:
		return 4
	case strength < 300:
		return 5
	case strength < 800:
		return 6
	case strength < 2000:
		return 7
	}
	return min(12, int(8+math.Log2(strength/2000)))
}

// WidthClass buckets channels by width.
type WidthClass uint8

const (
	Creek WidthClass = iota
	Stream
	RegionalRiver
	MajorRiver
)

var widthClassNames = [...]string{
	Creek:         "creek",
	Stream:        "stream",
	RegionalRiver: "regional river",
	MajorRiver:    "major river",
}

func (c WidthClass) String() string {
	if int(c) >= len(widthClassNames) {
		return "unknown"
	}
	return widthClassNames[c]
}

// ClassifyWidth applies the 5 m, 30 m and 100 m class boundaries.
func ClassifyWidth(width float64) WidthClass {
	switch {
	case width < 5:
		return Creek
	case width < 30:
		return Stream
	case width <= 100:
		return RegionalRiver
	}
	return MajorRiver
}

// IsHeadwater reports a local flow maximum or a spring source.
func IsHeadwater(x, z, strength float64, seed uint64) bool {
	total := 0.0
	samples := 0
	for dx := -2; dx <= 2; dx++ {
		for dz := -2; dz <= 2; dz++ {
			if dx == 0 && dz == 0 {
				continue
			}
			total += FlowAccumulation(x+float64(dx)*2, z+float64(dz)*2, seed)
			samples++
		}
	}
	avg := total / float64(samples)
	if strength > avg*1.5 && strength > 1 {
		return true
	}
	return CalculateGroundwater(x, z, Elevation(x, z, seed), seed).IsSpringSource
}

// IsBraided reports braided channels: large rivers in wet, strongly seasonal climates.
func IsBraided(strength float64, c climate.Data, seed uint64) bool {
	if strength < 200 {
		return false
	}
	if c.Precipitation <= 800 || c.Seasonality <= 0.6 {
		return false
	}
	return noise.Value(strength*0.001, c.Temperature*0.1, seed+20000) > 0.7
}

// Termination is where a river ends.
type Termination uint8

const (
	TerminationOcean Termination = iota
	TerminationInlandLake
	TerminationDesertSink
	TerminationUndergroundCapture
	TerminationWetlandDispersion
	TerminationGlacierSource
)

var terminationNames = [...]string{
	TerminationOcean:              "ocean",
	TerminationInlandLake:         "inland lake",
	TerminationDesertSink:         "desert sink",
	TerminationUndergroundCapture: "underground capture",
	TerminationWetlandDispersion:  "wetland dispersion",
	TerminationGlacierSource:      "glacier source",
}

func (t Termination) String() string {
	if int(t) >= len(terminationNames) {
		return "unknown"
	}
	return terminationNames[t]
}

// DetermineTermination picks the river's end state from distance to the
// coast, climate, karst and elevation, in that order.
func DetermineTermination(x, z, strength float64, c climate.Data, seed uint64) Termination {
	coastDistanceKm := math.Hypot(x, z) * 0.001
	if coastDistanceKm < 50 && strength > 30 {
		return TerminationOcean
	}
	if c.Precipitation < 300 && c.Temperature > 25 {
		return TerminationDesertSink
	}
	if geologicalNoise(x, z, seed+14000) > 0.8 && strength < 100 {
		return TerminationUndergroundCapture
	}
	elevation := Elevation(x, z, seed)
	if c.Temperature < -5 && elevation > 1500 {
		return TerminationGlacierSource
	}
	if elevation > 800 {
		return TerminationInlandLake
	}
	return TerminationWetlandDispersion
}

// Riparian is the biome overlay along river banks.
type Riparian uint8

const (
	RiparianForest Riparian = iota
	WetlandMarsh
	FloodplainGrassland
	DesertOasis
	AlpineMeadow
	MangroveSwamp
)

var riparianNames = [...]string{
	RiparianForest:      "riparian forest",
	WetlandMarsh:        "wetland marsh",
	FloodplainGrassland: "floodplain grassland",
	DesertOasis:         "desert oasis",
	AlpineMeadow:        "alpine meadow",
	MangroveSwamp:       "mangrove swamp",
}

func (r Riparian) String() string {
	if int(r) >= len(riparianNames) {
		return "unknown"
	}
	return riparianNames[r]
}

// DetermineRiparian picks the bank biome. Weak rivers or distant points fall
// back to riparian forest.
func DetermineRiparian(c climate.Data, elevation, distance, strength float64) Riparian {
	influence := 1 / (1 + math.Max(0, distance)/20)
	if strength < 50 || influence < 0.3 {
		return RiparianForest
	}
	switch {
	case c.Precipitation < 400 && c.Temperature > 20:
		return DesertOasis
	case c.Temperature > 20 && elevation < 10 && c.Precipitation > 1000:
		return MangroveSwamp
	case elevation > 1200:
		return AlpineMeadow
	case strength > 300:
		return WetlandMarsh
	case strength > 200:
		return FloodplainGrassland
	}
	return RiparianForest
}

// Underground describes links between a river and cave systems.
type Underground struct {
	ConnectsToCaves bool
	FlowRate        float64
	CaveEntrances   int
	CreatesAquifer  bool
	AquiferExtent   float64
}

// CalculateUnderground links rivers to caves in karst and to aquifers.
func CalculateUnderground(x, z, strength float64, seed uint64) Underground {
	var u Underground
	density := noise.Value(x*0.001, z*0.001, seed+17000)
	if density > 0.6 && strength > 20 {
		u.ConnectsToCaves = true
		u.FlowRate = strength * density * 0.3
		u.CaveEntrances = int(density*3) + 1
	}
	if strength > 100 {
		u.CreatesAquifer = true
		u.AquiferExtent = strength * 2
	}
	return u
}

// DroughtResistance in [0,1].
func DroughtResistance(g Groundwater, strength float64) float64 {
	r := strength / 1000
	if g.AquiferConnection {
		r += 0.3
	}
	if g.IsSpringSource {
		r += g.SpringFlowRate * 0.01
	}
	return noise.Clamp(r, 0, 1)
}
