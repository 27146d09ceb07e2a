// Package river approximates drainage networks without global flow routing.
// Every function is a pure function of position, seed and climate, so any
// chunk can be generated independently of its neighbours.
package river

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"terragen/internal/noise"
)

// Watershed sampling frequencies: roughly 500 km, 100 km, 20 km, 4 km and 1 km features.
const (
	ContinentalFreq = 1.0 / 500000
	RegionalFreq    = 1.0 / 100000
	LocalFreq       = 1.0 / 20000
	StreamFreq      = 1.0 / 4000
	CreekFreq       = 1.0 / 1000
)

const (
	// RiverThreshold is the minimum flow accumulation treated as a river.
	RiverThreshold = 1.0
	// MajorRiverThreshold marks main stems.
	MajorRiverThreshold = 1000.0

	WidthScaleFactor    = 0.1
	DepthScaleFactor    = 0.02
	ValleyWidthFactor   = 3.0
	CarvingScaleFactor  = 1.0
	FloodplainFactor    = 8.0
	WaterfallGradient   = 0.15
	RapidsGradient      = 0.08
	floodplainThreshold = 200.0
)

// Scales holds the watershed noise sampled at one position, each in [0,1].
type Scales struct {
	Continental float64
	Regional    float64
	Local       float64
	Streams     float64
	Creeks      float64
}

// SampleScales evaluates the five watershed levels at (x, z).
func SampleScales(x, z float64, seed uint64) Scales {
	return Scales{
		Continental: noise.Value(x*ContinentalFreq, z*ContinentalFreq, seed+1000),
		Regional:    noise.Value(x*RegionalFreq, z*RegionalFreq, seed+2000),
		Local:       noise.Value(x*LocalFreq, z*LocalFreq, seed+3000),
		Streams:     noise.Value(x*StreamFreq, z*StreamFreq, seed+4000),
		Creeks:      noise.Value(x*CreekFreq, z*CreekFreq, seed+5000),
	}
}

// FlowAccumulation approximates drained volume at (x, z). Each watershed
// level only fires above a threshold and then collects from the smaller
// levels inside it.
func FlowAccumulation(x, z float64, seed uint64) float64 {
	s := SampleScales(x, z, seed)
	flow := 0.0
	switch {
	case s.Continental > 0.95:
		flow += 1000
		flow += when(s.Regional > 0.3, 200)
		flow += when(s.Local > 0.2, 40)
		flow += when(s.Streams > 0.1, 8)
		flow += when(s.Creeks > 0.1, 1)
	case s.Regional > 0.9:
		flow += 200
		flow += when(s.Local > 0.3, 40)
		flow += when(s.Streams > 0.2, 8)
		flow += when(s.Creeks > 0.1, 1)
	case s.Local > 0.85:
		flow += 40
		flow += when(s.Streams > 0.4, 8)
		flow += when(s.Creeks > 0.2, 1)
	case s.Streams > 0.8:
		flow += 8
		flow += when(s.Creeks > 0.3, 1)
	case s.Creeks > 0.75:
		flow += 1
	}
	return flow
}

func when(cond bool, v float64) float64 {
	if cond {
		return v
	}
	return 0
}

// EnsureContinuity lifts a weak point toward its strongest cardinal
// neighbour. It closes one-voxel gaps; it does not guarantee connected
// networks.
func EnsureContinuity(base, x, z float64, seed uint64) float64 {
	north := FlowAccumulation(x, z+1, seed)
	south := FlowAccumulation(x, z-1, seed)
	east := FlowAccumulation(x+1, z, seed)
	west := FlowAccumulation(x-1, z, seed)
	maxNeighbor := math.Max(math.Max(north, south), math.Max(east, west))
	if maxNeighbor > RiverThreshold && base > RiverThreshold*0.6 {
		return math.Max(base, maxNeighbor*0.8)
	}
	return base
}

// Strength is flow accumulation with continuity applied.
func Strength(x, z float64, seed uint64) float64 {
	return EnsureContinuity(FlowAccumulation(x, z, seed), x, z, seed)
}

// Confluence describes a point where tributaries join.
type Confluence struct {
	IsConfluence   bool
	Strength       float64
	TributaryCount int
	Tributaries    []float64
	// MainDirection is the flow heading in radians.
	MainDirection float64
}

// CalculateConfluence reports a confluence where flow jumps relative to the
// upstream diagonal sample.
func CalculateConfluence(x, z float64, seed uint64) Confluence {
	var c Confluence
	here := FlowAccumulation(x, z, seed)
	upstream := FlowAccumulation(x-4, z-4, seed)
	if !(here > upstream*1.4 && here > 50) {
		return c
	}

	s := SampleScales(x, z, seed)
	c.IsConfluence = true
	c.Strength = here
	add := func(v, threshold, weight float64) {
		if v > threshold {
			c.TributaryCount++
			c.Tributaries = append(c.Tributaries, v*weight)
		}
	}
	add(s.Continental, 0.7, 1000)
	add(s.Regional, 0.7, 200)
	add(s.Local, 0.7, 40)
	add(s.Streams, 0.8, 8)

	dir := FlowDirection(x, z, seed)
	c.MainDirection = math.Atan2(dir.Y(), dir.X())
	return c
}

// Elevation is the coarse terrain height in metres used for hydrology.
func Elevation(x, z float64, seed uint64) float64 {
	continental := noise.Value(x*0.00001, z*0.00001, seed+100000)
	regional := noise.Value(x*0.0001, z*0.0001, seed+200000)
	local := noise.Value(x*0.001, z*0.001, seed+300000)
	return math.Max(0, continental*2000+regional*500+local*100)
}

// TerrainGradient is the slope magnitude from central differences.
func TerrainGradient(x, z float64, seed uint64) float64 {
	north := Elevation(x, z+1, seed)
	south := Elevation(x, z-1, seed)
	east := Elevation(x+1, z, seed)
	west := Elevation(x-1, z, seed)
	dx := (east - west) * 0.5
	dz := (north - south) * 0.5
	return math.Sqrt(dx*dx + dz*dz)
}

// FlowDirection follows the steepest descent with a small meander bias.
// Flat terrain defaults to +X.
func FlowDirection(x, z float64, seed uint64) mgl64.Vec2 {
	north := Elevation(x, z+2, seed)
	south := Elevation(x, z-2, seed)
	east := Elevation(x+2, z, seed)
	west := Elevation(x-2, z, seed)

	dir := mgl64.Vec2{-(east - west) * 0.25, -(north - south) * 0.25}
	dir = normalize(dir, mgl64.Vec2{1, 0})

	meander := mgl64.Vec2{
		noise.Value(x*0.1, z*0.1, seed+6000) * 0.3,
		noise.Value(x*0.1, z*0.1, seed+7000) * 0.3,
	}
	return normalize(dir.Add(meander), dir)
}

// ApplyMeandering bends dir with three octaves of curve noise scaled by intensity.
func ApplyMeandering(dir mgl64.Vec2, x, z, intensity float64, seed uint64) mgl64.Vec2 {
	var curve mgl64.Vec2
	for octave := 0; octave < 3; octave++ {
		frequency := 0.02 * math.Pow(2, float64(octave))
		amplitude := intensity / math.Pow(2, float64(octave))
		salt := uint64(octave)
		curve[0] += noise.Value(x*frequency, z*frequency, seed+10000+salt) * amplitude
		curve[1] += noise.Value(x*frequency, z*frequency, seed+11000+salt) * amplitude
	}
	return normalize(dir.Add(curve), dir)
}

func normalize(v, fallback mgl64.Vec2) mgl64.Vec2 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return fallback
}
