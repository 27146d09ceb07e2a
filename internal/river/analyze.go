package river

import (
	"github.com/go-gl/mathgl/mgl64"

	"terragen/internal/climate"
)

// Data is the full hydrological description of one position.
type Data struct {
	Strength float64
	Width    float64
	Depth    float64
	Velocity float64
	Gradient float64
	Class    WidthClass

	FlowDirection mgl64.Vec2
	StreamOrder   int
	IsHeadwater   bool
	IsMainStem    bool
	IsTributary   bool
	Confluence    Confluence

	CarvingDepth      float64
	ValleyWidth       float64
	CreatesFloodplain bool
	FloodplainWidth   float64

	Waterfall        Waterfall
	MeanderIntensity float64
	IsBraided        bool

	Groundwater Groundwater
	Termination Termination

	Riparian    Riparian
	Underground Underground

	BaseFlowRate      float64
	DroughtResistance float64
}

// Present reports whether a river exists at the analysed position.
func (d Data) Present() bool {
	return d.Strength >= RiverThreshold
}

// Analyze gathers every river property at (x, z) from the continuity
// corrected Strength. Positions below RiverThreshold return the zero Data.
func Analyze(x, z float64, c climate.Data, surfaceElevation float64, seed uint64) Data {
	strength := Strength(x, z, seed)
	if strength < RiverThreshold {
		return Data{}
	}
	gradient := TerrainGradient(x, z, seed)

	d := Data{
		Strength:      strength,
		Width:         Width(strength),
		Depth:         Depth(strength),
		Velocity:      Velocity(strength, gradient),
		Gradient:      gradient,
		FlowDirection: FlowDirection(x, z, seed),
		StreamOrder:   StreamOrder(strength),
		IsHeadwater:   IsHeadwater(x, z, strength, seed),
		IsMainStem:    strength > MajorRiverThreshold,
		Confluence:    CalculateConfluence(x, z, seed),
	}
	d.Class = ClassifyWidth(d.Width)
	d.IsTributary = !d.IsMainStem && !d.IsHeadwater

	d.CarvingDepth = d.Depth * CarvingScaleFactor
	d.ValleyWidth = d.Width * ValleyWidthFactor
	d.CreatesFloodplain = strength > floodplainThreshold
	if d.CreatesFloodplain {
		d.FloodplainWidth = d.Width * FloodplainFactor
	}

	d.Waterfall = CalculateWaterfall(x, z, strength, seed)
	d.MeanderIntensity = MeanderIntensity(strength, gradient, seed)
	d.IsBraided = IsBraided(strength, c, seed)

	d.Groundwater = CalculateGroundwater(x, z, surfaceElevation, seed)
	d.Termination = DetermineTermination(x, z, strength, c, seed)

	d.Riparian = DetermineRiparian(c, surfaceElevation, 0, strength)
	d.Underground = CalculateUnderground(x, z, strength, seed)

	d.BaseFlowRate = strength
	d.DroughtResistance = DroughtResistance(d.Groundwater, strength)
	return d
}
