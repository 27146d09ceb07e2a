package river

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"terragen/internal/noise"
)

// Carving is the terrain lowering applied at one column.
type Carving struct {
	Strength  float64
	Width     float64
	Depth     float64
	Distance  float64
	InChannel bool
	InValley  bool
	// Amount is how far the terrain is lowered, in metres.
	Amount float64
}

// DistanceFromCenter estimates the distance to the channel centreline. The
// centreline wanders across the valley following a noise field; the result
// is scaled to the valley half-width.
func DistanceFromCenter(x, z float64, dir mgl64.Vec2, valleyWidth float64, seed uint64) float64 {
	perpendicular := mgl64.Vec2{-dir.Y(), dir.X()}
	along := mgl64.Vec2{x, z}.Dot(perpendicular)
	offset := noise.Value(x*0.01, z*0.01, seed+18000)*2 - 1
	wobble := noise.Value(along*0.05, 0, seed+18500) * 0.1
	return math.Min(1, math.Abs(offset)+wobble) * valleyWidth * 0.5
}

// Carve computes how much the river at (x, z) lowers the terrain. Points
// below RiverThreshold are untouched.
func Carve(x, z float64, seed uint64) Carving {
	strength := FlowAccumulation(x, z, seed)
	c := Carving{Strength: strength}
	if strength < RiverThreshold {
		return c
	}
	c.Width = Width(strength)
	c.Depth = Depth(strength)
	valleyWidth := c.Width * ValleyWidthFactor
	valleyDepth := c.Depth * 0.7

	c.Distance = DistanceFromCenter(x, z, FlowDirection(x, z, seed), valleyWidth, seed)
	switch {
	case c.Distance < c.Width*0.5:
		c.InChannel = true
		c.Amount = c.Depth * CarvingScaleFactor
	case c.Distance < valleyWidth*0.5:
		c.InValley = true
		c.Amount = valleyDepth * (1 - c.Distance/(valleyWidth*0.5))
	}
	return c
}

// ApplyCarving lowers baseElevation by the river carving at (x, z).
func ApplyCarving(baseElevation, x, z float64, seed uint64) float64 {
	return baseElevation - Carve(x, z, seed).Amount
}
