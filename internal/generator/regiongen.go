package generator

import (
	"errors"
	"math"

	"terragen/internal/climate"
	"terragen/internal/noise"
	"terragen/internal/region"
	"terragen/internal/river"
	"terragen/internal/seed"
	"terragen/internal/world"
)

const (
	// hydrologyGrid samples per region edge.
	hydrologyGrid = 8
	// segmentLink is the furthest a segment end may be from the next start
	// for the two to be connected.
	segmentLink = 200.0
)

// GenerateRegionalData derives the record for region (x, z) from the seed:
// climate at the region centre, the best fitting biome and a sampled
// hydrology summary. The result is always valid.
func (g *Generator) GenerateRegionalData(x, z int32) region.RegionalData {
	coord := world.RegionCoord{X: x, Z: z}
	cx, cz := coord.Center()
	waterSeed := g.riverSeed()
	climateSeed := g.seed.Domain(seed.Weather)
	bp := g.params.Biomes

	elevation := river.Elevation(cx, cz, waterSeed)
	scale := climate.NewScale(bp.TemperatureScale, bp.PrecipitationScale, bp.AltitudeEffect, bp.EnableSeasons)
	c := climate.CalculateScaled(cx, cz, elevation, climateSeed, scale)
	t, h := climate.Normalize(c)

	d := region.NewRegionalData(x, z)
	d.Biome = g.registry.FromClimateTransition(t, h, bp.TransitionSize)
	d.Temperature = float32(noise.Clamp(c.Temperature, -100, 100))
	d.Humidity = float32(noise.Clamp(c.Humidity*100, 0, 100))
	d.Elevation = float32(noise.Clamp(elevation, -500, 10000))
	d.Precipitation = float32(noise.Clamp(c.Precipitation, 0, 10000))
	d.Flags |= region.FlagGenerated
	d.Hydrology = g.sampleHydrology(coord, c, waterSeed)

	if err := d.Validate(); err != nil {
		g.logger.Warn("generated region invalid, using defaults", "region", coord.String(), "error", err)
		fallback := DefaultRegionalData(x, z)
		fallback.Biome = d.Biome
		fallback.Flags = d.Flags
		return fallback
	}
	return d
}

// sampleHydrology walks a grid across the region and records river segments
// and notable water bodies until either capacity is reached. Every river
// sample is a full river.Analyze of the cell centre.
func (g *Generator) sampleHydrology(coord world.RegionCoord, c climate.Data, waterSeed uint64) region.Hydrology {
	h := region.NewHydrology()
	originX := float64(coord.X) * world.RegionSize
	originZ := float64(coord.Z) * world.RegionSize
	step := float64(world.RegionSize) / hydrologyGrid
	cellSeed := g.seed.Region(seed.Water, int64(coord.X), int64(coord.Z))

	cx, cz := coord.Center()
	dir := river.FlowDirection(cx, cz, waterSeed)
	h.FlowDirection = float32(math.Atan2(dir.Y(), dir.X()))
	gw := river.CalculateGroundwater(cx, cz, river.Elevation(cx, cz, waterSeed), waterSeed)
	h.GroundwaterLevel = float32(gw.WaterTableDepth)

	riversFull, bodiesFull := false, false
	addBody := func(b region.WaterBody) {
		if bodiesFull || !b.Valid() {
			return
		}
		if err := h.Bodies.Push(b); errors.Is(err, region.ErrCapacityExceeded) {
			bodiesFull = true
		}
	}

	for i := 0; i < hydrologyGrid; i++ {
		for j := 0; j < hydrologyGrid; j++ {
			lx := (float64(i) + 0.5) * step
			lz := (float64(j) + 0.5) * step
			wx, wz := originX+lx, originZ+lz

			elevation := river.Elevation(wx, wz, waterSeed)
			ground := river.CalculateGroundwater(wx, wz, elevation, waterSeed)
			if ground.IsSpringSource {
				h.Features |= region.HasSpring
				addBody(springAt(seed.NewStream(cellSeed, int64(i), 0, int64(j), 0), lx, lz, step, elevation, c))
			}

			a := river.Analyze(wx, wz, c, elevation, waterSeed)
			if !a.Present() {
				continue
			}
			h.TotalFlow += float32(a.Strength)
			h.DrainageArea += float32(step * step / 1e6)
			if a.CreatesFloodplain {
				h.Features |= region.HasFloodplain
			}
			if a.Riparian == river.WetlandMarsh {
				h.Features |= region.HasWetlands
			}

			if !riversFull {
				seg := g.riverSegment(lx, lz, wx, wz, a, elevation, step, waterSeed)
				if err := h.Rivers.Push(seg); errors.Is(err, region.ErrCapacityExceeded) {
					riversFull = true
				}
			}

			if a.Waterfall.HasWaterfall {
				h.Features |= region.HasWaterfall
				wf := region.NewWaterBody(region.WaterWaterfall, float32(lx), float32(lz), 10, 0, float32(math.Min(a.Waterfall.Height, 1000)))
				wf.Elevation = float32(elevation)
				wf.Temperature = waterTemperature(c.Temperature)
				addBody(wf)
			}

			switch a.Termination {
			case river.TerminationInlandLake:
				depth := math.Min(a.Depth*4, 1000)
				area := math.Pow(a.Width*10, 2)
				lake := region.NewWaterBody(region.WaterLake, float32(lx), float32(lz), float32(area), float32(area*depth*0.5), float32(depth))
				lake.Elevation = float32(elevation)
				lake.Temperature = waterTemperature(c.Temperature)
				addBody(lake)
			case river.TerminationWetlandDispersion:
				if a.Strength > 20 {
					h.Features |= region.HasWetlands
					marsh := region.NewWaterBody(region.WaterWetland, float32(lx), float32(lz), float32(step*step*0.25), float32(step*step*0.1), 0.4)
					marsh.Elevation = float32(elevation)
					marsh.Temperature = waterTemperature(c.Temperature)
					addBody(marsh)
				}
			}
		}
	}

	linkSegments(&h)
	return h
}

// riverSegment spans one grid cell along the meandered flow direction.
func (g *Generator) riverSegment(lx, lz, wx, wz float64, a river.Data, elevation, step float64, waterSeed uint64) region.RiverSegment {
	dir := river.ApplyMeandering(a.FlowDirection, wx, wz, a.MeanderIntensity, waterSeed)
	half := step * 0.5
	ex := clampLocal(lx + dir.X()*half)
	ez := clampLocal(lz + dir.Y()*half)
	sx := clampLocal(lx - dir.X()*half)
	sz := clampLocal(lz - dir.Y()*half)

	seg := region.NewRiverSegment(float32(sx), float32(sz), float32(ex), float32(ez))
	seg.Width = float32(math.Min(a.Width, 1000))
	seg.Depth = float32(math.Min(a.Depth, 100))
	seg.Flow = float32(a.Strength)
	seg.Elevation = float32(elevation)
	seg.Size = riverSize(a.Class)
	return seg
}

// springAt places a spring pool somewhere in the quarter cell around
// (lx, lz), sized from st.
func springAt(st *seed.Stream, lx, lz, step, elevation float64, c climate.Data) region.WaterBody {
	quarter := step / 4
	x := clampLocal(lx - quarter + float64(st.Intn(int(2*quarter))))
	z := clampLocal(lz - quarter + float64(st.Intn(int(2*quarter))))
	area := float32(seed.ToRange(st.Uint64(), 2, 8))
	spring := region.NewWaterBody(region.WaterSpring, float32(x), float32(z), area, area/2, 0.5)
	spring.Elevation = float32(elevation)
	spring.Temperature = waterTemperature(c.Temperature)
	return spring
}

func riverSize(c river.WidthClass) region.RiverSize {
	switch c {
	case river.Creek:
		return region.SizeCreek
	case river.RegionalRiver:
		return region.SizeRiver
	case river.MajorRiver:
		return region.SizeMajorRiver
	}
	return region.SizeStream
}

// linkSegments connects each segment end to the nearest segment start,
// and each water body to the rivers passing near it.
func linkSegments(h *region.Hydrology) {
	segs := h.Rivers.Items()
	for i := range segs {
		best, bestDist := -1, segmentLink
		for j := range segs {
			if i == j {
				continue
			}
			d := math.Hypot(float64(segs[j].StartX-segs[i].EndX), float64(segs[j].StartZ-segs[i].EndZ))
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		if best >= 0 {
			segs[i].ConnectsTo[0] = uint8(best)
		}
	}

	bodies := h.Bodies.Items()
	for b := range bodies {
		n := 0
		for i := range segs {
			if n == len(bodies[b].ConnectedRivers) {
				break
			}
			d := math.Hypot(float64(segs[i].EndX-bodies[b].CenterX), float64(segs[i].EndZ-bodies[b].CenterZ))
			if d < segmentLink {
				bodies[b].ConnectedRivers[n] = uint8(i)
				n++
			}
		}
	}

	h.Rivers.Clear()
	for _, s := range segs {
		_ = h.Rivers.Push(s)
	}
	h.Bodies.Clear()
	for _, b := range bodies {
		_ = h.Bodies.Push(b)
	}
}

func clampLocal(v float64) float64 {
	return noise.Clamp(v, 0, world.RegionSize)
}

// waterTemperature clamps air temperature into the range a water body can record.
func waterTemperature(air float64) float32 {
	return float32(noise.Clamp(air, -50, 100))
}
