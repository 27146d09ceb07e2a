package river

import (
	"math"
	"testing"

	"terragen/internal/climate"
)

const testSeed = 12345

// findRiver scans a grid for the first point at or above minStrength.
func findRiver(t *testing.T, minStrength float64) (float64, float64) {
	t.Helper()
	for x := 0.0; x < 40000; x += 97 {
		for z := 0.0; z < 40000; z += 89 {
			if FlowAccumulation(x, z, testSeed) >= minStrength {
				return x, z
			}
		}
	}
	t.Fatalf("no river with strength >= %v in scan area", minStrength)
	return 0, 0
}

func TestFlowAccumulationValues(t *testing.T) {
	for x := 0.0; x < 20000; x += 131 {
		for z := 0.0; z < 20000; z += 137 {
			f := FlowAccumulation(x, z, testSeed)
			if f < 0 {
				t.Fatalf("negative accumulation at (%v,%v)", x, z)
			}
			if f < 1000 && f > 249 {
				t.Fatalf("impossible accumulation %v at (%v,%v)", f, x, z)
			}
			if f != FlowAccumulation(x, z, testSeed) {
				t.Fatalf("accumulation not deterministic")
			}
		}
	}
}

func TestFlowAccumulationFindsRivers(t *testing.T) {
	x, z := findRiver(t, RiverThreshold)
	if s := Strength(x, z, testSeed); s < RiverThreshold {
		t.Fatalf("strength %v dropped below threshold after continuity", s)
	}
}

func TestEnsureContinuityNeverWeakens(t *testing.T) {
	for x := 0.0; x < 5000; x += 41 {
		base := FlowAccumulation(x, 777, testSeed)
		if got := EnsureContinuity(base, x, 777, testSeed); got < base {
			t.Fatalf("continuity reduced %v to %v", base, got)
		}
	}
	// Weak points are left alone.
	if got := EnsureContinuity(0.5, 0, 0, testSeed); got != 0.5 {
		t.Fatalf("weak point altered to %v", got)
	}
}

func TestWidthMonotonicAndClasses(t *testing.T) {
	prev := Width(0)
	for s := 0.0; s <= 3000; s += 0.5 {
		w := Width(s)
		if w < prev {
			t.Fatalf("width decreased at strength %v", s)
		}
		prev = w
	}
	tests := []struct {
		strength float64
		want     WidthClass
	}{
		{1, Creek},
		{49, Creek},
		{50, Stream},
		{299, Stream},
		{300, RegionalRiver},
		{1000, RegionalRiver},
		{1001, MajorRiver},
	}
	for _, tt := range tests {
		if got := ClassifyWidth(Width(tt.strength)); got != tt.want {
			t.Fatalf("class for strength %v = %v, want %v", tt.strength, got, tt.want)
		}
	}
}

func TestVelocityBounds(t *testing.T) {
	if v := Velocity(0, 0); v != 0.1 {
		t.Fatalf("still water velocity = %v, want 0.1", v)
	}
	if v := Velocity(1e6, 5); v != 5 {
		t.Fatalf("velocity should cap at 5, got %v", v)
	}
	if v := Velocity(100, 0); math.Abs(v-1) > 1e-12 {
		t.Fatalf("velocity(100,0) = %v, want 1", v)
	}
}

func TestStreamOrder(t *testing.T) {
	tests := []struct {
		strength float64
		want     int
	}{
		{0.5, 1}, {2, 2}, {8, 3}, {30, 4}, {100, 5}, {300, 6}, {800, 7},
		{2000, 8}, {4000, 9}, {1e9, 12},
	}
	for _, tt := range tests {
		if got := StreamOrder(tt.strength); got != tt.want {
			t.Fatalf("StreamOrder(%v) = %d, want %d", tt.strength, got, tt.want)
		}
	}
}

func TestFlowDirectionIsUnit(t *testing.T) {
	for i := 0; i < 50; i++ {
		x := float64(i) * 313
		z := float64(i) * -271
		d := FlowDirection(x, z, testSeed)
		if math.Abs(d.Len()-1) > 1e-9 {
			t.Fatalf("flow direction length %v at (%v,%v)", d.Len(), x, z)
		}
		m := ApplyMeandering(d, x, z, 0.5, testSeed)
		if math.Abs(m.Len()-1) > 1e-9 {
			t.Fatalf("meandered direction length %v", m.Len())
		}
	}
}

func TestElevationAndGradient(t *testing.T) {
	for i := 0; i < 100; i++ {
		x := float64(i) * 1009
		z := float64(i) * 733
		e := Elevation(x, z, testSeed)
		if e < 0 || e > 2600 {
			t.Fatalf("elevation out of range: %v", e)
		}
		if g := TerrainGradient(x, z, testSeed); g < 0 || math.IsNaN(g) {
			t.Fatalf("invalid gradient %v", g)
		}
	}
}

func TestWaterfallRequiresStrength(t *testing.T) {
	for x := 0.0; x < 3000; x += 37 {
		w := CalculateWaterfall(x, 0, 10, testSeed)
		if w.HasWaterfall {
			t.Fatalf("waterfall on a creek at x=%v", x)
		}
		if w.HasRapids && w.Gradient <= RapidsGradient {
			t.Fatalf("rapids below gradient threshold")
		}
	}
}

func TestGroundwater(t *testing.T) {
	for x := 0.0; x < 5000; x += 53 {
		g := CalculateGroundwater(x, x*0.5, 100, testSeed)
		if g.IsSpringSource && !g.AquiferConnection {
			t.Fatalf("springs are always aquifer connected")
		}
		if !g.IsSpringSource && g.SpringFlowRate != 0 {
			t.Fatalf("non spring with flow %v", g.SpringFlowRate)
		}
		if g.SpringFlowRate < 0 {
			t.Fatalf("negative spring flow")
		}
	}
}

func TestDetermineTermination(t *testing.T) {
	if got := DetermineTermination(100, 100, 40, climate.Data{}, testSeed); got != TerminationOcean {
		t.Fatalf("near origin large river = %v, want ocean", got)
	}
	desert := climate.Data{Temperature: 30, Precipitation: 100}
	if got := DetermineTermination(1e6, 1e6, 40, desert, testSeed); got != TerminationDesertSink {
		t.Fatalf("hot dry river = %v, want desert sink", got)
	}
}

func TestDetermineRiparian(t *testing.T) {
	tests := []struct {
		name      string
		c         climate.Data
		elevation float64
		distance  float64
		strength  float64
		want      Riparian
	}{
		{"weak river", climate.Data{Temperature: 30, Precipitation: 100}, 0, 0, 10, RiparianForest},
		{"far away", climate.Data{Temperature: 30, Precipitation: 100}, 0, 100, 500, RiparianForest},
		{"oasis", climate.Data{Temperature: 30, Precipitation: 100}, 100, 0, 100, DesertOasis},
		{"mangrove", climate.Data{Temperature: 25, Precipitation: 1500}, 5, 0, 100, MangroveSwamp},
		{"alpine", climate.Data{Temperature: 5, Precipitation: 900}, 1500, 0, 100, AlpineMeadow},
		{"marsh", climate.Data{Temperature: 12, Precipitation: 900}, 100, 0, 400, WetlandMarsh},
		{"floodplain", climate.Data{Temperature: 12, Precipitation: 900}, 100, 0, 250, FloodplainGrassland},
		{"default", climate.Data{Temperature: 12, Precipitation: 900}, 100, 0, 100, RiparianForest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineRiparian(tt.c, tt.elevation, tt.distance, tt.strength); got != tt.want {
				t.Fatalf("riparian = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUndergroundAndDrought(t *testing.T) {
	u := CalculateUnderground(0, 0, 150, testSeed)
	if !u.CreatesAquifer || u.AquiferExtent != 300 {
		t.Fatalf("large river aquifer = %+v", u)
	}
	if u.ConnectsToCaves && (u.CaveEntrances < 1 || u.FlowRate <= 0) {
		t.Fatalf("cave connection without entrances: %+v", u)
	}
	if r := DroughtResistance(Groundwater{AquiferConnection: true}, 500); math.Abs(r-0.8) > 1e-12 {
		t.Fatalf("drought resistance = %v, want 0.8", r)
	}
	if r := DroughtResistance(Groundwater{IsSpringSource: true, SpringFlowRate: 500}, 5000); r != 1 {
		t.Fatalf("drought resistance should clamp to 1, got %v", r)
	}
}

func TestCarveInsideValleyOnly(t *testing.T) {
	x, z := findRiver(t, RiverThreshold)
	c := Carve(x, z, testSeed)
	if c.Strength < RiverThreshold {
		t.Fatalf("carve lost the river")
	}
	if c.Amount < 0 || c.Amount > c.Depth*CarvingScaleFactor {
		t.Fatalf("carve amount %v outside [0,%v]", c.Amount, c.Depth)
	}
	if c.InChannel && c.Amount != c.Depth*CarvingScaleFactor {
		t.Fatalf("channel carve should be full depth")
	}
	if got := ApplyCarving(100, x, z, testSeed); got != 100-c.Amount {
		t.Fatalf("apply carving = %v", got)
	}
	if dry := Carve(0.5, 0.5, testSeed+99); dry.Strength < RiverThreshold && dry.Amount != 0 {
		t.Fatalf("dry land carved")
	}
}

func TestAnalyze(t *testing.T) {
	c := climate.Data{Temperature: 15, Humidity: 0.5, Precipitation: 900, Seasonality: 0.3}
	if d := Analyze(0.25, 0.25, c, 100, testSeed+1); d.Strength < RiverThreshold && d.Present() {
		t.Fatalf("zero data reported as present")
	}
	x, z := findRiver(t, RiverThreshold)
	d := Analyze(x, z, c, 100, testSeed)
	if !d.Present() {
		t.Fatalf("river not present at scanned point")
	}
	if d.Width != Width(d.Strength) || d.StreamOrder != StreamOrder(d.Strength) {
		t.Fatalf("derived fields inconsistent: %+v", d)
	}
	if d.IsMainStem && d.IsTributary {
		t.Fatalf("river cannot be main stem and tributary")
	}
	if d.CreatesFloodplain != (d.Strength > 200) {
		t.Fatalf("floodplain flag mismatch")
	}
	if d.DroughtResistance < 0 || d.DroughtResistance > 1 {
		t.Fatalf("drought resistance out of range")
	}
	if d.Strength != Strength(x, z, testSeed) || d.Strength < FlowAccumulation(x, z, testSeed) {
		t.Fatalf("analysis strength %v ignores continuity", d.Strength)
	}
}

func TestConfluenceInvariants(t *testing.T) {
	for x := 0.0; x < 20000; x += 211 {
		for z := 0.0; z < 20000; z += 223 {
			c := CalculateConfluence(x, z, testSeed)
			if !c.IsConfluence {
				if c.TributaryCount != 0 {
					t.Fatalf("tributaries without confluence")
				}
				continue
			}
			if c.Strength <= 50 {
				t.Fatalf("confluence with strength %v", c.Strength)
			}
			if len(c.Tributaries) != c.TributaryCount {
				t.Fatalf("tributary count mismatch")
			}
		}
	}
}

func TestEnumNames(t *testing.T) {
	if TerminationGlacierSource.String() != "glacier source" || Termination(99).String() != "unknown" {
		t.Fatalf("termination names")
	}
	if MangroveSwamp.String() != "mangrove swamp" || Riparian(99).String() != "unknown" {
		t.Fatalf("riparian names")
	}
	if MajorRiver.String() != "major river" {
		t.Fatalf("width class names")
	}
}
