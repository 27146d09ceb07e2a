package noise

import (
	"math"
	"testing"
)

func TestLegacyValueRangeAndLattice(t *testing.T) {
	for x := -20; x < 20; x++ {
		for z := -20; z < 20; z++ {
			v := LegacyValue(float32(x)*0.37, 0, float32(z)*0.37)
			if v < 0 || v > 1 {
				t.Fatalf("legacy value out of range at (%d,%d): %v", x, z, v)
			}
		}
	}
	// On integer coordinates the interpolation collapses to the lattice value.
	if got, want := LegacyValue(3, 0, 7), lattice(3, 0, 7); got != want {
		t.Fatalf("lattice point = %v, want %v", got, want)
	}
}

func TestLegacyValueIsContinuous(t *testing.T) {
	const step = 0.001
	prev := LegacyValue(0, 0, 0)
	for i := 1; i < 3000; i++ {
		v := LegacyValue(float32(i)*step, 0, 0)
		if math.Abs(float64(v-prev)) > 0.01 {
			t.Fatalf("jump of %v at step %d", v-prev, i)
		}
		prev = v
	}
}

func TestHash3MatchesReferenceConstants(t *testing.T) {
	x, y, z := uint32(1), uint32(2), uint32(3)
	h := x*374761393 + y*668265263 + z*2147483647
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	if got := hash3(1, 2, 3); got != h {
		t.Fatalf("hash3 = %d, want %d", got, h)
	}
}

func TestGradientRangeAndDeterminism(t *testing.T) {
	for i := 0; i < 500; i++ {
		x := float64(i)*731.3 - 100000
		z := float64(i)*-517.9 + 4000
		for _, s := range []Scale{Continental, Regional, Local, Micro} {
			a := MultiScale(x, z, s, 12345)
			b := MultiScale(x, z, s, 12345)
			if a != b {
				t.Fatalf("%s noise not deterministic", s)
			}
			if a < -1 || a > 1 {
				t.Fatalf("%s noise out of range: %v", s, a)
			}
		}
	}
}

func TestGradientZeroOnLattice(t *testing.T) {
	// Gradient noise vanishes at lattice corners.
	if v := Gradient(1000, 2000, 9, 0.5); v != 0 {
		t.Fatalf("lattice sample = %v, want 0", v)
	}
}

func TestScaleFrequencies(t *testing.T) {
	tests := map[Scale]float64{
		Continental: 0.000002,
		Regional:    0.00002,
		Local:       0.0002,
		Micro:       0.002,
		Scale(99):   0.0002,
	}
	for s, want := range tests {
		if got := s.Frequency(); got != want {
			t.Fatalf("%s frequency = %v, want %v", s, got, want)
		}
	}
}

func TestValueAndFractalRange(t *testing.T) {
	for i := 0; i < 400; i++ {
		x := float64(i) * 0.173
		z := float64(i) * -0.311
		if v := Value(x, z, 3); v < 0 || v > 1 {
			t.Fatalf("value out of range: %v", v)
		}
		if v := Fractal(x, z, 3, 4, 0.5, 2); v < 0 || v > 1 {
			t.Fatalf("fractal out of range: %v", v)
		}
		if v := Value3D(x, z, x+z, 3); v < 0 || v > 1 {
			t.Fatalf("value3d out of range: %v", v)
		}
	}
	if Value(0.5, 0.5, 1) == Value(0.5, 0.5, 2) {
		t.Fatalf("seed had no effect on value noise")
	}
}
