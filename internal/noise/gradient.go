package noise

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Scale selects one of the fixed gradient noise frequencies.
type Scale uint8

const (
	Continental Scale = iota
	Regional
	Local
	Micro
)

var scaleFrequencies = [...]float64{
	Continental: 0.000002,
	Regional:    0.00002,
	Local:       0.0002,
	Micro:       0.002,
}

var scaleNames = [...]string{
	Continental: "continental",
	Regional:    "regional",
	Local:       "local",
	Micro:       "micro",
}

// Frequency returns the sampling frequency for s. Unknown scales use Local.
func (s Scale) Frequency() float64 {
	if int(s) >= len(scaleFrequencies) {
		return scaleFrequencies[Local]
	}
	return scaleFrequencies[s]
}

func (s Scale) String() string {
	if int(s) >= len(scaleNames) {
		return "unknown"
	}
	return scaleNames[s]
}

// MultiScale samples gradient noise at a named scale. Output is in [-1,1].
func MultiScale(x, z float64, s Scale, seed uint64) float64 {
	return Gradient(x, z, seed, s.Frequency())
}

// Gradient is 2D gradient noise with smoothstep interpolation, clamped to [-1,1].
func Gradient(x, z float64, seed uint64, frequency float64) float64 {
	x *= frequency
	z *= frequency

	x0 := int32(math.Floor(x))
	z0 := int32(math.Floor(z))
	fx := x - float64(x0)
	fz := z - float64(z0)

	n00 := grad(gradientHash(x0, z0, seed), fx, fz)
	n10 := grad(gradientHash(x0+1, z0, seed), fx-1, fz)
	n01 := grad(gradientHash(x0, z0+1, seed), fx, fz-1)
	n11 := grad(gradientHash(x0+1, z0+1, seed), fx-1, fz-1)

	u := smooth(fx)
	v := smooth(fz)
	nx0 := lerp(n00, n10, u)
	nx1 := lerp(n01, n11, u)
	return Clamp(lerp(nx0, nx1, v), -1, 1)
}

func gradientHash(x, z int32, seed uint64) uint32 {
	h := uint32(seed)
	h ^= uint32(x) * 374761393
	h ^= uint32(z) * 668265263
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func grad(hash uint32, x, z float64) float64 {
	h := hash & 7
	u, v := z, x
	if h < 4 {
		u, v = x, z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -2 * v
	} else {
		v = 2 * v
	}
	return u + v
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
