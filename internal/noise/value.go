package noise

import (
	"math"

	"terragen/internal/seed"
)

// Value is smooth 2D value noise in [0,1] on a unit lattice.
func Value(x, z float64, s uint64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	ix, iz := int64(x0), int64(z0)
	sx := smooth(x - x0)
	sz := smooth(z - z0)

	n0 := latticeValue(ix, iz, s)
	n1 := latticeValue(ix+1, iz, s)
	n2 := latticeValue(ix, iz+1, s)
	n3 := latticeValue(ix+1, iz+1, s)
	return lerp(lerp(n0, n1, sx), lerp(n2, n3, sx), sz)
}

// Value3D is smooth 3D value noise in [0,1].
func Value3D(x, y, z float64, s uint64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)
	sx, sy, sz := smooth(x-x0), smooth(y-y0), smooth(z-z0)

	corner := func(dx, dy, dz int64) float64 {
		return float64(seed.Derive(s, ix+dx, iy+dy, iz+dz)>>11) / (1 << 53)
	}
	c00 := lerp(corner(0, 0, 0), corner(1, 0, 0), sx)
	c10 := lerp(corner(0, 1, 0), corner(1, 1, 0), sx)
	c01 := lerp(corner(0, 0, 1), corner(1, 0, 1), sx)
	c11 := lerp(corner(0, 1, 1), corner(1, 1, 1), sx)
	return lerp(lerp(c00, c10, sy), lerp(c01, c11, sy), sz)
}

// Fractal sums octaves of Value and normalizes the result back into [0,1].
func Fractal(x, z float64, s uint64, octaves int, persistence, lacunarity float64) float64 {
	if octaves <= 0 {
		octaves = 1
	}
	frequency := 1.0
	amplitude := 1.0
	sum := 0.0
	maxAmplitude := 0.0
	for i := 0; i < octaves; i++ {
		sum += Value(x*frequency, z*frequency, s+uint64(i)*0x9e37) * amplitude
		maxAmplitude += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if maxAmplitude == 0 {
		return 0
	}
	return sum / maxAmplitude
}

func latticeValue(x, z int64, s uint64) float64 {
	return float64(seed.Derive(s, x, 0, z)>>11) / (1 << 53)
}
