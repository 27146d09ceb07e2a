// Package noise holds the coherent noise functions shared by the climate,
// hydrology and terrain layers. Every function is pure.
package noise

import "math"

// hash3 is the integer lattice hash used by the legacy generator.
func hash3(x, y, z int32) uint32 {
	h := uint32(x)*374761393 + uint32(y)*668265263 + uint32(z)*2147483647
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func lattice(x, y, z int32) float32 {
	return float32(hash3(x, y, z)&0xFFFFFF) / float32(0xFFFFFF)
}

// LegacyValue is trilinear value noise in [0,1]. It is evaluated in float32
// with explicit rounding after every product so results do not depend on
// fused multiply-add support.
func LegacyValue(x, y, z float32) float32 {
	fx0 := float32(math.Floor(float64(x)))
	fy0 := float32(math.Floor(float64(y)))
	fz0 := float32(math.Floor(float64(z)))
	ix, iy, iz := int32(fx0), int32(fy0), int32(fz0)
	fx := x - float32(ix)
	fy := y - float32(iy)
	fz := z - float32(iz)

	v000 := lattice(ix, iy, iz)
	v100 := lattice(ix+1, iy, iz)
	v010 := lattice(ix, iy+1, iz)
	v110 := lattice(ix+1, iy+1, iz)
	v001 := lattice(ix, iy, iz+1)
	v101 := lattice(ix+1, iy, iz+1)
	v011 := lattice(ix, iy+1, iz+1)
	v111 := lattice(ix+1, iy+1, iz+1)

	v00 := mix32(v000, v100, fx)
	v01 := mix32(v001, v101, fx)
	v10 := mix32(v010, v110, fx)
	v11 := mix32(v011, v111, fx)

	v0 := mix32(v00, v10, fy)
	v1 := mix32(v01, v11, fy)
	return mix32(v0, v1, fz)
}

func mix32(a, b, t float32) float32 {
	return float32(a*(1-t)) + float32(b*t)
}
