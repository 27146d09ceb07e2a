// Package climate derives temperature, humidity and precipitation from
// world position, elevation and seed. All functions are pure: identical
// inputs always produce bit-identical outputs.
package climate

import (
	"math"

	"terragen/internal/noise"
)

const (
	// LapseRate is the temperature drop per metre of elevation.
	LapseRate = 0.0065

	MoistureDecayDistance  = 50000.0
	RainShadowStrength     = 0.7
	OrographicLiftFactor   = 0.5
	MaxPrecipitation       = 4000.0
	maxOrographicBonus     = 800.0
	latitudeScale          = 100000.0
	rainShadowUpwindOffset = 5000.0
)

// Data is the climate at one position.
type Data struct {
	Temperature   float64 // °C
	Humidity      float64 // [0,1]
	Precipitation float64 // mm/year
	WindExposure  float64 // [0,1]
	Seasonality   float64 // [0,1]
}

// Scale stretches the climate fields for a world's parameters.
type Scale struct {
	// Temperature multiplies the coordinates temperature and seasonality are
	// sampled at. Values above 1 shrink climate zones.
	Temperature float64
	// Precipitation does the same for humidity and precipitation.
	Precipitation float64
	// Altitude multiplies the elevation the lapse is applied to.
	Altitude float64
	Seasons  bool
}

// Unscaled leaves every field as Calculate computes it.
var Unscaled = Scale{Temperature: 1, Precipitation: 1, Altitude: 1, Seasons: true}

// ReferenceFrequency is the climate zone frequency Unscaled corresponds to.
const ReferenceFrequency = 0.001

// ReferenceAltitudeEffect is the altitude effect Unscaled corresponds to.
const ReferenceAltitudeEffect = 0.5

// NewScale converts zone frequencies and an altitude effect into a Scale
// relative to ReferenceFrequency and ReferenceAltitudeEffect.
func NewScale(temperatureFreq, precipitationFreq, altitudeEffect float64, seasons bool) Scale {
	return Scale{
		Temperature:   temperatureFreq / ReferenceFrequency,
		Precipitation: precipitationFreq / ReferenceFrequency,
		Altitude:      altitudeEffect / ReferenceAltitudeEffect,
		Seasons:       seasons,
	}
}

// Calculate composes the full climate at (x, z) for the given elevation in metres.
func Calculate(x, z, elevation float64, seed uint64) Data {
	return CalculateScaled(x, z, elevation, seed, Unscaled)
}

// CalculateScaled is Calculate with zone sizes and the lapse weighted by s.
// Wind exposure follows local terrain and is never scaled.
func CalculateScaled(x, z, elevation float64, seed uint64, s Scale) Data {
	tx, tz := x*s.Temperature, z*s.Temperature
	px, pz := x*s.Precipitation, z*s.Precipitation

	var d Data
	d.Temperature = ApplyElevationLapse(BaseTemperature(tx, tz, seed), elevation*s.Altitude)
	d.Humidity = Humidity(px, pz, elevation, seed)
	d.Precipitation = Precipitation(px, pz, d.Temperature, d.Humidity, elevation, seed)
	d.WindExposure = WindExposure(x, z, elevation, seed)
	if s.Seasons {
		d.Seasonality = Seasonality(tx, tz, seed)
	}
	return d
}

// BaseTemperature is the sea level temperature from latitude bands plus
// continental and regional variation.
func BaseTemperature(x, z float64, seed uint64) float64 {
	latitude := math.Abs(z) / latitudeScale
	t := 30 - latitude*35
	t += noise.MultiScale(x, z, noise.Continental, seed+5000) * 15
	t += noise.MultiScale(x, z, noise.Regional, seed+6000) * 5
	return t
}

// ApplyElevationLapse cools base by LapseRate per metre. It is
// non-increasing in elevation.
func ApplyElevationLapse(base, elevation float64) float64 {
	return base - elevation*LapseRate
}

// Humidity decays with distance to the virtual ocean and is reduced behind
// virtual mountains and at altitude. Result is in [0,1].
func Humidity(x, z, elevation float64, seed uint64) float64 {
	h := math.Exp(-OceanDistance(x, z, seed) / MoistureDecayDistance)
	h *= 1 - RainShadow(x, z, seed)*RainShadowStrength
	h *= math.Max(0.5, 1-elevation/3000)
	h *= 1 + noise.MultiScale(x, z, noise.Local, seed+7000)*0.3
	return noise.Clamp(h, 0, 1)
}

// Precipitation in mm/year, clamped to [0, MaxPrecipitation].
func Precipitation(x, z, temperature, humidity, elevation float64, seed uint64) float64 {
	tempFactor := math.Max(0.1, (temperature+20)/70)
	p := humidity*tempFactor*2000 + OrographicBonus(elevation, temperature)
	p *= 1 + noise.MultiScale(x, z, noise.Regional, seed+8000)*0.5
	p *= 0.5 + noise.MultiScale(x, z, noise.Continental, seed+9000)*0.5
	return noise.Clamp(p, 0, MaxPrecipitation)
}

// OrographicBonus is the extra precipitation forced by lift over high ground.
// Frozen or low terrain gets none.
func OrographicBonus(elevation, temperature float64) float64 {
	if temperature < 0 || elevation < 200 {
		return 0
	}
	return math.Min(maxOrographicBonus, elevation*OrographicLiftFactor)
}

// WindExposure combines altitude, local slope and regional wind patterns.
func WindExposure(x, z, elevation float64, seed uint64) float64 {
	elevationExposure := math.Min(1, elevation/1500)
	slope := math.Abs(noise.MultiScale(x+100, z, noise.Local, seed) - noise.MultiScale(x-100, z, noise.Local, seed))
	slopeExposure := math.Min(1, slope*2)
	variation := 0.7 + noise.MultiScale(x, z, noise.Regional, seed+10000)*0.3
	return noise.Clamp((elevationExposure+slopeExposure)*0.5*variation, 0, 1)
}

// Seasonality grows away from the equator and away from the ocean.
func Seasonality(x, z float64, seed uint64) float64 {
	latitude := math.Min(1, math.Abs(z)/latitudeScale*2)
	continental := math.Min(1, OceanDistance(x, z, seed)/MoistureDecayDistance)
	variation := 0.5 + noise.MultiScale(x, z, noise.Continental, seed+11000)*0.5
	return noise.Clamp((latitude+continental)*0.5*variation, 0, 1)
}

// OceanDistance is the distance in metres to the seeded virtual ocean.
func OceanDistance(x, z float64, seed uint64) float64 {
	n := noise.MultiScale(x, z, noise.Continental, seed+12000)
	return math.Max(0, (n+0.5)*MoistureDecayDistance)
}

// RainShadow measures the upwind mountain barrier in [0,1].
func RainShadow(x, z float64, seed uint64) float64 {
	here := noise.MultiScale(x, z, noise.Regional, seed)
	upwind := noise.MultiScale(x-rainShadowUpwindOffset, z, noise.Regional, seed)
	return math.Min(1, math.Max(0, upwind-here)*2)
}

// Normalize maps the climate onto the biome scoring domain: temperature to
// [-1,1] centred on 10 °C and humidity to [0,1].
func Normalize(d Data) (temperature, humidity float64) {
	return noise.Clamp((d.Temperature-10)/25, -1, 1), noise.Clamp(d.Humidity, 0, 1)
}
