package biome

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrNotInitialized is raised by queries against a registry before Initialize.
	ErrNotInitialized = errors.New("biome registry not initialized")
	// ErrUnknownBiome is raised for types outside the enumerated set.
	ErrUnknownBiome = errors.New("unknown biome type")
)

// minHalfRange keeps degenerate climate windows from dividing by zero.
const minHalfRange = 1e-6

// Registry is the table of biome definitions. Once initialized it is only
// read, so a single registry can be shared by every generator of a process.
type Registry struct {
	mu          sync.RWMutex
	biomes      []Data
	initialized bool
}

// NewRegistry returns an initialized registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Initialize()
	return r
}

// Initialize populates the table. Repeated calls are no-ops.
func (r *Registry) Initialize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return
	}
	r.biomes = defaultTable()
	r.initialized = true
}

// Cleanup resets the registry to its uninitialized state.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	r.biomes = nil
	r.initialized = false
	r.mu.Unlock()
}

// Initialized reports whether Initialize has run.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Biome returns the definition of t. Misuse panics: querying before
// Initialize panics with ErrNotInitialized, an unknown type with ErrUnknownBiome.
func (r *Registry) Biome(t Type) Data {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		panic(ErrNotInitialized)
	}
	if !t.Valid() {
		panic(fmt.Errorf("%w: %d", ErrUnknownBiome, uint32(t)))
	}
	return r.biomes[t]
}

// All returns a copy of the table in registration order.
func (r *Registry) All() []Data {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		panic(ErrNotInitialized)
	}
	out := make([]Data, len(r.biomes))
	copy(out, r.biomes)
	return out
}

// DefaultTransition is the transition width FromClimate uses.
const DefaultTransition = 0.1

// FromClimate selects the biome whose climate window best fits the
// normalized temperature t in [-1,1] and humidity h in [0,1]. Ties go to the
// earliest registered biome.
func (r *Registry) FromClimate(t, h float64) Type {
	return r.FromClimateTransition(t, h, DefaultTransition)
}

// FromClimateTransition is FromClimate with the width of the blend outside
// each climate window set to transition. Wider transitions let neighbouring
// biomes reach further past their windows.
func (r *Registry) FromClimateTransition(t, h, transition float64) Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		panic(ErrNotInitialized)
	}
	falloff := falloffFor(transition)
	best := r.biomes[0].Type
	bestScore := math.Inf(-1)
	for _, b := range r.biomes {
		if s := score(b, t, h, falloff); s > bestScore {
			best = b.Type
			bestScore = s
		}
	}
	return best
}

// Score exposes the fit of (t, h) to biome b for diagnostics.
func Score(b Data, t, h float64) float64 {
	return ScoreTransition(b, t, h, DefaultTransition)
}

// ScoreTransition is Score with an explicit transition width.
func ScoreTransition(b Data, t, h, transition float64) float64 {
	return score(b, t, h, falloffFor(transition))
}

func falloffFor(transition float64) float64 {
	if !(transition > 0) {
		return 1
	}
	return DefaultTransition / transition
}

func score(b Data, t, h, falloff float64) float64 {
	return (rangeScore(t, b.MinTemperature, b.MaxTemperature, falloff) + rangeScore(h, b.MinHumidity, b.MaxHumidity, falloff)) / 2
}

func rangeScore(v, lo, hi, falloff float64) float64 {
	if v >= lo && v <= hi {
		center := (lo + hi) / 2
		half := math.Max((hi-lo)/2, minHalfRange)
		return 1 - math.Abs(v-center)/half
	}
	distance := lo - v
	if v > hi {
		distance = v - hi
	}
	return math.Max(0, 1-distance*falloff)
}
