package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "missing world dir",
			mutate: func(cfg *Config) {
				cfg.World.Dir = ""
			},
			wantErr: "world.dir must be set",
		},
		{
			name: "unknown store",
			mutate: func(cfg *Config) {
				cfg.World.Store = "s3"
			},
			wantErr: "world.store must be one of",
		},
		{
			name: "unknown preset",
			mutate: func(cfg *Config) {
				cfg.Parameters.Preset = Preset(42)
			},
			wantErr: "parameters.preset is unknown",
		},
		{
			name: "negative radius",
			mutate: func(cfg *Config) {
				cfg.Pregen.Radius = -1
			},
			wantErr: "pregen.radius cannot be negative",
		},
		{
			name: "no layers",
			mutate: func(cfg *Config) {
				cfg.Pregen.Layers = 0
			},
			wantErr: "pregen.layers must be positive",
		},
		{
			name: "negative workers",
			mutate: func(cfg *Config) {
				cfg.Pregen.Workers = -2
			},
			wantErr: "pregen.workers cannot be negative",
		},
		{
			name: "endpoint without service",
			mutate: func(cfg *Config) {
				cfg.Telemetry.Endpoint = "localhost:4318"
				cfg.Telemetry.ServiceName = ""
			},
			wantErr: "telemetry.serviceName must be set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFormats(t *testing.T) {
	files := map[string]string{
		"world.json": `{
  "world": {"name": "Json", "dir": "/tmp/json", "seed": "hello", "store": "leveldb"},
  "parameters": {"preset": "amplified", "size": "starter", "terrain": {"baseHeight": 70}},
  "pregen": {"radius": 2, "layers": 3, "progressInterval": "500ms"}
}`,
		"world.yaml": `world:
  name: Json
  dir: /tmp/json
  seed: hello
  store: leveldb
parameters:
  preset: amplified
  size: starter
  terrain:
    baseHeight: 70
pregen:
  radius: 2
  layers: 3
  progressInterval: 500ms
`,
		"world.toml": `[world]
name = "Json"
dir = "/tmp/json"
seed = "hello"
store = "leveldb"

[parameters]
preset = "amplified"
size = "starter"

[parameters.terrain]
baseHeight = 70.0

[pregen]
radius = 2
layers = 3
progressInterval = "500ms"
`,
	}

	dir := t.TempDir()
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.World.Name != "Json" || cfg.World.Seed != "hello" || cfg.World.Store != StoreLevelDB {
				t.Fatalf("world section = %+v", cfg.World)
			}
			if cfg.Parameters.Preset != PresetAmplified || cfg.Parameters.Size != SizeStarter {
				t.Fatalf("preset/size = %v/%v", cfg.Parameters.Preset, cfg.Parameters.Size)
			}
			if cfg.Parameters.Terrain.BaseHeight != 70 {
				t.Fatalf("baseHeight = %v, want 70", cfg.Parameters.Terrain.BaseHeight)
			}
			if cfg.Parameters.Terrain.WaterLevel != 32 {
				t.Fatalf("unset field lost its default: waterLevel = %v", cfg.Parameters.Terrain.WaterLevel)
			}
			if cfg.Pregen.Radius != 2 || cfg.Pregen.Layers != 3 {
				t.Fatalf("pregen = %+v", cfg.Pregen)
			}
			if cfg.Pregen.ProgressInterval.Duration() != 500*time.Millisecond {
				t.Fatalf("progressInterval = %v", cfg.Pregen.ProgressInterval)
			}
		})
	}
}

func TestLoadAppliesPresetAndSize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want func(WorldParameters) bool
	}{
		{
			name: "flat massive",
			body: "parameters:\n  preset: flat\n  size: massive\n",
			want: func(p WorldParameters) bool {
				return p.Terrain.HeightVariation == 4 &&
					p.Terrain.NoiseScale == 0.005 &&
					p.Terrain.ErosionStrength == 0.1 &&
					p.Biomes.TemperatureScale == 0.00025 &&
					p.Biomes.PrecipitationScale == 0.00025
			},
		},
		{
			name: "explicit field wins",
			body: "parameters:\n  preset: flat\n  terrain:\n    heightVariation: 12\n",
			want: func(p WorldParameters) bool {
				return p.Terrain.HeightVariation == 12 && p.Terrain.NoiseScale == 0.005
			},
		},
		{
			name: "custom keeps defaults",
			body: "parameters:\n  preset: custom\n  size: massive\n",
			want: func(p WorldParameters) bool {
				return p.Terrain.HeightVariation == 24 && p.Biomes.TemperatureScale == 0.001
			},
		},
	}
	dir := t.TempDir()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, fmt.Sprintf("world%d.yaml", i))
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !tt.want(cfg.Parameters) {
				t.Fatalf("parameters = %+v", cfg.Parameters)
			}
		})
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config format") {
		t.Fatalf("Load = %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TERRAGEN_SEED", "override")
	t.Setenv("TERRAGEN_LEGACY", "true")
	t.Setenv("TERRAGEN_PREGEN_WORKERS", "3")
	t.Setenv("TERRAGEN_PROGRESS_INTERVAL", "5s")
	t.Setenv("TERRAGEN_REGION_STORE", "memory")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.World.Seed != "override" || !cfg.World.Legacy || cfg.World.Store != StoreMemory {
		t.Fatalf("world = %+v", cfg.World)
	}
	if cfg.Pregen.Workers != 3 || cfg.Pregen.ProgressInterval.Duration() != 5*time.Second {
		t.Fatalf("pregen = %+v", cfg.Pregen)
	}
}

func TestLoadEnvValidation(t *testing.T) {
	t.Setenv("TERRAGEN_REGION_STORE", "tape")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "validate config") {
		t.Fatalf("Load = %v", err)
	}
}

func TestDurationJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{`"250ms"`, 250 * time.Millisecond},
		{`1000`, 1000},
		{`null`, 0},
		{`""`, 0},
	}
	for _, tt := range tests {
		var d Duration
		if err := json.Unmarshal([]byte(tt.raw), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if d.Duration() != tt.want {
			t.Fatalf("unmarshal %s = %v, want %v", tt.raw, d.Duration(), tt.want)
		}
	}
	var d Duration
	if err := json.Unmarshal([]byte(`"soon"`), &d); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
	out, err := json.Marshal(Duration(3 * time.Second))
	if err != nil || string(out) != `"3s"` {
		t.Fatalf("marshal = %s, %v", out, err)
	}
}

func TestPresetsAndSizes(t *testing.T) {
	flat := NewParameters(PresetFlat, SizeRegional)
	if flat.Terrain.HeightVariation != 4 || flat.Caves.CaveFrequency != 0.01 {
		t.Fatalf("flat preset = %+v", flat.Terrain)
	}

	amplified := NewParameters(PresetAmplified, SizeStarter)
	if amplified.Terrain.NoiseOctaves != 6 {
		t.Fatalf("starter amplified octaves = %d, want 6", amplified.Terrain.NoiseOctaves)
	}
	if amplified.History.SimulationYears != 500 || amplified.History.CivilizationCount != 2 {
		t.Fatalf("starter history = %+v", amplified.History)
	}

	islands := NewParameters(PresetIslands, SizeMassive)
	if islands.Terrain.WaterLevel != 48 || islands.Terrain.BaseHeight != 24 {
		t.Fatalf("islands terrain = %+v", islands.Terrain)
	}
	if islands.Biomes.TemperatureScale != 0.002*0.25 {
		t.Fatalf("massive temperature scale = %v", islands.Biomes.TemperatureScale)
	}
	if islands.History.SimulationYears != 5000 || islands.History.CivilizationCount != 15 {
		t.Fatalf("massive history = %+v", islands.History)
	}

	custom := NewParameters(PresetCustom, SizeRegional)
	normal := DefaultParameters()
	normal.Preset = PresetCustom
	if !reflect.DeepEqual(custom, normal) {
		t.Fatalf("custom preset changed values")
	}

	for _, p := range Presets() {
		parsed, err := ParsePreset(strings.ToUpper(p.String()))
		if err != nil || parsed != p {
			t.Fatalf("ParsePreset(%q) = %v, %v", p.String(), parsed, err)
		}
		if p.Description() == "" {
			t.Fatalf("preset %v has no description", p)
		}
	}
	if _, err := ParseSize("galactic"); err == nil {
		t.Fatalf("ParseSize accepted an unknown size")
	}
}

func TestParametersValidateClamps(t *testing.T) {
	w := DefaultParameters()
	if !w.Validate() {
		t.Fatalf("defaults reported out of range")
	}

	w.Terrain.BaseHeight = 500
	w.Terrain.NoiseScale = 0
	w.Resources.OreAbundance = 10
	w.Terrain.NoiseOctaves = 0
	w.History.SimulationYears = -5
	w.Terrain.ErosionStrength = 3
	w.Biomes.TemperatureScale = 0
	w.Biomes.TransitionSize = -1
	w.Biomes.AltitudeEffect = 9
	if w.Validate() {
		t.Fatalf("out of range values reported valid")
	}
	if w.Terrain.BaseHeight != 200 || w.Terrain.NoiseScale != 0.001 || w.Resources.OreAbundance != 5 {
		t.Fatalf("clamped terrain = %+v resources = %+v", w.Terrain, w.Resources)
	}
	if w.Terrain.NoiseOctaves != 1 || w.History.SimulationYears != 0 {
		t.Fatalf("clamped octaves/years = %d/%d", w.Terrain.NoiseOctaves, w.History.SimulationYears)
	}
	if w.Terrain.ErosionStrength != 1 || w.Biomes.TemperatureScale != 1e-5 ||
		w.Biomes.TransitionSize != 0.01 || w.Biomes.AltitudeEffect != 2 {
		t.Fatalf("clamped erosion = %v biomes = %+v", w.Terrain.ErosionStrength, w.Biomes)
	}
	if !w.Validate() {
		t.Fatalf("clamped values should now be valid")
	}
}

func TestTerrainParameterAccess(t *testing.T) {
	w := DefaultParameters()
	if !w.SetTerrainParameter("waterLevel", 40) {
		t.Fatalf("waterLevel not recognised")
	}
	if v, ok := w.TerrainParameter("waterLevel"); !ok || v != 40 {
		t.Fatalf("waterLevel = %v, %v", v, ok)
	}
	if w.SetTerrainParameter("gravity", 9.8) {
		t.Fatalf("unknown parameter accepted")
	}
	if _, ok := w.TerrainParameter("gravity"); ok {
		t.Fatalf("unknown parameter read")
	}
}
