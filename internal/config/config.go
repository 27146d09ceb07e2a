// Package config loads the generator configuration from JSON, YAML or TOML
// files and applies TERRAGEN_* environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that accepts human readable
// strings such as "150ms" in configuration files while still allowing numeric
// nanosecond values.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.UnmarshalText([]byte(s))
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalText is used by the YAML and TOML encoders.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText parses a Go duration string. It also serves environment
// overrides.
func (d *Duration) UnmarshalText(b []byte) error {
	s := string(b)
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML accepts both duration strings and integer nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	return d.UnmarshalText([]byte(node.Value))
}

// Store backends for regional data.
const (
	StoreFile    = "file"
	StoreLevelDB = "leveldb"
	StoreMemory  = "memory"
)

// Config is everything needed to open a world and pregenerate it.
type Config struct {
	World      WorldConfig     `json:"world" yaml:"world" toml:"world"`
	Parameters WorldParameters `json:"parameters" yaml:"parameters" toml:"parameters"`
	Pregen     PregenConfig    `json:"pregen" yaml:"pregen" toml:"pregen"`
	Telemetry  TelemetryConfig `json:"telemetry" yaml:"telemetry" toml:"telemetry"`
}

type WorldConfig struct {
	Name   string `json:"name" yaml:"name" toml:"name" env:"TERRAGEN_WORLD_NAME"`
	Dir    string `json:"dir" yaml:"dir" toml:"dir" env:"TERRAGEN_WORLD_DIR"`
	Seed   string `json:"seed" yaml:"seed" toml:"seed" env:"TERRAGEN_SEED"`
	Legacy bool   `json:"legacy" yaml:"legacy" toml:"legacy" env:"TERRAGEN_LEGACY"`
	Store  string `json:"store" yaml:"store" toml:"store" env:"TERRAGEN_REGION_STORE"` // file, leveldb or memory
}

// PregenConfig bounds the square of chunk columns generated at startup.
type PregenConfig struct {
	Radius           int      `json:"radius" yaml:"radius" toml:"radius" env:"TERRAGEN_PREGEN_RADIUS"`     // chunks around the origin
	Layers           int      `json:"layers" yaml:"layers" toml:"layers" env:"TERRAGEN_PREGEN_LAYERS"`     // vertical segments per column
	Workers          int      `json:"workers" yaml:"workers" toml:"workers" env:"TERRAGEN_PREGEN_WORKERS"` // 0 means one per CPU
	ProgressInterval Duration `json:"progressInterval" yaml:"progressInterval" toml:"progressInterval" env:"TERRAGEN_PROGRESS_INTERVAL"`
}

type TelemetryConfig struct {
	ServiceName string `json:"serviceName" yaml:"serviceName" toml:"serviceName" env:"TERRAGEN_SERVICE_NAME"`
	Endpoint    string `json:"endpoint" yaml:"endpoint" toml:"endpoint" env:"TERRAGEN_OTLP_ENDPOINT"` // empty disables tracing
	Insecure    bool   `json:"insecure" yaml:"insecure" toml:"insecure" env:"TERRAGEN_OTLP_INSECURE"`
}

// Load reads configuration from path if provided, applies environment
// overrides and validates the result. An empty path starts from defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(path, data, cfg); err != nil {
			return nil, err
		}
		// Rebuild from the named preset and size, then decode again so
		// fields set in the file win over preset values.
		if p := cfg.Parameters; p.Preset != PresetCustom {
			cfg = Default()
			cfg.Parameters = NewParameters(p.Preset, p.Size)
			if err := Decode(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Parameters.Validate()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Decode parses data into cfg using the format implied by the file extension.
func Decode(path string, data []byte, cfg *Config) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Name:  "New World",
			Dir:   "worlds/default",
			Store: StoreFile,
		},
		Parameters: DefaultParameters(),
		Pregen: PregenConfig{
			Radius:           4,
			Layers:           4,
			Workers:          0,
			ProgressInterval: Duration(2 * time.Second),
		},
		Telemetry: TelemetryConfig{
			ServiceName: "terragen",
		},
	}
}

func (c *Config) Validate() error {
	if c.World.Dir == "" {
		return errors.New("world.dir must be set")
	}
	switch c.World.Store {
	case StoreFile, StoreLevelDB, StoreMemory:
	default:
		return fmt.Errorf("world.store must be one of %s, %s or %s", StoreFile, StoreLevelDB, StoreMemory)
	}
	if int(c.Parameters.Preset) >= len(presetNames) {
		return errors.New("parameters.preset is unknown")
	}
	if int(c.Parameters.Size) >= len(sizeNames) {
		return errors.New("parameters.size is unknown")
	}
	if c.Pregen.Radius < 0 {
		return errors.New("pregen.radius cannot be negative")
	}
	if c.Pregen.Layers <= 0 {
		return errors.New("pregen.layers must be positive")
	}
	if c.Pregen.Workers < 0 {
		return errors.New("pregen.workers cannot be negative")
	}
	if c.Pregen.ProgressInterval < 0 {
		return errors.New("pregen.progressInterval cannot be negative")
	}
	if c.Telemetry.Endpoint != "" && c.Telemetry.ServiceName == "" {
		return errors.New("telemetry.serviceName must be set when an endpoint is configured")
	}
	return nil
}
