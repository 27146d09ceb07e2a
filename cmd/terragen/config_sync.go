package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"terragen/internal/config"
)

// writeConfigFromEnv materialises a configuration handed over through
// TERRAGEN_CONFIG_JSON or TERRAGEN_CONFIG_YAML_B64 at cfgPath so that Load
// picks it up.
func writeConfigFromEnv(cfgPath string) (bool, error) {
	jsonPayload := os.Getenv("TERRAGEN_CONFIG_JSON")
	yamlPayload := os.Getenv("TERRAGEN_CONFIG_YAML_B64")

	if jsonPayload == "" && yamlPayload == "" {
		return false, nil
	}
	if cfgPath == "" {
		return false, errors.New("configuration provided in environment but no --config path supplied")
	}

	cfg := config.Default()
	if jsonPayload != "" {
		if err := json.Unmarshal([]byte(jsonPayload), cfg); err != nil {
			return false, fmt.Errorf("decode config json: %w", err)
		}
	} else {
		data, err := base64.StdEncoding.DecodeString(yamlPayload)
		if err != nil {
			return false, fmt.Errorf("decode config yaml: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return false, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	cfg.Parameters.Validate()
	if err := cfg.Validate(); err != nil {
		return false, fmt.Errorf("validate config: %w", err)
	}

	if dir := filepath.Dir(cfgPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create config directory: %w", err)
		}
	}
	var (
		data []byte
		err  error
	)
	switch filepath.Ext(cfgPath) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		data, err = toml.Marshal(*cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}
