package world

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml"
)

// MetadataFile is the name of the world descriptor inside a world directory.
const MetadataFile = "world.toml"

// Metadata describes a generated world on disk.
type Metadata struct {
	ID               uuid.UUID
	Name             string
	Seed             string
	Preset           string
	Size             string
	LegacyCompatible bool
	Created          time.Time
}

type metadataFile struct {
	ID               string    `toml:"id"`
	Name             string    `toml:"name"`
	Seed             string    `toml:"seed"`
	Preset           string    `toml:"preset"`
	Size             string    `toml:"size"`
	LegacyCompatible bool      `toml:"legacy_compatible"`
	Created          time.Time `toml:"created"`
}

// NewMetadata assigns a fresh world id.
func NewMetadata(name, seedText, preset, size string, legacy bool) Metadata {
	return Metadata{
		ID:               uuid.New(),
		Name:             name,
		Seed:             seedText,
		Preset:           preset,
		Size:             size,
		LegacyCompatible: legacy,
		Created:          time.Now().UTC().Truncate(time.Second),
	}
}

// LoadMetadata reads dir/world.toml. A missing file returns fs.ErrNotExist.
func LoadMetadata(dir string) (Metadata, error) {
	contents, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Metadata{}, err
		}
		return Metadata{}, fmt.Errorf("read world metadata: %w", err)
	}
	var data metadataFile
	if err := toml.Unmarshal(contents, &data); err != nil {
		return Metadata{}, fmt.Errorf("decode world metadata: %w", err)
	}
	id, err := uuid.Parse(strings.TrimSpace(data.ID))
	if err != nil {
		return Metadata{}, fmt.Errorf("parse world id: %w", err)
	}
	return Metadata{
		ID:               id,
		Name:             data.Name,
		Seed:             data.Seed,
		Preset:           data.Preset,
		Size:             data.Size,
		LegacyCompatible: data.LegacyCompatible,
		Created:          data.Created,
	}, nil
}

// Save writes dir/world.toml, creating dir when needed.
func (m Metadata) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create world directory: %w", err)
	}
	encoded, err := toml.Marshal(metadataFile{
		ID:               m.ID.String(),
		Name:             m.Name,
		Seed:             m.Seed,
		Preset:           m.Preset,
		Size:             m.Size,
		LegacyCompatible: m.LegacyCompatible,
		Created:          m.Created,
	})
	if err != nil {
		return fmt.Errorf("encode world metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), encoded, 0o644); err != nil {
		return fmt.Errorf("write world metadata: %w", err)
	}
	return nil
}
