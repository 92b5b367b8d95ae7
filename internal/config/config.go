// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Adapter AdapterConfig `yaml:"adapter"`
}

// ---- ADAPTER ----

type AdapterConfig struct {
	ID       string        `yaml:"id"`
	LogLevel string        `yaml:"log_level"`
	Publish  PublishConfig `yaml:"publish"`
	Points   []PointConfig `yaml:"points"`
	Source   *SourceConfig `yaml:"source"`
}

// ---- PUBLISH SINK ----

// Known publish sinks.
const (
	SinkLog    = "log"
	SinkIngest = "ingest"
)

type PublishConfig struct {
	Sink      string `yaml:"sink"` // "log" or "ingest"
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- POINT MAP ----

// PointConfig maps one protocol point to a key or reading target.
// Exactly one of key/reading must be set. Transforms apply in order:
// scale, drop_zero, as.
type PointConfig struct {
	Type    string `yaml:"type"`
	Index   uint32 `yaml:"index"`
	Key     string `yaml:"key"`
	Reading string `yaml:"reading"`

	Scale    *ScaleConfig `yaml:"scale"`
	DropZero bool         `yaml:"drop_zero"`
	As       string       `yaml:"as"`
}

type ScaleConfig struct {
	Coefficient float64 `yaml:"coefficient"`
	Offset      float64 `yaml:"offset"`
}

// ---- SCAN SOURCE (optional modbus ingress) ----

type SourceConfig struct {
	Endpoint   string       `yaml:"endpoint"`
	UnitID     uint8        `yaml:"unit_id"`
	TimeoutMs  int          `yaml:"timeout_ms"`
	IntervalMs int          `yaml:"interval_ms"`
	Reads      []ReadConfig `yaml:"reads"`
}

// ReadConfig is one read block: protocol geometry plus the point category
// the block feeds. Point indices are base_index + position in block.
type ReadConfig struct {
	Type      string `yaml:"type"`
	FC        uint8  `yaml:"fc"`
	Address   uint16 `yaml:"address"`
	Quantity  uint16 `yaml:"quantity"`
	BaseIndex uint32 `yaml:"base_index"`
}

// Load reads and decodes a config file. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}
