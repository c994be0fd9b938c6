// Package config loads a Clerk node's startup configuration from a YAML
// manifest into a load-once-pass-by-value struct, sourced from a file
// instead of flags alone.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a Clerk node's full startup configuration.
type Config struct {
	NodeID   string `yaml:"nodeID"`
	BindAddr string `yaml:"bindAddr"`
	DataDir  string `yaml:"dataDir"`

	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
	HA    HAConfig    `yaml:"ha"`
}

// CacheConfig sizes the read-through cache in front of Clerk's hot read
// paths.
type CacheConfig struct {
	MaxCost     int64 `yaml:"maxCost"`
	NumCounters int64 `yaml:"numCounters"`
}

// LogConfig mirrors pkg/log's Config, expressed as YAML-friendly strings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// HAConfig describes this node's place in the Raft replication group.
type HAConfig struct {
	Bootstrap bool     `yaml:"bootstrap"`
	Peers     []string `yaml:"peers"`
}

// Default returns the single-node defaults a fresh clerkd starts with
// absent a config file.
func Default() Config {
	return Config{
		NodeID:   "clerk-1",
		BindAddr: "127.0.0.1:7999",
		DataDir:  "./clerk-data",
		Cache: CacheConfig{
			MaxCost:     1 << 26, // 64MiB
			NumCounters: 1e6,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
		HA: HAConfig{
			Bootstrap: true,
		},
	}
}

// Load reads and parses a YAML config file, starting from Default and
// overlaying whatever the file sets.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
