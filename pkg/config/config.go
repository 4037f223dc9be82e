/*
Package config manages TOML config for the suggestion server.

InitConfig handles automatic config file creation and loading with
fallback to defaults. LoadConfig and SaveConfig provide direct fs access
for runtime changes.

Each retrieval algorithm, rescorer and falcon is configured by a JSON blob
identified by a string name, per spec.md §6 ("Each component is
configured by a JSON blob identified by a string flag"). The top-level
document is still TOML (the teacher's ambient choice); [algo.<name>],
[twiddle.<name>] and [falcon.<name>] sections hold that component's blob
as an arbitrary table, re-marshaled to JSON by AlgoParams/TwiddleParams/
FalconParams before being handed
to a pkg/registry Creator — preserving the per-component JSON-blob
contract while keeping the document itself readable TOML.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure.
type Config struct {
	Server  ServerConfig                      `toml:"server"`
	Manager ManagerConfig                     `toml:"manager"`
	Logging LoggingConfig                     `toml:"logging"`
	Falcon  map[string]map[string]interface{} `toml:"falcon"`
	Algo    map[string]map[string]interface{} `toml:"algo"`
	Twiddle map[string]map[string]interface{} `toml:"twiddle"`
}

// ServerConfig has IPC-edge related options — the thin transport
// concern named out of scope for correctness in spec.md's A4, but still
// configured like every other ambient piece.
type ServerConfig struct {
	DefaultNumSuggestions int `toml:"default_num_suggestions"`
	MaxNumSuggestions     int `toml:"max_num_suggestions"`
}

// ManagerConfig names the components the suggestion manager (C11) binds
// together at bootstrap — the names are resolved against pkg/registry,
// the blobs that configure each are the Falcon/Algo/Twiddle sections
// above.
type ManagerConfig struct {
	PrimaryAlgo       string   `toml:"primary_algo"`
	FallbackAlgo      string   `toml:"fallback_algo"`
	SecondaryAlgo     string   `toml:"secondary_algo"`
	Dedupers          []string `toml:"dedupers"`
	PrimaryTwiddler   string   `toml:"primary_twiddler"`
	SecondaryTwiddler string   `toml:"secondary_twiddler"`
	PoolSize          int      `toml:"pool_size"`
}

// LoggingConfig controls the process-wide charmbracelet/log level.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			DefaultNumSuggestions: 10,
			MaxNumSuggestions:     50,
		},
		Manager: ManagerConfig{
			PoolSize: 8,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			return nil, err
		}
		log.Debugf("created default config file at: %s", configPath)
		return cfg, nil
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("failed to load config, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Errorf("failed to decode config file: %v", err)
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig saves into a TOML file.
func SaveConfig(cfg *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		log.Errorf("failed to create config file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}

// AlgoParams returns the JSON blob configuring the named algo section,
// ready to hand to a pkg/registry Creator as its params string.
func (c *Config) AlgoParams(name string) (string, error) {
	return blobParams(c.Algo, name)
}

// TwiddleParams returns the JSON blob configuring the named twiddle
// section.
func (c *Config) TwiddleParams(name string) (string, error) {
	return blobParams(c.Twiddle, name)
}

// FalconParams returns the JSON blob configuring the named falcon
// section.
func (c *Config) FalconParams(name string) (string, error) {
	return blobParams(c.Falcon, name)
}

func blobParams(section map[string]map[string]interface{}, name string) (string, error) {
	blob, ok := section[name]
	if !ok {
		return "", fmt.Errorf("config: no section %q", name)
	}
	encoded, err := json.Marshal(blob)
	if err != nil {
		return "", fmt.Errorf("config: marshaling section %q: %w", name, err)
	}
	return string(encoded), nil
}
