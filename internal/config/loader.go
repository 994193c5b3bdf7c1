package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and merges configuration from global and project paths.
// Order of precedence (highest to lowest): project config, global config, defaults.
// Missing files are not errors; malformed JSON returns an error.
func Load(globalPath, projectPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Merge global config if exists
	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	// Merge project config if exists (highest precedence)
	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	return cfg, nil
}

// LoadDefault loads configuration from conventional paths.
// Global: ~/.landplan/config.json
// Project: .landplan/config.json (relative to cwd)
func LoadDefault() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}

	globalPath := filepath.Join(homeDir, ".landplan", "config.json")
	projectPath := filepath.Join(".landplan", "config.json")

	return Load(globalPath, projectPath)
}

// mergeConfigFile reads a JSON config file and merges it into the base config.
// Missing files are silently skipped. Malformed JSON returns an error.
// Scalar fields override when set; templates and price items append (entries
// with a duplicate ID replace built-ins at catalog build time).
func mergeConfigFile(base *Config, path string) error {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // Missing file is not an error
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	// Parse JSON
	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if loaded.DatabasePath != "" {
		base.DatabasePath = loaded.DatabasePath
	}
	if loaded.RemoteURL != "" {
		base.RemoteURL = loaded.RemoteURL
	}
	if loaded.ProjectionMode != "" {
		base.ProjectionMode = loaded.ProjectionMode
	}
	if loaded.ConcurrencyLimit > 0 {
		base.ConcurrencyLimit = loaded.ConcurrencyLimit
	}
	if loaded.TaxRate > 0 {
		base.TaxRate = loaded.TaxRate
	}

	base.Templates = append(base.Templates, loaded.Templates...)
	base.PriceItems = append(base.PriceItems, loaded.PriceItems...)

	return nil
}
