// Package project persists application configuration and solve results.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/goldsilver/internal/model"
)

// ErrUnknownFormat is returned for config paths whose extension is neither
// JSON nor YAML.
var ErrUnknownFormat = errors.New("project: unsupported config format")

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.goldsilver/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".goldsilver")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// SaveAppConfig persists an AppConfig to the given path as JSON or YAML,
// depending on the extension. It creates any missing parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. If the file does not
// exist, it returns DefaultAppConfig with no error. Settings missing from the
// file take their default values; the result is validated.
func LoadAppConfig(path string) (model.AppConfig, error) {
	f, err := formatOf(path)
	if err != nil {
		return model.AppConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}

	var config model.AppConfig
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	config.Settings = config.Settings.WithDefaults()
	if err := config.Settings.Validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if config.OutputDir == "" {
		config.OutputDir = model.DefaultAppConfig().OutputDir
	}
	// Ensure RecentResults is never nil
	if config.RecentResults == nil {
		config.RecentResults = []string{}
	}
	return config, nil
}
