// Package config loads the YAML configuration file and seeds it from the
// embedded defaults on first run.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/inkboard/inkboard/assets"
	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// FileLoader loads YAML configuration from ~/.inkboard/config.yaml
// (overridable via INKBOARD_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path resolves the active configuration file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("INKBOARD_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".inkboard", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 30
	}
	if cfg.Preferences.Locale == "" {
		cfg.Preferences.Locale = "en"
	}
	if cfg.Canvas.Width == 0 {
		cfg.Canvas.Width = 1920
	}
	if cfg.Canvas.Height == 0 {
		cfg.Canvas.Height = 1080
	}
	if cfg.Canvas.HistoryDepth == 0 {
		cfg.Canvas.HistoryDepth = 50
	}
	if cfg.Persistence.Driver == "" {
		cfg.Persistence.Driver = "sqlite"
	}
	if cfg.Persistence.Path == "" {
		cfg.Persistence.Path = filepath.Join(userHomeDir(), ".inkboard", "board.db")
	} else {
		cfg.Persistence.Path = expandPath(cfg.Persistence.Path)
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = "127.0.0.1:8490"
	}
	if cfg.Server.ConfirmTTLSeconds == 0 {
		cfg.Server.ConfirmTTLSeconds = 120
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
