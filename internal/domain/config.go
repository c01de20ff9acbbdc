package domain

import "fmt"

// Config mirrors ~/.inkboard/config.yaml.
type Config struct {
	ConfigFormatVersion string              `yaml:"config_format_version"`
	Preferences         Preferences         `yaml:"preferences"`
	Canvas              CanvasSettings      `yaml:"canvas"`
	Models              []ModelDefinition   `yaml:"models"`
	Persistence         PersistenceSettings `yaml:"persistence"`
	Server              ServerSettings      `yaml:"server"`
}

// Preferences captures user-level toggles.
type Preferences struct {
	DefaultModel   string   `yaml:"default_model"`
	FallbackModels []string `yaml:"fallback_models"`
	Locale         string   `yaml:"locale"`
	TimeoutSeconds int      `yaml:"timeout"`
}

// CanvasSettings fixes the logical canvas geometry and undo depth.
type CanvasSettings struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	HistoryDepth int     `yaml:"history_depth"`
}

// CenterX returns the horizontal canvas center.
func (c CanvasSettings) CenterX() float64 { return c.Width / 2 }

// CenterY returns the vertical canvas center.
func (c CanvasSettings) CenterY() float64 { return c.Height / 2 }

// PersistenceSettings selects the durable storage backend.
type PersistenceSettings struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// ServerSettings configures the HTTP/WebSocket surface.
type ServerSettings struct {
	Listen            string `yaml:"listen"`
	ConfirmTTLSeconds int    `yaml:"confirm_ttl"`
}

// GetDefaultModel resolves the configured default model definition.
func (c Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}
	if model, ok := c.FindModel(c.Preferences.DefaultModel); ok {
		return model, nil
	}
	return ModelDefinition{}, fmt.Errorf("model %s not configured", c.Preferences.DefaultModel)
}

// FindModel looks a model definition up by name.
func (c Config) FindModel(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// FallbackChain returns the default model followed by each configured
// fallback, deduplicated, preserving order. The router tries them in strict
// sequence, never concurrently.
func (c Config) FallbackChain() []ModelDefinition {
	chain := make([]ModelDefinition, 0, 1+len(c.Preferences.FallbackModels))
	seen := map[string]bool{}
	if primary, err := c.GetDefaultModel(); err == nil {
		chain = append(chain, primary)
		seen[primary.Name] = true
	}
	for _, name := range c.Preferences.FallbackModels {
		if seen[name] {
			continue
		}
		if model, ok := c.FindModel(name); ok {
			chain = append(chain, model)
			seen[name] = true
		}
	}
	return chain
}
