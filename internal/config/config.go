package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds flowdesigner configuration.
type Config struct {
	UI       UIConfig               `toml:"ui"`
	Canvas   CanvasConfig           `toml:"canvas"`
	Colors   ColorsConfig           `toml:"colors"`
	Scopes   map[string]ScopeConfig `toml:"scopes"`
	Journal  JournalConfig          `toml:"journal"`
	Hooks    HooksConfig            `toml:"hooks"`
	Parallel ParallelConfig         `toml:"parallel"`
}

// UIConfig controls display options.
type UIConfig struct {
	Color bool `toml:"color"`
}

// CanvasConfig controls node placement and the connection preview.
type CanvasConfig struct {
	Raster        float64 `toml:"raster"`         // 0 disables snapping
	PreviewMargin float64 `toml:"preview_margin"` // gap between preview tip and pointer
}

// ColorsConfig sets wire colors that do not come from a single scope.
type ColorsConfig struct {
	Ambiguous string `toml:"ambiguous"` // several shared scopes
	Unknown   string `toml:"unknown"`   // scope without a color
}

// ScopeConfig defines a connector scope available to every diagram.
type ScopeConfig struct {
	Color string `toml:"color"`
	Label string `toml:"label"`
}

// JournalConfig controls the wire activity journal.
type JournalConfig struct {
	Enabled bool `toml:"enabled"`
}

// HooksConfig defines shell commands run on wire changes.
type HooksConfig struct {
	WireAdded   string `toml:"wire_added"`
	WireRemoved string `toml:"wire_removed"`
}

// ParallelConfig controls concurrent document checks.
type ParallelConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		UI:     UIConfig{Color: true},
		Canvas: CanvasConfig{Raster: 0, PreviewMargin: 5},
		Colors: ColorsConfig{Ambiguous: "#777777", Unknown: "black"},
		Scopes: map[string]ScopeConfig{
			"image": {Color: "#00aa00", Label: "Image"},
			"ctrl":  {Color: "#aa0000", Label: "Control"},
		},
		Journal:  JournalConfig{Enabled: true},
		Parallel: ParallelConfig{Concurrency: 4},
	}
}

// ConfigDir returns the flowdesigner config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flowdesigner")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, falling back to defaults if it doesn't exist.
// Keys missing from the file keep their default values.
func Load() *Config {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err != nil {
		return cfg
	}

	_ = toml.Unmarshal(data, cfg)
	return cfg
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil // already exists
	}
	return Save(Default())
}
