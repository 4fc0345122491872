package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/msalah0e/flowdesigner/internal/config"
)

type typeFile struct {
	Types []NodeType `toml:"types"`
}

// PluginDir is where user-defined node type files live.
func PluginDir() string {
	return filepath.Join(config.ConfigDir(), "nodes")
}

// LoadFromFS loads all node types from the TOML files in dir.
func LoadFromFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalog: %w", err)
	}

	var all []NodeType
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		types, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		all = append(all, types...)
	}

	return New(all), nil
}

// LoadAll merges the built-in catalog with plugin files from PluginDir.
// Plugin types replace built-in types of the same name; broken plugin files
// are skipped with a warning.
func LoadAll(fsys fs.FS, dir string, logger *zap.Logger) (*Catalog, error) {
	c, err := LoadFromFS(fsys, dir)
	if err != nil {
		return nil, err
	}
	types := c.All()

	pluginDir := PluginDir()
	entries, err := os.ReadDir(pluginDir)
	if err != nil {
		return c, nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		p := filepath.Join(pluginDir, entry.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			logger.Warn("skipping node plugin", zap.String("path", p), zap.Error(err))
			continue
		}
		more, err := parse(data)
		if err != nil {
			logger.Warn("skipping node plugin", zap.String("path", p), zap.Error(err))
			continue
		}
		types = append(types, more...)
	}

	return New(dedup(types)), nil
}

func parse(data []byte) ([]NodeType, error) {
	var tf typeFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	for _, t := range tf.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("node type without a name")
		}
		if err := t.Settings("", 0, 0).Validate(); err != nil {
			return nil, fmt.Errorf("type %q: %w", t.Name, err)
		}
	}
	return tf.Types, nil
}

// dedup keeps the last occurrence of each name at the position of the first.
func dedup(types []NodeType) []NodeType {
	last := make(map[string]int, len(types))
	for i, t := range types {
		last[t.Name] = i
	}
	out := make([]NodeType, 0, len(last))
	added := make(map[string]bool, len(last))
	for _, t := range types {
		if added[t.Name] {
			continue
		}
		added[t.Name] = true
		out = append(out, types[last[t.Name]])
	}
	return out
}
