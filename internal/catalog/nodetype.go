package catalog

import (
	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/diagram"
)

// NodeType is a reusable node template.
type NodeType struct {
	Name        string             `toml:"name"`
	Label       string             `toml:"label"`
	Description string             `toml:"description"`
	Category    string             `toml:"category"`
	Tags        []string           `toml:"tags"`
	Color       string             `toml:"color"`
	FontColor   string             `toml:"font_color"`
	BorderColor string             `toml:"border_color"`
	Width       float64            `toml:"width"`
	Fixed       bool               `toml:"fixed"`
	Input       []connector.Config `toml:"input"`
	Output      []connector.Config `toml:"output"`
}

// Settings returns node settings for a new instance placed at (x, y). An
// empty id lets the diagram assign one.
func (t NodeType) Settings(id string, x, y float64) diagram.NodeSettings {
	return diagram.NodeSettings{
		ID:          id,
		Type:        t.Name,
		X:           x,
		Y:           y,
		Width:       t.Width,
		Color:       t.Color,
		FontColor:   t.FontColor,
		BorderColor: t.BorderColor,
		Fixed:       t.Fixed,
		Label:       t.Label,
		Description: t.Description,
		Input:       copyConfigs(t.Input),
		Output:      copyConfigs(t.Output),
	}
}

// Scopes returns every scope used by the type's connectors, in first-use order.
func (t NodeType) Scopes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range append(append([]connector.Config(nil), t.Input...), t.Output...) {
		for _, s := range c.Scopes {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func copyConfigs(in []connector.Config) []connector.Config {
	if in == nil {
		return nil
	}
	out := make([]connector.Config, len(in))
	for i, c := range in {
		c.Scopes = append([]string(nil), c.Scopes...)
		out[i] = c
	}
	return out
}
