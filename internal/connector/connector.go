// Package connector defines typed connection points on diagram nodes and the
// rule deciding whether two of them may be wired together.
package connector

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tells whether a connector emits or accepts wires.
type Kind int

const (
	Sink   Kind = iota // "input"
	Source             // "output"
)

func (k Kind) String() string {
	switch k {
	case Source:
		return "output"
	case Sink:
		return "input"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "input"/"sink" and "output"/"source".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input", "sink":
		return Sink, nil
	case "output", "source":
		return Source, nil
	}
	return Sink, fmt.Errorf("unknown connector kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Config describes a connector as declared in node settings.
type Config struct {
	Name   string   `json:"name" yaml:"name" toml:"name" validate:"required,excludes=0x7C"`
	Label  string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label"`
	Scopes []string `json:"scopes" yaml:"scopes" toml:"scopes" validate:"min=1,dive,required"`
	ID     string   `json:"id,omitempty" yaml:"id,omitempty" toml:"id" validate:"omitempty,excludes=0x7C"`
}

// Connector is a connection point owned by a single node.
type Connector struct {
	id     string
	name   string
	label  string
	kind   Kind
	owner  string
	scopes []string

	connections map[string]*Connector
}

// New builds a connector for the given owner node. The id defaults to
// "<owner>-<name>" and duplicate scopes are dropped.
func New(kind Kind, owner string, cfg Config) *Connector {
	id := cfg.ID
	if id == "" {
		id = owner + "-" + cfg.Name
	}

	seen := make(map[string]bool, len(cfg.Scopes))
	scopes := make([]string, 0, len(cfg.Scopes))
	for _, s := range cfg.Scopes {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		scopes = append(scopes, s)
	}

	return &Connector{
		id:          id,
		name:        cfg.Name,
		label:       cfg.Label,
		kind:        kind,
		owner:       owner,
		scopes:      scopes,
		connections: make(map[string]*Connector),
	}
}

func (c *Connector) ID() string    { return c.id }
func (c *Connector) Name() string  { return c.name }
func (c *Connector) Label() string { return c.label }
func (c *Connector) Kind() Kind    { return c.kind }
func (c *Connector) Owner() string { return c.owner }

// Scopes returns a copy of the connector's scope names in declaration order.
func (c *Connector) Scopes() []string {
	out := make([]string, len(c.scopes))
	copy(out, c.scopes)
	return out
}

// Config returns the settings the connector was built from.
func (c *Connector) Config() Config {
	return Config{Name: c.name, Label: c.label, Scopes: c.Scopes(), ID: c.id}
}

// AddConnection records target as connected. Adding twice is a no-op.
func (c *Connector) AddConnection(target *Connector) {
	c.connections[target.id] = target
}

// RemoveConnection forgets target. Missing targets are ignored.
func (c *Connector) RemoveConnection(target *Connector) {
	delete(c.connections, target.id)
}

// IsConnected reports whether target is in this connector's adjacency set.
func (c *Connector) IsConnected(target *Connector) bool {
	_, ok := c.connections[target.id]
	return ok
}

// Degree returns the number of connected partners.
func (c *Connector) Degree() int {
	return len(c.connections)
}

// Connections returns a snapshot of connected partners sorted by id. The
// slice is safe to iterate while the adjacency set is mutated.
func (c *Connector) Connections() []*Connector {
	out := make([]*Connector, 0, len(c.connections))
	for _, t := range c.connections {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// HasScopes reports whether any of the candidate scopes is one of ours.
func (c *Connector) HasScopes(candidates []string) bool {
	for _, s := range c.scopes {
		for _, cand := range candidates {
			if s == cand {
				return true
			}
		}
	}
	return false
}

// SharedScopes returns the sorted intersection of both scope sets.
func (c *Connector) SharedScopes(target *Connector) []string {
	var shared []string
	for _, s := range c.scopes {
		if target.HasScopes([]string{s}) {
			shared = append(shared, s)
		}
	}
	sort.Strings(shared)
	return shared
}

// IsAllowed reports whether a wire between c and target would be legal: they
// share a scope, belong to different nodes and are not connected yet.
// Adjacency is checked in both directions so the result does not depend on
// which side asks.
func (c *Connector) IsAllowed(target *Connector) bool {
	return target.HasScopes(c.scopes) &&
		c.owner != target.owner &&
		!c.IsConnected(target) &&
		!target.IsConnected(c)
}
