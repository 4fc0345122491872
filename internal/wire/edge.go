package wire

import (
	"sort"
	"strings"

	"github.com/msalah0e/flowdesigner/internal/connector"
)

// KeySeparator joins the two endpoint ids of a canonical edge key. Connector
// ids are validated not to contain it.
const KeySeparator = "|"

// Key returns the canonical key for the unordered pair (a, b).
func Key(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, KeySeparator)
}

// Edge is a live wire between two connectors.
type Edge struct {
	Key    string
	Source *connector.Connector
	Target *connector.Connector
	Scopes []string // shared scopes at creation time
	Color  string
}

// Ref returns the exportable form of the edge.
func (e *Edge) Ref() EdgeRef {
	return EdgeRef{Source: e.Source.ID(), Target: e.Target.ID()}
}

// Other returns the endpoint opposite to c.
func (e *Edge) Other(c *connector.Connector) *connector.Connector {
	if e.Source == c {
		return e.Target
	}
	return e.Source
}

// EdgeRef is the persisted shape of a wire.
type EdgeRef struct {
	Source string `json:"source" yaml:"source" toml:"source" validate:"required"`
	Target string `json:"target" yaml:"target" toml:"target" validate:"required"`
}
