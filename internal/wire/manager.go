// Package wire keeps the registry of live connectors and the canonical edge
// map, and is the only place where connections are created or destroyed.
package wire

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/geom"
)

const (
	DefaultAmbiguousColor = "#777777"
	DefaultUnknownColor   = "black"
)

// Renderer draws wires. Positions come from ConnectorCenter.
type Renderer interface {
	ConnectorCenter(c *connector.Connector) geom.Point
	DrawWire(e *Edge, from, to geom.Point)
	MoveWire(e *Edge, from, to geom.Point)
	EraseWire(e *Edge)
}

// Palette resolves scope names to display colors.
type Palette interface {
	ScopeColor(scope string) (string, bool)
}

type nopRenderer struct{}

func (nopRenderer) ConnectorCenter(*connector.Connector) geom.Point { return geom.Point{} }
func (nopRenderer) DrawWire(*Edge, geom.Point, geom.Point)          {}
func (nopRenderer) MoveWire(*Edge, geom.Point, geom.Point)          {}
func (nopRenderer) EraseWire(*Edge)                                 {}

type emptyPalette struct{}

func (emptyPalette) ScopeColor(string) (string, bool) { return "", false }

// Option configures a Manager.
type Option func(*Manager)

// WithRenderer sets the surface wires are drawn on.
func WithRenderer(r Renderer) Option {
	return func(m *Manager) { m.renderer = r }
}

// WithPalette sets the scope color lookup.
func WithPalette(p Palette) Option {
	return func(m *Manager) { m.palette = p }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithColors overrides the ambiguous and unknown wire colors. Empty values
// keep the defaults.
func WithColors(ambiguous, unknown string) Option {
	return func(m *Manager) {
		if ambiguous != "" {
			m.ambiguousColor = ambiguous
		}
		if unknown != "" {
			m.unknownColor = unknown
		}
	}
}

// Manager is the graph manager. It is not safe for concurrent use; all calls
// are expected from a single event loop.
type Manager struct {
	connectors map[string]*connector.Connector
	wires      map[string]*Edge
	observers  []Observer

	renderer       Renderer
	palette        Palette
	logger         *zap.Logger
	ambiguousColor string
	unknownColor   string
}

// NewManager creates an empty graph manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		connectors:     make(map[string]*connector.Connector),
		wires:          make(map[string]*Edge),
		renderer:       nopRenderer{},
		palette:        emptyPalette{},
		logger:         zap.NewNop(),
		ambiguousColor: DefaultAmbiguousColor,
		unknownColor:   DefaultUnknownColor,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe adds an observer. Observers are called in subscription order.
func (m *Manager) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *Manager) fail(op, format string, args ...any) {
	err := &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
	m.logger.Error("graph invariant violated", zap.String("op", op), zap.Error(err))
	panic(err)
}

// ─── Registry ───

// Register adds c to the registry and returns its key (the connector id).
// Registering the same connector again is a no-op.
func (m *Manager) Register(c *connector.Connector) string {
	key := c.ID()
	if existing, ok := m.connectors[key]; ok {
		if existing == c {
			return key
		}
		m.fail("register", "connector id %q is already registered", key)
	}

	m.connectors[key] = c
	m.logger.Debug("connector registered",
		zap.String("key", key),
		zap.String("kind", c.Kind().String()),
		zap.Strings("scopes", c.Scopes()))

	for _, o := range m.observers {
		o.ConnectorRegistered(c)
	}
	return key
}

// Connector returns the connector registered under key.
func (m *Manager) Connector(key string) (*connector.Connector, bool) {
	c, ok := m.connectors[key]
	return c, ok
}

// Connectors returns all live connectors sorted by id.
func (m *Manager) Connectors() []*connector.Connector {
	out := make([]*connector.Connector, 0, len(m.connectors))
	for _, c := range m.connectors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Unregister removes the connector and every wire touching it. Unknown keys
// are ignored so that teardown may run twice.
func (m *Manager) Unregister(key string) {
	c, ok := m.connectors[key]
	if !ok {
		return
	}

	for _, partner := range c.Connections() {
		if !c.IsConnected(partner) {
			continue // dropped by a re-entrant call
		}
		wk := Key(c.ID(), partner.ID())
		e, ok := m.wires[wk]
		if !ok {
			m.fail("unregister", "connector %q lists partner %q but edge %q is missing", c.ID(), partner.ID(), wk)
		}
		m.dropWire(e)
	}

	// an observer may already have torn c down while its wires were dropped
	if m.connectors[key] != c {
		return
	}
	delete(m.connectors, key)
	m.logger.Debug("connector unregistered", zap.String("key", key))

	for _, o := range m.observers {
		o.ConnectorUnregistered(c)
	}
}

// ─── Wires ───

// AddWire connects start to end. It returns the new edge and true, or nil and
// false when the connection is not allowed (unknown keys, incompatible
// scopes, same node, already connected). Rejection is not an error.
func (m *Manager) AddWire(start, end string) (*Edge, bool) {
	source, ok := m.connectors[start]
	if !ok {
		m.logger.Debug("wire rejected: unknown source", zap.String("source", start))
		return nil, false
	}
	target, ok := m.connectors[end]
	if !ok {
		m.logger.Debug("wire rejected: unknown target", zap.String("target", end))
		return nil, false
	}

	if !source.IsAllowed(target) {
		m.logger.Debug("wire rejected",
			zap.String("source", start),
			zap.String("target", end))
		return nil, false
	}

	shared := source.SharedScopes(target)
	if len(shared) == 0 {
		m.fail("add", "%q and %q passed the compatibility check without a shared scope", start, end)
	}

	key := Key(source.ID(), target.ID())
	if _, exists := m.wires[key]; exists {
		m.fail("add", "edge %q exists but endpoints are not adjacent", key)
	}

	e := &Edge{
		Key:    key,
		Source: source,
		Target: target,
		Scopes: shared,
		Color:  m.ResolveColor(shared),
	}

	source.AddConnection(target)
	target.AddConnection(source)
	m.wires[key] = e

	m.renderer.DrawWire(e, m.renderer.ConnectorCenter(source), m.renderer.ConnectorCenter(target))
	m.logger.Debug("wire added", zap.String("key", key), zap.String("color", e.Color))

	for _, o := range m.observers {
		o.WireAdded(e)
	}
	return e, true
}

// RemoveWire deletes the edge with the given canonical key. It reports
// whether an edge was removed.
func (m *Manager) RemoveWire(key string) bool {
	e, ok := m.wires[key]
	if !ok {
		return false
	}
	m.dropWire(e)
	return true
}

func (m *Manager) dropWire(e *Edge) {
	delete(m.wires, e.Key)
	e.Source.RemoveConnection(e.Target)
	e.Target.RemoveConnection(e.Source)

	m.renderer.EraseWire(e)
	m.logger.Debug("wire removed", zap.String("key", e.Key))

	for _, o := range m.observers {
		o.WireRemoved(e)
	}
}

// ResolveColor picks the display color for a wire sharing the given scopes.
// Several shared scopes have no canonical order, so they get the ambiguous color.
func (m *Manager) ResolveColor(shared []string) string {
	if len(shared) != 1 {
		return m.ambiguousColor
	}
	if c, ok := m.palette.ScopeColor(shared[0]); ok {
		return c
	}
	return m.unknownColor
}

// Wire returns the edge with the given key.
func (m *Manager) Wire(key string) (*Edge, bool) {
	e, ok := m.wires[key]
	return e, ok
}

// Wires returns all edges sorted by key.
func (m *Manager) Wires() []*Edge {
	out := make([]*Edge, 0, len(m.wires))
	for _, e := range m.wires {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of live edges.
func (m *Manager) Len() int {
	return len(m.wires)
}

// ExportEdges returns a snapshot of all edges as source/target pairs.
func (m *Manager) ExportEdges() []EdgeRef {
	refs := make([]EdgeRef, 0, len(m.wires))
	for _, e := range m.Wires() {
		refs = append(refs, e.Ref())
	}
	return refs
}

// ImportEdges adds each edge in turn and returns how many were created.
// Edges that already exist are skipped, so importing twice is harmless.
func (m *Manager) ImportEdges(refs []EdgeRef) int {
	added := 0
	for _, r := range refs {
		if _, ok := m.AddWire(r.Source, r.Target); ok {
			added++
		}
	}
	return added
}

// RedrawWires recomputes the endpoints of every edge touching the given
// connectors. Other edges are left alone and no state changes.
func (m *Manager) RedrawWires(keys []string) {
	for _, key := range keys {
		c, ok := m.connectors[key]
		if !ok {
			continue
		}
		for _, partner := range c.Connections() {
			e, ok := m.wires[Key(c.ID(), partner.ID())]
			if !ok {
				continue
			}
			m.renderer.MoveWire(e,
				m.renderer.ConnectorCenter(e.Source),
				m.renderer.ConnectorCenter(e.Target))
		}
	}
}

// CheckConsistency audits the edge map against every adjacency set.
func (m *Manager) CheckConsistency() error {
	for key, e := range m.wires {
		if key != Key(e.Source.ID(), e.Target.ID()) {
			return &InvariantError{Op: "check", Detail: fmt.Sprintf("edge %q stored under wrong key", key)}
		}
		for _, c := range []*connector.Connector{e.Source, e.Target} {
			if live, ok := m.connectors[c.ID()]; !ok || live != c {
				return &InvariantError{Op: "check", Detail: fmt.Sprintf("edge %q references dead connector %q", key, c.ID())}
			}
		}
		if !e.Source.IsConnected(e.Target) || !e.Target.IsConnected(e.Source) {
			return &InvariantError{Op: "check", Detail: fmt.Sprintf("edge %q endpoints are not mutually adjacent", key)}
		}
	}
	for _, c := range m.connectors {
		for _, p := range c.Connections() {
			if _, ok := m.wires[Key(c.ID(), p.ID())]; !ok {
				return &InvariantError{Op: "check", Detail: fmt.Sprintf("orphaned adjacency %q -> %q", c.ID(), p.ID())}
			}
		}
	}
	return nil
}
