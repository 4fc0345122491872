// Package diagram is the container tying nodes, scopes, the wire registry and
// the connection gesture together on one drawing surface.
package diagram

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/geom"
	"github.com/msalah0e/flowdesigner/internal/gesture"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

// DefaultConnectorColor fills connectors whose single scope is not defined.
const DefaultConnectorColor = "white"

// Surface is whatever the diagram is drawn on. Wires and the preview are
// positioned by the diagram; the surface only paints and forwards pointer
// events to the armed handlers.
type Surface interface {
	DrawNode(n *Node)
	MoveNode(n *Node)
	EraseNode(n *Node)

	DrawWire(e *wire.Edge, from, to geom.Point)
	MoveWire(e *wire.Edge, from, to geom.Point)
	EraseWire(e *wire.Edge)

	Arm(c *connector.Connector, h gesture.Handlers)
	Disarm(c *connector.Connector)
	ShowPreview(from, to geom.Point)
	MovePreview(from, to geom.Point)
	HidePreview()
}

// canvas adapts a Surface to the renderer interfaces of the wire manager and
// the gesture machine by resolving connector positions from node layout.
type canvas struct {
	Surface
	d *Diagram
}

func (c canvas) ConnectorCenter(cn *connector.Connector) geom.Point {
	n, ok := c.d.nodes[cn.Owner()]
	if !ok {
		return geom.Point{}
	}
	p, _ := n.ConnectorCenter(cn.ID())
	return p
}

// Option configures a Diagram.
type Option func(*options)

type options struct {
	raster    float64
	margin    float64
	ambiguous string
	unknown   string
	logger    *zap.Logger
}

// WithRaster snaps node positions to multiples of raster. Zero disables snapping.
func WithRaster(raster float64) Option {
	return func(o *options) { o.raster = raster }
}

// WithMargin sets how far the gesture preview stops short of its target.
func WithMargin(margin float64) Option {
	return func(o *options) { o.margin = margin }
}

// WithColors overrides the colors of wires with several or unknown scopes.
func WithColors(ambiguous, unknown string) Option {
	return func(o *options) {
		o.ambiguous = ambiguous
		o.unknown = unknown
	}
}

// WithLogger sets the logger shared by the diagram, wire manager and gesture machine.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Diagram holds nodes and scopes and owns the wire manager and gesture
// machine. Like the parts it owns it is meant for a single event loop.
type Diagram struct {
	surface Surface
	wires   *wire.Manager
	gesture *gesture.Machine

	scopes map[string]Scope
	nodes  map[string]*Node
	order  []string
	seq    int

	raster    float64
	ambiguous string
	logger    *zap.Logger
}

// New creates an empty diagram drawn on s. A nil surface draws nothing.
func New(s Surface, opts ...Option) *Diagram {
	o := options{margin: gesture.DefaultMargin, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if s == nil {
		s = NopSurface{}
	}

	d := &Diagram{
		surface:   s,
		scopes:    make(map[string]Scope),
		nodes:     make(map[string]*Node),
		raster:    o.raster,
		ambiguous: wire.DefaultAmbiguousColor,
		logger:    o.logger,
	}
	if o.ambiguous != "" {
		d.ambiguous = o.ambiguous
	}

	cv := canvas{Surface: s, d: d}
	d.wires = wire.NewManager(
		wire.WithRenderer(cv),
		wire.WithPalette(d),
		wire.WithLogger(o.logger.Named("wire")),
		wire.WithColors(o.ambiguous, o.unknown),
	)
	d.gesture = gesture.New(d.wires, cv,
		gesture.WithMargin(o.margin),
		gesture.WithLogger(o.logger.Named("gesture")))
	return d
}

// Wires returns the diagram's wire manager.
func (d *Diagram) Wires() *wire.Manager { return d.wires }

// Gesture returns the diagram's gesture machine.
func (d *Diagram) Gesture() *gesture.Machine { return d.gesture }

// Subscribe registers o for connector and wire events.
func (d *Diagram) Subscribe(o wire.Observer) { d.wires.Subscribe(o) }

// ─── Scopes ───

// DefineScope adds or replaces a scope. Wires drawn earlier keep their color.
func (d *Diagram) DefineScope(name string, s Scope) error {
	if name == "" {
		return fmt.Errorf("%w: scope name is required", ErrInvalid)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("scope %q: %w", name, err)
	}
	d.scopes[name] = s
	return nil
}

// HasScope reports whether name is defined.
func (d *Diagram) HasScope(name string) bool {
	_, ok := d.scopes[name]
	return ok
}

// Scope returns the settings of a defined scope.
func (d *Diagram) Scope(name string) (Scope, bool) {
	s, ok := d.scopes[name]
	return s, ok
}

// Scopes returns a copy of all defined scopes.
func (d *Diagram) Scopes() map[string]Scope {
	out := make(map[string]Scope, len(d.scopes))
	for k, v := range d.scopes {
		out[k] = v
	}
	return out
}

// ScopeNames returns the defined scope names in sorted order.
func (d *Diagram) ScopeNames() []string {
	names := make([]string, 0, len(d.scopes))
	for k := range d.scopes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ScopeColor implements wire.Palette.
func (d *Diagram) ScopeColor(name string) (string, bool) {
	s, ok := d.scopes[name]
	if !ok {
		return "", false
	}
	return s.Color, true
}

// ConnectorColor returns the fill color of a connector's visual.
func (d *Diagram) ConnectorColor(c *connector.Connector) string {
	scopes := c.Scopes()
	if len(scopes) > 1 {
		return d.ambiguous
	}
	if len(scopes) == 1 {
		if color, ok := d.ScopeColor(scopes[0]); ok {
			return color
		}
	}
	return DefaultConnectorColor
}

// ─── Nodes ───

// AddNode creates a node, draws it and registers its connectors. Missing ids
// are assigned as "node-N".
func (d *Diagram) AddNode(s NodeSettings) (*Node, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("node %q: %w", s.ID, err)
	}
	s = s.clone().withDefaults()
	if s.ID == "" {
		s.ID = d.nextID()
	}
	if _, ok := d.nodes[s.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, s.ID)
	}

	n := newNode(s)
	ids := make(map[string]bool, len(n.Connectors()))
	for _, c := range n.Connectors() {
		if _, taken := d.wires.Connector(c.ID()); taken || ids[c.ID()] {
			return nil, fmt.Errorf("node %q: %w: %s", s.ID, ErrDuplicateConnector, c.ID())
		}
		ids[c.ID()] = true
	}

	d.nodes[s.ID] = n
	d.order = append(d.order, s.ID)
	d.surface.DrawNode(n)
	for _, c := range n.Connectors() {
		d.wires.Register(c)
	}

	d.logger.Debug("node added", zap.String("id", s.ID), zap.Int("connectors", len(n.Connectors())))
	return n, nil
}

func (d *Diagram) nextID() string {
	for {
		d.seq++
		id := fmt.Sprintf("node-%d", d.seq)
		if _, taken := d.nodes[id]; !taken {
			return id
		}
	}
}

// HasNode reports whether a node with the given id exists.
func (d *Diagram) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Node returns the node with the given id.
func (d *Diagram) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (d *Diagram) Nodes() []*Node {
	out := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.nodes[id])
	}
	return out
}

// RemoveNode unregisters the node's connectors, which removes every wire
// touching them, and erases the node.
func (d *Diagram) RemoveNode(id string) error {
	n, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	for _, key := range n.ConnectorKeys() {
		d.wires.Unregister(key)
	}

	delete(d.nodes, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.surface.EraseNode(n)

	d.logger.Debug("node removed", zap.String("id", id))
	return nil
}

// RemoveNodes removes each listed node. Unknown ids are reported together
// after the others have been removed.
func (d *Diagram) RemoveNodes(ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := d.RemoveNode(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveAllNodes empties the diagram. Scopes are kept.
func (d *Diagram) RemoveAllNodes() {
	_ = d.RemoveNodes(append([]string(nil), d.order...))
}

// MoveNode places the node at (x, y), snapped to the raster, and redraws the
// wires attached to it.
func (d *Diagram) MoveNode(id string, x, y float64) error {
	n, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n.settings.X = geom.Snap(x, d.raster)
	n.settings.Y = geom.Snap(y, d.raster)

	d.surface.MoveNode(n)
	d.wires.RedrawWires(n.ConnectorKeys())
	return nil
}

// ─── Wires ───

// AddWire connects two connectors if the compatibility rule allows it.
func (d *Diagram) AddWire(source, target string) (*wire.Edge, bool) {
	return d.wires.AddWire(source, target)
}

// RemoveWire deletes the wire between two connectors, in either order.
func (d *Diagram) RemoveWire(source, target string) bool {
	return d.wires.RemoveWire(wire.Key(source, target))
}

// WireReport summarizes a wire import.
type WireReport struct {
	Added    int
	Existing int
	Rejected []wire.EdgeRef
}

// ImportWires adds each wire. Wires already present are counted, not
// re-added, so importing the same list twice changes nothing.
func (d *Diagram) ImportWires(refs []wire.EdgeRef) WireReport {
	var r WireReport
	for _, ref := range refs {
		if _, ok := d.wires.Wire(wire.Key(ref.Source, ref.Target)); ok {
			r.Existing++
			continue
		}
		if _, ok := d.wires.AddWire(ref.Source, ref.Target); ok {
			r.Added++
		} else {
			r.Rejected = append(r.Rejected, ref)
		}
	}
	return r
}
