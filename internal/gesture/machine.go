package gesture

import (
	"go.uber.org/zap"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/geom"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

// DefaultMargin keeps the preview tip clear of the cursor and the hovered connector.
const DefaultMargin = 5

// Handlers are the pointer callbacks a renderer attaches to a connector's
// visual. Output connectors get the pointer callbacks, input connectors get
// the hover callbacks; the others are nil.
type Handlers struct {
	PointerDown func(p geom.Point)
	Drag        func(p geom.Point)
	PointerUp   func(p geom.Point)
	Enter       func()
	Leave       func()
}

// Renderer is the part of the drawing surface the machine needs.
type Renderer interface {
	ConnectorCenter(c *connector.Connector) geom.Point
	Arm(c *connector.Connector, h Handlers)
	Disarm(c *connector.Connector)
	ShowPreview(from, to geom.Point)
	MovePreview(from, to geom.Point)
	HidePreview()
}

// Option configures a Machine.
type Option func(*Machine)

// WithMargin sets how far the preview tip stops short of its target.
func WithMargin(margin float64) Option {
	return func(m *Machine) { m.margin = margin }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// Machine owns the single in-progress gesture of a diagram.
type Machine struct {
	wire.NopObserver

	wires    *wire.Manager
	renderer Renderer
	state    State
	margin   float64
	logger   *zap.Logger
}

// New creates a machine and subscribes it to wires so that every connector
// registered from now on is armed.
func New(wires *wire.Manager, r Renderer, opts ...Option) *Machine {
	m := &Machine{
		wires:    wires,
		renderer: r,
		state:    Idle{},
		margin:   DefaultMargin,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	wires.Subscribe(m)
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// ConnectorRegistered arms the connector's visual.
func (m *Machine) ConnectorRegistered(c *connector.Connector) {
	key := c.ID()
	var h Handlers
	if c.Kind() == connector.Source {
		h.PointerDown = func(p geom.Point) { m.PointerDown(key, p) }
		h.Drag = m.Drag
		h.PointerUp = m.PointerUp
	} else {
		h.Enter = func() { m.Enter(key) }
		h.Leave = func() { m.Leave(key) }
	}
	m.renderer.Arm(c, h)
}

// ConnectorUnregistered disarms the connector and abandons any gesture that
// refers to it.
func (m *Machine) ConnectorUnregistered(c *connector.Connector) {
	m.renderer.Disarm(c)
	if m.state.references(c.ID()) {
		m.logger.Debug("gesture cancelled: connector removed", zap.String("key", c.ID()))
		m.reset()
	}
}

// PointerDown starts drawing from an output connector. It is ignored while
// another gesture is active or when key is not a registered output.
func (m *Machine) PointerDown(key string, p geom.Point) {
	if _, idle := m.state.(Idle); !idle {
		return
	}
	c, ok := m.wires.Connector(key)
	if !ok || c.Kind() != connector.Source {
		return
	}

	origin := m.renderer.ConnectorCenter(c)
	m.state = Drawing{Source: key, Origin: origin, Tip: origin}
	m.renderer.ShowPreview(origin, origin)
	m.logger.Debug("gesture started", zap.String("source", key))
}

// Drag moves the preview tip toward the pointer. Snapped previews stay put.
func (m *Machine) Drag(p geom.Point) {
	s, ok := m.state.(Drawing)
	if !ok {
		return
	}
	s.Tip = geom.Shorten(s.Origin, p, m.margin)
	m.state = s
	m.renderer.MovePreview(s.Origin, s.Tip)
}

// Enter snaps the preview onto key if it is an input that accepts the
// source. The most recent allowed hover wins.
func (m *Machine) Enter(key string) {
	var source string
	var origin geom.Point
	switch s := m.state.(type) {
	case Drawing:
		source, origin = s.Source, s.Origin
	case Snapped:
		source, origin = s.Source, s.Origin
	default:
		return
	}

	target, ok := m.wires.Connector(key)
	if !ok || target.Kind() != connector.Sink {
		return
	}
	src, ok := m.wires.Connector(source)
	if !ok || !target.IsAllowed(src) {
		return
	}

	tip := geom.Shorten(origin, m.renderer.ConnectorCenter(target), m.margin)
	m.state = Snapped{Source: source, Target: key, Origin: origin, Tip: tip}
	m.renderer.MovePreview(origin, tip)
	m.logger.Debug("gesture snapped", zap.String("source", source), zap.String("target", key))
}

// Leave releases the snap if the pointer leaves the snapped target.
func (m *Machine) Leave(key string) {
	s, ok := m.state.(Snapped)
	if !ok || s.Target != key {
		return
	}
	m.state = Drawing{Source: s.Source, Origin: s.Origin, Tip: s.Tip}
}

// PointerUp ends the gesture, committing the wire when snapped. A release
// without an active gesture does nothing.
func (m *Machine) PointerUp(geom.Point) {
	switch s := m.state.(type) {
	case Drawing:
		m.reset()
	case Snapped:
		m.renderer.HidePreview()
		m.state = Idle{}
		if _, ok := m.wires.AddWire(s.Source, s.Target); ok {
			m.logger.Debug("gesture committed", zap.String("source", s.Source), zap.String("target", s.Target))
		}
	}
}

// Cancel abandons the current gesture, e.g. when the pointer leaves the canvas.
func (m *Machine) Cancel() {
	if _, idle := m.state.(Idle); idle {
		return
	}
	m.reset()
}

func (m *Machine) reset() {
	if _, idle := m.state.(Idle); !idle {
		m.renderer.HidePreview()
	}
	m.state = Idle{}
}
