package diagram

import (
	"math"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/geom"
)

// Node is a box on the canvas owning input connectors on its left edge and
// output connectors on its right edge.
type Node struct {
	settings NodeSettings
	inputs   []*connector.Connector
	outputs  []*connector.Connector
}

func newNode(s NodeSettings) *Node {
	n := &Node{settings: s}
	for _, cfg := range s.Input {
		n.inputs = append(n.inputs, connector.New(connector.Sink, s.ID, cfg))
	}
	for _, cfg := range s.Output {
		n.outputs = append(n.outputs, connector.New(connector.Source, s.ID, cfg))
	}
	return n
}

// ID returns the node id.
func (n *Node) ID() string { return n.settings.ID }

// Label returns the node label.
func (n *Node) Label() string { return n.settings.Label }

// Fixed reports whether the node is protected from interactive removal.
func (n *Node) Fixed() bool { return n.settings.Fixed }

// Settings returns a copy of the node's settings including its current position.
func (n *Node) Settings() NodeSettings { return n.settings.clone() }

// Inputs returns the input connectors in declaration order.
func (n *Node) Inputs() []*connector.Connector { return append([]*connector.Connector(nil), n.inputs...) }

// Outputs returns the output connectors in declaration order.
func (n *Node) Outputs() []*connector.Connector { return append([]*connector.Connector(nil), n.outputs...) }

// Connectors returns inputs followed by outputs.
func (n *Node) Connectors() []*connector.Connector {
	all := make([]*connector.Connector, 0, len(n.inputs)+len(n.outputs))
	all = append(all, n.inputs...)
	return append(all, n.outputs...)
}

// ConnectorKeys returns the registry keys of all connectors of the node.
func (n *Node) ConnectorKeys() []string {
	keys := make([]string, 0, len(n.inputs)+len(n.outputs))
	for _, c := range n.Connectors() {
		keys = append(keys, c.ID())
	}
	return keys
}

// Rect returns the node's bounding box. The height grows with the longer
// connector column.
func (n *Node) Rect() geom.Rect {
	rows := math.Max(float64(len(n.inputs)), float64(len(n.outputs)))
	return geom.Rect{
		X:      n.settings.X,
		Y:      n.settings.Y,
		Width:  n.settings.Width,
		Height: HeaderHeight + rows*LineHeight,
	}
}

// ConnectorCenter returns the canvas position of the connector with the
// given id, or false if the node does not own it.
func (n *Node) ConnectorCenter(id string) (geom.Point, bool) {
	for i, c := range n.inputs {
		if c.ID() == id {
			return n.slot(ConnectorInset, i), true
		}
	}
	for i, c := range n.outputs {
		if c.ID() == id {
			return n.slot(n.settings.Width-ConnectorInset, i), true
		}
	}
	return geom.Point{}, false
}

func (n *Node) slot(dx float64, row int) geom.Point {
	return geom.Pt(n.settings.X+dx, n.settings.Y+HeaderHeight+float64(row)*LineHeight)
}
