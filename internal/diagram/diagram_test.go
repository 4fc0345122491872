package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/geom"
	"github.com/msalah0e/flowdesigner/internal/gesture"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

type fakeSurface struct {
	NopSurface

	nodes    map[string]geom.Rect
	erased   []string
	wires    map[string][2]geom.Point
	moved    []string
	unwired  []string
	handlers map[string]gesture.Handlers
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		nodes:    make(map[string]geom.Rect),
		wires:    make(map[string][2]geom.Point),
		handlers: make(map[string]gesture.Handlers),
	}
}

func (s *fakeSurface) DrawNode(n *Node) { s.nodes[n.ID()] = n.Rect() }
func (s *fakeSurface) MoveNode(n *Node) { s.nodes[n.ID()] = n.Rect() }

func (s *fakeSurface) EraseNode(n *Node) {
	delete(s.nodes, n.ID())
	s.erased = append(s.erased, n.ID())
}

func (s *fakeSurface) DrawWire(e *wire.Edge, from, to geom.Point) {
	s.wires[e.Key] = [2]geom.Point{from, to}
}

func (s *fakeSurface) MoveWire(e *wire.Edge, from, to geom.Point) {
	s.wires[e.Key] = [2]geom.Point{from, to}
	s.moved = append(s.moved, e.Key)
}

func (s *fakeSurface) EraseWire(e *wire.Edge) {
	delete(s.wires, e.Key)
	s.unwired = append(s.unwired, e.Key)
}

func (s *fakeSurface) Arm(c *connector.Connector, h gesture.Handlers) { s.handlers[c.ID()] = h }
func (s *fakeSurface) Disarm(c *connector.Connector)                  { delete(s.handlers, c.ID()) }

func image(names ...string) []connector.Config {
	out := make([]connector.Config, len(names))
	for i, n := range names {
		out[i] = connector.Config{Name: n, Scopes: []string{"image"}}
	}
	return out
}

func TestAddNodeDefaults(t *testing.T) {
	d := New(nil)

	n, err := d.AddNode(NodeSettings{Label: "first"})
	require.NoError(t, err)
	assert.Equal(t, "node-1", n.ID())

	s := n.Settings()
	assert.Equal(t, float64(DefaultWidth), s.Width)
	assert.Equal(t, DefaultColor, s.Color)
	assert.Equal(t, DefaultFontColor, s.FontColor)
	assert.Equal(t, DefaultBorderColor, s.BorderColor)

	_, err = d.AddNode(NodeSettings{ID: "node-2"})
	require.NoError(t, err)
	n3, err := d.AddNode(NodeSettings{})
	require.NoError(t, err)
	assert.Equal(t, "node-3", n3.ID(), "generated ids skip taken ones")
}

func TestNodeGeometry(t *testing.T) {
	d := New(nil)
	n, err := d.AddNode(NodeSettings{
		ID: "n", X: 10, Y: 20,
		Input:  image("a", "b"),
		Output: image("x", "y", "z"),
	})
	require.NoError(t, err)

	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 250, Height: 85}, n.Rect())

	p, ok := n.ConnectorCenter("n-b")
	require.True(t, ok)
	assert.Equal(t, geom.Pt(20, 75), p)

	p, ok = n.ConnectorCenter("n-z")
	require.True(t, ok)
	assert.Equal(t, geom.Pt(250, 90), p)

	_, ok = n.ConnectorCenter("other-a")
	assert.False(t, ok)

	assert.Equal(t, []string{"n-a", "n-b", "n-x", "n-y", "n-z"}, n.ConnectorKeys())
}

func TestAddNodeErrors(t *testing.T) {
	d := New(nil)
	_, err := d.AddNode(NodeSettings{ID: "a", Output: image("b-c")})
	require.NoError(t, err)

	_, err = d.AddNode(NodeSettings{ID: "a"})
	assert.ErrorIs(t, err, ErrDuplicateNode)

	_, err = d.AddNode(NodeSettings{ID: "a-b", Input: image("c")})
	assert.ErrorIs(t, err, ErrDuplicateConnector)
	assert.False(t, d.HasNode("a-b"))

	_, err = d.AddNode(NodeSettings{ID: "x|y"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = d.AddNode(NodeSettings{Input: []connector.Config{{Name: "in"}}})
	assert.ErrorIs(t, err, ErrInvalid, "connector without scopes")

	_, err = d.AddNode(NodeSettings{Input: image("in"), Output: image("in")})
	assert.Error(t, err, "connector names are unique per node")
}

func TestKeySeparatorRejected(t *testing.T) {
	tests := []struct {
		name     string
		settings NodeSettings
		field    string
	}{
		{"node id", NodeSettings{ID: "a|b", Input: image("in")}, "NodeSettings.ID"},
		{"connector name", NodeSettings{ID: "a", Input: image("in|x")}, "NodeSettings.Input[0].Name"},
		{"connector id", NodeSettings{ID: "a", Output: []connector.Config{{Name: "out", ID: "a|out", Scopes: []string{"image"}}}}, "NodeSettings.Output[0].ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(nil)
			_, err := d.AddNode(tt.settings)
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field+` must not contain "|"`)
			assert.Empty(t, d.Nodes())
			assert.Empty(t, d.Wires().Connectors())
		})
	}
}

func TestDuplicateConnectorIDWithinNode(t *testing.T) {
	s := newFakeSurface()
	d := New(s)

	_, err := d.AddNode(NodeSettings{
		ID:     "n1",
		Input:  image("a"),
		Output: []connector.Config{{Name: "b", ID: "n1-a", Scopes: []string{"image"}}},
	})
	require.ErrorIs(t, err, ErrDuplicateConnector)
	assert.Contains(t, err.Error(), "n1-a")

	assert.False(t, d.HasNode("n1"))
	assert.Empty(t, d.Nodes())
	assert.Empty(t, d.Wires().Connectors())
	assert.Empty(t, s.nodes, "rejected node is not drawn")
}

func TestSettingsAreCopied(t *testing.T) {
	d := New(nil)
	in := NodeSettings{ID: "n", Input: image("in")}
	n, err := d.AddNode(in)
	require.NoError(t, err)

	in.Input[0].Scopes[0] = "changed"
	s := n.Settings()
	assert.Equal(t, []string{"image"}, s.Input[0].Scopes)

	s.Input[0].Scopes[0] = "changed"
	assert.Equal(t, []string{"image"}, n.Settings().Input[0].Scopes)
}

func TestScopes(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.DefineScope("image", Scope{Color: "#ff0000", Label: "Image"}))
	require.NoError(t, d.DefineScope("ctrl", Scope{Color: "#00ff00"}))

	assert.True(t, d.HasScope("image"))
	assert.False(t, d.HasScope("audio"))
	s, ok := d.Scope("image")
	require.True(t, ok)
	assert.Equal(t, "Image", s.Label)
	assert.Equal(t, []string{"ctrl", "image"}, d.ScopeNames())

	assert.ErrorIs(t, d.DefineScope("bad", Scope{}), ErrInvalid)
	assert.ErrorIs(t, d.DefineScope("", Scope{Color: "red"}), ErrInvalid)
}

func TestConnectorColor(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.DefineScope("image", Scope{Color: "#ff0000"}))

	one := connector.New(connector.Sink, "n", connector.Config{Name: "a", Scopes: []string{"image"}})
	many := connector.New(connector.Sink, "n", connector.Config{Name: "b", Scopes: []string{"image", "ctrl"}})
	unknown := connector.New(connector.Sink, "n", connector.Config{Name: "c", Scopes: []string{"audio"}})

	assert.Equal(t, "#ff0000", d.ConnectorColor(one))
	assert.Equal(t, wire.DefaultAmbiguousColor, d.ConnectorColor(many))
	assert.Equal(t, DefaultConnectorColor, d.ConnectorColor(unknown))
}

func TestWireColorFromScope(t *testing.T) {
	s := newFakeSurface()
	d := New(s)
	require.NoError(t, d.DefineScope("image", Scope{Color: "#ff0000"}))
	_, err := d.AddNode(NodeSettings{ID: "a", Output: image("out")})
	require.NoError(t, err)
	_, err = d.AddNode(NodeSettings{ID: "b", X: 400, Input: image("in")})
	require.NoError(t, err)

	e, ok := d.AddWire("a-out", "b-in")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", e.Color)
	assert.Equal(t, [2]geom.Point{geom.Pt(240, 40), geom.Pt(410, 40)}, s.wires["a-out|b-in"])

	_, ok = d.AddWire("b-in", "a-out")
	assert.False(t, ok, "reverse direction of an existing wire")

	assert.True(t, d.RemoveWire("b-in", "a-out"))
	assert.Equal(t, []string{"a-out|b-in"}, s.unwired)
	assert.Zero(t, d.Wires().Len())
}

func TestRedrawAfterMove(t *testing.T) {
	s := newFakeSurface()
	d := New(s, WithRaster(10))
	for _, n := range []NodeSettings{
		{ID: "a", Output: image("out")},
		{ID: "b", X: 300, Input: image("in")},
		{ID: "c", X: 300, Y: 100, Input: image("in")},
		{ID: "d", Y: 300, Output: image("out")},
		{ID: "e", X: 300, Y: 300, Input: image("in")},
	} {
		_, err := d.AddNode(n)
		require.NoError(t, err)
	}
	for _, w := range [][2]string{{"a-out", "b-in"}, {"a-out", "c-in"}, {"d-out", "e-in"}} {
		_, ok := d.AddWire(w[0], w[1])
		require.True(t, ok)
	}

	require.NoError(t, d.MoveNode("a", 13, 27))

	n, _ := d.Node("a")
	assert.Equal(t, geom.Rect{X: 10, Y: 30, Width: 250, Height: 55}, n.Rect())
	assert.Equal(t, n.Rect(), s.nodes["a"])
	assert.ElementsMatch(t, []string{"a-out|b-in", "a-out|c-in"}, s.moved)
	assert.Equal(t, geom.Pt(250, 70), s.wires["a-out|b-in"][0])
	assert.Equal(t, geom.Pt(310, 40), s.wires["a-out|b-in"][1])
	assert.Equal(t, 3, d.Wires().Len())

	assert.ErrorIs(t, d.MoveNode("missing", 0, 0), ErrNodeNotFound)
}

func TestRemoveNodeCascades(t *testing.T) {
	s := newFakeSurface()
	d := New(s)
	_, err := d.AddNode(NodeSettings{ID: "a", Output: image("out")})
	require.NoError(t, err)
	_, err = d.AddNode(NodeSettings{ID: "b", Input: image("in")})
	require.NoError(t, err)
	_, err = d.AddNode(NodeSettings{ID: "c", Input: image("in")})
	require.NoError(t, err)
	d.AddWire("a-out", "b-in")
	d.AddWire("a-out", "c-in")

	require.NoError(t, d.RemoveNode("a"))

	assert.False(t, d.HasNode("a"))
	assert.Zero(t, d.Wires().Len())
	assert.ElementsMatch(t, []string{"a-out|b-in", "a-out|c-in"}, s.unwired)
	assert.Equal(t, []string{"a"}, s.erased)
	_, armed := s.handlers["a-out"]
	assert.False(t, armed)

	b, _ := d.Wires().Connector("b-in")
	assert.Zero(t, b.Degree())
	assert.NoError(t, d.Wires().CheckConsistency())

	assert.ErrorIs(t, d.RemoveNode("a"), ErrNodeNotFound)
}

func TestRemoveNodesAndAll(t *testing.T) {
	d := New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_, err := d.AddNode(NodeSettings{ID: id, Input: image("in")})
		require.NoError(t, err)
	}

	err := d.RemoveNodes([]string{"a", "missing", "b"})
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Len(t, d.Nodes(), 1)

	d.RemoveAllNodes()
	assert.Empty(t, d.Nodes())
	assert.Empty(t, d.Wires().Connectors())
}

func TestGestureThroughSurface(t *testing.T) {
	s := newFakeSurface()
	d := New(s)
	_, err := d.AddNode(NodeSettings{ID: "a", Output: image("out")})
	require.NoError(t, err)
	_, err = d.AddNode(NodeSettings{ID: "b", X: 400, Input: image("in")})
	require.NoError(t, err)

	s.handlers["a-out"].PointerDown(geom.Pt(240, 40))
	s.handlers["a-out"].Drag(geom.Pt(300, 40))
	s.handlers["b-in"].Enter()
	s.handlers["a-out"].PointerUp(geom.Pt(410, 40))

	_, ok := d.Wires().Wire("a-out|b-in")
	assert.True(t, ok)
	assert.Equal(t, gesture.PhaseIdle, d.Gesture().State().Phase())
}

func TestDeleteNodeMidGesture(t *testing.T) {
	s := newFakeSurface()
	d := New(s)
	_, err := d.AddNode(NodeSettings{ID: "a", Output: image("out")})
	require.NoError(t, err)
	_, err = d.AddNode(NodeSettings{ID: "b", X: 400, Input: image("in")})
	require.NoError(t, err)

	up := s.handlers["a-out"].PointerUp
	s.handlers["a-out"].PointerDown(geom.Pt(240, 40))
	s.handlers["b-in"].Enter()

	require.NoError(t, d.RemoveNode("b"))
	assert.Equal(t, gesture.PhaseIdle, d.Gesture().State().Phase())

	up(geom.Pt(0, 0))
	assert.Zero(t, d.Wires().Len())
}
