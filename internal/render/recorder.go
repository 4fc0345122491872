// Package render provides headless drawing surfaces for diagrams: an
// in-memory recorder that stands in for a canvas, and an SVG snapshot writer.
package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/diagram"
	"github.com/msalah0e/flowdesigner/internal/geom"
	"github.com/msalah0e/flowdesigner/internal/gesture"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

// ErrNotArmed is returned when a pointer event targets a connector that has
// no handler for it.
var ErrNotArmed = errors.New("connector not armed")

// Event is one drawing call received by the recorder.
type Event struct {
	Op      string
	Subject string
}

func (e Event) String() string {
	if e.Subject == "" {
		return e.Op
	}
	return e.Op + " " + e.Subject
}

// WireMark is a wire as currently drawn.
type WireMark struct {
	Key   string
	Color string
	From  geom.Point
	To    geom.Point
}

// Recorder implements diagram.Surface in memory. Pointer events are
// addressed by connector key instead of hit-testing coordinates.
type Recorder struct {
	nodes    map[string]geom.Rect
	wires    map[string]WireMark
	handlers map[string]gesture.Handlers
	kinds    map[string]connector.Kind

	preview     [2]geom.Point
	previewShow bool

	events []Event
}

var _ diagram.Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		nodes:    make(map[string]geom.Rect),
		wires:    make(map[string]WireMark),
		handlers: make(map[string]gesture.Handlers),
		kinds:    make(map[string]connector.Kind),
	}
}

func (r *Recorder) record(op, subject string) {
	r.events = append(r.events, Event{Op: op, Subject: subject})
}

// ─── diagram.Surface ───

func (r *Recorder) DrawNode(n *diagram.Node) {
	r.nodes[n.ID()] = n.Rect()
	r.record("draw-node", n.ID())
}

func (r *Recorder) MoveNode(n *diagram.Node) {
	r.nodes[n.ID()] = n.Rect()
	r.record("move-node", n.ID())
}

func (r *Recorder) EraseNode(n *diagram.Node) {
	delete(r.nodes, n.ID())
	r.record("erase-node", n.ID())
}

func (r *Recorder) DrawWire(e *wire.Edge, from, to geom.Point) {
	r.wires[e.Key] = WireMark{Key: e.Key, Color: e.Color, From: from, To: to}
	r.record("draw-wire", e.Key)
}

func (r *Recorder) MoveWire(e *wire.Edge, from, to geom.Point) {
	r.wires[e.Key] = WireMark{Key: e.Key, Color: e.Color, From: from, To: to}
	r.record("move-wire", e.Key)
}

func (r *Recorder) EraseWire(e *wire.Edge) {
	delete(r.wires, e.Key)
	r.record("erase-wire", e.Key)
}

func (r *Recorder) Arm(c *connector.Connector, h gesture.Handlers) {
	r.handlers[c.ID()] = h
	r.kinds[c.ID()] = c.Kind()
}

func (r *Recorder) Disarm(c *connector.Connector) {
	delete(r.handlers, c.ID())
	delete(r.kinds, c.ID())
}

func (r *Recorder) ShowPreview(from, to geom.Point) {
	r.preview = [2]geom.Point{from, to}
	r.previewShow = true
	r.record("show-preview", "")
}

func (r *Recorder) MovePreview(from, to geom.Point) {
	r.preview = [2]geom.Point{from, to}
}

func (r *Recorder) HidePreview() {
	r.previewShow = false
	r.record("hide-preview", "")
}

// ─── Pointer dispatch ───

// Down presses the pointer on the connector.
func (r *Recorder) Down(key string, p geom.Point) error {
	h, err := r.handler(key, "down", func(h gesture.Handlers) bool { return h.PointerDown != nil })
	if err != nil {
		return err
	}
	h.PointerDown(p)
	return nil
}

// Drag moves the pointer while it is held on the connector.
func (r *Recorder) Drag(key string, p geom.Point) error {
	h, err := r.handler(key, "drag", func(h gesture.Handlers) bool { return h.Drag != nil })
	if err != nil {
		return err
	}
	h.Drag(p)
	return nil
}

// Up releases the pointer that was pressed on the connector.
func (r *Recorder) Up(key string, p geom.Point) error {
	h, err := r.handler(key, "up", func(h gesture.Handlers) bool { return h.PointerUp != nil })
	if err != nil {
		return err
	}
	h.PointerUp(p)
	return nil
}

// Enter hovers the pointer over the connector.
func (r *Recorder) Enter(key string) error {
	h, err := r.handler(key, "enter", func(h gesture.Handlers) bool { return h.Enter != nil })
	if err != nil {
		return err
	}
	h.Enter()
	return nil
}

// Leave moves the pointer off the connector.
func (r *Recorder) Leave(key string) error {
	h, err := r.handler(key, "leave", func(h gesture.Handlers) bool { return h.Leave != nil })
	if err != nil {
		return err
	}
	h.Leave()
	return nil
}

func (r *Recorder) handler(key, op string, has func(gesture.Handlers) bool) (gesture.Handlers, error) {
	h, ok := r.handlers[key]
	if !ok || !has(h) {
		return h, fmt.Errorf("%s on %q: %w", op, key, ErrNotArmed)
	}
	return h, nil
}

// ─── Inspection ───

// Node returns the drawn rectangle of a node.
func (r *Recorder) Node(id string) (geom.Rect, bool) {
	rect, ok := r.nodes[id]
	return rect, ok
}

// Wire returns a drawn wire by key.
func (r *Recorder) Wire(key string) (WireMark, bool) {
	w, ok := r.wires[key]
	return w, ok
}

// Wires returns all drawn wires sorted by key.
func (r *Recorder) Wires() []WireMark {
	out := make([]WireMark, 0, len(r.wires))
	for _, w := range r.wires {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Armed returns the keys of connectors that accept pointer events, sorted.
func (r *Recorder) Armed() []string {
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ArmedKind returns the kind of an armed connector.
func (r *Recorder) ArmedKind(key string) (connector.Kind, bool) {
	k, ok := r.kinds[key]
	return k, ok
}

// Preview returns the preview segment and whether it is visible.
func (r *Recorder) Preview() (from, to geom.Point, visible bool) {
	return r.preview[0], r.preview[1], r.previewShow
}

// Events returns the drawing calls received so far.
func (r *Recorder) Events() []Event {
	return append([]Event(nil), r.events...)
}

// Reset forgets recorded events. Drawn state is kept.
func (r *Recorder) Reset() {
	r.events = nil
}
