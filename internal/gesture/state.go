// Package gesture drives the drag-to-connect interaction: a pointer pressed
// on an output connector draws a preview wire that can snap onto a
// compatible input connector and is committed on release.
package gesture

import "github.com/msalah0e/flowdesigner/internal/geom"

// Phase names the states of the machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDrawing
	PhaseSnapped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDrawing:
		return "drawing"
	case PhaseSnapped:
		return "snapped"
	}
	return "unknown"
}

// State is one of Idle, Drawing or Snapped.
type State interface {
	Phase() Phase
	references(key string) bool
}

// Idle means no wire is being drawn.
type Idle struct{}

// Drawing follows the pointer from the source connector.
type Drawing struct {
	Source string
	Origin geom.Point // source connector center
	Tip    geom.Point // preview end point
}

// Snapped has locked the preview onto a compatible target.
type Snapped struct {
	Source string
	Target string
	Origin geom.Point
	Tip    geom.Point
}

func (Idle) Phase() Phase    { return PhaseIdle }
func (Drawing) Phase() Phase { return PhaseDrawing }
func (Snapped) Phase() Phase { return PhaseSnapped }

func (Idle) references(string) bool        { return false }
func (s Drawing) references(k string) bool { return s.Source == k }
func (s Snapped) references(k string) bool { return s.Source == k || s.Target == k }
