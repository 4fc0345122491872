// Package replay feeds scripted pointer input through a recorder surface into
// a diagram's gesture machine.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/msalah0e/flowdesigner/internal/diagram"
	"github.com/msalah0e/flowdesigner/internal/geom"
	"github.com/msalah0e/flowdesigner/internal/gesture"
	"github.com/msalah0e/flowdesigner/internal/render"
)

// Step operations.
const (
	OpDown   = "down"
	OpDrag   = "drag"
	OpUp     = "up"
	OpEnter  = "enter"
	OpLeave  = "leave"
	OpCancel = "cancel"
	OpMove   = "move"
)

// Step is one scripted input event.
type Step struct {
	Op        string  `yaml:"op" json:"op" validate:"required,oneof=down drag up enter leave cancel move"`
	Connector string  `yaml:"connector,omitempty" json:"connector,omitempty"`
	Node      string  `yaml:"node,omitempty" json:"node,omitempty"`
	X         float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y         float64 `yaml:"y,omitempty" json:"y,omitempty"`
}

func (s Step) String() string {
	switch s.Op {
	case OpCancel:
		return s.Op
	case OpMove:
		return fmt.Sprintf("%s %s (%g,%g)", s.Op, s.Node, s.X, s.Y)
	case OpEnter, OpLeave:
		return s.Op + " " + s.Connector
	}
	return fmt.Sprintf("%s %s (%g,%g)", s.Op, s.Connector, s.X, s.Y)
}

// Script is a list of steps, usually read from YAML.
type Script struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Steps []Step `yaml:"steps" json:"steps" validate:"min=1,dive"`
}

var validate = validator.New()

// Validate checks ops and that each step names what it acts on.
func (sc *Script) Validate() error {
	if err := validate.Struct(sc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid script: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	for i, s := range sc.Steps {
		switch {
		case s.Op == OpMove && s.Node == "":
			return fmt.Errorf("step %d: move needs a node", i+1)
		case s.Op != OpMove && s.Op != OpCancel && s.Connector == "":
			return fmt.Errorf("step %d: %s needs a connector", i+1, s.Op)
		}
	}
	return nil
}

// Parse reads and validates a YAML script.
func Parse(r io.Reader) (*Script, error) {
	var sc Script
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty script")
		}
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Outcome records what a step did.
type Outcome struct {
	Step  Step
	Phase gesture.Phase // gesture phase after the step
	Wires int           // live wires after the step
	Err   error
}

// Run applies each step in order. Steps that target unarmed connectors or
// unknown nodes are recorded with an error and the run continues; only
// context cancellation stops it early.
func Run(ctx context.Context, d *diagram.Diagram, r *render.Recorder, sc *Script) ([]Outcome, error) {
	out := make([]Outcome, 0, len(sc.Steps))
	for _, s := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		err := apply(d, r, s)
		out = append(out, Outcome{
			Step:  s,
			Phase: d.Gesture().State().Phase(),
			Wires: d.Wires().Len(),
			Err:   err,
		})
	}
	return out, nil
}

func apply(d *diagram.Diagram, r *render.Recorder, s Step) error {
	p := geom.Pt(s.X, s.Y)
	switch s.Op {
	case OpDown:
		return r.Down(s.Connector, p)
	case OpDrag:
		return r.Drag(s.Connector, p)
	case OpUp:
		return r.Up(s.Connector, p)
	case OpEnter:
		return r.Enter(s.Connector)
	case OpLeave:
		return r.Leave(s.Connector)
	case OpCancel:
		d.Gesture().Cancel()
		return nil
	case OpMove:
		return d.MoveNode(s.Node, s.X, s.Y)
	}
	return fmt.Errorf("unknown op %q", s.Op)
}
