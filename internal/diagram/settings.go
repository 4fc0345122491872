package diagram

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/msalah0e/flowdesigner/internal/connector"
)

// Node layout and appearance defaults.
const (
	DefaultWidth       = 250
	DefaultColor       = "#000055"
	DefaultFontColor   = "white"
	DefaultBorderColor = "black"

	HeaderHeight    = 40 // label row above the first connector
	LineHeight      = 15 // vertical distance between connectors
	ConnectorInset  = 10 // horizontal distance of connectors from the node edge
	ConnectorRadius = 5
)

// Scope is a named connector category with a display color.
type Scope struct {
	Color string `json:"color" yaml:"color" toml:"color" validate:"required"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label"`
}

// NodeSettings is the persisted description of a node.
type NodeSettings struct {
	ID          string             `json:"id,omitempty" yaml:"id,omitempty" validate:"omitempty,excludes=0x7C"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	X           float64            `json:"x" yaml:"x"`
	Y           float64            `json:"y" yaml:"y"`
	Width       float64            `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Color       string             `json:"color,omitempty" yaml:"color,omitempty"`
	FontColor   string             `json:"font_color,omitempty" yaml:"font_color,omitempty"`
	BorderColor string             `json:"border_color,omitempty" yaml:"border_color,omitempty"`
	Fixed       bool               `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Label       string             `json:"label,omitempty" yaml:"label,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Input       []connector.Config `json:"input,omitempty" yaml:"input,omitempty" validate:"dive"`
	Output      []connector.Config `json:"output,omitempty" yaml:"output,omitempty" validate:"dive"`
}

// withDefaults fills unset appearance fields.
func (s NodeSettings) withDefaults() NodeSettings {
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Color == "" {
		s.Color = DefaultColor
	}
	if s.FontColor == "" {
		s.FontColor = DefaultFontColor
	}
	if s.BorderColor == "" {
		s.BorderColor = DefaultBorderColor
	}
	return s
}

// clone returns a deep copy.
func (s NodeSettings) clone() NodeSettings {
	s.Input = cloneConfigs(s.Input)
	s.Output = cloneConfigs(s.Output)
	return s
}

func cloneConfigs(in []connector.Config) []connector.Config {
	if in == nil {
		return nil
	}
	out := make([]connector.Config, len(in))
	for i, c := range in {
		c.Scopes = append([]string(nil), c.Scopes...)
		out[i] = c
	}
	return out
}

// ─── Validation ───

var validate = validator.New()

// Validate checks the settings' field constraints and that connector names
// are unique within the node.
func (s NodeSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	seen := make(map[string]bool, len(s.Input)+len(s.Output))
	for _, c := range append(append([]connector.Config(nil), s.Input...), s.Output...) {
		if seen[c.Name] {
			return fmt.Errorf("connector name %q used twice", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Validate checks that the scope has a color.
func (s Scope) Validate() error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, e.Param())
	case "excludes":
		return fmt.Sprintf("%s must not contain %q", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
	}
}
