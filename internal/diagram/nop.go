package diagram

import (
	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/geom"
	"github.com/msalah0e/flowdesigner/internal/gesture"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

// NopSurface draws nothing. It backs headless diagrams.
type NopSurface struct{}

func (NopSurface) DrawNode(*Node)                              {}
func (NopSurface) MoveNode(*Node)                              {}
func (NopSurface) EraseNode(*Node)                             {}
func (NopSurface) DrawWire(*wire.Edge, geom.Point, geom.Point) {}
func (NopSurface) MoveWire(*wire.Edge, geom.Point, geom.Point) {}
func (NopSurface) EraseWire(*wire.Edge)                        {}
func (NopSurface) Arm(*connector.Connector, gesture.Handlers)  {}
func (NopSurface) Disarm(*connector.Connector)                 {}
func (NopSurface) ShowPreview(geom.Point, geom.Point)          {}
func (NopSurface) MovePreview(geom.Point, geom.Point)          {}
func (NopSurface) HidePreview()                                {}
