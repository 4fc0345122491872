package wire

import "github.com/msalah0e/flowdesigner/internal/connector"

// Observer is notified after the manager's state changes.
type Observer interface {
	ConnectorRegistered(c *connector.Connector)
	ConnectorUnregistered(c *connector.Connector)
	WireAdded(e *Edge)
	WireRemoved(e *Edge)
}

// NopObserver implements Observer with no-ops; embed it to pick callbacks.
type NopObserver struct{}

func (NopObserver) ConnectorRegistered(*connector.Connector)   {}
func (NopObserver) ConnectorUnregistered(*connector.Connector) {}
func (NopObserver) WireAdded(*Edge)                            {}
func (NopObserver) WireRemoved(*Edge)                          {}
