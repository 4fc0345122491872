package diagram

import "errors"

var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrDuplicateNode      = errors.New("duplicate node id")
	ErrDuplicateConnector = errors.New("duplicate connector id")
	ErrInvalid            = errors.New("invalid settings")
)
