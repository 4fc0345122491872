package wire

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a broken adjacency/edge bookkeeping invariant.
var ErrInvariant = errors.New("wire: invariant violation")

// InvariantError is the panic value raised when the graph manager detects
// inconsistent state. It is never caused by user input.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("wire: %s: invariant violation: %s", e.Op, e.Detail)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// Recover converts a recovered InvariantError panic into an error. Any other
// panic value is re-raised. Use it in a deferred call:
//
//	defer wire.Recover(&err)
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(*InvariantError); ok {
		*err = ie
		return
	}
	panic(r)
}
