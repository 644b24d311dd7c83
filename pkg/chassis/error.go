package chassis

import (
	"fmt"
	"reflect"
)

// NotRegisteredError is returned by dispatch when no handler is registered for
// the message type under the requested role. It is distinguishable from any
// failure returned by a handler itself.
type NotRegisteredError struct {
	Kind    Kind
	Message reflect.Type
}

// Error implements the error interface
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("chassis: no %s handler registered for message type %s", e.Kind, typeName(e.Message))
}

// DuplicateRegistrationError is returned when two handlers claim the same
// message type and role. Registration is a hard failure at wiring time, never
// a silent override.
type DuplicateRegistrationError struct {
	Kind    Kind
	Message reflect.Type
}

// Error implements the error interface
func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("chassis: duplicate %s handler registration for message type %s", e.Kind, typeName(e.Message))
}

// ResultTypeError is returned when a handler's result does not match the
// result type the dispatch site expects. This indicates a wiring bug, usually
// hand-written registration bypassing the generated aggregator.
type ResultTypeError struct {
	Kind    Kind
	Message reflect.Type
	Want    reflect.Type
	Got     reflect.Type
}

// Error implements the error interface
func (e *ResultTypeError) Error() string {
	return fmt.Sprintf("chassis: %s dispatch for %s produced %s, caller expects %s",
		e.Kind, typeName(e.Message), typeName(e.Got), typeName(e.Want))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
