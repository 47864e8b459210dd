package registry

import (
	"errors"
	"fmt"
)

// ErrUnknownType is matched by every UnknownTypeError through errors.Is.
var ErrUnknownType = errors.New("unknown node type")

// UnknownTypeError is returned when a type name has not been registered.
type UnknownTypeError struct {
	TypeName string
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown node type %q", e.TypeName)
}

// Is makes errors.Is(err, ErrUnknownType) succeed.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}
