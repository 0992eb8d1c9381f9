package registry

import (
	"errors"
	"fmt"
)

// ErrUnknownType is matched by every SchemaLookupError.
var ErrUnknownType = errors.New("unknown node type")

// SchemaLookupError reports a type ref that is not in the registry.
type SchemaLookupError struct {
	Ref string
}

func (e *SchemaLookupError) Error() string {
	return fmt.Sprintf("unknown node type %q", e.Ref)
}

func (e *SchemaLookupError) Is(target error) bool {
	return target == ErrUnknownType
}
