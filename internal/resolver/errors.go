package resolver

import (
	"errors"
	"fmt"
)

// ErrDepthExceeded is returned when following links exceeds the resolution
// depth. It only happens with corrupted, cyclic data.
var ErrDepthExceeded = errors.New("resolution depth exceeded")

// ErrDanglingLink is returned when a link points at a node or attribute
// that no longer exists.
var ErrDanglingLink = errors.New("link source does not exist")

// MalformedMatrixSizeError reports a size attribute whose value cannot be
// read as matrix dimensions.
type MalformedMatrixSizeError struct {
	Attribute string
	SizeFrom  string
	Raw       string
}

func (e *MalformedMatrixSizeError) Error() string {
	return fmt.Sprintf("matrix %q: malformed size %q in %q, keeping previous dimensions", e.Attribute, e.Raw, e.SizeFrom)
}

// EvaluatorError wraps a failure of an auxiliary node's evaluator.
type EvaluatorError struct {
	Node      string
	Evaluator string
	Err       error
}

func (e *EvaluatorError) Error() string {
	return fmt.Sprintf("node %q: evaluator %q failed: %v", e.Node, e.Evaluator, e.Err)
}

func (e *EvaluatorError) Unwrap() error {
	return e.Err
}
