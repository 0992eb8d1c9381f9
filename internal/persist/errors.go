package persist

import "fmt"

// ReconstructionError reports the entry a reconstruction stopped at.
type ReconstructionError struct {
	Entry  string
	Reason string
	Err    error
}

func (e *ReconstructionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to reconstruct entry %q: %s", e.Entry, e.Reason)
	}
	return fmt.Sprintf("failed to reconstruct entry %q: %s: %v", e.Entry, e.Reason, e.Err)
}

func (e *ReconstructionError) Unwrap() error {
	return e.Err
}
