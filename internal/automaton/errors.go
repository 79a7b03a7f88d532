package automaton

import (
	"errors"
	"fmt"
)

// ErrResourceExhausted is matched by every *ResourceError.
var ErrResourceExhausted = errors.New("resource limit exceeded")

// ErrInvalidSnapshot reports a snapshot that does not describe a valid automaton.
var ErrInvalidSnapshot = errors.New("invalid automaton snapshot")

// Phases reported by ResourceError.
const (
	PhaseConstruction = "construction"
	PhaseRootmatch    = "rootmatch"
	PhaseSubmatch     = "submatch"
)

// ResourceError reports that a configured ceiling was exceeded. The caller
// may retry with a larger limit or reject the input.
type ResourceError struct {
	Phase   string // PhaseConstruction, PhaseRootmatch or PhaseSubmatch
	Limit   int    // configured ceiling
	Reached int    // size reached when the operation was aborted
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: resource limit exceeded (reached %d, limit %d)", e.Phase, e.Reached, e.Limit)
}

// Is makes errors.Is(err, ErrResourceExhausted) hold.
func (e *ResourceError) Is(target error) bool {
	return target == ErrResourceExhausted
}
