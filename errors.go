package planc

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying fatal, non-retryable compilation
// conditions. Compilation aborts on the first one encountered; no
// partial job graph is returned.
var (
	ErrMissingHash = errors.New("planc: node referenced before hashing completed")

	ErrIllegalCoLocation = errors.New("planc: illegal co-location constraint")

	ErrInvalidCheckpointMode = errors.New("planc: checkpoint mode is neither exactly-once nor at-least-once")

	ErrInvalidExternalizedCleanup = errors.New("planc: externalized checkpoints enabled but cleanup policy is unset")

	ErrNonSerializableExecutionConfig = errors.New("planc: execution config failed serialization")

	ErrNonSerializableHook = errors.New("planc: master checkpoint hook failed serialization")

	ErrNonSerializableStateBackend = errors.New("planc: state backend failed serialization")
)

// CompileError carries the offending node or option alongside the
// underlying sentinel, so callers can both match on Cause via
// errors.Is and print a message that pinpoints what failed.
type CompileError struct {
	Message string

	NodeID    int
	HasNodeID bool

	Option string

	Cause error
}

func (e *CompileError) Error() string {
	switch {
	case e.HasNodeID:
		return fmt.Sprintf("planc: node %d: %s", e.NodeID, e.Message)
	case e.Option != "":
		return fmt.Sprintf("planc: option %q: %s", e.Option, e.Message)
	default:
		return "planc: " + e.Message
	}
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

func nodeErr(nodeID int, cause error, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Message:   fmt.Sprintf(format, args...),
		NodeID:    nodeID,
		HasNodeID: true,
		Cause:     cause,
	}
}

func optionErr(option string, cause error) *CompileError {
	return &CompileError{
		Message: cause.Error(),
		Option:  option,
		Cause:   cause,
	}
}
