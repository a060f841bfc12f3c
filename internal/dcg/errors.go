package dcg

import (
	"errors"
	"fmt"
)

// MisuseError represents a programmer error detected by the engine.
//
// Misuse includes:
//   - Mutating a cell while a force context is active
//   - Replacing the argument of a non-nominal articulation
//   - Assigning a generative id to a non-generative articulation
//
// Misuse aborts: the engine panics with a *MisuseError as the panic
// value. Recover and match with IsMisuseError in tests.
type MisuseError struct {
	// Code identifies the misuse category.
	Code MisuseCode

	// Message is a human-readable description.
	Message string

	// NodeID identifies the affected node, when known.
	NodeID uint64
}

// MisuseCode categorizes misuse errors.
type MisuseCode string

const (
	// ErrCodeSetInForce indicates Cell.Set was called while a user
	// body was executing.
	ErrCodeSetInForce MisuseCode = "SET_IN_FORCE"

	// ErrCodeArgMutation indicates an argument replacement on an
	// articulation that is not nominally keyed.
	ErrCodeArgMutation MisuseCode = "ARG_MUTATION"

	// ErrCodeSetID indicates SetID on an articulation that is not
	// generatively keyed.
	ErrCodeSetID MisuseCode = "SET_ID"
)

// Error implements the error interface.
func (e *MisuseError) Error() string {
	if e.NodeID != 0 {
		return fmt.Sprintf("%s: %s (node=%d)", e.Code, e.Message, e.NodeID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMisuseError reports whether err is a MisuseError.
// Uses errors.As to handle wrapped errors.
func IsMisuseError(err error) bool {
	var me *MisuseError
	return errors.As(err, &me)
}

// panicMisuse aborts with a structured misuse error.
func panicMisuse(code MisuseCode, nodeID uint64, format string, args ...any) {
	panic(&MisuseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		NodeID:  nodeID,
	})
}
