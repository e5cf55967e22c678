// Package enginefail defines EngineFailure, the one fatal error class of
// spec §7: "invariant violation, corrupted indices, panic-equivalent.
// Terminates the turn with an unrecoverable error; no partial state is
// committed." Every other failure mode (OrderRejected, OrderFailed,
// OrderAborted, CapacityViolation) is recovered locally as a GameEvent
// and never reaches this type.
package enginefail

import "fmt"

// Code classifies what kind of invariant violation produced the failure.
type Code string

const (
	// CodeInvariantViolation covers any checked game-invariant the engine
	// discovered broken mid-turn (a squadron referencing a destroyed
	// fleet, an index out of sync with its backing map, etc).
	CodeInvariantViolation Code = "invariantViolation"
	// CodePanic wraps a recovered panic whose origin wasn't a deliberate
	// invariant check — the last-resort catch-all.
	CodePanic Code = "panic"
)

// Error is the concrete type ResolveTurn returns for a fatal failure. It
// is never constructed anywhere but the engine package's single recover()
// boundary plus explicit invariant checks that choose to fail the turn
// outright rather than skip one order.
type Error struct {
	Code  Code
	Turn  int32
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine failure at turn %d (%s): %v", e.Turn, e.Code, e.Cause)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error with a given code, grounded on an underlying cause.
func New(turn int32, code Code, cause error) *Error {
	return &Error{Code: code, Turn: turn, Cause: cause}
}

// FromRecover converts a recovered panic value into an Error, the only
// place in this codebase a recover() result feeds back into normal
// control flow rather than being re-panicked.
func FromRecover(turn int32, r any) *Error {
	if err, ok := r.(error); ok {
		return New(turn, CodePanic, err)
	}
	return New(turn, CodePanic, fmt.Errorf("%v", r))
}
