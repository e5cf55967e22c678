// Validation implements the two-stage admission/execution discipline of
// spec §4.2 and the non-fatal error taxonomy of spec §7 (OrderRejected,
// OrderFailed, OrderAborted, CapacityViolation — everything except
// EngineFailure, which belongs to the engine package's single recover()
// boundary).
package orders

import "fmt"

// Severity classifies how serious a CapacityViolation is, for client
// display ordering.
type Severity string

const (
	SeverityWarning Severity = "warning" // within grace period
	SeverityForced  Severity = "forced"  // grace expired, divestiture applied this turn
)

// CapacityViolation carries the current/max/excess metadata spec §7
// requires ("current/max/excess, severity, grace remaining").
type CapacityViolation struct {
	Category       string
	Current        int
	Max            int
	Excess         int
	Severity       Severity
	GraceRemaining int
}

func (v CapacityViolation) Error() string {
	return fmt.Sprintf("%s capacity exceeded: %d/%d (excess %d, %s, grace %d)",
		v.Category, v.Current, v.Max, v.Excess, v.Severity, v.GraceRemaining)
}

// Rejection is returned by an order's admission check when it must be
// rejected before it ever enters the packet (spec §4.2 "Admission ...
// Rejected orders never enter the packet. Emits OrderRejected with
// reason").
type Rejection struct {
	Reason string
}

func (r Rejection) Error() string { return r.Reason }

// Failure is returned by an order's execution-time re-validation when the
// world changed since admission (spec §4.2 "Execution-time ... If
// invalid, emit OrderFailed with a reason code and skip").
type Failure struct {
	Reason string
}

func (f Failure) Error() string { return f.Reason }

// Aborted signals a multi-step order (e.g. invasion) that was partially
// executed then halted by a precondition change mid-flight (spec §7
// "OrderAborted: partially executed then halted").
type Aborted struct {
	Reason string
}

func (a Aborted) Error() string { return a.Reason }

// AdmitCheck is the generic shape every fleet-command admission check
// follows: syntax + current-state validation against a read-only state
// snapshot, returning a Rejection (not a panic) on failure. Concrete
// per-order-kind checks live alongside their executors in the components
// that own that domain (fleet movement in phases/maintenance.go, planetary
// ops in planetary, etc.) — this type documents the common contract so
// every executor's admission check has the same shape.
type AdmitCheck func() *Rejection

// Execute is the generic shape every fleet-command execution-time check
// follows: re-validate, then either run to completion or return a
// Failure/Aborted.
type Execute func() error
