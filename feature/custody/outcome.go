package custody

import (
	"fmt"

	"assetbot/core/inventory"
)

// ErrorKind classifies why a custody operation was refused or failed.
// Every kind is a value-level outcome surfaced to the caller; nothing in
// this package fails silently.
type ErrorKind string

const (
	// ErrNotFound means the asset (or a referenced user) does not exist.
	ErrNotFound ErrorKind = "not_found"
	// ErrAlreadyInState means the asset is already in the requested state;
	// an idempotent no-op, no write is issued.
	ErrAlreadyInState ErrorKind = "already_in_state"
	// ErrHeldByOther means the asset is checked out to someone else. The
	// error carries the holder so the caller can offer a transfer.
	ErrHeldByOther ErrorKind = "held_by_other"
	// ErrPreconditionFailed means the requested transition is not legal
	// from the asset's current state, or the input was invalid. No write
	// is issued.
	ErrPreconditionFailed ErrorKind = "precondition_failed"
	// ErrUpstreamWriteFailed means the inventory service rejected or never
	// received the write, or a transfer could not be verified.
	ErrUpstreamWriteFailed ErrorKind = "upstream_write_failed"
)

// OperationError is the failure result of a custody operation.
type OperationError struct {
	Kind    ErrorKind
	Message string
	// Holder is set for ErrHeldByOther and identifies the current
	// assignee, enabling the caller's transfer decision point.
	Holder *inventory.Assignee
	// TransferAvailable signals that the caller may resolve the conflict
	// by transferring the asset instead.
	TransferAvailable bool
}

func (e *OperationError) Error() string {
	return e.Message
}

// ErrorKindOf extracts the custody classification from an error, or "".
func ErrorKindOf(err error) ErrorKind {
	if opErr, ok := err.(*OperationError); ok {
		return opErr.Kind
	}
	return ""
}

// Outcome is the success result of a custody operation.
type Outcome struct {
	// Message is the user-facing confirmation, referencing the asset's
	// display name and inventory number or tag.
	Message string `json:"message"`
	// Warning is set for success-with-warning outcomes: the write was
	// accepted upstream but verification could not confirm it
	// (delayed-assignment notice), or a non-fatal follow-up failed.
	Warning string `json:"warning,omitempty"`
	// Unconfirmed is true when the verification cycle timed out. The
	// caller should tell the end user to confirm manually.
	Unconfirmed bool `json:"unconfirmed,omitempty"`
	// Corrected is true when a compensating write was needed to reach the
	// intended end state.
	Corrected bool `json:"corrected,omitempty"`
	// CrossUser is true when equipment was returned by someone other than
	// the holder. Tagged for audit.
	CrossUser bool `json:"cross_user,omitempty"`
	// Asset is the last observed state of the asset.
	Asset *inventory.Asset `json:"asset,omitempty"`
}

// receiptLine renders the "name (Inventory: X)" or "name (Tag: X)" suffix
// shared by checkout and transfer confirmations.
func receiptLine(a *inventory.Asset, fieldNames []string) string {
	number := inventory.DisplayNumber(a, fieldNames)
	if number != "" && a != nil && number != a.Tag {
		return fmt.Sprintf("%s (Inventory: %s)", a.DisplayName(), number)
	}
	tag := ""
	if a != nil {
		tag = a.Tag
	}
	return fmt.Sprintf("%s (Tag: %s)", a.DisplayName(), tag)
}
