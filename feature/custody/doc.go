// Package custody implements the asset-custody state machine.
//
// From the engine's point of view an asset is either Available (no
// assignee) or Assigned(user). Checkout, Checkin and Transfer each run a
// short protocol of write-then-verify-then-repair steps against the
// inventory client, because the upstream service acknowledges writes
// before they are visible on read and sometimes applies them partially
// (assignment without status, or the reverse).
//
// # Verification protocol
//
// The compensation protocol lives in protocol.go as an explicit state
// progression:
//
//	WriteSent -> Verifying -> {Confirmed, Repaired, Unconfirmed}
//
// After the write is accepted, the engine waits a bounded grace interval,
// re-reads the asset, and compares against the intended end state. A
// checkout that re-reads as unassigned-but-ready gets exactly one
// compensating PATCH; any other shape is left alone so a lost race is
// never overwritten. Unconfirmed checkouts surface as a warning outcome
// (the upstream may simply be slow); unconfirmed transfers are hard
// failures, since a transfer has no safe partial-success reading.
//
// # Outcomes
//
// Failures are value-level (OperationError with a kind: not_found,
// already_in_state, held_by_other, precondition_failed,
// upstream_write_failed); successes carry warnings, correction and
// cross-user flags. Nothing here is silent: every custody mutation emits
// an audit event.
package custody
