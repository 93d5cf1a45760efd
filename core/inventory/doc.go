// Package inventory implements the typed client for the external
// inventory service and the data model shared by every feature.
//
// The external API is eventually consistent and inconsistent about state
// representation, so this package centralizes the two things callers must
// never reimplement locally:
//
//   - Error classification: every call returns an *APIError with a Kind
//     (unauthorized, forbidden, not_found, rate_limited, server, network,
//     malformed) so callers can pick between surfacing, retrying and
//     degrading. See errors.go.
//   - Derived asset state: the "is checked out" boolean exists upstream as
//     three independent signals (assignee presence, status id, status
//     meta). Asset.Deployed is the single pure function that resolves
//     disagreements between them. See asset.go.
//
// Connections always validate TLS certificates and carry a fixed request
// timeout. Calls are logged with method, path and status only; credentials
// and response bodies never reach the log.
package inventory
