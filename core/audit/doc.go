// Package audit emits structured security audit events.
//
// Every custody mutation, sign-in attempt and administrative action
// produces an event with a stable kind string, the acting user and the
// request correlation id. Cross-user check-ins, denied transfers and
// unconfirmed verifications are security-relevant and must never be
// swallowed into generic logs; handlers and services record them here.
package audit
