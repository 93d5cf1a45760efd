// Package database manages the optional agreement journal connection.
//
// The external inventory service remains the system of record for all
// asset and user state; nothing in this database ever shadows it. The
// journal only stores loan-agreement submissions for audit and reporting.
// When no database is reachable the kiosk runs without a journal.
package database
