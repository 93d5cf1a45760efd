// Package people covers badge sign-in, user creation and the VIP gate.
// Every sign-in attempt produces an audit event whether or not it
// succeeds; scanned barcodes themselves never reach the logs.
package people
