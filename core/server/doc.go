// Package server holds configuration for the HTTP surface of the kiosk.
package server
