// Package config provides configuration management for the kiosk service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided
// into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Inventory: external inventory API URL/token, request timeout,
//     verification cycles, grace delay, status ids and the custom-field
//     name candidates used for inventory-number display
//   - Database: agreement journal connection details
//   - Storage: agreement archive (S3/MinIO) credentials and bucket
//   - Log: logging level and format
//
// None of the engine's tunables are hardcoded; everything above arrives
// through this package.
package config
