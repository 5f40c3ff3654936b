// Package config loads the service settings from config.yaml, a .env file
// and WORKFORCE_ environment variables, and validates them before any
// component starts.
package config
