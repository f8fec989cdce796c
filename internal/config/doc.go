// Package config loads, normalizes, and validates DupeDNA settings.
//
// Values come from a TOML file, then environment variables (a .env file in
// the working directory is read first), then command-line flags applied by
// the caller. Paths with a leading tilde are expanded.
package config
