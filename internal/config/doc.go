// Package config loads, normalizes, and validates tunebridge configuration.
//
// Configuration is a TOML file merged over repository defaults. All path
// fields are expanded (including ~) before validation, so the rest of the
// application never sees unresolved paths.
package config
