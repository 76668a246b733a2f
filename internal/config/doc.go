// Package config loads, normalizes, and validates storyloom configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STORYLOOM_SERVICE_URL. Obtain settings through this package so downstream
// code receives sanitized paths, canonical log formats, and clear validation
// errors.
package config
