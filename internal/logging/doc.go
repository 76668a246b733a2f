// Package logging constructs the slog loggers used across storyloom.
//
// It offers a compact console format for interactive use, a JSON format for
// log files, typed attribute helpers, and standardized field keys so that
// job, scene, and phase context stays greppable across components.
package logging
