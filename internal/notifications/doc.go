// Package notifications delivers episode lifecycle events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-event toggles let users subscribe to ready, error, and
// completion events independently.
//
// Extend this package if you need alternative transports; workflow code
// depends only on the simple Service interface.
package notifications
