// Package logging provides implementations of the ports.Logger interface:
// a ConsoleLogger writing text or JSON entries to stderr, and a discarding
// logger for when nothing is configured yet.
package logging

import "io"

// NewNopLogger returns a logger that drops every entry. It is a console
// logger on io.Discard, so level changes and With behave as they will once
// a real logger replaces it.
func NewNopLogger() *ConsoleLogger {
	return NewConsoleLogger(WithOutput(io.Discard), WithTimestamp(false))
}
