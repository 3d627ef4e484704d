// Package ui renders the nest command's human-facing output on stderr.
//
// Standard output is reserved for the bare temperature so the command can be
// used in scripts; everything in this package writes to the writer it is
// given, which is stderr in practice.
//
// # Components
//
//   - Printer: error boxes with troubleshooting tips and usage errors.
//     Falls back to plain text when the writer is not a terminal.
//   - RunSpinner: a Bubble Tea spinner shown while API calls are in flight.
//     It only animates on an interactive terminal and never reads stdin.
//
// # Logging Integration
//
// zap logging is silent unless NEST_LOG_LEVEL is set, so the styled output
// here is normally the only thing on stderr.
package ui
