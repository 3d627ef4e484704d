// Package logging provides structured logging for the nest CLI.
//
// This package wraps a global zap logger with convenience functions for the
// request cycle against the thermostat API.
//
// # Silent by Default
//
// The CLI prints a bare temperature on stdout and nothing else, so logging is
// disabled unless NEST_LOG_LEVEL (or --log-level) is set to "debug", "info",
// "warn" or "error". Log output always goes to stderr.
//
// # Structured Logging
//
// Every logical API call gets a correlation id so interleaved concurrent
// writes can be told apart:
//
//	logging.LogRequest(callID, "PUT", url, 0)
//	logging.LogRedirect(callID, from, to, 1)
//	logging.LogResponse(callID, 200, elapsed)
//
// # Configuration
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
