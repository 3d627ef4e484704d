// Nest reads or sets the target temperature of a single thermostat through
// the vendor cloud API.
//
// Usage:
//
//	nest                  print the current target temperature
//	nest 72               set the target to 72°F, then print it
//	nest --mode cool 72   also switch the HVAC mode
//
// The device id and access token are read from config.json; see
// 'nest --help' for where it is looked up. Standard output only ever carries
// the temperature, so the command can be used from scripts.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
