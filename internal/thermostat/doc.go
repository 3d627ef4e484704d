// Package thermostat provides a client for reading and setting a single
// thermostat through the vendor cloud REST API.
//
// # Usage Example
//
//	client, err := thermostat.NewClient(cfg.Device, cfg.Token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Read the current target temperature
//	tempF, err := client.Read(ctx)
//
//	// Set temperature and mode, then read back
//	update := thermostat.Update{}
//	update.TargetTemperatureF = &target
//	update.HVACMode = &mode
//	tempF, err = client.Apply(ctx, update)
//
// # Request Cycle
//
// Each logical call (one read, or one write) follows at most MaxRedirects
// 307 Temporary Redirect responses, replaying the identical method, headers
// and body against the Location URL. A further 307 fails the call with a
// redirect limit error. The redirect counter belongs to the call, so
// concurrent writes never share it.
//
// Any other non-2xx status is terminal and never retried: 429 becomes a rate
// limit error, 401/403 an authentication error, everything else an HTTP error.
//
// # Response Shapes
//
// A GET to the API root returns the account snapshot, indexed by device id:
//
//	{"devices": {"thermostats": {"<id>": {"target_temperature_f": 72}}}}
//
// Device-scoped responses carry target_temperature_f at the top level.
// A snapshot that does not contain the configured device is a lookup error.
//
// # Error Handling
//
// All operations return *Error values classified by ErrorType; use the IsX
// helpers or errors.As. Write failures from Apply are combined with multierr.
package thermostat
