// Package config locates, decodes and validates the thermostat credentials
// file for the nest command.
//
// The file holds the id of the thermostat to control and a pre-provisioned
// API access token:
//
//	{
//	  "device": "peyiJNo0IldT2YlIVtYaGQ",
//	  "token": "c.abc123..."
//	}
//
// An optional "base_url" points the client at a different API root. Files
// with a .yaml or .yml extension are decoded as YAML with the same keys.
//
// # Configuration File Location
//
// The first candidate that applies wins:
//   - the path given with --config
//   - the NEST_CONFIG environment variable (which may come from a .env file)
//   - config.json next to the executable
//   - the OS config directory: $XDG_CONFIG_HOME/nest/config.json or
//     $HOME/.config/nest/config.json on Linux and macOS,
//     %LOCALAPPDATA%\nest\config.json on Windows
//
// # Security
//
// The token grants full control of the account's devices. Keep the file
// readable by the owner only; this package never writes it.
package config
