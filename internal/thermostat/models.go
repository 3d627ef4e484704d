package thermostat

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Mode is the HVAC operating mode of a thermostat.
type Mode string

const (
	ModeHeat Mode = "heat"
	ModeCool Mode = "cool"
)

// Thermostat is the device-scoped representation returned by
// GET/PUT /devices/thermostats/{id}. Unknown fields are ignored.
type Thermostat struct {
	DeviceID            string   `json:"device_id,omitempty"`
	Name                string   `json:"name,omitempty"`
	TargetTemperatureF  *float64 `json:"target_temperature_f,omitempty"`
	AmbientTemperatureF *float64 `json:"ambient_temperature_f,omitempty"`
	HVACMode            string   `json:"hvac_mode,omitempty"`
	TemperatureScale    string   `json:"temperature_scale,omitempty"`
}

// Snapshot is the account tree returned by a bare GET to the API root.
type Snapshot struct {
	Devices struct {
		Thermostats map[string]Thermostat `json:"thermostats"`
	} `json:"devices"`
}

// Update is the body of a PUT to a thermostat. Only non-nil fields are sent.
type Update struct {
	TargetTemperatureF *float64 `json:"target_temperature_f,omitempty"`
	HVACMode           *Mode    `json:"hvac_mode,omitempty"`
}

// NewTemperatureUpdate returns an update that only sets the target temperature.
func NewTemperatureUpdate(tempF float64) Update {
	return Update{TargetTemperatureF: &tempF}
}

// NewModeUpdate returns an update that only sets the HVAC mode.
func NewModeUpdate(mode Mode) Update {
	return Update{HVACMode: &mode}
}

// IsEmpty reports whether the update would change nothing.
func (u Update) IsEmpty() bool {
	return u.TargetTemperatureF == nil && u.HVACMode == nil
}

// Split breaks an update into one single-field update per field, in
// temperature, mode order. Each part touches an independent field, so the
// parts can be applied in any order.
func (u Update) Split() []Update {
	var parts []Update
	if u.TargetTemperatureF != nil {
		parts = append(parts, Update{TargetTemperatureF: u.TargetTemperatureF})
	}
	if u.HVACMode != nil {
		parts = append(parts, Update{HVACMode: u.HVACMode})
	}
	return parts
}

// String describes the update for logs.
func (u Update) String() string {
	switch {
	case u.TargetTemperatureF != nil && u.HVACMode != nil:
		return fmt.Sprintf("target_temperature_f=%s hvac_mode=%s", FormatTemperature(*u.TargetTemperatureF), *u.HVACMode)
	case u.TargetTemperatureF != nil:
		return "target_temperature_f=" + FormatTemperature(*u.TargetTemperatureF)
	case u.HVACMode != nil:
		return "hvac_mode=" + string(*u.HVACMode)
	default:
		return "(empty)"
	}
}

// FormatTemperature renders a temperature as a bare number: 72, 71.5.
func FormatTemperature(tempF float64) string {
	return strconv.FormatFloat(tempF, 'f', -1, 64)
}

// ParseTargetTemperature extracts the target temperature for device from a
// response body. Device-scoped bodies carry target_temperature_f at the top
// level; account snapshots are indexed by device id.
func ParseTargetTemperature(body []byte, device string) (float64, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return 0, NewParseError("failed to parse JSON response", err)
	}

	if _, ok := probe["devices"]; ok {
		var snap Snapshot
		if err := json.Unmarshal(body, &snap); err != nil {
			return 0, NewParseError("failed to parse account snapshot", err)
		}
		t, ok := snap.Devices.Thermostats[device]
		if !ok {
			return 0, NewLookupError(device)
		}
		if t.TargetTemperatureF == nil {
			return 0, NewParseError(fmt.Sprintf("thermostat %q has no target_temperature_f", device), nil)
		}
		return *t.TargetTemperatureF, nil
	}

	var t Thermostat
	if err := json.Unmarshal(body, &t); err != nil {
		return 0, NewParseError("failed to parse thermostat response", err)
	}
	if t.TargetTemperatureF == nil {
		return 0, NewParseError("response has no target_temperature_f", nil)
	}
	return *t.TargetTemperatureF, nil
}
