package thermostat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Accepted target temperature range in Fahrenheit, inclusive.
const (
	MinTemperatureF = 65
	MaxTemperatureF = 76
)

// ParseTemperature parses a command-line temperature argument and checks
// that it is within [MinTemperatureF, MaxTemperatureF].
func ParseTemperature(arg string) (float64, error) {
	tempF, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil || math.IsNaN(tempF) || math.IsInf(tempF, 0) {
		return 0, NewValidationError(fmt.Sprintf("invalid temperature '%s': must be a number", arg))
	}
	if err := ValidateTemperature(tempF); err != nil {
		return 0, err
	}
	return tempF, nil
}

// ValidateTemperature rejects temperatures outside the accepted range.
func ValidateTemperature(tempF float64) error {
	if tempF < MinTemperatureF || tempF > MaxTemperatureF {
		return NewValidationError(fmt.Sprintf("%s is too crazy!", FormatTemperature(tempF)))
	}
	return nil
}

// ValidateMode accepts exactly "heat" or "cool".
func ValidateMode(mode string) (Mode, error) {
	switch Mode(mode) {
	case ModeHeat, ModeCool:
		return Mode(mode), nil
	}
	return "", NewValidationError(fmt.Sprintf("Invalid mode '%s', accepted values are 'heat' and 'cool'", mode))
}
