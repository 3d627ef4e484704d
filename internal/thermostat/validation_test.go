package thermostat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemperature_AcceptsRange(t *testing.T) {
	for tempF := MinTemperatureF; tempF <= MaxTemperatureF; tempF++ {
		arg := fmt.Sprintf("%d", tempF)
		t.Run(arg, func(t *testing.T) {
			got, err := ParseTemperature(arg)
			require.NoError(t, err)
			assert.Equal(t, float64(tempF), got)
		})
	}
}

func TestParseTemperature(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    float64
		wantErr string
	}{
		{name: "fractional", arg: "71.5", want: 71.5},
		{name: "surrounding space", arg: " 70 ", want: 70},
		{name: "lower bound", arg: "65.0", want: 65},
		{name: "below range", arg: "64", wantErr: "64 is too crazy!"},
		{name: "just below range", arg: "64.9", wantErr: "64.9 is too crazy!"},
		{name: "above range", arg: "77", wantErr: "77 is too crazy!"},
		{name: "far above range", arg: "120", wantErr: "120 is too crazy!"},
		{name: "not a number", arg: "warm", wantErr: "must be a number"},
		{name: "empty", arg: "", wantErr: "must be a number"},
		{name: "NaN", arg: "NaN", wantErr: "must be a number"},
		{name: "infinity", arg: "+Inf", wantErr: "must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTemperature(tt.arg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "heat", want: ModeHeat},
		{input: "cool", want: ModeCool},
		{input: "off", wantErr: true},
		{input: "heat-cool", wantErr: true},
		{input: "Heat", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				assert.Contains(t, err.Error(),
					fmt.Sprintf("Invalid mode '%s', accepted values are 'heat' and 'cool'", tt.input))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
