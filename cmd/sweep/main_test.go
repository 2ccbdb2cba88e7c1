package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_simulator/internal/model"
)

func TestParseCapacities(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []float64
		wantErr bool
	}{
		{"list", "0, 5,10.5", []float64{0, 5, 10.5}, false},
		{"trailing comma", "5,", []float64{5}, false},
		{"negative", "5,-1", nil, true},
		{"text", "five", nil, true},
		{"empty", " , ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCapacities(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCapacitySets(t *testing.T) {
	base := model.DefaultParams()
	base.EVDailyDistanceKm = 30

	sets := capacitySets(base, []float64{0, 10, 20}, 0.5)
	require.Len(t, sets, 3)
	assert.Equal(t, 0.0, sets[0].BatteryMaxPowerKW)
	assert.Equal(t, 10.0, sets[1].BatteryCapacityKWh)
	assert.Equal(t, 5.0, sets[1].BatteryMaxPowerKW)
	assert.Equal(t, 10.0, sets[2].BatteryMaxPowerKW)
	assert.Equal(t, 30.0, sets[2].EVDailyDistanceKm)
}
