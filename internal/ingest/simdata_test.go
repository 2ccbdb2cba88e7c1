package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_simulator/internal/model"
)

func TestSimDataParser_ScriptAssignment(t *testing.T) {
	input := `const SIM_DATA = [
{"ts":"2025-01-01 00:00","solar_w":0,"load_w":412,"hp_w":655},
{"ts":"2025-01-01 00:15","solar_w":5.5,"load_w":400,"hp_w":650}
];
`
	parser := &SimDataParser{}
	samples, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, model.NewTimestamp(2025, time.January, 1, 0, 15), samples[1].Timestamp)
	assert.InDelta(t, 5.5, samples[1].SolarW, 0.001)
	assert.InDelta(t, 400.0, samples[1].BaseLoadW, 0.001)
	assert.InDelta(t, 650.0, samples[1].HeatPumpW, 0.001)
}

func TestSimDataParser_BareArray(t *testing.T) {
	input := `[{"ts":"2025-03-01 12:00","solar_w":100,"load_w":200,"hp_w":300}]`

	parser := &SimDataParser{}
	samples, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "2025-03-01 12:00", samples[0].Timestamp.String())
}

func TestSimDataParser_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     string
		wantInvalid bool
	}{
		{"no array", `const SIM_DATA = {};`, "no JSON array", true},
		{"broken json", `[{"ts":]`, "decoding profile data", false},
		{"missing field", `[{"ts":"2025-01-01 00:00","solar_w":1,"load_w":2}]`, "record 0: missing hp_w", true},
		{"bad timestamp", `[{"ts":"nope","solar_w":1,"load_w":2,"hp_w":3}]`, "record 0", false},
		{"negative", `[{"ts":"2025-01-01 00:00","solar_w":1,"load_w":2,"hp_w":-3}]`, "record 0: hp_w", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &SimDataParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.wantInvalid {
				assert.True(t, errors.Is(err, model.ErrInvalidProfile))
			}
		})
	}
}
