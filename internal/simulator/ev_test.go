package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solar_simulator/internal/model"
)

func TestEVCharger_Duration(t *testing.T) {
	c := DefaultEVCharger()

	assert.InDelta(t, 10000, c.EnergyNeededWh(50), 1e-9)
	assert.InDelta(t, 10000.0/11000.0, c.RequiredHours(50), 1e-9)
	assert.InDelta(t, 0, c.RequiredHours(0), 1e-9)
}

func TestEVCharger_LoadW(t *testing.T) {
	c := DefaultEVCharger()
	day := model.NewTimestamp(2025, time.March, 10, 0, 0)

	tests := []struct {
		hour, minute int
		want         float64
	}{
		{0, 0, 0},
		{17, 45, 0},
		{18, 0, 11000},
		{18, 15, 11000},
		{18, 30, 11000},
		{18, 45, 11000},
		{19, 0, 0},
		{23, 45, 0},
	}

	for _, tt := range tests {
		ts := day.Add(time.Duration(tt.hour)*time.Hour + time.Duration(tt.minute)*time.Minute)
		t.Run(ts.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, c.LoadW(ts, 50), 1e-9)
		})
	}
}

func TestEVCharger_WholeDayWindow(t *testing.T) {
	c := DefaultEVCharger()
	required := c.RequiredHours(50)
	day := model.NewTimestamp(2025, time.August, 2, 0, 0)

	charging := 0
	for i := range model.StepsPerDay {
		ts := day.Add(time.Duration(i) * model.StepDuration)
		elapsed := c.ElapsedHours(ts)
		want := 0.0
		if elapsed >= 0 && elapsed < required {
			want = 11000
			charging++
		}
		assert.InDelta(t, want, c.LoadW(ts, 50), 1e-9, "step %s", ts)
	}
	assert.Equal(t, 4, charging)
}

func TestEVCharger_NoDistance(t *testing.T) {
	c := DefaultEVCharger()
	ts := model.NewTimestamp(2025, time.March, 10, 18, 0)
	assert.InDelta(t, 0, c.LoadW(ts, 0), 1e-9)
}

func TestEVCharger_StopsAtMidnight(t *testing.T) {
	c := DefaultEVCharger()
	// 400 km needs 80 kWh, about 7.3 h: would run past midnight
	late := model.NewTimestamp(2025, time.March, 10, 23, 45)
	early := model.NewTimestamp(2025, time.March, 11, 0, 30)

	assert.InDelta(t, 11000, c.LoadW(late, 400), 1e-9)
	assert.InDelta(t, 0, c.LoadW(early, 400), 1e-9)
}
