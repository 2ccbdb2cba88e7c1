package simulator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solar_simulator/internal/model"
)

var yearStart = model.NewTimestamp(2025, time.January, 1, 0, 0)

// syntheticSample returns a plausible reference step: a solar bell between
// 06:00 and 18:00 (stronger in summer), a base load with an evening bump and
// a heat pump that runs harder in winter.
func syntheticSample(ts model.Timestamp) model.Sample {
	h := ts.HourOfDay()
	season := 0.5 + 0.5*math.Sin(float64(ts.MonthIndex())/11*math.Pi)

	solar := 0.0
	if h > 6 && h < 18 {
		solar = 12000 * season * math.Sin(math.Pi*(h-6)/12)
	}
	load := 350 + 900*math.Exp(-(h-19)*(h-19)/5)
	hp := 1500 * (1 - season)

	return model.Sample{Timestamp: ts, SolarW: solar, BaseLoadW: load, HeatPumpW: hp}
}

func makeProfile(t *testing.T, start model.Timestamp, steps int) *model.Profile {
	t.Helper()
	samples := make([]model.Sample, steps)
	for i := range samples {
		samples[i] = syntheticSample(start.Add(time.Duration(i) * model.StepDuration))
	}
	p, err := model.NewProfile(samples)
	require.NoError(t, err)
	return p
}

func makeYearProfile(t *testing.T) *model.Profile {
	t.Helper()
	return makeProfile(t, yearStart, model.DaysInYear(2025)*model.StepsPerDay)
}

func profileFromSamples(t *testing.T, samples []model.Sample) *model.Profile {
	t.Helper()
	p, err := model.NewProfile(samples)
	require.NoError(t, err)
	return p
}
