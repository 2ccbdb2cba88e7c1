package simulator

import (
	"fmt"

	"solar_simulator/internal/model"
)

// Engine turns a profile and a parameter set into per-step results. It holds
// only fixed configuration; all run state lives inside Run.
type Engine struct {
	EV EVCharger
}

// New returns an engine with the default EV charger.
func New() *Engine {
	return &Engine{EV: DefaultEVCharger()}
}

// Run simulates every profile step in order and returns a freshly allocated
// result sequence. Parameters are expected to be validated and finite.
func (e *Engine) Run(profile *model.Profile, params model.Params) ([]model.StepResult, error) {
	if profile == nil || profile.Len() == 0 {
		return nil, fmt.Errorf("running simulation: %w", model.ErrEmptyProfile)
	}

	battery := NewBattery(params.CapacityWh(), params.MaxPowerW())
	solarScale := params.SolarScale()
	results := make([]model.StepResult, profile.Len())

	for i := 0; i < profile.Len(); i++ {
		s := profile.At(i)

		heatPumpW := s.HeatPumpW * params.HeatPumpFactor
		solarW := s.SolarW * solarScale
		evW := e.EV.LoadW(s.Timestamp, params.EVDailyDistanceKm)
		loadW := s.BaseLoadW + heatPumpW + evW

		flow := battery.Balance(solarW - loadW)

		results[i] = model.StepResult{
			Timestamp:       s.Timestamp,
			SolarW:          solarW,
			NormalLoadW:     s.BaseLoadW,
			HeatPumpLoadW:   heatPumpW,
			EVLoadW:         evW,
			FinalLoadW:      loadW,
			BatterySoCPct:   battery.SoCPercent(),
			BatteryEnergyWh: battery.StoredWh(),
			GridImportW:     flow.GridImportW,
			GridExportW:     flow.GridExportW,
			BatteryPowerW:   flow.BatteryPowerW(),
		}
	}

	return results, nil
}

// Run simulates with the default engine.
func Run(profile *model.Profile, params model.Params) ([]model.StepResult, error) {
	return New().Run(profile, params)
}
