package model

// ReferenceSolarKWp is the size of the installation the profile's solar
// column was recorded on.
const ReferenceSolarKWp = 20.0

// Default parameter values, used whenever a persisted or submitted value is
// missing or invalid.
const (
	DefaultBatteryCapacityKWh = 10.0
	DefaultBatteryMaxPowerKW  = 5.0
	DefaultHeatPumpFactor     = 0.85
	DefaultSolarSizeKWp       = 20.0
	DefaultEVDailyDistanceKm  = 0.0
)

// Params holds the user-configurable simulation settings. The engine never
// mutates them.
type Params struct {
	BatteryCapacityKWh float64 `json:"battery_capacity_kwh" yaml:"battery_capacity_kwh"`
	BatteryMaxPowerKW  float64 `json:"battery_max_power_kw" yaml:"battery_max_power_kw"`
	HeatPumpFactor     float64 `json:"heat_pump_factor" yaml:"heat_pump_factor"`
	SolarSizeKWp       float64 `json:"solar_size_kwp" yaml:"solar_size_kwp"`
	EVDailyDistanceKm  float64 `json:"ev_daily_distance_km" yaml:"ev_daily_distance_km"`
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		BatteryCapacityKWh: DefaultBatteryCapacityKWh,
		BatteryMaxPowerKW:  DefaultBatteryMaxPowerKW,
		HeatPumpFactor:     DefaultHeatPumpFactor,
		SolarSizeKWp:       DefaultSolarSizeKWp,
		EVDailyDistanceKm:  DefaultEVDailyDistanceKm,
	}
}

// SolarScale is the ratio of configured to reference solar size.
func (p Params) SolarScale() float64 {
	return p.SolarSizeKWp / ReferenceSolarKWp
}

func (p Params) CapacityWh() float64 { return p.BatteryCapacityKWh * 1000 }

func (p Params) MaxPowerW() float64 { return p.BatteryMaxPowerKW * 1000 }
