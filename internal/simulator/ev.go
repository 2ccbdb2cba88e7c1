package simulator

import "solar_simulator/internal/model"

// EV charging defaults.
const (
	DefaultEVEnergyPerKmWh   = 200.0
	DefaultEVChargePowerW    = 11000.0
	DefaultEVWindowStartHour = 18
)

// EVCharger synthesizes the EV charging load from the time of day alone.
//
// The vehicle is assumed to need the same energy every day and to start
// charging at full rated power when the window opens, whatever the battery or
// grid state. No energy-delivered counter is carried between steps, and a
// charge does not continue past midnight.
type EVCharger struct {
	EnergyPerKmWh   float64
	ChargePowerW    float64
	WindowStartHour int
}

// DefaultEVCharger returns the 11 kW home charger opening at 18:00.
func DefaultEVCharger() EVCharger {
	return EVCharger{
		EnergyPerKmWh:   DefaultEVEnergyPerKmWh,
		ChargePowerW:    DefaultEVChargePowerW,
		WindowStartHour: DefaultEVWindowStartHour,
	}
}

// EnergyNeededWh returns the daily energy for the given distance.
func (c EVCharger) EnergyNeededWh(distanceKm float64) float64 {
	return distanceKm * c.EnergyPerKmWh
}

// RequiredHours returns how long the charger runs at rated power each day.
func (c EVCharger) RequiredHours(distanceKm float64) float64 {
	if c.ChargePowerW <= 0 {
		return 0
	}
	return c.EnergyNeededWh(distanceKm) / c.ChargePowerW
}

// ElapsedHours returns hours since the window opened on ts's own calendar
// day; negative before it opens.
func (c EVCharger) ElapsedHours(ts model.Timestamp) float64 {
	return ts.HourOfDay() - float64(c.WindowStartHour)
}

// LoadW returns the charging power for the step at ts. Charging is a hard
// cut-off at the computed duration, with no partial last step.
func (c EVCharger) LoadW(ts model.Timestamp, distanceKm float64) float64 {
	required := c.RequiredHours(distanceKm)
	if required <= 0 {
		return 0
	}
	elapsed := c.ElapsedHours(ts)
	if elapsed >= 0 && elapsed < required {
		return c.ChargePowerW
	}
	return 0
}
