package simulator

import (
	"math"

	"solar_simulator/internal/model"
)

// Battery tracks stored energy for one run. It starts empty and is never
// shared between runs.
type Battery struct {
	capacityWh float64
	maxPowerW  float64
	storedWh   float64
}

// Flow is the outcome of balancing one step through the battery.
type Flow struct {
	ChargeWh    float64
	DischargeWh float64
	GridImportW float64
	GridExportW float64
}

// BatteryPowerW returns the signed average battery power (positive = charging).
func (f Flow) BatteryPowerW() float64 {
	return (f.ChargeWh - f.DischargeWh) / model.StepHours
}

// NewBattery creates an empty battery.
func NewBattery(capacityWh, maxPowerW float64) *Battery {
	return &Battery{capacityWh: capacityWh, maxPowerW: maxPowerW}
}

func (b *Battery) StoredWh() float64 { return b.storedWh }

func (b *Battery) CapacityWh() float64 { return b.capacityWh }

// SoCPercent returns stored energy as a percentage of capacity, 0 for a
// zero-capacity battery.
func (b *Battery) SoCPercent() float64 {
	if b.capacityWh <= 0 {
		return 0
	}
	return b.storedWh / b.capacityWh * 100
}

// Balance routes one step's net power (solar minus load) through the battery
// and the grid. A surplus charges first and exports the rest; a deficit
// discharges first and imports the rest.
func (b *Battery) Balance(netW float64) Flow {
	maxStepWh := b.maxPowerW * model.StepHours

	if netW > 0 {
		chargeWh := 0.0
		if b.capacityWh > 0 {
			chargeWh = math.Min(netW*model.StepHours, math.Min(maxStepWh, b.capacityWh-b.storedWh))
			chargeWh = math.Max(chargeWh, 0)
		}
		b.storedWh = math.Min(b.storedWh+chargeWh, b.capacityWh)
		return Flow{
			ChargeWh:    chargeWh,
			GridExportW: math.Max(netW-chargeWh/model.StepHours, 0),
		}
	}

	deficitW := -netW
	dischargeWh := 0.0
	if b.capacityWh > 0 {
		dischargeWh = math.Min(deficitW*model.StepHours, math.Min(maxStepWh, b.storedWh))
		dischargeWh = math.Max(dischargeWh, 0)
	}
	b.storedWh = math.Max(b.storedWh-dischargeWh, 0)
	return Flow{
		DischargeWh: dischargeWh,
		GridImportW: math.Max(deficitW-dischargeWh/model.StepHours, 0),
	}
}
