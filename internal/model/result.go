package model

// StepResult is the simulated energy balance of one profile step.
// BatteryPowerW is positive while charging and negative while discharging.
type StepResult struct {
	Timestamp       Timestamp `json:"ts"`
	SolarW          float64   `json:"solar_w"`
	NormalLoadW     float64   `json:"normal_w"`
	HeatPumpLoadW   float64   `json:"hp_w"`
	EVLoadW         float64   `json:"ev_w"`
	FinalLoadW      float64   `json:"final_load"`
	BatterySoCPct   float64   `json:"batt_soc"`
	BatteryEnergyWh float64   `json:"batt_wh"`
	GridImportW     float64   `json:"grid_import"`
	GridExportW     float64   `json:"grid_export"`
	BatteryPowerW   float64   `json:"batt_power"`
}

// ChargeW returns the charging part of BatteryPowerW.
func (r StepResult) ChargeW() float64 {
	if r.BatteryPowerW > 0 {
		return r.BatteryPowerW
	}
	return 0
}

// DischargeW returns the discharging part of BatteryPowerW as a positive value.
func (r StepResult) DischargeW() float64 {
	if r.BatteryPowerW < 0 {
		return -r.BatteryPowerW
	}
	return 0
}

// Frame is the per-step projection sampled by the animation driver.
type Frame struct {
	Timestamp     Timestamp `json:"ts"`
	Hour          float64   `json:"hour"`
	SolarW        float64   `json:"solar_w"`
	BatterySoCPct float64   `json:"batt_soc"`
	EVLoadW       float64   `json:"ev_w"`
	GridImportW   float64   `json:"grid_import"`
	GridExportW   float64   `json:"grid_export"`
	FinalLoadW    float64   `json:"final_load"`
}

// Frame projects the step for the animation driver.
func (r StepResult) Frame() Frame {
	return Frame{
		Timestamp:     r.Timestamp,
		Hour:          r.Timestamp.HourOfDay(),
		SolarW:        r.SolarW,
		BatterySoCPct: r.BatterySoCPct,
		EVLoadW:       r.EVLoadW,
		GridImportW:   r.GridImportW,
		GridExportW:   r.GridExportW,
		FinalLoadW:    r.FinalLoadW,
	}
}
