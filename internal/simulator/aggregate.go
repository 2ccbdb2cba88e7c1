package simulator

import (
	"sort"
	"time"

	"solar_simulator/internal/model"
)

// Totals holds energy sums (Wh) over a set of steps.
type Totals struct {
	SolarWh            float64 `json:"solar_wh"`
	LoadWh             float64 `json:"load_wh"`
	NormalLoadWh       float64 `json:"normal_load_wh"`
	HeatPumpWh         float64 `json:"heat_pump_wh"`
	EVWh               float64 `json:"ev_wh"`
	GridImportWh       float64 `json:"grid_import_wh"`
	GridExportWh       float64 `json:"grid_export_wh"`
	BatteryChargeWh    float64 `json:"battery_charge_wh"`
	BatteryDischargeWh float64 `json:"battery_discharge_wh"`
}

func (t *Totals) add(r model.StepResult) {
	t.SolarWh += r.SolarW * model.StepHours
	t.LoadWh += r.FinalLoadW * model.StepHours
	t.NormalLoadWh += r.NormalLoadW * model.StepHours
	t.HeatPumpWh += r.HeatPumpLoadW * model.StepHours
	t.EVWh += r.EVLoadW * model.StepHours
	t.GridImportWh += r.GridImportW * model.StepHours
	t.GridExportWh += r.GridExportW * model.StepHours
	t.BatteryChargeWh += r.ChargeW() * model.StepHours
	t.BatteryDischargeWh += r.DischargeW() * model.StepHours
}

// NetGridWh is import minus export.
func (t Totals) NetGridWh() float64 { return t.GridImportWh - t.GridExportWh }

// SelfSufficiency is the fraction of load met without grid import, 0 when
// there is no load.
func (t Totals) SelfSufficiency() float64 {
	if t.LoadWh <= 0 {
		return 0
	}
	return 1 - t.GridImportWh/t.LoadWh
}

// SelfConsumption is the fraction of solar production used on site, 0 when
// there is no production.
func (t Totals) SelfConsumption() float64 {
	if t.SolarWh <= 0 {
		return 0
	}
	return 1 - t.GridExportWh/t.SolarWh
}

// Sum reduces results into totals.
func Sum(results []model.StepResult) Totals {
	var t Totals
	for _, r := range results {
		t.add(r)
	}
	return t
}

// Summary is the run-level reduction with both efficiency KPIs.
type Summary struct {
	Totals
	Steps           int     `json:"steps"`
	SelfSufficiency float64 `json:"self_sufficiency"`
	SelfConsumption float64 `json:"self_consumption"`
}

// Summarize computes run totals and KPIs.
func Summarize(results []model.StepResult) Summary {
	t := Sum(results)
	return Summary{
		Totals:          t,
		Steps:           len(results),
		SelfSufficiency: t.SelfSufficiency(),
		SelfConsumption: t.SelfConsumption(),
	}
}

// DaySummary covers one calendar date.
type DaySummary struct {
	Totals
	Date      string  `json:"date"`
	Steps     int     `json:"steps"`
	NetGridWh float64 `json:"net_grid_wh"`
}

// DaySteps returns the results for the date of day. results must be in
// timestamp order; the returned slice aliases results.
func DaySteps(results []model.StepResult, day model.Timestamp) []model.StepResult {
	start := day.StartOfDay()
	end := start.Add(24 * time.Hour)
	lo := sort.Search(len(results), func(i int) bool {
		return !results[i].Timestamp.Before(start)
	})
	hi := sort.Search(len(results), func(i int) bool {
		return !results[i].Timestamp.Before(end)
	})
	if lo >= hi {
		return nil
	}
	return results[lo:hi]
}

// SummarizeDay reduces the steps of one date.
func SummarizeDay(results []model.StepResult, day model.Timestamp) DaySummary {
	steps := DaySteps(results, day)
	t := Sum(steps)
	return DaySummary{
		Totals:    t,
		Date:      day.Date(),
		Steps:     len(steps),
		NetGridWh: t.NetGridWh(),
	}
}

// MonthBucket holds the energy sums (Wh) of one calendar month.
type MonthBucket struct {
	Month        time.Month `json:"month"`
	SolarWh      float64    `json:"solar_wh"`
	LoadWh       float64    `json:"load_wh"`
	NormalLoadWh float64    `json:"normal_load_wh"`
	HeatPumpWh   float64    `json:"heat_pump_wh"`
	EVWh         float64    `json:"ev_wh"`
	GridImportWh float64    `json:"grid_import_wh"`
	GridExportWh float64    `json:"grid_export_wh"`
}

// Monthly buckets results by calendar month; index 0 is January.
func Monthly(results []model.StepResult) [12]MonthBucket {
	var months [12]MonthBucket
	for i := range months {
		months[i].Month = time.Month(i + 1)
	}
	for _, r := range results {
		m := &months[r.Timestamp.MonthIndex()]
		m.SolarWh += r.SolarW * model.StepHours
		m.LoadWh += r.FinalLoadW * model.StepHours
		m.NormalLoadWh += r.NormalLoadW * model.StepHours
		m.HeatPumpWh += r.HeatPumpLoadW * model.StepHours
		m.EVWh += r.EVLoadW * model.StepHours
		m.GridImportWh += r.GridImportW * model.StepHours
		m.GridExportWh += r.GridExportW * model.StepHours
	}
	return months
}
