package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"solar_simulator/internal/model"
	"solar_simulator/internal/simulator"
)

var resultHeader = []string{
	"ts",
	"solar_w",
	"normal_w",
	"hp_w",
	"ev_w",
	"final_load",
	"batt_soc",
	"batt_wh",
	"grid_import",
	"grid_export",
	"batt_power",
}

// WriteResultsCSV writes one row per step.
func WriteResultsCSV(out io.Writer, results []model.StepResult) error {
	w := csv.NewWriter(out)

	if err := w.Write(resultHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Timestamp.String(),
			fmtFloat(r.SolarW),
			fmtFloat(r.NormalLoadW),
			fmtFloat(r.HeatPumpLoadW),
			fmtFloat(r.EVLoadW),
			fmtFloat(r.FinalLoadW),
			fmtFloat(r.BatterySoCPct),
			fmtFloat(r.BatteryEnergyWh),
			fmtFloat(r.GridImportW),
			fmtFloat(r.GridExportW),
			fmtFloat(r.BatteryPowerW),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

var monthlyHeader = []string{
	"month",
	"solar_kwh",
	"load_kwh",
	"normal_kwh",
	"heat_pump_kwh",
	"ev_kwh",
	"grid_import_kwh",
	"grid_export_kwh",
}

// WriteMonthlyCSV writes the twelve calendar-month buckets in kWh.
func WriteMonthlyCSV(out io.Writer, months [12]simulator.MonthBucket) error {
	w := csv.NewWriter(out)

	if err := w.Write(monthlyHeader); err != nil {
		return err
	}
	for i, m := range months {
		row := []string{
			strconv.Itoa(i + 1),
			fmtKWh(m.SolarWh),
			fmtKWh(m.LoadWh),
			fmtKWh(m.NormalLoadWh),
			fmtKWh(m.HeatPumpWh),
			fmtKWh(m.EVWh),
			fmtKWh(m.GridImportWh),
			fmtKWh(m.GridExportWh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 3, 64)
}

func fmtKWh(wh float64) string {
	return strconv.FormatFloat(wh/1000, 'f', 3, 64)
}
