package report

import (
	"fmt"
	"io"

	"solar_simulator/internal/model"
	"solar_simulator/internal/simulator"
)

// WriteParams prints the parameter set, one field per line.
func WriteParams(w io.Writer, p model.Params) {
	fmt.Fprintf(w, "  Solar size:        %6.1f kWp\n", p.SolarSizeKWp)
	fmt.Fprintf(w, "  Battery capacity:  %6.1f kWh\n", p.BatteryCapacityKWh)
	fmt.Fprintf(w, "  Battery max power: %6.1f kW\n", p.BatteryMaxPowerKW)
	fmt.Fprintf(w, "  Heat pump factor:  %6.2f\n", p.HeatPumpFactor)
	fmt.Fprintf(w, "  EV daily distance: %6.1f km\n", p.EVDailyDistanceKm)
}

// WriteSummary prints annual totals and the two KPIs.
func WriteSummary(w io.Writer, s simulator.Summary) {
	fmt.Fprintf(w, "  Solar production:  %10.1f kWh\n", s.SolarWh/1000)
	fmt.Fprintf(w, "  Consumption:       %10.1f kWh (house %.1f, heat pump %.1f, EV %.1f)\n",
		s.LoadWh/1000, s.NormalLoadWh/1000, s.HeatPumpWh/1000, s.EVWh/1000)
	fmt.Fprintf(w, "  Grid import:       %10.1f kWh\n", s.GridImportWh/1000)
	fmt.Fprintf(w, "  Grid export:       %10.1f kWh\n", s.GridExportWh/1000)
	fmt.Fprintf(w, "  Battery in/out:    %10.1f / %.1f kWh\n", s.BatteryChargeWh/1000, s.BatteryDischargeWh/1000)
	fmt.Fprintf(w, "  Self-sufficiency:  %10.1f %%\n", s.SelfSufficiency*100)
	fmt.Fprintf(w, "  Self-consumption:  %10.1f %%\n", s.SelfConsumption*100)
}

// WriteDay prints a daily summary.
func WriteDay(w io.Writer, d simulator.DaySummary) {
	fmt.Fprintf(w, "  %s (%d steps)\n", d.Date, d.Steps)
	fmt.Fprintf(w, "  Solar %.2f kWh, load %.2f kWh, EV %.2f kWh\n", d.SolarWh/1000, d.LoadWh/1000, d.EVWh/1000)
	fmt.Fprintf(w, "  Import %.2f kWh, export %.2f kWh, net %+.2f kWh\n", d.GridImportWh/1000, d.GridExportWh/1000, d.NetGridWh/1000)
	fmt.Fprintf(w, "  Battery discharge %.2f kWh\n", d.BatteryDischargeWh/1000)
}

// WriteMonthlyTable prints the monthly buckets as an aligned table.
func WriteMonthlyTable(w io.Writer, months [12]simulator.MonthBucket) {
	fmt.Fprintf(w, " %5s │ %9s │ %9s │ %9s │ %9s │ %9s │ %9s\n",
		"Month", "Solar", "Load", "Heat pump", "EV", "Import", "Export")
	fmt.Fprintf(w, "───────┼───────────┼───────────┼───────────┼───────────┼───────────┼───────────\n")
	for _, m := range months {
		fmt.Fprintf(w, " %5s │ %9.1f │ %9.1f │ %9.1f │ %9.1f │ %9.1f │ %9.1f\n",
			m.Month.String()[:3],
			m.SolarWh/1000,
			m.LoadWh/1000,
			m.HeatPumpWh/1000,
			m.EVWh/1000,
			m.GridImportWh/1000,
			m.GridExportWh/1000,
		)
	}
}

// WriteSweepTable compares sweep results, ordered as given. The marginal
// column is the import saved per extra kWh of capacity versus the row above.
func WriteSweepTable(w io.Writer, results []simulator.SweepResult) {
	fmt.Fprintf(w, " %8s │ %9s │ %11s │ %11s │ %8s │ %9s │ %9s\n",
		"Capacity", "Max Power", "Grid Import", "Grid Export", "Marginal", "Self-Suff", "Self-Cons")
	fmt.Fprintf(w, "──────────┼───────────┼─────────────┼─────────────┼──────────┼───────────┼───────────\n")

	for i, r := range results {
		marginal := "-"
		if i > 0 {
			prev := results[i-1]
			dCap := r.Params.BatteryCapacityKWh - prev.Params.BatteryCapacityKWh
			if dCap > 0 {
				m := (prev.Summary.GridImportWh - r.Summary.GridImportWh) / 1000 / dCap
				marginal = fmt.Sprintf("%.1f", m)
			}
		}

		fmt.Fprintf(w, " %4.1f kWh │ %5.1f kW  │ %7.1f kWh │ %7.1f kWh │ %8s │ %8.1f%% │ %8.1f%%\n",
			r.Params.BatteryCapacityKWh,
			r.Params.BatteryMaxPowerKW,
			r.Summary.GridImportWh/1000,
			r.Summary.GridExportWh/1000,
			marginal,
			r.Summary.SelfSufficiency*100,
			r.Summary.SelfConsumption*100,
		)
	}
}
