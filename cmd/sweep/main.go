package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"solar_simulator/internal/config"
	"solar_simulator/internal/ingest"
	"solar_simulator/internal/model"
	"solar_simulator/internal/report"
	"solar_simulator/internal/simulator"
)

func main() {
	config.LoadEnv()
	settings := config.SettingsFromEnv()

	profilePath := flag.String("profile", settings.ProfilePath, "profile file (.csv or SIM_DATA .js/.json)")
	paramsPath := flag.String("params", "", "base parameter file; capacity and power are overridden")
	capsFlag := flag.String("capacities", "0,2.5,5,7.5,10,12.5,15,20,25,30", "comma-separated battery capacities in kWh")
	cRate := flag.Float64("max-power-rate", 0.5, "max charge/discharge power as a fraction of capacity per hour")
	workers := flag.Int("workers", 0, "parallel runs (0 = GOMAXPROCS)")
	partial := flag.Bool("partial-year", false, "accept profiles that do not cover one full calendar year")
	flag.Parse()

	capacities, err := parseCapacities(*capsFlag)
	if err != nil {
		log.Fatalf("Invalid capacities %q: %v", *capsFlag, err)
	}
	sort.Float64s(capacities)

	profile, err := ingest.LoadFile(*profilePath, ingest.Options{AllowPartialYear: *partial})
	if err != nil {
		log.Fatalf("Loading profile: %v", err)
	}

	base := model.DefaultParams()
	if *paramsPath != "" {
		var issues []config.Issue
		base, issues, err = config.LoadParams(*paramsPath)
		if err != nil {
			log.Fatalf("Loading params: %v", err)
		}
		for _, i := range issues {
			log.Printf("Warning: param %s", i)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := simulator.New().Sweep(ctx, profile, capacitySets(base, capacities, *cRate), *workers)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	tr := profile.TimeRange()
	fmt.Println()
	fmt.Println("Battery Size Comparison")
	fmt.Printf("  Power rate: %.2f kW per kWh\n", *cRate)
	fmt.Printf("  Data: %s to %s (%d steps)\n", tr.Start.Date(), tr.End.Date(), profile.Len())
	fmt.Printf("  Solar %.1f kWp, heat pump factor %.2f, EV %.0f km/day\n", base.SolarSizeKWp, base.HeatPumpFactor, base.EVDailyDistanceKm)
	fmt.Println()
	report.WriteSweepTable(os.Stdout, results)
	fmt.Println()
}

// capacitySets derives one parameter set per capacity from base.
func capacitySets(base model.Params, capacities []float64, cRate float64) []model.Params {
	sets := make([]model.Params, len(capacities))
	for i, c := range capacities {
		p := base
		p.BatteryCapacityKWh = c
		p.BatteryMaxPowerKW = c * cRate
		sets[i] = p
	}
	return sets
}

func parseCapacities(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	caps := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("capacity must not be negative, got %v", v)
		}
		caps = append(caps, v)
	}
	if len(caps) == 0 {
		return nil, fmt.Errorf("no capacities specified")
	}
	return caps, nil
}
