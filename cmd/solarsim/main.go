package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"solar_simulator/internal/config"
	"solar_simulator/internal/ingest"
	"solar_simulator/internal/model"
	"solar_simulator/internal/report"
	"solar_simulator/internal/session"
	"solar_simulator/internal/store"
)

func main() {
	config.LoadEnv()
	settings := config.SettingsFromEnv()

	profilePath := flag.String("profile", settings.ProfilePath, "profile file (.csv or SIM_DATA .js/.json)")
	paramsPath := flag.String("params", "", "parameter file (.json or .yaml); changes are saved back to it")
	csvPath := flag.String("csv", "", "write step results to this CSV file")
	monthlyPath := flag.String("monthly-csv", "", "write the monthly table to this CSV file")
	day := flag.String("day", "", "print the summary of one day (YYYY-MM-DD)")
	interactive := flag.Bool("interactive", false, "start an interactive what-if shell")
	partial := flag.Bool("partial-year", false, "accept profiles that do not cover one full calendar year")
	flag.Parse()

	sess, err := session.Open(*profilePath, *paramsPath, ingest.Options{AllowPartialYear: *partial})
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}

	run, err := sess.Recompute()
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	fmt.Println()
	fmt.Println("Parameters")
	report.WriteParams(os.Stdout, run.Params)
	fmt.Println()
	fmt.Println("Annual summary")
	report.WriteSummary(os.Stdout, run.Summary)
	fmt.Println()

	if *day != "" {
		if err := printDay(os.Stdout, sess, *day); err != nil {
			log.Fatalf("Day summary: %v", err)
		}
	}
	if *csvPath != "" {
		if err := writeResults(*csvPath, run.Results); err != nil {
			log.Fatalf("Writing %s: %v", *csvPath, err)
		}
		log.Printf("Wrote %d steps to %s", len(run.Results), *csvPath)
	}
	if *monthlyPath != "" {
		if err := writeMonthly(*monthlyPath, run); err != nil {
			log.Fatalf("Writing %s: %v", *monthlyPath, err)
		}
		log.Printf("Wrote monthly table to %s", *monthlyPath)
	}

	if *interactive {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runShell(ctx, sess); err != nil {
			log.Fatalf("Shell: %v", err)
		}
	}
}

func writeResults(path string, results []model.StepResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteResultsCSV(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMonthly(path string, run *store.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteMonthlyCSV(f, run.Monthly); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
