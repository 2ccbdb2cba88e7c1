package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"solar_simulator/internal/config"
	"solar_simulator/internal/model"
	"solar_simulator/internal/report"
	"solar_simulator/internal/session"
)

// shell executes what-if commands against a session.
type shell struct {
	sess *session.Session
	out  io.Writer
}

// handle runs one command line and reports whether the shell should exit.
func (s *shell) handle(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "show":
		fmt.Fprintln(s.out, "Parameters")
		report.WriteParams(s.out, s.sess.Params())
		if run, err := s.sess.CurrentRun(); err == nil {
			fmt.Fprintf(s.out, "Run %s\n", run.ID)
			report.WriteSummary(s.out, run.Summary)
		}

	case "set":
		if len(parts) != 3 {
			fmt.Fprintf(s.out, "Usage: set <field> <value> (fields: %s)\n", strings.Join(config.Fields(), ", "))
			return false
		}
		if !config.IsField(parts[1]) {
			fmt.Fprintf(s.out, "Unknown field %q (fields: %s)\n", parts[1], strings.Join(config.Fields(), ", "))
			return false
		}
		run, issues, err := s.sess.UpdateParams(map[string]any{parts[1]: parts[2]})
		for _, i := range issues {
			fmt.Fprintf(s.out, "Warning: %s\n", i)
		}
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return false
		}
		report.WriteSummary(s.out, run.Summary)

	case "run":
		run, err := s.sess.Recompute()
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return false
		}
		report.WriteSummary(s.out, run.Summary)

	case "day":
		if len(parts) != 2 {
			fmt.Fprintln(s.out, "Usage: day <YYYY-MM-DD>")
			return false
		}
		if err := printDay(s.out, s.sess, parts[1]); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}

	case "month", "monthly":
		run, err := s.sess.CurrentRun()
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return false
		}
		report.WriteMonthlyTable(s.out, run.Monthly)

	case "save":
		if err := s.sess.Save(); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(s.out, "Saved")

	case "help":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  show                 - Show parameters and the current summary")
		fmt.Fprintln(s.out, "  set <field> <value>  - Change a parameter and recompute")
		fmt.Fprintln(s.out, "  run                  - Recompute with the current parameters")
		fmt.Fprintln(s.out, "  day <YYYY-MM-DD>     - Summarize one day")
		fmt.Fprintln(s.out, "  month                - Show the monthly table")
		fmt.Fprintln(s.out, "  save                 - Save parameters to the params file")
		fmt.Fprintln(s.out, "  quit                 - Exit")

	case "quit", "exit":
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (try 'help')\n", parts[0])
	}
	return false
}

func printDay(w io.Writer, sess *session.Session, date string) error {
	day, err := model.ParseDate(date)
	if err != nil {
		return err
	}
	_, summary, ok := sess.Store().Day(day)
	if !ok {
		return fmt.Errorf("no steps for %s", day.Date())
	}
	report.WriteDay(w, summary)
	return nil
}

// historyFilePath returns the path of the shell history file.
func historyFilePath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(cacheDir, "solarsim")
	_ = os.MkdirAll(dir, 0o750)
	return filepath.Join(dir, "history")
}

func runShell(ctx context.Context, sess *session.Session) error {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("show"),
		readline.PcItem("set", fieldItems()...),
		readline.PcItem("run"),
		readline.PcItem("day"),
		readline.PcItem("month"),
		readline.PcItem("save"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "solarsim> ",
		HistoryFile:  historyFilePath(),
		AutoComplete: completer,
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer rl.Close()

	log.SetOutput(rl.Stderr())
	defer log.SetOutput(os.Stderr)

	sh := &shell{sess: sess, out: rl.Stdout()}
	fmt.Fprintln(sh.out, "Type 'help' for commands")

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if sh.handle(strings.TrimSpace(line)) {
			return nil
		}
	}
}

func fieldItems() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, f := range config.Fields() {
		items = append(items, readline.PcItem(f))
	}
	return items
}
