package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"solar_simulator/internal/model"
	"solar_simulator/internal/simulator"
)

// Run is one completed simulation with its aggregates. A Run is never
// modified after NewRun returns.
type Run struct {
	ID          uuid.UUID                 `json:"id"`
	CompletedAt time.Time                 `json:"completed_at"`
	Duration    time.Duration             `json:"duration_ns"`
	Params      model.Params              `json:"params"`
	Results     []model.StepResult        `json:"-"`
	Summary     simulator.Summary         `json:"summary"`
	Monthly     [12]simulator.MonthBucket `json:"monthly"`
}

// NewRun wraps the results of one engine pass.
func NewRun(params model.Params, results []model.StepResult, took time.Duration) *Run {
	return &Run{
		ID:          uuid.New(),
		CompletedAt: time.Now().UTC(),
		Duration:    took,
		Params:      params,
		Results:     results,
		Summary:     simulator.Summarize(results),
		Monthly:     simulator.Monthly(results),
	}
}

// TimeRange returns the span of the run's steps.
func (r *Run) TimeRange() (model.TimeRange, bool) {
	if r == nil || len(r.Results) == 0 {
		return model.TimeRange{}, false
	}
	return model.TimeRange{
		Start: r.Results[0].Timestamp,
		End:   r.Results[len(r.Results)-1].Timestamp,
	}, true
}

// Store holds the most recent completed run.
type Store struct {
	mu      sync.RWMutex
	current *Run
}

func New() *Store {
	return &Store{}
}

// Replace swaps in a new run and returns the previous one (nil if none).
func (s *Store) Replace(run *Run) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = run
	return prev
}

// Current returns the stored run.
func (s *Store) Current() (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Day returns a copy of the steps of one calendar day and their summary.
// ok is false when the day has no steps.
func (r *Run) Day(day model.Timestamp) ([]model.StepResult, simulator.DaySummary, bool) {
	if r == nil {
		return nil, simulator.DaySummary{}, false
	}
	steps := simulator.DaySteps(r.Results, day)
	if len(steps) == 0 {
		return nil, simulator.DaySummary{}, false
	}

	result := make([]model.StepResult, len(steps))
	copy(result, steps)
	return result, simulator.SummarizeDay(r.Results, day), true
}

// StepAt returns the step at or before ts.
func (r *Run) StepAt(ts model.Timestamp) (model.StepResult, bool) {
	if r == nil || len(r.Results) == 0 {
		return model.StepResult{}, false
	}
	all := r.Results

	// Find first step after ts
	idx := sort.Search(len(all), func(i int) bool {
		return all[i].Timestamp.After(ts)
	})

	if idx == 0 {
		return model.StepResult{}, false
	}

	return all[idx-1], true
}

// FrameAt projects the step at or before ts for the animation driver.
func (r *Run) FrameAt(ts model.Timestamp) (model.Frame, bool) {
	step, ok := r.StepAt(ts)
	if !ok {
		return model.Frame{}, false
	}
	return step.Frame(), true
}

// Day looks up a day in the current run.
func (s *Store) Day(day model.Timestamp) ([]model.StepResult, simulator.DaySummary, bool) {
	run, _ := s.Current()
	return run.Day(day)
}

// StepAt looks up a step in the current run.
func (s *Store) StepAt(ts model.Timestamp) (model.StepResult, bool) {
	run, _ := s.Current()
	return run.StepAt(ts)
}

// FrameAt looks up a frame in the current run.
func (s *Store) FrameAt(ts model.Timestamp) (model.Frame, bool) {
	run, _ := s.Current()
	return run.FrameAt(ts)
}
