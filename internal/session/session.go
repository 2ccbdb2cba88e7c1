package session

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"solar_simulator/internal/config"
	"solar_simulator/internal/ingest"
	"solar_simulator/internal/model"
	"solar_simulator/internal/simulator"
	"solar_simulator/internal/store"
)

// ErrNoRun is returned by lookups made before the first recompute finished.
var ErrNoRun = errors.New("no completed run")

// Listener receives session events.
type Listener interface {
	OnParams(params model.Params)
	OnRun(run *store.Run)
}

// Session owns the loaded profile, the current parameters and the store of
// the latest run. Recompute is the only way results change.
type Session struct {
	engine  *simulator.Engine
	profile *model.Profile
	store   *store.Store

	paramsPath string

	runMu    sync.Mutex // serializes recomputes
	updateMu sync.Mutex // serializes parameter changes

	mu        sync.RWMutex
	params    model.Params
	listeners []Listener
}

// New creates a session. paramsPath may be empty to disable persistence.
func New(profile *model.Profile, params model.Params, paramsPath string) *Session {
	return &Session{
		engine:     simulator.New(),
		profile:    profile,
		store:      store.New(),
		params:     params,
		paramsPath: paramsPath,
	}
}

// Open loads the profile and the persisted parameters.
func Open(profilePath, paramsPath string, opts ingest.Options) (*Session, error) {
	profile, err := ingest.LoadFile(profilePath, opts)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	tr := profile.TimeRange()
	log.Printf("Loaded %d samples from %s (%s to %s)", profile.Len(), profilePath, tr.Start, tr.End)

	var params model.Params
	if paramsPath == "" {
		params = model.DefaultParams()
	} else {
		var issues []config.Issue
		params, issues, err = config.LoadParams(paramsPath)
		if err != nil {
			return nil, err
		}
		logIssues(issues)
	}

	return New(profile, params, paramsPath), nil
}

// SetEngine replaces the engine, e.g. to use a different EV charger.
func (s *Session) SetEngine(e *simulator.Engine) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.engine = e
}

// AddListener registers l for future events.
func (s *Session) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Session) Profile() *model.Profile { return s.profile }

func (s *Session) Store() *store.Store { return s.store }

// Params returns the current parameters.
func (s *Session) Params() model.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// CurrentRun returns the latest completed run.
func (s *Session) CurrentRun() (*store.Run, error) {
	run, ok := s.store.Current()
	if !ok {
		return nil, ErrNoRun
	}
	return run, nil
}

// Recompute runs the engine on the current parameters and replaces the
// stored run. On failure the previous run stays in place.
func (s *Session) Recompute() (*store.Run, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	params := s.Params()
	start := time.Now()
	results, err := s.engine.Run(s.profile, params)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}
	run := store.NewRun(params, results, time.Since(start))
	s.store.Replace(run)

	log.Printf("Run %s: %d steps in %v, self-sufficiency %.1f%%, self-consumption %.1f%%",
		run.ID, run.Summary.Steps, run.Duration.Round(time.Millisecond),
		run.Summary.SelfSufficiency*100, run.Summary.SelfConsumption*100)

	for _, l := range s.snapshotListeners() {
		l.OnRun(run)
	}
	return run, nil
}

// UpdateParams applies a partial flat record, persists the result and
// recomputes. Unusable fields are replaced by defaults and reported.
func (s *Session) UpdateParams(raw map[string]any) (*store.Run, []config.Issue, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	params, issues := config.Apply(s.Params(), raw)
	logIssues(issues)
	run, err := s.setParams(params)
	return run, issues, err
}

// SetParams replaces the parameters, persists them and recomputes.
func (s *Session) SetParams(params model.Params) (*store.Run, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	return s.setParams(params)
}

func (s *Session) setParams(params model.Params) (*store.Run, error) {
	if issues := config.Validate(params); len(issues) > 0 {
		logIssues(issues)
		params, _ = config.Apply(params, issueDefaults(issues))
	}

	s.mu.Lock()
	s.params = params
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		log.Printf("Error saving params: %v", err)
	}
	for _, l := range s.snapshotListeners() {
		l.OnParams(params)
	}
	return s.Recompute()
}

// Save persists the current parameters. It is a no-op without a params path.
func (s *Session) Save() error {
	if s.paramsPath == "" {
		return nil
	}
	return config.SaveParams(s.paramsPath, s.Params())
}

func (s *Session) snapshotListeners() []Listener {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func issueDefaults(issues []config.Issue) map[string]any {
	rec := make(map[string]any, len(issues))
	for _, i := range issues {
		rec[i.Field] = i.Default
	}
	return rec
}

func logIssues(issues []config.Issue) {
	for _, i := range issues {
		log.Printf("Warning: param %s", i)
	}
}
