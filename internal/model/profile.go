package model

import (
	"errors"
	"fmt"
	"time"
)

const (
	StepDuration = 15 * time.Minute
	StepHours    = 0.25
	StepsPerHour = 4
	StepsPerDay  = 24 * StepsPerHour
)

var (
	// ErrInvalidProfile is matched by every profile configuration error.
	ErrInvalidProfile = errors.New("invalid input profile")

	ErrEmptyProfile = fmt.Errorf("%w: no samples", ErrInvalidProfile)
	ErrProfileGap   = fmt.Errorf("%w: timestamp grid gap", ErrInvalidProfile)
	ErrSampleCount  = fmt.Errorf("%w: wrong sample count", ErrInvalidProfile)
)

// ProfileError points at the sample that broke the profile structure.
type ProfileError struct {
	Index  int
	Reason string
	Err    error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("sample %d: %s: %v", e.Index, e.Reason, e.Err)
}

func (e *ProfileError) Unwrap() error { return e.Err }

// Sample is one reference interval of the historical profile. Power values
// are average watts over the step.
type Sample struct {
	Timestamp Timestamp `json:"ts"`
	SolarW    float64   `json:"solar_w"`
	BaseLoadW float64   `json:"load_w"`
	HeatPumpW float64   `json:"hp_w"`
}

// Profile is an immutable, gap-free sequence of samples on the 15-minute grid.
type Profile struct {
	samples []Sample
}

// NewProfile checks the grid and takes a private copy of samples.
func NewProfile(samples []Sample) (*Profile, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyProfile
	}
	if m := samples[0].Timestamp.MinuteOfDay(); m%15 != 0 {
		return nil, &ProfileError{Index: 0, Reason: fmt.Sprintf("%s is off the 15-minute grid", samples[0].Timestamp), Err: ErrProfileGap}
	}
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1].Timestamp, samples[i].Timestamp
		if d := cur.Sub(prev); d != StepDuration {
			return nil, &ProfileError{
				Index:  i,
				Reason: fmt.Sprintf("%s follows %s by %s", cur, prev, d),
				Err:    ErrProfileGap,
			}
		}
	}
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	return &Profile{samples: cp}, nil
}

// Len returns the number of samples.
func (p *Profile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.samples)
}

// At returns sample i.
func (p *Profile) At(i int) Sample { return p.samples[i] }

// Samples returns a copy of all samples.
func (p *Profile) Samples() []Sample {
	cp := make([]Sample, len(p.samples))
	copy(cp, p.samples)
	return cp
}

// TimeRange returns the first and last sample timestamps.
func (p *Profile) TimeRange() TimeRange {
	if p.Len() == 0 {
		return TimeRange{}
	}
	return TimeRange{Start: p.samples[0].Timestamp, End: p.samples[len(p.samples)-1].Timestamp}
}

// CheckFullYear verifies the profile covers exactly one calendar year,
// from January 1 00:00 to December 31 23:45.
func (p *Profile) CheckFullYear() error {
	if p.Len() == 0 {
		return ErrEmptyProfile
	}
	first := p.samples[0].Timestamp
	year := first.Year()
	if !first.Equal(NewTimestamp(year, time.January, 1, 0, 0)) {
		return &ProfileError{Index: 0, Reason: fmt.Sprintf("profile starts at %s, not at the beginning of %d", first, year), Err: ErrSampleCount}
	}
	want := DaysInYear(year) * StepsPerDay
	if len(p.samples) != want {
		return &ProfileError{
			Index:  len(p.samples) - 1,
			Reason: fmt.Sprintf("got %d samples, want %d for %d", len(p.samples), want, year),
			Err:    ErrSampleCount,
		}
	}
	return nil
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

type TimeRange struct {
	Start Timestamp `json:"start"`
	End   Timestamp `json:"end"`
}
