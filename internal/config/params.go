package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"solar_simulator/internal/model"
)

// Issue records a parameter value that was replaced by its default.
type Issue struct {
	Field   string  `json:"field"`
	Value   any     `json:"value"`
	Default float64 `json:"default"`
	Reason  string  `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s=%v %s, using default %g", i.Field, i.Value, i.Reason, i.Default)
}

type field struct {
	key   string
	alias string
	def   float64
	get   func(*model.Params) *float64
}

// fields lists the persisted keys. The alias is the key the browser version
// stored in local storage.
var fields = []field{
	{"battery_capacity_kwh", "batteryCapacity", model.DefaultBatteryCapacityKWh, func(p *model.Params) *float64 { return &p.BatteryCapacityKWh }},
	{"battery_max_power_kw", "maxPower", model.DefaultBatteryMaxPowerKW, func(p *model.Params) *float64 { return &p.BatteryMaxPowerKW }},
	{"heat_pump_factor", "hpFactor", model.DefaultHeatPumpFactor, func(p *model.Params) *float64 { return &p.HeatPumpFactor }},
	{"solar_size_kwp", "solarSize", model.DefaultSolarSizeKWp, func(p *model.Params) *float64 { return &p.SolarSizeKWp }},
	{"ev_daily_distance_km", "evDailyDist", model.DefaultEVDailyDistanceKm, func(p *model.Params) *float64 { return &p.EVDailyDistanceKm }},
}

// Fields returns the canonical parameter keys in display order.
func Fields() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// IsField reports whether key names a parameter, canonically or by alias.
func IsField(key string) bool {
	_, ok := lookupField(key)
	return ok
}

func lookupField(key string) (field, bool) {
	for _, f := range fields {
		if key == f.key || key == f.alias {
			return f, true
		}
	}
	return field{}, false
}

// Sanitize builds a full parameter set from a flat record. Missing keys take
// their default silently; present but unusable values take their default and
// are reported.
func Sanitize(raw map[string]any) (model.Params, []Issue) {
	return Apply(model.DefaultParams(), raw)
}

// Apply overlays the keys present in raw onto base. Unknown keys are ignored.
func Apply(base model.Params, raw map[string]any) (model.Params, []Issue) {
	p := base
	var issues []Issue

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f, ok := lookupField(k)
		if !ok {
			continue
		}
		v, reason := coerce(raw[k])
		if reason != "" {
			issues = append(issues, Issue{Field: f.key, Value: raw[k], Default: f.def, Reason: reason})
			v = f.def
		}
		*f.get(&p) = v
	}

	return p, issues
}

// Validate reports the fields of p that no flat record could have produced.
func Validate(p model.Params) []Issue {
	var issues []Issue
	for _, f := range fields {
		v := *f.get(&p)
		if _, reason := coerce(v); reason != "" {
			issues = append(issues, Issue{Field: f.key, Value: v, Default: f.def, Reason: reason})
		}
	}
	return issues
}

func coerce(v any) (float64, string) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int64:
		x = float64(n)
	case uint64:
		x = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, "is not a number"
		}
		x = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, "is not a number"
		}
		x = f
	case nil:
		return 0, "is empty"
	default:
		return 0, "is not a number"
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, "is not finite"
	}
	if x < 0 {
		return 0, "is negative"
	}
	return x, ""
}

// ToRecord flattens p into its canonical key/value record.
func ToRecord(p model.Params) map[string]float64 {
	rec := make(map[string]float64, len(fields))
	for _, f := range fields {
		rec[f.key] = *f.get(&p)
	}
	return rec
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadParams reads a persisted parameter record. A missing or undecodable file
// yields the defaults.
func LoadParams(path string) (model.Params, []Issue, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.DefaultParams(), nil, nil
	}
	if err != nil {
		return model.Params{}, nil, fmt.Errorf("reading params: %w", err)
	}

	rec := map[string]any{}
	if isYAML(path) {
		err = yaml.Unmarshal(raw, &rec)
	} else if len(strings.TrimSpace(string(raw))) > 0 {
		err = json.Unmarshal(raw, &rec)
	}
	if err != nil {
		log.Printf("Warning: ignoring unreadable params file %s: %v", path, err)
		return model.DefaultParams(), nil, nil
	}

	p, issues := Sanitize(rec)
	return p, issues, nil
}

// SaveParams writes p in the format implied by the file extension. The file
// is replaced atomically.
func SaveParams(path string, p model.Params) error {
	rec := ToRecord(p)

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(rec)
	} else {
		data, err = json.MarshalIndent(rec, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating params dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".params-*")
	if err != nil {
		return fmt.Errorf("writing params: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing params: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing params: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing params: %w", err)
	}
	return nil
}
