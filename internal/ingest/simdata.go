package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"solar_simulator/internal/model"
)

// SimDataParser reads the JSON export of the profile generator, either as a
// bare array or wrapped in a script assignment:
//
//	const SIM_DATA = [{"ts":"2025-01-01 00:00","solar_w":0,"load_w":412,"hp_w":655}, ...];
type SimDataParser struct{}

type simDataRecord struct {
	TS     string   `json:"ts"`
	SolarW *float64 `json:"solar_w"`
	LoadW  *float64 `json:"load_w"`
	HPW    *float64 `json:"hp_w"`
}

func (p *SimDataParser) Parse(r io.Reader) ([]model.Sample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading profile data: %w", err)
	}

	payload, err := stripAssignment(data)
	if err != nil {
		return nil, err
	}

	var records []simDataRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decoding profile data: %w", err)
	}

	samples := make([]model.Sample, 0, len(records))
	for i, rec := range records {
		ts, err := model.ParseTimestamp(rec.TS)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		values := [3]*float64{rec.SolarW, rec.LoadW, rec.HPW}
		names := [3]string{"solar_w", "load_w", "hp_w"}
		for j, v := range values {
			if v == nil {
				return nil, fmt.Errorf("record %d: missing %s: %w", i, names[j], model.ErrInvalidProfile)
			}
			if err := checkPower(*v); err != nil {
				return nil, fmt.Errorf("record %d: %s: %w", i, names[j], err)
			}
		}
		samples = append(samples, model.Sample{
			Timestamp: ts,
			SolarW:    *rec.SolarW,
			BaseLoadW: *rec.LoadW,
			HeatPumpW: *rec.HPW,
		})
	}

	return samples, nil
}

// stripAssignment returns the JSON array inside `const X = [...];`, or data
// unchanged when it already starts with '['.
func stripAssignment(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed, nil
	}
	start := bytes.IndexByte(trimmed, '[')
	end := bytes.LastIndexByte(trimmed, ']')
	if start < 0 || end < start {
		return nil, fmt.Errorf("profile data: no JSON array found: %w", model.ErrInvalidProfile)
	}
	return trimmed[start : end+1], nil
}
