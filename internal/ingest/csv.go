package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"solar_simulator/internal/model"
)

// CSVParser parses profile CSV files.
//
// Expected format:
//
//	ts,solar_w,load_w,hp_w
//	2025-01-01 00:00,0,412,655
//
// A semicolon delimiter is detected from the header line.
type CSVParser struct{}

var csvColumns = []string{"ts", "solar_w", "load_w", "hp_w"}

func (p *CSVParser) Parse(r io.Reader) ([]model.Sample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.Comma = detectDelimiter(data)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var samples []model.Sample
	lineNum := 1 // header was line 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}

		sample, err := parseRecord(record, lineNum)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func detectDelimiter(data []byte) rune {
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func validateHeader(header []string) error {
	if len(header) < len(csvColumns) {
		return fmt.Errorf("expected at least %d columns, got %d", len(csvColumns), len(header))
	}

	for i, col := range csvColumns {
		got := strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		if got != col && !(i == 0 && got == "timestamp") {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, header[i])
		}
	}

	return nil
}

func parseRecord(record []string, lineNum int) (model.Sample, error) {
	if len(record) < len(csvColumns) {
		return model.Sample{}, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, len(csvColumns), len(record))
	}

	ts, err := model.ParseTimestamp(record[0])
	if err != nil {
		return model.Sample{}, fmt.Errorf("line %d: %w", lineNum, err)
	}

	var values [3]float64
	for i := range values {
		raw := strings.TrimSpace(record[i+1])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Sample{}, fmt.Errorf("line %d: parsing %s %q: %w", lineNum, csvColumns[i+1], raw, err)
		}
		if err := checkPower(v); err != nil {
			return model.Sample{}, fmt.Errorf("line %d: %s: %w", lineNum, csvColumns[i+1], err)
		}
		values[i] = v
	}

	return model.Sample{
		Timestamp: ts,
		SolarW:    values[0],
		BaseLoadW: values[1],
		HeatPumpW: values[2],
	}, nil
}

func checkPower(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: non-finite power %v", model.ErrInvalidProfile, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: negative power %v", model.ErrInvalidProfile, v)
	}
	return nil
}
