package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"solar_simulator/internal/model"
)

// ParserFor picks a parser from the file extension: .csv and .txt files are
// CSV, .js and .json files are SIM_DATA exports.
func ParserFor(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return &CSVParser{}, nil
	case ".js", ".json":
		return &SimDataParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported profile format %q", filepath.Ext(path))
	}
}

// Options control profile validation.
type Options struct {
	// AllowPartialYear accepts any gap-free profile instead of requiring one
	// full calendar year.
	AllowPartialYear bool
}

// LoadFile reads and validates a profile file.
func LoadFile(path string, opts Options) (*model.Profile, error) {
	parser, err := ParserFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	samples, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return Build(samples, opts)
}

// Build validates samples and wraps them in a profile.
func Build(samples []model.Sample, opts Options) (*model.Profile, error) {
	profile, err := model.NewProfile(samples)
	if err != nil {
		return nil, err
	}
	if !opts.AllowPartialYear {
		if err := profile.CheckFullYear(); err != nil {
			return nil, err
		}
	}
	return profile, nil
}
