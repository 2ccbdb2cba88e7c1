package ingest

import (
	"io"

	"solar_simulator/internal/model"
)

// Parser reads profile samples from a source.
type Parser interface {
	Parse(r io.Reader) ([]model.Sample, error)
}
