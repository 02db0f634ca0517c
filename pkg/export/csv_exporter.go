package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is an ordered table ready for rendering. Every row must carry one
// cell per header.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// CSVExporter renders a Dataset as RFC 4180 CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render encodes the dataset. Rows shorter than the header are padded with
// empty cells, longer rows are truncated to the header width.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv export needs headers")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	width := len(data.Headers)
	for _, row := range data.Rows {
		record := make([]string, width)
		copy(record, row)
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
