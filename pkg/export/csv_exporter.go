package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Table is one titled grid of cells. Rows may be shorter than Headers.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// CSVExporter writes a Table as CSV with the headers as the first record.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render returns the CSV encoding of table.
func (e *CSVExporter) Render(table Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams table to w. Short rows are padded with empty cells; a row
// wider than the header is an error.
func (e *CSVExporter) Write(w io.Writer, table Table) error {
	width := len(table.Headers)
	if width == 0 {
		return errors.New("csv export needs at least one header")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, width)
	for i, row := range table.Rows {
		if len(row) > width {
			return fmt.Errorf("csv row %d: %d cells but %d headers", i+1, len(row), width)
		}
		n := copy(record, row)
		for j := n; j < width; j++ {
			record[j] = ""
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
