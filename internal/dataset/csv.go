package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/carbonlens/scope3scan/internal/model"
)

// Columns is the required output schema, in order. Downstream training
// consumes this file as-is.
var Columns = []string{"company_name", "exchange", "year", "text_excerpt", "label"}

// WriteCSV writes dataset rows to path with the exact required header.
func WriteCSV(path string, rows []model.DatasetRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.CompanyName,
			row.Exchange,
			strconv.Itoa(row.Year),
			row.TextExcerpt,
			strconv.Itoa(row.Label),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}

// ReadCSV reads a dataset file back, verifying the header.
func ReadCSV(path string) ([]model.DatasetRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := records[0]
	if len(header) != len(Columns) {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, len(Columns), len(header))
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("%s: column %d is %q, want %q", path, i, header[i], col)
		}
	}

	rows := make([]model.DatasetRow, 0, len(records)-1)
	for i, record := range records[1:] {
		year, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad year %q", path, i+1, record[2])
		}
		label, err := strconv.Atoi(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad label %q", path, i+1, record[4])
		}
		rows = append(rows, model.DatasetRow{
			CompanyName: record[0],
			Exchange:    record[1],
			Year:        year,
			TextExcerpt: record[3],
			Label:       label,
		})
	}
	return rows, nil
}
