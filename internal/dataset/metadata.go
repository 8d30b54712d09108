package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/carbonlens/scope3scan/internal/model"
)

// metadataColumns is the schema of the acquisition metadata file produced
// by the scrape step.
var metadataColumns = []string{"company", "exchange", "year", "pdf_path", "text_path"}

// WriteMetadataCSV persists scraped report metadata.
func WriteMetadataCSV(path string, metas []model.ReportMeta) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(metadataColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range metas {
		record := []string{m.Company, m.Exchange, strconv.Itoa(m.Year), m.PDFPath, m.TextPath}
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

// ReadMetadataCSV loads the acquisition metadata file. Rows with an
// unparseable year are returned with Year zero and get skipped by the
// builder's validity check rather than failing the batch.
func ReadMetadataCSV(path string) ([]model.ReportMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	var metas []model.ReportMeta
	for _, record := range records[1:] {
		if len(record) < len(metadataColumns) {
			continue
		}
		year, _ := strconv.Atoi(record[2])
		metas = append(metas, model.ReportMeta{
			Company:  record[0],
			Exchange: record[1],
			Year:     year,
			PDFPath:  record[3],
			TextPath: record[4],
		})
	}
	return metas, nil
}
