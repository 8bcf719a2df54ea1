package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"domli-search/internal/model"
)

// CSVRepository reads the property corpus from a CSV file. The file is
// opened and parsed on every ReadAll call; IDs are 1-based row positions
// assigned at load time.
type CSVRepository struct {
	path string
}

// NewCSVRepository creates a CSV-backed corpus source
func NewCSVRepository(path string) *CSVRepository {
	return &CSVRepository{path: path}
}

// ReadAll parses the whole file. A missing file or a file with no data
// rows yields ErrCorpusUnavailable.
func (r *CSVRepository) ReadAll(ctx context.Context) ([]model.Property, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorpusUnavailable, r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows in the source data are ragged

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading header: %v", ErrCorpusUnavailable, r.path, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	cell := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var properties []model.Property
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		properties = append(properties, buildProperty(
			len(properties)+1,
			cell(record, "developer_name"),
			cell(record, "project_name"),
			cell(record, "property_type"),
			cell(record, "rooms_count"),
			cell(record, "area"),
			cell(record, "price_total"),
			cell(record, "completion_year"),
			cell(record, "address"),
		))
	}

	if len(properties) == 0 {
		return nil, fmt.Errorf("%w: %s: no data rows", ErrCorpusUnavailable, r.path)
	}
	return properties, nil
}
