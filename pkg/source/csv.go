package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/tickworks/minbar/pkg/schema"
)

// ReadCSV loads one raw tick file into string-keyed rows for the schema
// mapper. Column names are kept as spelled in the header, the mapper owns
// normalization. Encoding and delimiter detection stay with the caller,
// plain comma-separated UTF-8 is expected here.
func ReadCSV(path string) ([]schema.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open tick file %q: %w", path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	return ParseCSV(f)
}

// ParseCSV reads header plus data rows from r.
func ParseCSV(r io.Reader) ([]schema.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %w", err)
	}

	var rows []schema.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d: %w", len(rows)+1, err)
		}

		row := make(schema.Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
