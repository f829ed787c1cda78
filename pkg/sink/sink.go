// Package sink flattens enriched bars into the fixed column contract of the
// storage collaborators. Every writer emits the same columns in the same
// order, absent values become the type-appropriate zero or null.
package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/tickworks/minbar/pkg/common"
)

type BarWriter interface {
	Write(ctx context.Context, bars []common.Bar) error
	Extension() string
}

// New selects a writer by format name: csv, parquet or duckdb. Target is a
// file path, for duckdb the database file.
func New(format, target string) (BarWriter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVWriter{Path: target}, nil
	case "parquet":
		return ParquetWriter{Path: target}, nil
	case "duckdb":
		return NewDuckDBWriter(target), nil
	default:
		return nil, fmt.Errorf("sink: unsupported format %q", format)
	}
}
