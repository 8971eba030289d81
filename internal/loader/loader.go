// Package loader reads the raw REE capacity CSV into a typed, derived table
// and checks a loaded table against known dataset aggregates.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gridatlas/capacidad/internal/domain"
)

// headerRows is the number of leading non-data title/header lines in the
// source file.
const headerRows = 4

// Load reads and parses the capacity CSV at path into a fresh Table. The
// file is semicolon-delimited UTF-8, possibly with a byte-order mark; the
// first four lines are discarded. Cell-level parse faults degrade to zero
// values and never fail the load. A missing file returns a
// *domain.NotFoundError pointing at the fetch step.
func Load(path string, schema *domain.Schema, logger *slog.Logger) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{
				What: fmt.Sprintf("source CSV %q", path),
				Hint: "run 'capacidad fetch' to download the dataset",
			}
		}
		return nil, fmt.Errorf("open source CSV: %w", err)
	}
	defer f.Close()

	table, err := parse(f, schema)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	logger.Info("table loaded",
		"path", path,
		"rows", table.Len(),
		"raw_columns", table.RawColumnCount,
		"parse_faults", table.ParseFaults,
	)
	return table, nil
}

// countParseFaults counts the numeric cells of one row that degrade to zero
// without meaning zero.
func countParseFaults(schema *domain.Schema, cells []string) int {
	faults := 0
	for i, col := range schema.Columns {
		if col.Kind != domain.KindNumeric || i >= len(cells) {
			continue
		}
		if domain.NumberFallback(cells[i]) {
			faults++
		}
	}
	return faults
}

func parse(r io.Reader, schema *domain.Schema) (*domain.Table, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	table := &domain.Table{Schema: schema}
	line := 0
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line+1, err)
		}
		line++
		if line <= headerRows {
			continue
		}
		if len(cells) > table.RawColumnCount {
			table.RawColumnCount = len(cells)
		}
		table.ParseFaults += countParseFaults(schema, cells)
		rec := domain.ParseRow(schema, cells)
		table.Nodes = append(table.Nodes, domain.DeriveRecord(rec))
	}

	return table, nil
}

// stripBOM removes a leading UTF-8 byte-order mark, which REE exports carry.
func stripBOM(r io.Reader) io.Reader {
	br := make([]byte, 3)
	n, _ := io.ReadFull(r, br)
	if n == 3 && br[0] == 0xEF && br[1] == 0xBB && br[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(br[:n])), r)
}
