package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gridatlas/capacidad/internal/domain"
)

// WriteParquet writes the table's rows to a Parquet file. Column names follow
// the Go field names of NodeRecord; unknown voltages come out as nulls.
func WriteParquet(path string, t *domain.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[domain.NodeRecord](f)
	if _, err := w.Write(t.Nodes); err != nil {
		w.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	return f.Close()
}

// ReadParquet loads rows previously written by WriteParquet.
func ReadParquet(path string) (*domain.Table, error) {
	rows, err := parquet.ReadFile[domain.NodeRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &domain.Table{Nodes: rows}, nil
}
