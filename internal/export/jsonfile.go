package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gridatlas/capacidad/internal/domain"
)

// WriteJSON writes the table's rows as an indented JSON array keyed by the
// source column names.
func WriteJSON(path string, t *domain.Table) error {
	data, err := json.MarshalIndent(t.Nodes, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize nodes: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads rows previously written by WriteJSON. Derived fields are
// restored from the file; the schema reference is left nil.
func ReadJSON(path string) (*domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var nodes []domain.NodeRecord
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &domain.Table{Nodes: nodes}, nil
}
