package vectorindex

import (
	"fmt"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// Metadata describes the photo stored at one index position. Row order in the
// metadata file matches vector order in the index file.
type Metadata struct {
	PetID   int64  `parquet:"pet_id"`
	OwnerID *int64 `parquet:"owner_id,optional"`
	URL     string `parquet:"url"`
}

// ReadMetadata loads every metadata row from a parquet file.
func ReadMetadata(path string) ([]Metadata, error) {
	rows, err := parquet.ReadFile[Metadata](filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	return rows, nil
}

// WriteMetadata writes metadata rows to a parquet file. Used by fixtures and offline tooling.
func WriteMetadata(path string, rows []Metadata) error {
	if err := parquet.WriteFile(filepath.Clean(path), rows); err != nil {
		return fmt.Errorf("write metadata %s: %w", path, err)
	}
	return nil
}
