package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"sjsage522/carcrawler/internal/dataset"
	"sjsage522/carcrawler/logger"
	apperrors "sjsage522/carcrawler/pkg/errors"
)

// DatasetWriter persists a dataset
type DatasetWriter interface {
	Write(table *dataset.Table) error
}

// CSVWriter writes a dataset to a CSV file with a header row.
// The file is replaced atomically so readers never see a partial dataset.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewCSVWriter creates a writer for path
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the output file path
func (c *CSVWriter) Path() string {
	return c.path
}

// Write replaces the file with the table's contents. Missing cells are
// written as empty strings.
func (c *CSVWriter) Write(table *dataset.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorage(c.path, "failed to create output dir", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*")
	if err != nil {
		return apperrors.NewStorage(c.path, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeTable(csv.NewWriter(tmp), table); err != nil {
		tmp.Close()
		return apperrors.NewStorage(c.path, "failed to write rows", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorage(c.path, "failed to close temp file", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return apperrors.NewStorage(c.path, "failed to replace dataset", err)
	}

	logger.ForStorage().Info().
		Str("path", c.path).
		Int("rows", table.Len()).
		Msg("Wrote dataset")
	return nil
}

func writeTable(w *csv.Writer, table *dataset.Table) error {
	if err := w.Write(table.Columns()); err != nil {
		return err
	}

	record := make([]string, len(table.Columns()))
	for i := 0; i < table.Len(); i++ {
		for j, cell := range table.Row(i) {
			record[j] = cell.String()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
