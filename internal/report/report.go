// Package report renders a finished run: the CSV summary file and the
// per-repository result notification posted as an issue.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/mgarrido/repograder/internal/engine"
	"github.com/mgarrido/repograder/internal/filelock"
)

// Header is the column order of the summary CSV.
var Header = []string{"repo", "login", "grupo", "estado", "motivo"}

// RenderCSV serializes records into the summary CSV, one row per record
// in fold order, preceded by the header row.
func RenderCSV(records []engine.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Repo, r.Login, r.Group, r.Status, r.Reason}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write report row for %s: %w", r.Repo, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV renders the records and writes them atomically to path, so a
// crashed run never leaves a truncated report behind.
func WriteCSV(path string, records []engine.Record) error {
	data, err := RenderCSV(records)
	if err != nil {
		return err
	}
	return filelock.AtomicWrite(path, data)
}
