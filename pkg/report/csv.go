package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

var csvHeader = []string{"ApplicationNames", "GroupNames"}

// WriteCSV writes the report to path. The file is staged in the same directory
// and renamed into place on success, so a failed run never leaves a partial
// report behind.
func WriteCSV(path string, rows []Row) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	records := make([][]string, 0, len(rows)+1)
	records = append(records, csvHeader)
	for _, row := range rows {
		records = append(records, []string{row.ApplicationName, row.GroupNames})
	}

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("writing report: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("finalizing report file: %w", err)
	}

	return nil
}
