package report_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intunerator/intunerator/pkg/report"
)

func TestWriteCSV(t *testing.T) {
	t.Run("writes header and one record per row", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "assignmentreport.csv")

		err := report.WriteCSV(path, []report.Row{
			{ApplicationName: "App1", GroupNames: "Finance Team"},
			{ApplicationName: "App2", GroupNames: ""},
		})
		assert.NoError(t, err)

		f, err := os.Open(path)
		assert.NoError(t, err)
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		assert.NoError(t, err)
		assert.Equal(t, [][]string{
			{"ApplicationNames", "GroupNames"},
			{"App1", "Finance Team"},
			{"App2", ""},
		}, records)
	})

	t.Run("empty report still writes the header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "assignmentreport.csv")

		err := report.WriteCSV(path, nil)
		assert.NoError(t, err)

		f, err := os.Open(path)
		assert.NoError(t, err)
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		assert.NoError(t, err)
		assert.Equal(t, [][]string{{"ApplicationNames", "GroupNames"}}, records)
	})

	t.Run("no stray staging files remain after a successful write", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "assignmentreport.csv")

		err := report.WriteCSV(path, []report.Row{{ApplicationName: "App1"}})
		assert.NoError(t, err)

		entries, err := os.ReadDir(dir)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, "assignmentreport.csv", entries[0].Name())
	})
}
