package delivery

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// AppendStats appends one comparison row to the flat statistics CSV,
// writing the header only when the file is new.
func AppendStats(path string, row StatsRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create stats directory: %v", err)
		}
	}

	fileExists := false
	if _, err := os.Stat(path); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open stats file %s: %v", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	rows := []StatsRow{row}
	if !fileExists {
		return gocsv.MarshalCSV(&rows, writer)
	}
	return gocsv.MarshalCSVWithoutHeaders(&rows, writer)
}
