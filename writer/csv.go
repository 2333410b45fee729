package writer

import (
	"encoding/csv"
	"fmt"
	"os"

	"bankflow/logger"
	"bankflow/models"
)

// WriteCSV serializes the dataset to path, overwriting any existing file.
// Header first, then one row per bank, column and row order preserved.
// Decimal values carry exactly two fractional digits.
func WriteCSV(ds *models.Dataset, path string, comma rune) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = comma

	if err := w.Write(ds.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range ds.Banks {
		if err := w.Write(ds.Record(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	logger.GetLogger().WithComponent("csv_writer").WithFields(logger.Fields{
		"path": path,
		"rows": len(ds.Banks),
	}).Info("dataset written to file")
	return nil
}
