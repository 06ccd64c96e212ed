package nezamcrawler

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	doctorsSheet = "Doctors"
)

// Export writes records to path in the given format and, when GCS_BUCKET is
// configured, uploads the file. An empty path uses storage/data/<name>/<date>.<format>.
func (app *Crawler) Export(ctx context.Context, path, format string, records []DoctorRecord) (string, error) {
	format = strings.ToLower(format)
	if path == "" {
		path = generateExportFileName(app.Name, format)
	}

	var err error
	switch format {
	case FormatXLSX:
		err = ExportXLSX(path, records)
	case FormatCSV:
		err = ExportCSV(path, records)
	default:
		err = fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return "", err
	}
	app.Logger.Info("Exported %d doctors to %s", len(records), path)

	if bucket := app.Config.EnvString("GCS_BUCKET"); bucket != "" {
		if err := app.uploadToBucket(ctx, bucket, path, filepath.Base(path)); err != nil {
			return path, err
		}
	}
	return path, nil
}

// ExportXLSX writes a header row and one row per record to a new workbook.
func ExportXLSX(path string, records []DoctorRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", doctorsSheet); err != nil {
		return err
	}
	if err := setSheetRow(f, 1, doctorHeader); err != nil {
		return err
	}
	for i, record := range records {
		if err := setSheetRow(f, i+2, record.row()); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func setSheetRow(f *excelize.File, rowNumber int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(doctorsSheet, cell, &row)
}

// ExportCSV writes a header row and one row per record.
func ExportCSV(path string, records []DoctorRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(doctorHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record.row()); err != nil {
			return fmt.Errorf("failed to write record to CSV: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
