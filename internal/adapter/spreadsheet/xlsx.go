package spreadsheet

import (
	"fmt"
	"io"

	"github.com/user/careerscan/internal/entity"
	"github.com/xuri/excelize/v2"
)

const resultSheetName = "Jobs"

// ReadXLSX parses a seed sheet from the first worksheet of an Excel workbook.
func ReadXLSX(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &entity.ConfigError{Problems: []string{fmt.Sprintf("malformed seed workbook: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &entity.ConfigError{Problems: []string{"seed workbook has no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows)
}

// WriteXLSX writes records to a single-sheet workbook under ResultHeader.
func WriteXLSX(w io.Writer, records []entity.JobRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultSheetName); err != nil {
		return err
	}
	for i, row := range resultRows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(resultSheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write result workbook: %w", err)
	}
	return nil
}
