package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/user/careerscan/internal/entity"
)

// ReadCSV parses a seed sheet in CSV form.
func ReadCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &entity.ConfigError{Problems: []string{fmt.Sprintf("malformed seed CSV: %v", err)}}
	}
	return parseRows(rows)
}

// WriteCSV writes records under ResultHeader.
func WriteCSV(w io.Writer, records []entity.JobRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(resultRows(records)); err != nil {
		return fmt.Errorf("failed to write result CSV: %w", err)
	}
	return nil
}
