package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV serialises one table as CSV, header first.
func WriteCSV(w io.Writer, table Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return err
	}
	return writer.Error()
}
