package records

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes the result set as a csv table with a header row of
// Columns().
func (s ResultSet) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	err := writer.Write(s.Columns())
	if err != nil {
		return err
	}
	err = writer.WriteAll(s.Rows())
	if err != nil {
		return err
	}
	return writer.Error()
}
