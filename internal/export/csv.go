package export

import (
	"encoding/csv"
	"io"

	"bip-connector/internal/bip"
)

// WriteCSV renders a query result as CSV: header row first, then data
// rows in order. A column missing from a row yields an empty cell, not an
// error.
func WriteCSV(w io.Writer, res *bip.QueryResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(res.Columns); err != nil {
		return err
	}

	record := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i, col := range res.Columns {
			record[i] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
