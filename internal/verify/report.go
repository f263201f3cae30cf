package verify

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader is the export header row. The column order matches the
// disposition triple.
var csvHeader = []string{"Email", "Status", "Message"}

// WriteCSV renders the batch result as CSV with an
// Email,Status,Message header row, one row per disposition.
func (r *BatchResult) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range r.Dispositions {
		if err := cw.Write([]string{d.Email, string(d.Status), d.Message}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
