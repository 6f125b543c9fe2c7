// Package export renders report logs as CSV timesheets and PDF documents.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

// CSVHeader is the column order of the timesheet export.
var CSVHeader = []string{"employee", "clock_in", "break_start", "break_end", "clock_out"}

// WriteCSV writes one row per break; a session without breaks gets a single
// row with empty break columns. Timestamps are RFC 3339.
func WriteCSV(out io.Writer, logs []*models.ReportLog) error {
	w := csv.NewWriter(out)

	if err := w.Write(CSVHeader); err != nil {
		return err
	}

	for _, l := range logs {
		clockIn := formatTime(&l.ClockIn)
		clockOut := formatTime(l.ClockOut)

		if len(l.Breaks) == 0 {
			if err := w.Write([]string{l.Employee, clockIn, "", "", clockOut}); err != nil {
				return err
			}
			continue
		}
		for _, b := range l.Breaks {
			rec := []string{l.Employee, clockIn, formatTime(&b.BreakStart), formatTime(b.BreakEnd), clockOut}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
