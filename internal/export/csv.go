package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"sweepcrm/internal/reminders"
)

// Column layout expected by the mail-merge template the business uses.
var headers = []string{
	"Customer Name",
	"Address",
	"Last Cleaned",
	"Months Since Last Clean",
	"Square Feet",
	"Number of Chimneys",
	"Notes",
}

// WriteCSV renders a reminder batch as CSV. Fields containing commas,
// quotes or newlines are quoted with internal quotes doubled (handled
// by encoding/csv).
func WriteCSV(w io.Writer, candidates []reminders.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, c := range candidates {
		lastCleaned := "Never"
		if c.LastCleanedDate != nil {
			lastCleaned = c.LastCleanedDate.Format("2006-01-02")
		}
		squareFeet := ""
		if c.Property.SquareFeet != nil {
			squareFeet = strconv.Itoa(*c.Property.SquareFeet)
		}
		row := []string{
			c.CustomerName,
			c.Property.Address(),
			lastCleaned,
			strconv.Itoa(c.MonthsSinceLastClean),
			squareFeet,
			strconv.Itoa(c.Property.ChimneyCount),
			c.Property.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename names an export after the month it was generated in,
// e.g. reminders_2024_03.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("reminders_%04d_%02d.csv", now.Year(), int(now.Month()))
}
