package export

import (
	"strings"
	"testing"
	"time"

	"sweepcrm/internal/models"
	"sweepcrm/internal/reminders"
)

func candidate(name, line1, notes string, months int, last *time.Time) reminders.Candidate {
	return reminders.Candidate{
		Property: models.Property{
			AddressLine1: line1,
			Town:         "Testville",
			Postcode:     "T1 1TT",
			ChimneyCount: 2,
			Notes:        notes,
		},
		CustomerName:         name,
		LastCleanedDate:      last,
		MonthsSinceLastClean: months,
	}
}

func TestWriteCSVEscapesSpecialCharacters(t *testing.T) {
	last := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	c := candidate("Jane Doe", "10 Main Street", `Say "hi", please`, 12, &last)

	var sb strings.Builder
	if err := WriteCSV(&sb, []reminders.Candidate{c}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, `"Say ""hi"", please"`) {
		t.Fatalf("notes not escaped: %s", out)
	}
	if !strings.Contains(out, `"10 Main Street, Testville, T1 1TT"`) {
		t.Fatalf("address with commas not quoted: %s", out)
	}
	if !strings.HasPrefix(out, "Customer Name,Address,Last Cleaned,Months Since Last Clean,Square Feet,Number of Chimneys,Notes") {
		t.Fatalf("unexpected header row: %s", out)
	}
	if !strings.Contains(out, "2023-03-15") {
		t.Fatalf("last cleaned date missing: %s", out)
	}
}

func TestWriteCSVNeverServiced(t *testing.T) {
	c := candidate("Jane Doe", "10 Main Street", "", 12, nil)

	var sb strings.Builder
	if err := WriteCSV(&sb, []reminders.Candidate{c}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(sb.String(), "Never") {
		t.Fatalf("expected Never for missing last-cleaned date: %s", sb.String())
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	if got := Filename(now); got != "reminders_2024_03.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
