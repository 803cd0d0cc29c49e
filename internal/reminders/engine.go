package reminders

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"sweepcrm/internal/models"
)

// Default due window: serviced 11-12 months ago, i.e. one month of lead
// time before the annual service anniversary.
const (
	DefaultMinMonths = 11
	DefaultMaxMonths = 12
)

// Candidate is one property due for a reminder, joined with its owner's
// name and the dates the presentation layer shows alongside it.
type Candidate struct {
	Property             models.Property
	CustomerName         string
	LastCleanedDate      *time.Time
	MonthsSinceLastClean int
	LastReminderDate     *time.Time
}

// MonthsSince returns the calendar-month difference between date and
// now. Day-of-month is deliberately ignored: the business works on a
// month-level reminder cadence, so Jan 31 and Feb 1 are one month apart
// either way.
func MonthsSince(date, now time.Time) int {
	return (now.Year()-date.Year())*12 + int(now.Month()) - int(date.Month())
}

// Engine answers "which properties are due for a reminder as of now".
// It is pure date arithmetic over the job history; now is always passed
// in, never read from the clock, so results are reproducible.
type Engine struct {
	DB *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine { return &Engine{DB: db} }

// DueForReminder returns the properties whose most recent job falls
// within [minMonths, maxMonths] calendar months before now, inclusive
// both ends, most overdue first. A property with no job history has no
// last-cleaned date and is never due under a finite window; that is
// policy, not an oversight (no history means no automatic nagging).
func (e *Engine) DueForReminder(minMonths, maxMonths int, now time.Time) ([]Candidate, error) {
	var properties []models.Property
	if err := e.DB.Preload("Customer").Order("id asc").Find(&properties).Error; err != nil {
		return nil, err
	}
	lastCleaned, err := e.lastCleanedDates()
	if err != nil {
		return nil, err
	}
	lastReminded, err := e.lastReminderDates()
	if err != nil {
		return nil, err
	}

	due := make([]Candidate, 0)
	for _, prop := range properties {
		// Owner deleted out from under us: drop the row rather than
		// surface a broken candidate.
		if prop.Customer.ID == 0 {
			continue
		}
		last, ok := lastCleaned[prop.ID]
		if !ok {
			continue // never serviced
		}
		months := MonthsSince(last, now)
		if months < minMonths || months > maxMonths {
			continue
		}
		c := Candidate{
			Property:             prop,
			CustomerName:         prop.Customer.FullName(),
			LastCleanedDate:      ptrTime(last),
			MonthsSinceLastClean: months,
		}
		if sent, ok := lastReminded[prop.ID]; ok {
			c.LastReminderDate = ptrTime(sent)
		}
		due = append(due, c)
	}

	// Most overdue first; stable so equal months keep id order.
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].MonthsSinceLastClean > due[j].MonthsSinceLastClean
	})
	return due, nil
}

// DueByMonthOffset shifts the default window by offset months:
// offset 0 is due this month, 1 is due next month, and so on.
func (e *Engine) DueByMonthOffset(offset int, now time.Time) ([]Candidate, error) {
	return e.DueForReminder(DefaultMinMonths+offset, DefaultMaxMonths+offset, now)
}

// AvailableMonthOffsets returns, ascending, the distinct offsets that
// currently contain at least one due property. Uses the same month
// arithmetic and the same orphan filter as DueForReminder so a returned
// offset always yields a non-empty DueByMonthOffset result.
func (e *Engine) AvailableMonthOffsets(now time.Time) ([]int, error) {
	var properties []models.Property
	if err := e.DB.Preload("Customer").Find(&properties).Error; err != nil {
		return nil, err
	}
	lastCleaned, err := e.lastCleanedDates()
	if err != nil {
		return nil, err
	}
	seen := map[int]bool{}
	for _, prop := range properties {
		if prop.Customer.ID == 0 {
			continue
		}
		last, ok := lastCleaned[prop.ID]
		if !ok {
			continue
		}
		months := MonthsSince(last, now)
		if months >= DefaultMinMonths {
			seen[months-DefaultMinMonths] = true
		}
	}
	offsets := make([]int, 0, len(seen))
	for o := range seen {
		offsets = append(offsets, o)
	}
	sort.Ints(offsets)
	return offsets, nil
}

// lastCleanedDates aggregates MAX(date_completed) per property from the
// job history. The history is authoritative; there is no cached
// last-cleaned column to drift out of step with it.
func (e *Engine) lastCleanedDates() (map[uint]time.Time, error) {
	var jobs []models.Job
	if err := e.DB.Select("property_id", "date_completed").Find(&jobs).Error; err != nil {
		return nil, err
	}
	last := make(map[uint]time.Time, len(jobs))
	for _, j := range jobs {
		if cur, ok := last[j.PropertyID]; !ok || j.DateCompleted.After(cur) {
			last[j.PropertyID] = j.DateCompleted
		}
	}
	return last, nil
}

func (e *Engine) lastReminderDates() (map[uint]time.Time, error) {
	var entries []models.ReminderHistory
	if err := e.DB.Select("property_id", "date_sent").Find(&entries).Error; err != nil {
		return nil, err
	}
	last := make(map[uint]time.Time, len(entries))
	for _, entry := range entries {
		if cur, ok := last[entry.PropertyID]; !ok || entry.DateSent.After(cur) {
			last[entry.PropertyID] = entry.DateSent
		}
	}
	return last, nil
}

func ptrTime(t time.Time) *time.Time { return &t }
