package reminders

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sweepcrm/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Property{}, &models.Job{}, &models.ReminderHistory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedCustomer(t *testing.T, db *gorm.DB, first, last string) models.Customer {
	t.Helper()
	c := models.Customer{FirstName: first, LastName: last}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	return c
}

func seedProperty(t *testing.T, db *gorm.DB, customerID uint, line1 string) models.Property {
	t.Helper()
	p := models.Property{CustomerID: customerID, AddressLine1: line1, Town: "Testville", ChimneyCount: 1, ServiceIntervalMonths: 12}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("property: %v", err)
	}
	return p
}

func seedJob(t *testing.T, db *gorm.DB, propertyID uint, completed time.Time) models.Job {
	t.Helper()
	j := models.Job{PropertyID: propertyID, DateCompleted: completed, ServiceType: "sweep"}
	if err := db.Create(&j).Error; err != nil {
		t.Fatalf("job: %v", err)
	}
	return j
}

func TestMonthsSinceIgnoresDayOfMonth(t *testing.T) {
	now := date(2024, time.February, 1)
	if got := MonthsSince(date(2024, time.January, 31), now); got != 1 {
		t.Fatalf("Jan 31: expected 1 month, got %d", got)
	}
	if got := MonthsSince(date(2024, time.January, 1), now); got != 1 {
		t.Fatalf("Jan 1: expected 1 month, got %d", got)
	}
	// Crossing a year boundary
	if got := MonthsSince(date(2023, time.November, 20), date(2024, time.February, 5)); got != 3 {
		t.Fatalf("expected 3 months, got %d", got)
	}
}

func TestDueForReminderWindowInclusive(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, time.March, 15)
	c := seedCustomer(t, db, "Jane", "Doe")

	edge11 := seedProperty(t, db, c.ID, "11 Months Ago House")
	seedJob(t, db, edge11.ID, date(2023, time.April, 1)) // exactly 11 months

	tooRecent := seedProperty(t, db, c.ID, "10 Months Ago House")
	seedJob(t, db, tooRecent.ID, date(2023, time.May, 1)) // 10 months

	tooOld := seedProperty(t, db, c.ID, "13 Months Ago House")
	seedJob(t, db, tooOld.ID, date(2023, time.February, 1)) // 13 months

	due, err := NewEngine(db).DueForReminder(11, 12, now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected exactly 1 due property, got %d", len(due))
	}
	if due[0].Property.ID != edge11.ID {
		t.Fatalf("expected property %d due, got %d", edge11.ID, due[0].Property.ID)
	}
	if due[0].MonthsSinceLastClean != 11 {
		t.Fatalf("expected 11 months since, got %d", due[0].MonthsSinceLastClean)
	}
}

func TestNeverServicedNeverDue(t *testing.T) {
	db := setupTestDB(t)
	c := seedCustomer(t, db, "No", "History")
	seedProperty(t, db, c.ID, "Fresh Build")

	engine := NewEngine(db)
	now := date(2024, time.March, 15)
	for _, window := range [][2]int{{11, 12}, {0, 1000}, {0, 1 << 20}} {
		due, err := engine.DueForReminder(window[0], window[1], now)
		if err != nil {
			t.Fatalf("due [%d,%d]: %v", window[0], window[1], err)
		}
		if len(due) != 0 {
			t.Fatalf("never-serviced property included in window [%d,%d]", window[0], window[1])
		}
	}

	offsets, err := engine.AvailableMonthOffsets(now)
	if err != nil {
		t.Fatalf("offsets: %v", err)
	}
	if len(offsets) != 0 {
		t.Fatalf("never-serviced property produced offsets %v", offsets)
	}
}

func TestDueForReminderSortedMostOverdueFirst(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, time.March, 15)
	c := seedCustomer(t, db, "Jane", "Doe")

	eleven := seedProperty(t, db, c.ID, "Eleven")
	seedJob(t, db, eleven.ID, date(2023, time.April, 10))

	twelve := seedProperty(t, db, c.ID, "Twelve")
	seedJob(t, db, twelve.ID, date(2023, time.March, 10))

	due, err := NewEngine(db).DueForReminder(11, 12, now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due, got %d", len(due))
	}
	if due[0].Property.ID != twelve.ID || due[1].Property.ID != eleven.ID {
		t.Fatalf("expected most overdue first, got %d then %d", due[0].Property.ID, due[1].Property.ID)
	}
}

func TestDueForReminderStableTieBreak(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, time.March, 15)
	c := seedCustomer(t, db, "Jane", "Doe")

	first := seedProperty(t, db, c.ID, "First Inserted")
	second := seedProperty(t, db, c.ID, "Second Inserted")
	// Same calendar month, different days: identical monthsSince.
	seedJob(t, db, first.ID, date(2023, time.April, 2))
	seedJob(t, db, second.ID, date(2023, time.April, 28))

	due, err := NewEngine(db).DueForReminder(11, 12, now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due, got %d", len(due))
	}
	if due[0].Property.ID != first.ID {
		t.Fatalf("tie not broken by insertion order: got %d first", due[0].Property.ID)
	}
}

func TestLatestJobWins(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, time.March, 15)
	c := seedCustomer(t, db, "Mixed", "History")
	p := seedProperty(t, db, c.ID, "Repeat Customer House")
	seedJob(t, db, p.ID, date(2023, time.January, 1))
	seedJob(t, db, p.ID, date(2023, time.March, 1)) // most recent

	due, err := NewEngine(db).DueForReminder(11, 12, now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due, got %d", len(due))
	}
	if due[0].MonthsSinceLastClean != 12 {
		t.Fatalf("expected 12 months from the latest job, got %d", due[0].MonthsSinceLastClean)
	}
	if due[0].LastCleanedDate == nil || !due[0].LastCleanedDate.Equal(date(2023, time.March, 1)) {
		t.Fatalf("expected last cleaned 2023-03-01, got %v", due[0].LastCleanedDate)
	}
}

func TestAnnualReviewScenario(t *testing.T) {
	// now = 2024-03-15. A serviced 2023-03-01 and 2023-01-01 -> 12
	// months. B serviced 2023-04-01 -> 11 months. C never serviced.
	db := setupTestDB(t)
	now := date(2024, time.March, 15)
	c := seedCustomer(t, db, "Jane", "Doe")

	a := seedProperty(t, db, c.ID, "Property A")
	seedJob(t, db, a.ID, date(2023, time.March, 1))
	seedJob(t, db, a.ID, date(2023, time.January, 1))

	b := seedProperty(t, db, c.ID, "Property B")
	seedJob(t, db, b.ID, date(2023, time.April, 1))

	seedProperty(t, db, c.ID, "Property C")

	due, err := NewEngine(db).DueForReminder(11, 12, now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected A and B due, got %d candidates", len(due))
	}
	if due[0].Property.ID != a.ID || due[0].MonthsSinceLastClean != 12 {
		t.Fatalf("expected A first at 12 months, got property %d at %d", due[0].Property.ID, due[0].MonthsSinceLastClean)
	}
	if due[1].Property.ID != b.ID || due[1].MonthsSinceLastClean != 11 {
		t.Fatalf("expected B second at 11 months, got property %d at %d", due[1].Property.ID, due[1].MonthsSinceLastClean)
	}
	if due[0].CustomerName != "Jane Doe" {
		t.Fatalf("unexpected customer name %q", due[0].CustomerName)
	}
}

func TestAvailableOffsetsMatchDueQueries(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, time.June, 10)
	c := seedCustomer(t, db, "Jane", "Doe")

	dueNow := seedProperty(t, db, c.ID, "Due Now")
	seedJob(t, db, dueNow.ID, now.AddDate(0, -11, 0))

	longOverdue := seedProperty(t, db, c.ID, "Long Overdue")
	seedJob(t, db, longOverdue.ID, now.AddDate(0, -25, 0))

	recent := seedProperty(t, db, c.ID, "Recent")
	seedJob(t, db, recent.ID, now.AddDate(0, -2, 0))

	engine := NewEngine(db)
	offsets, err := engine.AvailableMonthOffsets(now)
	if err != nil {
		t.Fatalf("offsets: %v", err)
	}
	want := []int{0, 14}
	if len(offsets) != len(want) {
		t.Fatalf("expected offsets %v, got %v", want, offsets)
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("expected offsets %v, got %v", want, offsets)
		}
	}
	// Every discovered offset must yield at least one due property.
	for _, offset := range offsets {
		due, err := engine.DueByMonthOffset(offset, now)
		if err != nil {
			t.Fatalf("due by offset %d: %v", offset, err)
		}
		if len(due) == 0 {
			t.Fatalf("offset %d reported available but window is empty", offset)
		}
	}
}

func TestOrphanedPropertySkipped(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, time.March, 15)
	c := seedCustomer(t, db, "Gone", "Soon")
	p := seedProperty(t, db, c.ID, "Orphan House")
	seedJob(t, db, p.ID, date(2023, time.March, 1))

	// Delete the owner directly, bypassing the repository cascade, to
	// simulate a concurrent delete mid-report.
	if err := db.Exec("DELETE FROM customers WHERE id = ?", c.ID).Error; err != nil {
		t.Fatalf("delete customer: %v", err)
	}

	due, err := NewEngine(db).DueForReminder(11, 12, now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("orphaned property should be excluded, got %d candidates", len(due))
	}
}

func TestOrphanedPropertyAbsentFromOffsets(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, time.March, 15)
	c := seedCustomer(t, db, "Gone", "Soon")
	p := seedProperty(t, db, c.ID, "Orphan House")
	seedJob(t, db, p.ID, date(2023, time.March, 1))

	if err := db.Exec("DELETE FROM customers WHERE id = ?", c.ID).Error; err != nil {
		t.Fatalf("delete customer: %v", err)
	}

	// Offset discovery applies the same owner filter as the due query,
	// so it never advertises a month whose query would come back empty.
	offsets, err := NewEngine(db).AvailableMonthOffsets(now)
	if err != nil {
		t.Fatalf("offsets: %v", err)
	}
	if len(offsets) != 0 {
		t.Fatalf("orphaned property should yield no offsets, got %v", offsets)
	}
}

func TestLastReminderDateJoined(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, time.March, 15)
	c := seedCustomer(t, db, "Jane", "Doe")
	p := seedProperty(t, db, c.ID, "Reminded House")
	seedJob(t, db, p.ID, date(2023, time.March, 1))

	older := models.ReminderHistory{PropertyID: p.ID, DateSent: date(2023, time.February, 1), Method: "email"}
	newer := models.ReminderHistory{PropertyID: p.ID, DateSent: date(2024, time.March, 1), Method: "mail_merge"}
	if err := db.Create(&older).Error; err != nil {
		t.Fatalf("history: %v", err)
	}
	if err := db.Create(&newer).Error; err != nil {
		t.Fatalf("history: %v", err)
	}

	due, err := NewEngine(db).DueForReminder(11, 12, now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due, got %d", len(due))
	}
	if due[0].LastReminderDate == nil || !due[0].LastReminderDate.Equal(date(2024, time.March, 1)) {
		t.Fatalf("expected last reminder 2024-03-01, got %v", due[0].LastReminderDate)
	}
}
