package reminders

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sweepcrm/internal/models"
	"sweepcrm/internal/repo"
	"sweepcrm/internal/validation"
)

// Recorder is the reminder-history audit log. It never reads or
// interprets dueness; it only answers "when was property P last
// reminded" and appends batch confirmations.
type Recorder struct {
	DB *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder { return &Recorder{DB: db} }

// RecordSent appends one history entry per property in a single
// transaction. All-or-nothing: a mid-batch failure (unknown property,
// constraint violation, disk full) leaves no entries behind.
func (r *Recorder) RecordSent(propertyIDs []uint, method string) (int, error) {
	v := validation.Violations{}
	validation.Required("method", method, v)
	if len(propertyIDs) == 0 {
		v["property_ids"] = "required"
	}
	if !v.Empty() {
		return 0, &repo.ValidationError{Violations: v}
	}

	sentAt := time.Now()
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range propertyIDs {
			var count int64
			if err := tx.Model(&models.Property{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("property %d: %w", id, repo.ErrNotFound)
			}
			entry := models.ReminderHistory{PropertyID: id, DateSent: sentAt, Method: method}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(propertyIDs), nil
}

// LastSentDate returns the most recent reminder date for the property,
// or nil if none was ever recorded.
func (r *Recorder) LastSentDate(propertyID uint) (*time.Time, error) {
	var entry models.ReminderHistory
	err := r.DB.Where("property_id = ?", propertyID).Order("date_sent desc, id desc").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := entry.DateSent
	return &d, nil
}
