package repo

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sweepcrm/internal/models"
	"sweepcrm/internal/validation"
)

// Properties is the property repository.
type Properties struct {
	DB *gorm.DB
}

func NewProperties(db *gorm.DB) *Properties { return &Properties{DB: db} }

var propertyColumns = map[string]bool{
	"customer_id":             true,
	"address_line_1":          true,
	"address_line_2":          true,
	"town":                    true,
	"postcode":                true,
	"chimney_count":           true,
	"square_feet":             true,
	"service_interval_months": true,
	"notes":                   true,
}

func (r *Properties) Create(p *models.Property) error {
	v := validation.Violations{}
	validation.Required("address_line_1", p.AddressLine1, v)
	validation.Required("town", p.Town, v)
	validation.UKPostcode("postcode", p.Postcode, v)
	if p.CustomerID == 0 {
		v["customer_id"] = "required"
	}
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	if p.Postcode != "" {
		p.Postcode = validation.FormatPostcode(p.Postcode)
	}
	if p.ChimneyCount == 0 {
		p.ChimneyCount = 1
	}
	if p.ServiceIntervalMonths == 0 {
		p.ServiceIntervalMonths = 12
	}
	// The owning customer must exist at creation time.
	var count int64
	if err := r.DB.Model(&models.Customer{}).Where("id = ?", p.CustomerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("customer %d: %w", p.CustomerID, ErrNotFound)
	}
	return translate(r.DB.Create(p).Error)
}

func (r *Properties) Get(id uint) (*models.Property, error) {
	var p models.Property
	if err := r.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Properties) Update(id uint, fields map[string]any) (int64, error) {
	if err := checkColumns(fields, propertyColumns); err != nil {
		return 0, err
	}
	if raw, ok := fields["postcode"]; ok && raw != nil {
		pc, ok := raw.(string)
		if !ok {
			return 0, &ValidationError{Violations: validation.Violations{"postcode": "invalid_postcode"}}
		}
		v := validation.Violations{}
		validation.UKPostcode("postcode", pc, v)
		if !v.Empty() {
			return 0, &ValidationError{Violations: v}
		}
		if pc != "" {
			fields["postcode"] = validation.FormatPostcode(pc)
		}
	}
	res := r.DB.Model(&models.Property{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, translate(res.Error)
}

// Delete removes the property together with its jobs and reminder
// history in one transaction.
func (r *Properties) Delete(id uint) (int64, error) {
	var changes int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.Job{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.ReminderHistory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Property{}, id)
		if res.Error != nil {
			return res.Error
		}
		changes = res.RowsAffected
		return nil
	})
	return changes, translate(err)
}

func (r *Properties) List(filters map[string]any) ([]models.Property, error) {
	if err := checkColumns(filters, propertyColumns); err != nil {
		return nil, err
	}
	var properties []models.Property
	q := r.DB.Order("town asc, address_line_1 asc")
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	if err := q.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// LastCleanedDate derives the most recent completed job date for the
// property from the jobs table. The job history is the source of truth;
// nothing caches this value. A property with no jobs returns nil.
func (r *Properties) LastCleanedDate(id uint) (*time.Time, error) {
	if _, err := r.Get(id); err != nil {
		return nil, err
	}
	var job models.Job
	err := r.DB.Where("property_id = ?", id).Order("date_completed desc, id desc").First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := job.DateCompleted
	return &d, nil
}
