package repo

import (
	"errors"

	"gorm.io/gorm"

	"sweepcrm/internal/models"
	"sweepcrm/internal/validation"
)

// Customers is the customer repository.
type Customers struct {
	DB *gorm.DB
}

func NewCustomers(db *gorm.DB) *Customers { return &Customers{DB: db} }

// customerColumns enumerates the columns accepted in filters and
// partial updates. Column names are never taken from input directly.
var customerColumns = map[string]bool{
	"title":      true,
	"first_name": true,
	"last_name":  true,
	"phone":      true,
	"email":      true,
	"notes":      true,
}

func (r *Customers) Create(c *models.Customer) error {
	v := validation.Violations{}
	validation.Required("first_name", c.FirstName, v)
	validation.Required("last_name", c.LastName, v)
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return translate(r.DB.Create(c).Error)
}

func (r *Customers) Get(id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update applies a partial update and reports rows changed (0 or 1).
// A missing id is a zero-change result, not an error.
func (r *Customers) Update(id uint, fields map[string]any) (int64, error) {
	if err := checkColumns(fields, customerColumns); err != nil {
		return 0, err
	}
	res := r.DB.Model(&models.Customer{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, translate(res.Error)
}

// Delete removes the customer and cascades to its properties, their
// jobs and their reminder history, all in one transaction.
func (r *Customers) Delete(id uint) (int64, error) {
	var changes int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var propertyIDs []uint
		if err := tx.Model(&models.Property{}).Where("customer_id = ?", id).Pluck("id", &propertyIDs).Error; err != nil {
			return err
		}
		if len(propertyIDs) > 0 {
			if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.Job{}).Error; err != nil {
				return err
			}
			if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.ReminderHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("customer_id = ?", id).Delete(&models.Property{}).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		changes = res.RowsAffected
		return nil
	})
	return changes, translate(err)
}

// List returns customers matching the equality filters, ordered for
// display by last name then first name.
func (r *Customers) List(filters map[string]any) ([]models.Customer, error) {
	if err := checkColumns(filters, customerColumns); err != nil {
		return nil, err
	}
	var customers []models.Customer
	q := r.DB.Order("last_name asc, first_name asc")
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	if err := q.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// checkColumns rejects any filter or update key outside the fixed
// per-entity allowlist.
func checkColumns(fields map[string]any, allowed map[string]bool) error {
	v := validation.Violations{}
	for col := range fields {
		if !allowed[col] {
			v[col] = "unknown_column"
		}
	}
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}
