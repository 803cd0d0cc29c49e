package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sweepcrm/internal/models"
	"sweepcrm/internal/validation"
)

// Jobs is the job (sweep history) repository.
type Jobs struct {
	DB *gorm.DB
}

func NewJobs(db *gorm.DB) *Jobs { return &Jobs{DB: db} }

var jobColumns = map[string]bool{
	"property_id":        true,
	"date_completed":     true,
	"service_type":       true,
	"cost_pence":         true,
	"certificate_number": true,
	"notes":              true,
}

func (r *Jobs) Create(j *models.Job) error {
	v := validation.Violations{}
	validation.RequiredDate("date_completed", j.DateCompleted, v)
	if j.PropertyID == 0 {
		v["property_id"] = "required"
	}
	validation.NonNegativePence("cost_pence", j.CostPence, v)
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	if j.ServiceType == "" {
		j.ServiceType = "sweep"
	}
	var count int64
	if err := r.DB.Model(&models.Property{}).Where("id = ?", j.PropertyID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("property %d: %w", j.PropertyID, ErrNotFound)
	}
	return translate(r.DB.Create(j).Error)
}

func (r *Jobs) Get(id uint) (*models.Job, error) {
	var j models.Job
	if err := r.DB.First(&j, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *Jobs) Update(id uint, fields map[string]any) (int64, error) {
	if err := checkColumns(fields, jobColumns); err != nil {
		return 0, err
	}
	if raw, ok := fields["cost_pence"]; ok && raw != nil {
		pence, ok := penceValue(raw)
		if !ok {
			return 0, &ValidationError{Violations: validation.Violations{"cost_pence": "must_be_whole_pence"}}
		}
		if pence < 0 {
			return 0, &ValidationError{Violations: validation.Violations{"cost_pence": "must_not_be_negative"}}
		}
		fields["cost_pence"] = pence
	}
	res := r.DB.Model(&models.Job{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, translate(res.Error)
}

// penceValue coerces the update-map cost into int64 pence. JSON decoding
// hands us float64, direct callers may pass int or int64; fractional
// amounts are not representable in pence and are rejected.
func penceValue(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func (r *Jobs) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&models.Job{}, id)
	return res.RowsAffected, translate(res.Error)
}

// List returns jobs matching the filters, most recent first.
func (r *Jobs) List(filters map[string]any) ([]models.Job, error) {
	if err := checkColumns(filters, jobColumns); err != nil {
		return nil, err
	}
	var jobs []models.Job
	q := r.DB.Order("date_completed desc, id desc")
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}
