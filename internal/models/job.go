package models

import "time"

// Job is one completed sweep for a property. DateCompleted is a calendar
// date; the time component is ignored everywhere it is compared.
// CostPence keeps money exact (integer pence, no floating point).
type Job struct {
	ID         uint     `gorm:"primaryKey"`
	PropertyID uint     `gorm:"not null;index"`
	Property   Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`

	DateCompleted     time.Time `gorm:"not null;index"`
	ServiceType       string    `gorm:"not null;default:'sweep'"`
	CostPence         *int64
	CertificateNumber string
	Notes             string `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
