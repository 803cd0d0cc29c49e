package models

import (
	"strings"
	"time"
)

// Property entity. Addresses are stored structured; a single display
// string is always derived by formatting, never parsed back apart.
type Property struct {
	ID         uint     `gorm:"primaryKey"`
	CustomerID uint     `gorm:"not null;index"`
	Customer   Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`

	AddressLine1 string `gorm:"column:address_line_1;not null"`
	AddressLine2 string `gorm:"column:address_line_2"`
	Town         string `gorm:"not null"`
	Postcode     string `gorm:"index"`

	ChimneyCount          int  `gorm:"not null;default:1"`
	SquareFeet            *int // optional, informational only
	ServiceIntervalMonths int  `gorm:"not null;default:12"`

	Notes     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Jobs []Job `gorm:"foreignKey:PropertyID"`
}

// Address formats the structured fields into one display string.
func (p Property) Address() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.AddressLine1, p.AddressLine2, p.Town, p.Postcode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
