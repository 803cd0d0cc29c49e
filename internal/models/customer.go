package models

import "time"

// Customer entity. One customer may own several properties
// (typical case: a landlord with a portfolio of rentals).
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string // Mr, Mrs, Dr...
	FirstName string `gorm:"not null;index"`
	LastName  string `gorm:"not null;index"`
	Phone     string `gorm:"index"`
	Email     string
	Notes     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Properties []Property `gorm:"foreignKey:CustomerID"`
}

// FullName joins the name parts for display, skipping empty ones.
func (c Customer) FullName() string {
	name := c.FirstName + " " + c.LastName
	if c.Title != "" {
		return c.Title + " " + name
	}
	return name
}
