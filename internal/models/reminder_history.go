package models

import "time"

// ReminderHistory records that a reminder was considered sent for a
// property. Append-only: rows are never updated or deleted by normal
// flow, only removed when the owning property is.
type ReminderHistory struct {
	ID         uint     `gorm:"primaryKey"`
	PropertyID uint     `gorm:"not null;index"`
	Property   Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`

	DateSent time.Time `gorm:"not null"`
	Method   string    `gorm:"not null"` // email, mail_merge
}
