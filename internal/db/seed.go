package db

import (
	"time"

	"gorm.io/gorm"

	"sweepcrm/internal/models"
)

// Seed inserts sample data for development. It is a no-op when any
// customers already exist.
func Seed(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	pence := func(v int64) *int64 { return &v }
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	customers := []models.Customer{
		{Title: "Mr", FirstName: "John", LastName: "Smith", Phone: "01234 567890", Email: "john@example.com", Notes: "Regular customer"},
		{Title: "Mrs", FirstName: "Jane", LastName: "Doe", Phone: "01234 567891", Email: "jane@example.com", Notes: "Landlord with 3 properties"},
		{Title: "Mr", FirstName: "Robert", LastName: "Johnson", Phone: "01234 567892", Email: "robert@example.com"},
	}
	for i := range customers {
		if err := conn.Create(&customers[i]).Error; err != nil {
			return err
		}
	}

	properties := []models.Property{
		{CustomerID: customers[0].ID, AddressLine1: "10 Main Street", Town: "London", Postcode: "SW1A 1AA", Notes: "Victorian townhouse", ChimneyCount: 2},
		{CustomerID: customers[1].ID, AddressLine1: "42 Oak Lane", AddressLine2: "Apartment 3B", Town: "Manchester", Postcode: "M1 1AA", Notes: "Access code 1234", ChimneyCount: 1},
		{CustomerID: customers[1].ID, AddressLine1: "100 Elm Road", Town: "Manchester", Postcode: "M2 1AA", Notes: "Dog on premises", ChimneyCount: 1},
		{CustomerID: customers[2].ID, AddressLine1: "5 Birch Avenue", Town: "Birmingham", Postcode: "B1 1AA", ChimneyCount: 1},
	}
	for i := range properties {
		if err := conn.Create(&properties[i]).Error; err != nil {
			return err
		}
	}

	jobs := []models.Job{
		{PropertyID: properties[0].ID, DateCompleted: date(2024, time.November, 4), CostPence: pence(15000), CertificateNumber: "CERT-2024-001", Notes: "Bird nest removed"},
		{PropertyID: properties[0].ID, DateCompleted: date(2023, time.November, 5), CostPence: pence(15000), CertificateNumber: "CERT-2023-001"},
		{PropertyID: properties[1].ID, DateCompleted: date(2024, time.October, 15), CostPence: pence(12000), CertificateNumber: "CERT-2024-002", Notes: "Standard sweep"},
		{PropertyID: properties[2].ID, DateCompleted: date(2024, time.December, 1), CostPence: pence(18000), CertificateNumber: "CERT-2024-003", Notes: "Heavy soot removal"},
		{PropertyID: properties[3].ID, DateCompleted: date(2024, time.January, 10), CostPence: pence(15000), CertificateNumber: "CERT-2024-004"},
	}
	for i := range jobs {
		if err := conn.Create(&jobs[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
