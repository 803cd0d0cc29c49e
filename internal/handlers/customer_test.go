package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
	if err := db.AutoMigrate(&models.User{}, &models.Customer{}, &models.Property{}, &models.Job{}, &models.ReminderHistory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCustomerCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	h := NewCustomerHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"title":"Mrs","first_name":"Jane","last_name":"Doe","phone":"01234 567890"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodGet, "/customers", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var payload struct {
		Items []models.Customer `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 1 || len(payload.Items) != 1 {
		t.Fatalf("expected 1 customer, got %d", payload.Total)
	}
	if payload.Items[0].LastName != "Doe" {
		t.Fatalf("unexpected customer: %+v", payload.Items[0])
	}
}

func TestCustomerCreateValidationSurfaced(t *testing.T) {
	db := setupTestDB(t)
	h := NewCustomerHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"first_name":"","last_name":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_failed") {
		t.Fatalf("expected validation_failed, got %s", w.Body.String())
	}
}

func TestCustomerDeleteReportsChanges(t *testing.T) {
	db := setupTestDB(t)
	h := NewCustomerHandler(db)

	c := models.Customer{FirstName: "Jane", LastName: "Doe"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/customers/delete?id=1", nil)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"changes":1`) {
		t.Fatalf("expected 1 change, got %s", w.Body.String())
	}

	// Second delete: already gone, zero changes.
	w2 := httptest.NewRecorder()
	h.Delete(w2, httptest.NewRequest(http.MethodPost, "/customers/delete?id=1", nil))
	if !strings.Contains(w2.Body.String(), `"changes":0`) {
		t.Fatalf("expected 0 changes, got %s", w2.Body.String())
	}
}
