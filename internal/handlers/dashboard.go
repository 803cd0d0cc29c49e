package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"sweepcrm/internal/httpx"
	"sweepcrm/internal/models"
	"sweepcrm/internal/reminders"
)

// DashboardHandler serves the landing-page counters.
type DashboardHandler struct {
	DB     *gorm.DB
	Engine *reminders.Engine
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db, Engine: reminders.NewEngine(db)}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var customers, properties, jobs int64
	if err := h.DB.Model(&models.Customer{}).Count(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "stats_failed", nil)
		return
	}
	if err := h.DB.Model(&models.Property{}).Count(&properties).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "stats_failed", nil)
		return
	}
	if err := h.DB.Model(&models.Job{}).Count(&jobs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "stats_failed", nil)
		return
	}
	due, err := h.Engine.DueByMonthOffset(0, time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "stats_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"customers":      customers,
		"properties":     properties,
		"jobs":           jobs,
		"due_this_month": len(due),
	})
}
