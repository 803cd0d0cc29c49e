package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"sweepcrm/internal/httpx"
	"sweepcrm/internal/models"
	"sweepcrm/internal/repo"
)

type JobHandler struct {
	Repo *repo.Jobs
}

func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{Repo: repo.NewJobs(db)}
}

type jobInput struct {
	PropertyID        uint   `json:"property_id"`
	DateCompleted     string `json:"date_completed"` // YYYY-MM-DD
	ServiceType       string `json:"service_type"`
	CostPence         *int64 `json:"cost_pence"`
	CertificateNumber string `json:"certificate_number"`
	Notes             string `json:"notes"`
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := map[string]any{}
	if v := r.URL.Query().Get("property_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_property_id", nil)
			return
		}
		filters["property_id"] = uint(id)
	}
	if v := strings.TrimSpace(r.URL.Query().Get("certificate_number")); v != "" {
		filters["certificate_number"] = v
	}
	jobs, err := h.Repo.List(filters)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": jobs, "total": len(jobs)})
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in jobInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	j := models.Job{
		PropertyID:        in.PropertyID,
		ServiceType:       strings.TrimSpace(in.ServiceType),
		CostPence:         in.CostPence,
		CertificateNumber: strings.TrimSpace(in.CertificateNumber),
		Notes:             in.Notes,
	}
	if in.DateCompleted != "" {
		date, err := parseDate(in.DateCompleted)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date_completed", nil)
			return
		}
		j.DateCompleted = date
	}
	if err := h.Repo.Create(&j); err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, j)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	j, err := h.Repo.Get(id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in struct {
		DateCompleted     *string `json:"date_completed"`
		ServiceType       *string `json:"service_type"`
		CostPence         *int64  `json:"cost_pence"`
		CertificateNumber *string `json:"certificate_number"`
		Notes             *string `json:"notes"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	fields := map[string]any{}
	if in.DateCompleted != nil {
		date, err := parseDate(*in.DateCompleted)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date_completed", nil)
			return
		}
		fields["date_completed"] = date
	}
	setIfPresent(fields, "service_type", in.ServiceType)
	setIfPresent(fields, "certificate_number", in.CertificateNumber)
	setIfPresent(fields, "notes", in.Notes)
	if in.CostPence != nil {
		fields["cost_pence"] = *in.CostPence
	}
	if len(fields) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no_fields", nil)
		return
	}
	changes, err := h.Repo.Update(id, fields)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"changes": changes})
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	changes, err := h.Repo.Delete(id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"changes": changes})
}
