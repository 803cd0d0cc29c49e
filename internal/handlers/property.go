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

type PropertyHandler struct {
	Repo *repo.Properties
}

func NewPropertyHandler(db *gorm.DB) *PropertyHandler {
	return &PropertyHandler{Repo: repo.NewProperties(db)}
}

type propertyInput struct {
	CustomerID            uint   `json:"customer_id"`
	AddressLine1          string `json:"address_line_1"`
	AddressLine2          string `json:"address_line_2"`
	Town                  string `json:"town"`
	Postcode              string `json:"postcode"`
	ChimneyCount          int    `json:"chimney_count"`
	SquareFeet            *int   `json:"square_feet"`
	ServiceIntervalMonths int    `json:"service_interval_months"`
	Notes                 string `json:"notes"`
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := map[string]any{}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_customer_id", nil)
			return
		}
		filters["customer_id"] = uint(id)
	}
	for _, col := range []string{"town", "postcode"} {
		if v := strings.TrimSpace(r.URL.Query().Get(col)); v != "" {
			filters[col] = v
		}
	}
	properties, err := h.Repo.List(filters)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": properties, "total": len(properties)})
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in propertyInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	p := models.Property{
		CustomerID:            in.CustomerID,
		AddressLine1:          strings.TrimSpace(in.AddressLine1),
		AddressLine2:          strings.TrimSpace(in.AddressLine2),
		Town:                  strings.TrimSpace(in.Town),
		Postcode:              strings.ToUpper(strings.TrimSpace(in.Postcode)),
		ChimneyCount:          in.ChimneyCount,
		SquareFeet:            in.SquareFeet,
		ServiceIntervalMonths: in.ServiceIntervalMonths,
		Notes:                 in.Notes,
	}
	if err := h.Repo.Create(&p); err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	p, err := h.Repo.Get(id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	last, err := h.Repo.LastCleanedDate(id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"property": p, "last_cleaned_date": last})
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in struct {
		AddressLine1          *string `json:"address_line_1"`
		AddressLine2          *string `json:"address_line_2"`
		Town                  *string `json:"town"`
		Postcode              *string `json:"postcode"`
		ChimneyCount          *int    `json:"chimney_count"`
		SquareFeet            *int    `json:"square_feet"`
		ServiceIntervalMonths *int    `json:"service_interval_months"`
		Notes                 *string `json:"notes"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	fields := map[string]any{}
	setIfPresent(fields, "address_line_1", in.AddressLine1)
	setIfPresent(fields, "address_line_2", in.AddressLine2)
	setIfPresent(fields, "town", in.Town)
	setIfPresent(fields, "postcode", in.Postcode)
	setIfPresent(fields, "notes", in.Notes)
	if in.ChimneyCount != nil {
		fields["chimney_count"] = *in.ChimneyCount
	}
	if in.SquareFeet != nil {
		fields["square_feet"] = *in.SquareFeet
	}
	if in.ServiceIntervalMonths != nil {
		fields["service_interval_months"] = *in.ServiceIntervalMonths
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

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
