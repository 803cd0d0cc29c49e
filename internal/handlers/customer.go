package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"sweepcrm/internal/httpx"
	"sweepcrm/internal/models"
	"sweepcrm/internal/repo"
)

type CustomerHandler struct {
	Repo *repo.Customers
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{Repo: repo.NewCustomers(db)}
}

type customerInput struct {
	Title     string `json:"title"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := map[string]any{}
	for _, col := range []string{"last_name", "first_name", "phone", "email"} {
		if v := strings.TrimSpace(r.URL.Query().Get(col)); v != "" {
			filters[col] = v
		}
	}
	customers, err := h.Repo.List(filters)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers)})
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in customerInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	c := models.Customer{
		Title:     strings.TrimSpace(in.Title),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Notes:     in.Notes,
	}
	if err := h.Repo.Create(&c); err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	c, err := h.Repo.Get(id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := parseID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in struct {
		Title     *string `json:"title"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Phone     *string `json:"phone"`
		Email     *string `json:"email"`
		Notes     *string `json:"notes"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	fields := map[string]any{}
	setIfPresent(fields, "title", in.Title)
	setIfPresent(fields, "first_name", in.FirstName)
	setIfPresent(fields, "last_name", in.LastName)
	setIfPresent(fields, "phone", in.Phone)
	setIfPresent(fields, "email", in.Email)
	setIfPresent(fields, "notes", in.Notes)
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

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func setIfPresent(fields map[string]any, col string, v *string) {
	if v != nil {
		fields[col] = *v
	}
}
