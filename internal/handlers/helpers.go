package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sweepcrm/internal/httpx"
	"sweepcrm/internal/repo"
)

// parseID reads the id from the query string or form body; 0 means
// missing or malformed.
func parseID(r *http.Request) uint {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// writeRepoError maps the repository error taxonomy onto HTTP statuses.
func writeRepoError(w http.ResponseWriter, err error) {
	var ve *repo.ValidationError
	var ce *repo.ConstraintError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
	case errors.Is(err, repo.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.As(err, &ce):
		httpx.JSONError(w, http.StatusConflict, "constraint_violated", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// parseDate parses a calendar date in YYYY-MM-DD form.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
