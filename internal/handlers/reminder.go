package handlers

import (
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"sweepcrm/internal/export"
	"sweepcrm/internal/httpx"
	"sweepcrm/internal/reminders"
)

// ReminderHandler serves the due-properties report, its month selector,
// the CSV export and the sent-batch confirmation.
type ReminderHandler struct {
	Engine   *reminders.Engine
	Recorder *reminders.Recorder
}

func NewReminderHandler(db *gorm.DB) *ReminderHandler {
	return &ReminderHandler{Engine: reminders.NewEngine(db), Recorder: reminders.NewRecorder(db)}
}

// reminderWindow resolves the query parameters into a concrete window
// and reference date. `now` may be overridden (YYYY-MM-DD) so reports
// are reproducible; `offset` shifts the default window; explicit
// `min_months`/`max_months` win over offset.
func reminderWindow(r *http.Request) (minMonths, maxMonths int, now time.Time, err error) {
	minMonths, maxMonths = reminders.DefaultMinMonths, reminders.DefaultMaxMonths
	now = time.Now()
	q := r.URL.Query()
	if v := q.Get("now"); v != "" {
		now, err = parseDate(v)
		if err != nil {
			return 0, 0, time.Time{}, err
		}
	}
	if v := q.Get("offset"); v != "" {
		offset, perr := strconv.Atoi(v)
		if perr != nil {
			return 0, 0, time.Time{}, perr
		}
		minMonths += offset
		maxMonths += offset
	}
	if v := q.Get("min_months"); v != "" {
		minMonths, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, time.Time{}, err
		}
	}
	if v := q.Get("max_months"); v != "" {
		maxMonths, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, time.Time{}, err
		}
	}
	return minMonths, maxMonths, now, nil
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	minMonths, maxMonths, now, err := reminderWindow(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_window", nil)
		return
	}
	due, err := h.Engine.DueForReminder(minMonths, maxMonths, now)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "reminder_query_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": due, "total": len(due), "min_months": minMonths, "max_months": maxMonths})
}

func (h *ReminderHandler) Offsets(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if v := r.URL.Query().Get("now"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_now", nil)
			return
		}
		now = parsed
	}
	offsets, err := h.Engine.AvailableMonthOffsets(now)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "reminder_query_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"offsets": offsets})
}

// Export streams the current due window as a CSV attachment.
func (h *ReminderHandler) Export(w http.ResponseWriter, r *http.Request) {
	minMonths, maxMonths, now, err := reminderWindow(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_window", nil)
		return
	}
	due, err := h.Engine.DueForReminder(minMonths, maxMonths, now)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "reminder_query_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(now)+`"`)
	if err := export.WriteCSV(w, due); err != nil {
		// headers already gone; nothing more to do than log upstream
		_ = err
	}
}

// Record marks a batch of properties as reminded. Called after the
// operator confirms the exported batch was actually sent.
func (h *ReminderHandler) Record(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PropertyIDs []uint `json:"property_ids"`
		Method      string `json:"method"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	count, err := h.Recorder.RecordSent(in.PropertyIDs, in.Method)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"recorded": count})
}
