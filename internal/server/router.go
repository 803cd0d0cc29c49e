package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"sweepcrm/internal/auth"
	"sweepcrm/internal/handlers"
	"sweepcrm/internal/httpx"
	"sweepcrm/internal/models"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, dbPath string) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1)
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints (unauthenticated by nature)
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	locked := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(h)
	}

	// Customer endpoints. List/Create via /customers; Get/Update/Delete
	// take ?id=N for simplicity.
	ch := handlers.NewCustomerHandler(db)
	mux.Handle("/customers", locked(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.List(w, r)
		case http.MethodPost:
			ch.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/customers/get", locked(ch.Get))
	mux.Handle("/customers/update", locked(requirePost(ch.Update)))
	mux.Handle("/customers/delete", locked(requirePost(ch.Delete)))

	ph := handlers.NewPropertyHandler(db)
	mux.Handle("/properties", locked(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ph.List(w, r)
		case http.MethodPost:
			ph.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/properties/get", locked(ph.Get))
	mux.Handle("/properties/update", locked(requirePost(ph.Update)))
	mux.Handle("/properties/delete", locked(requirePost(ph.Delete)))

	jh := handlers.NewJobHandler(db)
	mux.Handle("/jobs", locked(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			jh.List(w, r)
		case http.MethodPost:
			jh.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/jobs/get", locked(jh.Get))
	mux.Handle("/jobs/update", locked(requirePost(jh.Update)))
	mux.Handle("/jobs/delete", locked(requirePost(jh.Delete)))

	rh := handlers.NewReminderHandler(db)
	mux.Handle("/reminders", locked(rh.List))
	mux.Handle("/reminders/offsets", locked(rh.Offsets))
	mux.Handle("/reminders/export", locked(rh.Export))
	mux.Handle("/reminders/record", locked(requirePost(rh.Record)))

	dh := handlers.NewDashboardHandler(db)
	mux.Handle("/dashboard", locked(dh.Stats))

	bh := handlers.NewBackupHandler(db, dbPath)
	mux.Handle("/admin/backup", locked(requirePost(bh.Backup)))

	return withRecover(withLogging(auth.Middleware(mux)))
}

func requirePost(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
