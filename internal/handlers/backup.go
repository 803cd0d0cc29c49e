package handlers

import (
	"net/http"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"sweepcrm/internal/backup"
	"sweepcrm/internal/httpx"
)

// BackupHandler copies the database file to a backup location on
// demand. Restore is deliberately not an endpoint: swapping the file
// under a live connection is unsafe, so restore runs as a CLI flag
// before the store opens (see cmd/server).
type BackupHandler struct {
	DB     *gorm.DB
	DBPath string
}

func NewBackupHandler(db *gorm.DB, dbPath string) *BackupHandler {
	return &BackupHandler{DB: db, DBPath: dbPath}
}

func (h *BackupHandler) Backup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DestDir string `json:"dest_dir"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.DestDir == "" {
		httpx.JSONError(w, http.StatusBadRequest, "dest_dir_required", nil)
		return
	}
	// Fold the WAL into the main file so the copy is self-contained.
	if err := h.DB.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "backup_failed", nil)
		return
	}
	dest := filepath.Join(in.DestDir, backup.DefaultName(time.Now()))
	if err := backup.Backup(h.DBPath, dest); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "backup_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"backup": dest})
}
