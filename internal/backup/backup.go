// Package backup copies the sqlite database file to and from backup
// locations. The live database is never written in place: both
// directions copy to a temp file in the destination directory and
// rename, so a failed copy cannot corrupt anything.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Backup copies the database file at dbPath to destPath.
// The caller is responsible for quiescing writes first (a desktop-style
// single-user deployment has no concurrent writers to worry about).
func Backup(dbPath, destPath string) error {
	return copyFile(dbPath, destPath)
}

// Restore replaces the database file at dbPath with the backup at
// srcPath. The store handle for dbPath must be closed before calling;
// the swap happens only after the backup has been fully copied.
func Restore(srcPath, dbPath string) error {
	if _, err := os.Stat(srcPath); err != nil {
		return fmt.Errorf("backup file: %w", err)
	}
	return copyFile(srcPath, dbPath)
}

// DefaultName names a backup after the moment it was taken.
func DefaultName(now time.Time) string {
	return fmt.Sprintf("sweepcrm-backup-%s.db", now.Format("2006-01-02"))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, ".sweepcrm-copy-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
