package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sweepcrm/internal/backup"
	"sweepcrm/internal/config"
	"sweepcrm/internal/db"
	"sweepcrm/internal/server"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	restoreFlag     = flag.String("restore", "", "Restore the database from the given backup file and exit")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if *restoreFlag != "" {
		// Restore runs with no open store handle, so the file swap is safe.
		if err := backup.Restore(*restoreFlag, cfg.DatabasePath); err != nil {
			log.Fatalf("restore failed: %v", err)
		}
		log.Printf("database restored from %s; exiting as requested", *restoreFlag)
		return
	}

	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() {
		if cerr := db.Close(conn); cerr != nil {
			log.Printf("close database: %v", cerr)
		}
	}()

	if err := db.Migrate(conn, cfg.DatabasePath); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if *migrateOnlyFlag {
		log.Println("migrations completed; exiting as requested")
		return
	}
	if config.ParseBool("DB_SEED", false) {
		if err := db.Seed(conn); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	log.Printf("Starting server env=%s port=%s db=%s", cfg.Env, cfg.Port, cfg.DatabasePath)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(conn, cfg.DatabasePath)}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
