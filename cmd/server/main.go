/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the club ledger server. Handles configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags
  2. Open the SQLite snapshot store
  3. Restore the latest saved state into the in-memory ledger
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

CONFIGURATION:
  -port    HTTP server port (default: 8080, or PORT env)
  -db      SQLite database path (default: club.db, or DB_PATH env)
  LOG_LEVEL  debug, info, warn, error

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait for active requests
  (30s timeout), close the database, exit.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/topspin/club-ledger/api"
	"github.com/topspin/club-ledger/ledger"
	"github.com/topspin/club-ledger/logging"
	"github.com/topspin/club-ledger/store/sqlite"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	port := flag.String("port", getenv("PORT", "8080"), "HTTP server port")
	dbPath := flag.String("db", getenv("DB_PATH", "club.db"), "SQLite database path")
	flag.Parse()

	snapshots, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	defer snapshots.Close()

	store := ledger.New()
	blob, err := snapshots.Load(context.Background())
	switch {
	case errors.Is(err, ledger.ErrNoSnapshot):
		slog.Info("no saved state, starting with an empty ledger")
	case err != nil:
		slog.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	default:
		if err := store.Restore(blob); err != nil {
			slog.Error("failed to restore state", "error", err)
			os.Exit(1)
		}
		slog.Info("state restored",
			"players", len(store.Players()),
			"matches", len(store.Matches()),
			"payments", len(store.Payments()),
			"expenses", len(store.Expenses()))
	}

	handler := api.NewHandler(store, snapshots)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", "http://localhost:"+*port, "db", *dbPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
