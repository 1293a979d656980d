/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the vacation planning server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load config.yaml + VACATION_* environment (viper)
  3. Build the zap logger
  4. Open the SQLite store
  5. Create API handler, result cache and router
  6. Start the holiday seeder
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config     Path to config.yaml (default: config.yaml; missing is fine)
  -log-level  Override logging.level
  -addr       Override server.address
  -db         Override database.path (":memory:" for an in-memory database)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the holiday seeder
  2. Stop accepting new connections
  3. Wait for active requests to complete (server.shutdown_timeout)
  4. Close database connection

EXAMPLES:
  ./server -config=/etc/vacation/config.yaml
  VACATION_DATABASE_PATH=/var/lib/vacation.db ./server
  ./server -db=":memory:" -log-level=debug

SEE ALSO:
  - config/config.go: Configuration keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/vacation-engine/api"
	"github.com/warp/vacation-engine/config"
	"github.com/warp/vacation-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Override log level (debug, info, warn, error)")
	addr := flag.String("addr", "", "Override HTTP listen address")
	dbPath := flag.String("db", "", "Override SQLite database path")
	flag.Parse()

	if err := run(*configPath, *logLevel, *addr, *dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel, addr, dbPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Address = addr
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	logger, err := config.NewLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	// Initialize store
	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	cache := api.NewResultCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	handler := api.NewHandler(store, cache, logger)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	seeder := api.NewHolidaySeeder(store, logger)
	seeder.CheckInterval = cfg.Holidays.SeedInterval
	seeder.Start()
	defer seeder.Stop()

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("address", cfg.Server.Address),
			zap.String("database", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
