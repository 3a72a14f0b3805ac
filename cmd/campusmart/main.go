package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/campusmart/campusmart/db"
	"github.com/campusmart/campusmart/internal/config"
	"github.com/campusmart/campusmart/internal/crypto"
	"github.com/campusmart/campusmart/internal/database"
	"github.com/campusmart/campusmart/internal/server"
	"github.com/campusmart/campusmart/static"
	"github.com/campusmart/campusmart/templates"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug, threaded bool

	cmd := &cobra.Command{
		Use:           "campusmart [HOST] [PORT]",
		Short:         "Run the CampusMart web server",
		Version:       version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading .env: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			flags := cmd.Flags()
			if err := applyArgs(cfg, args, flags.Changed("debug"), debug, flags.Changed("threaded"), threaded); err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "show error details and log at debug level")
	cmd.Flags().BoolVar(&threaded, "threaded", false, "serve requests concurrently")
	return cmd
}

// applyArgs lets positional HOST PORT and explicitly set flags override config.
func applyArgs(cfg *config.Config, args []string, debugSet, debug, threadedSet, threaded bool) error {
	if len(args) > 0 {
		cfg.Host = args[0]
	}
	if len(args) > 1 {
		port, err := strconv.Atoi(args[1])
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", args[1])
		}
		cfg.Port = port
	}
	if debugSet {
		cfg.Debug = debug
	}
	if threadedSet {
		cfg.Threaded = threaded
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logLevel := parseLogLevel(cfg.LogLevel)
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("starting campusmart", "version", version, "debug", cfg.Debug, "threaded", cfg.Threaded)

	if cfg.EphemeralSecret {
		slog.Warn("SESSION_SECRET not set, using a random secret for this process; sessions will not survive a restart")
	}

	if err := ensureDataDir(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	sqlDB, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	if cfg.RunMigrations {
		if err := database.RunMigrations(sqlDB, db.MigrationsFS, "migrations"); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	if err := database.Bootstrap(ctx, sqlDB, database.DialectOf(sqlDB)); err != nil {
		return fmt.Errorf("bootstrapping schema: %w", err)
	}

	signer := crypto.NewSessionSigner(cfg.SessionSecret, cfg.SessionSalt)

	srv, err := server.New(cfg, sqlDB, signer, templates.FS, static.FS)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("running on " + srv.Addr())
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownCh:
		slog.Info("shutdown signal received", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ensureDataDir creates the directory holding a SQLite database file.
func ensureDataDir(databaseURL string) error {
	dialect, dsn := database.ParseURL(databaseURL)
	if dialect != database.SQLite {
		return nil
	}
	path := database.SQLiteFilePath(dsn)
	if path == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0750)
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
