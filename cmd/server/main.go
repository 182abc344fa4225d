// Command server runs the interview tracker.
//
//	server serve     start the HTTP server (default)
//	server migrate   create or upgrade the database schema and exit
//
// Every flag can also be set through the environment, and a .env file in the
// working directory is loaded first if present.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	sqliteRepo "github.com/sakif/interview-tracker/internal/repository/sqlite"
	"github.com/sakif/interview-tracker/internal/server"
)

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	serve := serveCommand()
	return &cli.App{
		Name:   "interview-tracker",
		Usage:  "Track job interviews and mirror them to Google Calendar.",
		Flags:  serve.Flags,
		Action: serve.Action,
		Commands: []*cli.Command{
			serve,
			migrateCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server.",
		Flags: serveFlags(),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))

			cfg := configFromContext(c)
			if cfg.JWTSecret == "" {
				return errors.New("jwt-secret (JWT_SECRET) is required")
			}
			if err := ensureDBDir(cfg.DBPath); err != nil {
				return err
			}

			srv, err := server.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			return srv.Start()
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or upgrade the database schema, then exit.",
		Flags: []cli.Flag{dbPathFlag(), logLevelFlag()},
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))

			dbPath := c.String("db-path")
			if err := ensureDBDir(dbPath); err != nil {
				return err
			}

			db, err := sqliteRepo.New(dbPath)
			if err != nil {
				return fmt.Errorf("migrating %s: %w", dbPath, err)
			}
			logger.Info("database migrated", slog.String("database", dbPath))
			return db.Close()
		},
	}
}

// ensureDBDir creates the directory holding a file-backed database.
func ensureDBDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return nil
}
