package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/sakif/interview-tracker/internal/calendar"
	"github.com/sakif/interview-tracker/internal/server"
)

const (
	defaultPort   = 8080
	defaultDBPath = "data/tracker.db"
)

func dbPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db-path",
		Usage:   "SQLite database file",
		Value:   defaultDBPath,
		EnvVars: []string{"DB_PATH"},
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "log-level",
		Usage:   "debug, info, warn or error",
		Value:   "info",
		EnvVars: []string{"LOG_LEVEL"},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   defaultPort,
			EnvVars: []string{"PORT"},
		},
		dbPathFlag(),
		logLevelFlag(),
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "signs sessions and seals stored Google tokens (at least 16 bytes)",
			EnvVars: []string{"JWT_SECRET"},
		},
		&cli.StringFlag{
			Name:    "google-client-id",
			EnvVars: []string{"GOOGLE_CLIENT_ID"},
		},
		&cli.StringFlag{
			Name:    "google-client-secret",
			EnvVars: []string{"GOOGLE_CLIENT_SECRET"},
		},
		&cli.StringFlag{
			Name:    "google-callback-url",
			Usage:   "defaults to http://localhost:<port>/auth/google/callback",
			EnvVars: []string{"GOOGLE_CALLBACK_URL"},
		},
		&cli.StringFlag{
			Name:    "calendar-fallback-tz",
			Usage:   "IANA zone for calendar events when the host zone is unknown",
			Value:   calendar.DefaultFallbackZone,
			EnvVars: []string{"CALENDAR_FALLBACK_TZ"},
		},
		&cli.BoolFlag{
			Name:    "secure-cookies",
			Usage:   "mark session cookies Secure (serve over HTTPS)",
			EnvVars: []string{"SECURE_COOKIES"},
		},
	}
}

func configFromContext(c *cli.Context) server.Config {
	port := c.Int("port")
	callback := c.String("google-callback-url")
	if callback == "" {
		callback = fmt.Sprintf("http://localhost:%d/auth/google/callback", port)
	}

	return server.Config{
		Port:               port,
		DBPath:             c.String("db-path"),
		JWTSecret:          c.String("jwt-secret"),
		GoogleClientID:     c.String("google-client-id"),
		GoogleClientSecret: c.String("google-client-secret"),
		GoogleCallbackURL:  callback,
		CalendarFallbackTZ: c.String("calendar-fallback-tz"),
		SecureCookies:      c.Bool("secure-cookies"),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)}))
	slog.SetDefault(logger)
	return logger
}
