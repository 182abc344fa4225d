// Package server is the composition root: it opens the database, builds the
// services and handlers, mounts the routes and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/interview-tracker/internal/auth"
	"github.com/sakif/interview-tracker/internal/calendar"
	"github.com/sakif/interview-tracker/internal/handler"
	"github.com/sakif/interview-tracker/internal/middleware"
	sqliteRepo "github.com/sakif/interview-tracker/internal/repository/sqlite"
	"github.com/sakif/interview-tracker/internal/service"
)

// Config holds server configuration. cmd/server fills it from flags and the
// environment.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs session tokens and derives the key that seals stored
	// Google tokens. At least 16 bytes.
	JWTSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// CalendarFallbackTZ is used when the host zone cannot be detected.
	CalendarFallbackTZ string
	// CalendarEndpoint overrides the Google Calendar API base URL.
	CalendarEndpoint string

	SecureCookies bool
}

// Option customises a Server beyond what Config carries.
type Option func(*Server)

// WithCalendarResolver replaces the Google Calendar client factory.
func WithCalendarResolver(r calendar.Resolver) Option {
	return func(s *Server) { s.calendars = r }
}

// Server owns the router and the database connection.
type Server struct {
	router    *chi.Mux
	config    Config
	logger    *slog.Logger
	db        *sqliteRepo.DB
	calendars calendar.Resolver
}

// New opens the database and wires every layer:
//
//	sqlite.DB → repositories → services → handlers → routes
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	sealer, err := auth.NewSealer(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token sealer: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.calendars == nil {
		var gopts []calendar.GoogleOption
		if cfg.CalendarEndpoint != "" {
			gopts = append(gopts, calendar.WithEndpoint(cfg.CalendarEndpoint))
		}
		s.calendars = calendar.NewGoogleResolver(gopts...)
	}

	s.setupRoutes(tokens, sealer)
	return s, nil
}

// setupRoutes mounts:
//
//	GET    /healthz
//	GET    /auth/google/login
//	GET    /auth/google/callback
//	POST   /auth/logout
//	GET    /api/me
//	GET    /api/interviews             ?userId=
//	GET    /api/interviews.ics
//	POST   /api/interviews
//	GET    /api/interviews/{id}
//	PUT    /api/interviews/{id}
//	DELETE /api/interviews/{id}
//	GET    /api/notes                  ?userId=
//	POST   /api/notes
//	PUT    /api/notes/{id}
//	DELETE /api/notes/{id}
//	GET    /api/profile
//	POST   /api/profile
//	PUT    /api/profile
//
// Everything under /api requires a session cookie.
func (s *Server) setupRoutes(tokens *auth.TokenService, sealer *auth.Sealer) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	interviews := s.db.Interviews()
	accounts := service.NewLinkedAccounts(s.db.Accounts(), sealer)
	zones := calendar.NewTimezoneResolver(s.config.CalendarFallbackTZ)
	sync := service.NewCalendarSync(accounts, s.calendars, zones, interviews, s.logger)

	interviewHandler := handler.NewInterviewHandler(service.NewInterviewService(interviews, sync, s.logger), s.logger)
	noteHandler := handler.NewNoteHandler(service.NewNoteService(s.db.Notes(), s.logger), s.logger)
	profileHandler := handler.NewProfileHandler(service.NewProfileService(s.db.Profiles(), s.logger), s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	authService := service.NewAuthService(s.db.Users(), accounts, tokens, s.logger)
	google := auth.NewGoogleProvider(s.config.GoogleClientID, s.config.GoogleClientSecret, s.config.GoogleCallbackURL)
	authHandler := handler.NewAuthHandler(google, authService, s.config.SecureCookies, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	if s.config.GoogleClientID != "" {
		s.router.Get("/auth/google/login", authHandler.HandleGoogleLogin)
		s.router.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
	} else {
		s.logger.Warn("GOOGLE_CLIENT_ID not set; Google login is disabled")
	}
	s.router.Post("/auth/logout", authHandler.HandleLogout)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", authHandler.HandleMe)

		r.Get("/interviews", interviewHandler.HandleList)
		r.Get("/interviews.ics", interviewHandler.HandleExportICS)
		r.Post("/interviews", interviewHandler.HandleCreate)
		r.Get("/interviews/{id}", interviewHandler.HandleGet)
		r.Put("/interviews/{id}", interviewHandler.HandleUpdate)
		r.Delete("/interviews/{id}", interviewHandler.HandleDelete)

		r.Get("/notes", noteHandler.HandleList)
		r.Post("/notes", noteHandler.HandleCreate)
		r.Put("/notes/{id}", noteHandler.HandleUpdate)
		r.Delete("/notes/{id}", noteHandler.HandleDelete)

		r.Get("/profile", profileHandler.HandleGet)
		r.Post("/profile", profileHandler.HandleCreate)
		r.Put("/profile", profileHandler.HandleUpdate)
	})
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for
// up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
