// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces ownership, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Every operation takes the caller as an explicit auth.Identity. Services
// depend on repository interfaces, so tests run them against in-memory fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/interview-tracker/internal/apperror"
	"github.com/sakif/interview-tracker/internal/auth"
	"github.com/sakif/interview-tracker/internal/model"
	"github.com/sakif/interview-tracker/internal/repository"
)

// InterviewService owns interview CRUD. Mutations hit the database first;
// the calendar sync runs afterwards and cannot change their result.
type InterviewService struct {
	repo   repository.InterviewRepository
	sync   *CalendarSync
	logger *slog.Logger
}

// NewInterviewService wires the service. sync may be nil, which disables
// calendar propagation entirely.
func NewInterviewService(repo repository.InterviewRepository, sync *CalendarSync, logger *slog.Logger) *InterviewService {
	return &InterviewService{
		repo:   repo,
		sync:   sync,
		logger: logger,
	}
}

// List returns the caller's interviews, latest date first. userID is the
// user the client asked for and must be the caller; a missing userID is
// rejected like anyone else's.
func (s *InterviewService) List(ctx context.Context, who auth.Identity, userID string) ([]model.Interview, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}
	if userID != who.UserID {
		return nil, apperror.Unauthorized("cannot list another user's interviews")
	}

	interviews, err := s.repo.ListByUser(ctx, who.UserID)
	if err != nil {
		s.logger.Error("failed to list interviews",
			slog.String("userID", who.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing interviews: %w", err)
	}
	return interviews, nil
}

// Get returns one interview owned by the caller.
func (s *InterviewService) Get(ctx context.Context, who auth.Identity, id string) (*model.Interview, error) {
	return s.loadOwned(ctx, who, id)
}

// Create validates the payload, persists the interview and then tries to
// put it on the caller's Google Calendar. A calendar failure leaves
// CalendarEventID nil but the create still succeeds.
func (s *InterviewService) Create(ctx context.Context, who auth.Identity, in model.InterviewInput) (*model.Interview, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}

	iv, err := interviewFromInput(in)
	if err != nil {
		return nil, err
	}
	iv.UserID = who.UserID

	if err := s.repo.Create(ctx, iv); err != nil {
		s.logger.Error("failed to create interview",
			slog.String("userID", who.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating interview: %w", err)
	}

	s.logger.Info("interview created",
		slog.String("id", iv.ID),
		slog.String("userID", iv.UserID),
	)

	s.sync.OnCreate(ctx, who, iv)
	return iv, nil
}

// Update replaces every editable field. Optional fields missing from the
// payload are cleared. The calendar event, if the record already had one,
// is updated afterwards on a best-effort basis.
func (s *InterviewService) Update(ctx context.Context, who auth.Identity, id string, in model.InterviewInput) (*model.Interview, error) {
	existing, err := s.loadOwned(ctx, who, id)
	if err != nil {
		return nil, err
	}

	iv, err := interviewFromInput(in)
	if err != nil {
		return nil, err
	}
	iv.ID = existing.ID
	iv.UserID = existing.UserID
	iv.CalendarEventID = existing.CalendarEventID
	iv.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, iv); err != nil {
		s.logger.Error("failed to update interview",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating interview: %w", err)
	}

	s.logger.Info("interview updated", slog.String("id", iv.ID))

	if existing.CalendarEventID != nil {
		s.sync.OnUpdate(ctx, who, iv)
	}
	return iv, nil
}

// Delete removes the interview. A linked calendar event is deleted first;
// whether or not that works, the record goes.
func (s *InterviewService) Delete(ctx context.Context, who auth.Identity, id string) error {
	existing, err := s.loadOwned(ctx, who, id)
	if err != nil {
		return err
	}

	if existing.CalendarEventID != nil {
		s.sync.OnDelete(ctx, who, existing)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("interview deleted", slog.String("id", id))
	return nil
}

// loadOwned fetches by id and checks the caller owns the record. NotFound
// wins over Unauthorized: a missing id is reported as missing to anyone.
func (s *InterviewService) loadOwned(ctx context.Context, who auth.Identity, id string) (*model.Interview, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "interview ID is required")
	}

	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.UserID != who.UserID {
		s.logger.Warn("interview access denied",
			slog.String("id", id),
			slog.String("userID", who.UserID),
		)
		return nil, apperror.Unauthorized("not your interview")
	}
	return iv, nil
}

func interviewFromInput(in model.InterviewInput) (*model.Interview, error) {
	company := strings.TrimSpace(in.Company)
	if company == "" {
		return nil, apperror.ValidationFailed("company", "company is required")
	}
	position := strings.TrimSpace(in.Position)
	if position == "" {
		return nil, apperror.ValidationFailed("position", "position is required")
	}
	round := strings.TrimSpace(in.Round)
	if round == "" {
		return nil, apperror.ValidationFailed("round", "round is required")
	}

	date, err := ParseInstant(in.Date)
	if err != nil {
		return nil, err
	}

	status := model.Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = model.StatusScheduled
	}
	if !status.Valid() {
		return nil, apperror.ValidationFailed("status", fmt.Sprintf("unknown status %q", in.Status))
	}

	return &model.Interview{
		Company:  company,
		Position: position,
		Date:     date,
		Status:   status,
		Round:    round,
		Location: in.Location,
		Notes:    in.Notes,
		Salary:   in.Salary,
	}, nil
}

// ParseInstant parses an RFC 3339 timestamp, with or without fractional
// seconds, into a UTC instant.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperror.ValidationFailed("date", "date is required")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, apperror.ValidationFailed("date", "date must be an ISO-8601 instant, e.g. 2024-06-01T15:00:00Z")
	}
	return t.UTC(), nil
}

func requireIdentity(who auth.Identity) error {
	if who.UserID == "" {
		return apperror.Unauthorized("valid authentication required")
	}
	return nil
}
