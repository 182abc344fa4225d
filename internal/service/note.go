package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/interview-tracker/internal/apperror"
	"github.com/sakif/interview-tracker/internal/auth"
	"github.com/sakif/interview-tracker/internal/model"
	"github.com/sakif/interview-tracker/internal/repository"
)

// NoteService is owner-scoped CRUD over notes. Content is stored as given;
// empty notes are allowed.
type NoteService struct {
	repo   repository.NoteRepository
	logger *slog.Logger
}

func NewNoteService(repo repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

// List returns the caller's notes, newest first. userID must be the
// caller's own; empty is rejected.
func (s *NoteService) List(ctx context.Context, who auth.Identity, userID string) ([]model.Note, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}
	if userID != who.UserID {
		return nil, apperror.Unauthorized("cannot list another user's notes")
	}

	notes, err := s.repo.ListByUser(ctx, who.UserID)
	if err != nil {
		s.logger.Error("failed to list notes",
			slog.String("userID", who.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, who auth.Identity, content string) (*model.Note, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}

	note := &model.Note{UserID: who.UserID, Content: content}
	if err := s.repo.Create(ctx, note); err != nil {
		s.logger.Error("failed to create note",
			slog.String("userID", who.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Info("note created", slog.String("id", note.ID))
	return note, nil
}

// Update replaces the content only.
func (s *NoteService) Update(ctx context.Context, who auth.Identity, id, content string) (*model.Note, error) {
	note, err := s.loadOwned(ctx, who, id)
	if err != nil {
		return nil, err
	}

	note.Content = content
	if err := s.repo.UpdateContent(ctx, note); err != nil {
		s.logger.Error("failed to update note",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating note: %w", err)
	}

	s.logger.Info("note updated", slog.String("id", id))
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, who auth.Identity, id string) error {
	if _, err := s.loadOwned(ctx, who, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("note deleted", slog.String("id", id))
	return nil
}

func (s *NoteService) loadOwned(ctx context.Context, who auth.Identity, id string) (*model.Note, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "note ID is required")
	}

	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.UserID != who.UserID {
		return nil, apperror.Unauthorized("not your note")
	}
	return note, nil
}
