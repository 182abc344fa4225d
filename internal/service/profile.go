package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/interview-tracker/internal/apperror"
	"github.com/sakif/interview-tracker/internal/auth"
	"github.com/sakif/interview-tracker/internal/model"
	"github.com/sakif/interview-tracker/internal/repository"
)

// ProfileService manages the caller's single profile.
type ProfileService struct {
	repo   repository.ProfileRepository
	logger *slog.Logger
}

func NewProfileService(repo repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// Get returns the caller's profile, or nil with no error if they have not
// created one yet.
func (s *ProfileService) Get(ctx context.Context, who auth.Identity) (*model.Profile, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByUserID(ctx, who.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// Create stores the caller's first profile. Conflict if one exists.
func (s *ProfileService) Create(ctx context.Context, who auth.Identity, in model.Profile) (*model.Profile, error) {
	existing, err := s.Get(ctx, who)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("profile", existing.ID)
	}

	p := profileFields(in)
	p.UserID = who.UserID
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create profile",
			slog.String("userID", who.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	s.logger.Info("profile created", slog.String("userID", who.UserID))
	return p, nil
}

// Update replaces every editable field of the caller's profile.
func (s *ProfileService) Update(ctx context.Context, who auth.Identity, in model.Profile) (*model.Profile, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByUserID(ctx, who.UserID)
	if err != nil {
		return nil, err
	}

	p := profileFields(in)
	p.ID = existing.ID
	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	s.logger.Info("profile updated", slog.String("userID", who.UserID))
	return p, nil
}

// profileFields copies the client-editable fields, ignoring any id,
// userId or timestamps in the payload.
func profileFields(in model.Profile) *model.Profile {
	return &model.Profile{
		FullName: strings.TrimSpace(in.FullName),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Location: strings.TrimSpace(in.Location),
		LinkedIn: strings.TrimSpace(in.LinkedIn),
		GitHub:   strings.TrimSpace(in.GitHub),
		Website:  strings.TrimSpace(in.Website),
		Bio:      in.Bio,
	}
}
