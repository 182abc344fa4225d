package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/interview-tracker/internal/apperror"
	"github.com/sakif/interview-tracker/internal/model"
	"github.com/sakif/interview-tracker/internal/repository"
)

var _ repository.ProfileRepository = (*ProfileDB)(nil)

// ProfileDB is the profiles table; user_id is unique.
type ProfileDB struct {
	conn *sql.DB
}

func (r *ProfileDB) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, full_name, email, phone, location, linkedin, github, website, bio,
		        created_at, updated_at
		 FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Email, &p.Phone, &p.Location,
		&p.LinkedIn, &p.GitHub, &p.Website, &p.Bio,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("profile", userID)
		}
		return nil, fmt.Errorf("sqlite: getting profile for user %s: %w", userID, err)
	}
	return &p, nil
}

// Create inserts a profile. A second profile for the same user violates the
// UNIQUE constraint; callers check for an existing row first.
func (r *ProfileDB) Create(ctx context.Context, p *model.Profile) error {
	p.ID = xid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, full_name, email, phone, location, linkedin, github,
		                       website, bio, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.FullName, p.Email, p.Phone, p.Location, p.LinkedIn, p.GitHub,
		p.Website, p.Bio, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating profile for user %s: %w", p.UserID, err)
	}
	return nil
}

// Update replaces every editable field of the user's profile.
func (r *ProfileDB) Update(ctx context.Context, p *model.Profile) error {
	p.UpdatedAt = time.Now().UTC()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE profiles
		 SET full_name = ?, email = ?, phone = ?, location = ?, linkedin = ?, github = ?,
		     website = ?, bio = ?, updated_at = ?
		 WHERE user_id = ?`,
		p.FullName, p.Email, p.Phone, p.Location, p.LinkedIn, p.GitHub,
		p.Website, p.Bio, p.UpdatedAt,
		p.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile for user %s: %w", p.UserID, err)
	}
	return affectedOrNotFound(result, apperror.NotFound("profile", p.UserID))
}
