// Package repository declares the storage interfaces the service layer
// depends on. Implementations live in subpackages (see repository/sqlite).
package repository

import (
	"context"

	"github.com/sakif/interview-tracker/internal/model"
)

// InterviewRepository persists interview records. Ownership checks are the
// service's job; the repository only scopes listing by user.
type InterviewRepository interface {
	Create(ctx context.Context, interview *model.Interview) error
	GetByID(ctx context.Context, id string) (*model.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]model.Interview, error)
	// Update overwrites the editable fields wholesale. It never touches
	// user_id or calendar_event_id.
	Update(ctx context.Context, interview *model.Interview) error
	SetCalendarEventID(ctx context.Context, id, eventID string) error
	Delete(ctx context.Context, id string) error
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id string) (*model.Note, error)
	ListByUser(ctx context.Context, userID string) ([]model.Note, error)
	UpdateContent(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
}

// AccountRepository stores linked OAuth accounts. Token columns hold whatever
// the caller passes in; sealing happens above this layer.
type AccountRepository interface {
	Upsert(ctx context.Context, account *model.Account) error
	GetByUserAndProvider(ctx context.Context, userID, provider string) (*model.Account, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}
