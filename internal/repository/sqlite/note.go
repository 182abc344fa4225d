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

var _ repository.NoteRepository = (*NoteDB)(nil)

// NoteDB is the notes table.
type NoteDB struct {
	conn *sql.DB
}

func (r *NoteDB) Create(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		note.ID, note.UserID, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}
	return nil
}

func (r *NoteDB) GetByID(ctx context.Context, id string) (*model.Note, error) {
	var n model.Note
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, content, created_at, updated_at FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", id, err)
	}
	return &n, nil
}

// ListByUser returns the user's notes, newest first.
func (r *NoteDB) ListByUser(ctx context.Context, userID string) ([]model.Note, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, content, created_at, updated_at
		 FROM notes
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}
	return notes, nil
}

// UpdateContent replaces only the content column.
func (r *NoteDB) UpdateContent(ctx context.Context, note *model.Note) error {
	note.UpdatedAt = time.Now().UTC()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE notes SET content = ?, updated_at = ? WHERE id = ?`,
		note.Content, note.UpdatedAt, note.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}
	return affectedOrNotFound(result, apperror.NotFound("note", note.ID))
}

func (r *NoteDB) Delete(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}
	return affectedOrNotFound(result, apperror.NotFound("note", id))
}
