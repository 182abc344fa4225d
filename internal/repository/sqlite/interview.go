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

var _ repository.InterviewRepository = (*InterviewDB)(nil)

// InterviewDB is the interviews table.
type InterviewDB struct {
	conn *sql.DB
}

const interviewColumns = `id, user_id, company, position, date, status, round,
	location, notes, salary, calendar_event_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (*model.Interview, error) {
	var iv model.Interview
	var status string
	if err := row.Scan(
		&iv.ID, &iv.UserID, &iv.Company, &iv.Position, &iv.Date, &status, &iv.Round,
		&iv.Location, &iv.Notes, &iv.Salary, &iv.CalendarEventID,
		&iv.CreatedAt, &iv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	iv.Status = model.Status(status)
	iv.Date = iv.Date.UTC()
	return &iv, nil
}

// Create inserts the interview, filling in ID and timestamps. The date is
// normalised to UTC so that text ordering in SQLite matches instant ordering.
func (r *InterviewDB) Create(ctx context.Context, iv *model.Interview) error {
	iv.ID = xid.New().String()
	now := time.Now().UTC()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	iv.Date = iv.Date.UTC()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO interviews (`+interviewColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		iv.ID, iv.UserID, iv.Company, iv.Position, iv.Date, string(iv.Status), iv.Round,
		iv.Location, iv.Notes, iv.Salary, iv.CalendarEventID,
		iv.CreatedAt, iv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating interview: %w", err)
	}
	return nil
}

func (r *InterviewDB) GetByID(ctx context.Context, id string) (*model.Interview, error) {
	iv, err := scanInterview(r.conn.QueryRowContext(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("interview", id)
		}
		return nil, fmt.Errorf("sqlite: getting interview %s: %w", id, err)
	}
	return iv, nil
}

// ListByUser returns every interview owned by userID, latest date first.
func (r *InterviewDB) ListByUser(ctx context.Context, userID string) ([]model.Interview, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+interviewColumns+`
		 FROM interviews
		 WHERE user_id = ?
		 ORDER BY date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing interviews: %w", err)
	}
	defer rows.Close()

	interviews := make([]model.Interview, 0)
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning interview row: %w", err)
		}
		interviews = append(interviews, *iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating interviews: %w", err)
	}
	return interviews, nil
}

func (r *InterviewDB) Update(ctx context.Context, iv *model.Interview) error {
	iv.UpdatedAt = time.Now().UTC()
	iv.Date = iv.Date.UTC()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE interviews
		 SET company = ?, position = ?, date = ?, status = ?, round = ?,
		     location = ?, notes = ?, salary = ?, updated_at = ?
		 WHERE id = ?`,
		iv.Company, iv.Position, iv.Date, string(iv.Status), iv.Round,
		iv.Location, iv.Notes, iv.Salary, iv.UpdatedAt,
		iv.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating interview %s: %w", iv.ID, err)
	}
	return affectedOrNotFound(result, apperror.NotFound("interview", iv.ID))
}

// SetCalendarEventID records the Google event created for the interview.
func (r *InterviewDB) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE interviews SET calendar_event_id = ? WHERE id = ?`,
		eventID, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting calendar event for interview %s: %w", id, err)
	}
	return affectedOrNotFound(result, apperror.NotFound("interview", id))
}

func (r *InterviewDB) Delete(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx, `DELETE FROM interviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting interview %s: %w", id, err)
	}
	return affectedOrNotFound(result, apperror.NotFound("interview", id))
}
