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

var _ repository.AccountRepository = (*AccountDB)(nil)

// AccountDB is the accounts table.
type AccountDB struct {
	conn *sql.DB
}

// Upsert inserts the account or, when (provider, provider_account_id) is
// already linked, refreshes its tokens. The existing ID and created_at are
// kept and written back onto account.
func (r *AccountDB) Upsert(ctx context.Context, account *model.Account) error {
	var existingID string
	var createdAt time.Time
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, created_at FROM accounts WHERE provider = ? AND provider_account_id = ?`,
		account.Provider, account.ProviderAccountID,
	).Scan(&existingID, &createdAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sqlite: looking up %s account %s: %w",
			account.Provider, account.ProviderAccountID, err)
	}

	now := time.Now().UTC()
	account.UpdatedAt = now

	if existingID != "" {
		account.ID = existingID
		account.CreatedAt = createdAt
		_, err = r.conn.ExecContext(ctx,
			`UPDATE accounts
			 SET user_id = ?, access_token = ?, refresh_token = ?, expires_at = ?, updated_at = ?
			 WHERE id = ?`,
			account.UserID, account.AccessToken, account.RefreshToken, account.ExpiresAt,
			account.UpdatedAt, account.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating account %s: %w", account.ID, err)
		}
		return nil
	}

	account.ID = xid.New().String()
	account.CreatedAt = now
	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, provider, provider_account_id, access_token,
		                       refresh_token, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.UserID, account.Provider, account.ProviderAccountID,
		account.AccessToken, account.RefreshToken, account.ExpiresAt,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting %s account for user %s: %w",
			account.Provider, account.UserID, err)
	}
	return nil
}

// GetByUserAndProvider returns the most recently refreshed account the user
// has linked for provider, or NotFound.
func (r *AccountDB) GetByUserAndProvider(ctx context.Context, userID, provider string) (*model.Account, error) {
	var a model.Account
	var expiresAt sql.NullTime
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_account_id, access_token, refresh_token,
		        expires_at, created_at, updated_at
		 FROM accounts
		 WHERE user_id = ? AND provider = ?
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		userID, provider,
	).Scan(
		&a.ID, &a.UserID, &a.Provider, &a.ProviderAccountID, &a.AccessToken, &a.RefreshToken,
		&expiresAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(provider+" account", userID)
		}
		return nil, fmt.Errorf("sqlite: getting %s account for user %s: %w", provider, userID, err)
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		a.ExpiresAt = &t
	}
	return &a, nil
}
