package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/sakif/interview-tracker/internal/apperror"
	"github.com/sakif/interview-tracker/internal/auth"
	"github.com/sakif/interview-tracker/internal/model"
	"github.com/sakif/interview-tracker/internal/repository"
)

// LinkedAccounts stores and reads the Google tokens granted at login.
// Tokens are sealed before they reach the repository.
type LinkedAccounts struct {
	repo   repository.AccountRepository
	sealer *auth.Sealer
}

func NewLinkedAccounts(repo repository.AccountRepository, sealer *auth.Sealer) *LinkedAccounts {
	return &LinkedAccounts{repo: repo, sealer: sealer}
}

var _ TokenLookup = (*LinkedAccounts)(nil)

// LinkGoogle records the tokens from a Google login. Google only sometimes
// returns a refresh token, so an empty one keeps whatever was stored.
func (l *LinkedAccounts) LinkGoogle(ctx context.Context, userID, googleSub string, token *oauth2.Token) error {
	if token == nil {
		return errors.New("linking google account: nil token")
	}

	access, err := l.sealer.Seal(token.AccessToken)
	if err != nil {
		return fmt.Errorf("linking google account: %w", err)
	}
	refresh, err := l.sealer.Seal(token.RefreshToken)
	if err != nil {
		return fmt.Errorf("linking google account: %w", err)
	}

	if refresh == "" {
		existing, err := l.repo.GetByUserAndProvider(ctx, userID, model.ProviderGoogle)
		switch {
		case err == nil && existing.ProviderAccountID == googleSub:
			refresh = existing.RefreshToken
		case err != nil && !errors.Is(err, apperror.ErrNotFound):
			return fmt.Errorf("linking google account: %w", err)
		}
	}

	acct := &model.Account{
		UserID:            userID,
		Provider:          model.ProviderGoogle,
		ProviderAccountID: googleSub,
		AccessToken:       access,
		RefreshToken:      refresh,
	}
	if !token.Expiry.IsZero() {
		exp := token.Expiry.UTC().Truncate(time.Second)
		acct.ExpiresAt = &exp
	}

	if err := l.repo.Upsert(ctx, acct); err != nil {
		return fmt.Errorf("linking google account: %w", err)
	}
	return nil
}

// AccessToken returns the user's Google access token in the clear, or ""
// when no Google account is linked. Expiry is not checked: a stale token
// fails at the calendar API.
func (l *LinkedAccounts) AccessToken(ctx context.Context, userID string) (string, error) {
	acct, err := l.repo.GetByUserAndProvider(ctx, userID, model.ProviderGoogle)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("looking up google account: %w", err)
	}

	token, err := l.sealer.Open(acct.AccessToken)
	if err != nil {
		return "", fmt.Errorf("opening google access token: %w", err)
	}
	return token, nil
}
