package model

import "time"

// ProviderGoogle is the only linked-account provider the app consumes.
const ProviderGoogle = "google"

// Account links a local user to a third-party OAuth identity and carries the
// tokens that identity granted. Tokens never leave the server.
type Account struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	Provider          string     `json:"provider"`
	ProviderAccountID string     `json:"providerAccountId"`
	AccessToken       string     `json:"-"`
	RefreshToken      string     `json:"-"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
