package model

import "time"

// User is a registered user. Google is the identity provider, so the stable
// external key is the Google subject; the internal ID is our own xid so
// primary keys are not tied to a third party's numbering.
type User struct {
	ID        string    `json:"id"`
	GoogleSub string    `json:"-"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
