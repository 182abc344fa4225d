// Package calendar pushes interview events to a user's Google Calendar.
//
// The service layer never sees the Google SDK: it asks a Resolver for a
// Client bound to one access token and hands it provider-neutral Events.
package calendar

import (
	"context"
	"time"
)

// PrimaryCalendarID is the calendar every event is written to.
const PrimaryCalendarID = "primary"

// EventDuration is the fixed length of an interview event.
const EventDuration = time.Hour

// Event is a timed calendar entry. Start and End are already in the zone
// named by TimeZone.
type Event struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// Client performs event operations against the primary calendar of the
// account it was built for.
type Client interface {
	InsertEvent(ctx context.Context, ev *Event) (string, error)
	UpdateEvent(ctx context.Context, eventID string, ev *Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// Resolver turns a stored access token into a Client. Resolvers are
// stateless: no token refresh, no caching across calls.
type Resolver interface {
	ClientFor(ctx context.Context, accessToken string) (Client, error)
}
