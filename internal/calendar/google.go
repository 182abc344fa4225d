package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultRequestTimeout = 15 * time.Second

// ErrNoAccessToken is returned by ClientFor when the account has no token.
var ErrNoAccessToken = errors.New("calendar: no access token")

// GoogleResolver builds Google Calendar v3 clients from bare access tokens.
type GoogleResolver struct {
	endpoint string
	timeout  time.Duration
}

// GoogleOption configures a GoogleResolver.
type GoogleOption func(*GoogleResolver)

// WithEndpoint points the client at a different API base URL, e.g. an
// httptest server in tests.
func WithEndpoint(url string) GoogleOption {
	return func(r *GoogleResolver) { r.endpoint = url }
}

// WithTimeout bounds each calendar HTTP request.
func WithTimeout(d time.Duration) GoogleOption {
	return func(r *GoogleResolver) { r.timeout = d }
}

func NewGoogleResolver(opts ...GoogleOption) *GoogleResolver {
	r := &GoogleResolver{timeout: defaultRequestTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClientFor wraps accessToken in a static token source. An expired token is
// used as-is and the API call fails; nothing here refreshes it.
func (r *GoogleResolver) ClientFor(ctx context.Context, accessToken string) (Client, error) {
	if accessToken == "" {
		return nil, ErrNoAccessToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = r.timeout

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if r.endpoint != "" {
		opts = append(opts, option.WithEndpoint(r.endpoint))
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: creating service: %w", err)
	}
	return &googleClient{events: svc.Events}, nil
}

type googleClient struct {
	events *gcal.EventsService
}

func (c *googleClient) InsertEvent(ctx context.Context, ev *Event) (string, error) {
	created, err := c.events.Insert(PrimaryCalendarID, toGoogleEvent(ev)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: inserting event: %w", err)
	}
	if created.Id == "" {
		return "", errors.New("calendar: insert returned no event id")
	}
	return created.Id, nil
}

func (c *googleClient) UpdateEvent(ctx context.Context, eventID string, ev *Event) error {
	if _, err := c.events.Update(PrimaryCalendarID, eventID, toGoogleEvent(ev)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: updating event %s: %w", eventID, err)
	}
	return nil
}

func (c *googleClient) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.events.Delete(PrimaryCalendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: deleting event %s: %w", eventID, err)
	}
	return nil
}

func toGoogleEvent(ev *Event) *gcal.Event {
	return &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: ev.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: ev.TimeZone,
		},
		Reminders: &gcal.EventReminders{UseDefault: true},
	}
}

// IsNotFound reports whether err is a 404/410 from the Calendar API, which
// happens when the user removed the event by hand.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}
