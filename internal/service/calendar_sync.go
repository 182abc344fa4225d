package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/interview-tracker/internal/auth"
	"github.com/sakif/interview-tracker/internal/calendar"
	"github.com/sakif/interview-tracker/internal/model"
	"github.com/sakif/interview-tracker/internal/repository"
)

// SyncOutcome records what a calendar sync attempt did. It is logged and
// returned for tests; callers never branch on it.
type SyncOutcome string

const (
	SyncSkipped SyncOutcome = "skipped"
	SyncSynced  SyncOutcome = "synced"
	SyncFailed  SyncOutcome = "failed"
)

// TokenLookup finds the caller's Google access token. An empty token with a
// nil error means the user has not linked Google.
type TokenLookup interface {
	AccessToken(ctx context.Context, userID string) (string, error)
}

// ZoneResolver names the zone calendar events are written in.
type ZoneResolver interface {
	Resolve() (string, *time.Location)
}

// CalendarSync mirrors interview mutations onto the user's primary Google
// Calendar. A nil *CalendarSync skips everything.
//
// TWO PHASES, ONE SOURCE OF TRUTH:
// The database row is the record; the Google event is a copy of it. So the
// order is always:
//
//  1. write the row (create/update) or read it (delete)
//  2. attempt the calendar call
//  3. on create, write the returned event id back onto the row
//
// If step 2 fails the row is already correct and the user's request still
// succeeds; the failure is logged and the outcome comes back as SyncFailed.
// Nothing is retried or queued. Running the calendar call first would mean
// a Google outage blocks a purely local edit, and a failed row write would
// leave an event with no record behind it.
//
// Delete is the one exception to "row first": the event id lives on the
// row, so the event is removed before the row that names it.
//
// WHY OUTCOMES INSTEAD OF ERRORS?
// Returning an error invites the caller to act on it. SyncOutcome is only
// logged and asserted in tests; InterviewService never branches on it.
type CalendarSync struct {
	tokens     TokenLookup
	resolver   calendar.Resolver
	zones      ZoneResolver
	interviews repository.InterviewRepository
	logger     *slog.Logger
}

func NewCalendarSync(
	tokens TokenLookup,
	resolver calendar.Resolver,
	zones ZoneResolver,
	interviews repository.InterviewRepository,
	logger *slog.Logger,
) *CalendarSync {
	return &CalendarSync{
		tokens:     tokens,
		resolver:   resolver,
		zones:      zones,
		interviews: interviews,
		logger:     logger,
	}
}

// OnCreate inserts an event for iv and stores the returned event id on the
// record. On success iv.CalendarEventID is set.
func (c *CalendarSync) OnCreate(ctx context.Context, who auth.Identity, iv *model.Interview) SyncOutcome {
	if c == nil {
		return SyncSkipped
	}
	client, outcome := c.clientFor(ctx, who, "create", iv.ID)
	if client == nil {
		return outcome
	}

	eventID, err := client.InsertEvent(ctx, c.buildEvent(iv))
	if err != nil {
		return c.failed("create", iv.ID, err)
	}

	// The event exists on Google now; if this write fails it is orphaned.
	if err := c.interviews.SetCalendarEventID(ctx, iv.ID, eventID); err != nil {
		c.logger.Error("calendar event created but id not saved",
			slog.String("interviewID", iv.ID),
			slog.String("eventID", eventID),
			slog.String("error", err.Error()),
		)
		return SyncFailed
	}

	iv.CalendarEventID = &eventID
	return c.synced("create", iv.ID, eventID)
}

// OnUpdate rewrites the linked event from iv's current fields. Records
// without an event id are skipped; there is no late insert.
func (c *CalendarSync) OnUpdate(ctx context.Context, who auth.Identity, iv *model.Interview) SyncOutcome {
	if c == nil || iv.CalendarEventID == nil {
		return SyncSkipped
	}
	client, outcome := c.clientFor(ctx, who, "update", iv.ID)
	if client == nil {
		return outcome
	}

	if err := client.UpdateEvent(ctx, *iv.CalendarEventID, c.buildEvent(iv)); err != nil {
		return c.failed("update", iv.ID, err)
	}
	return c.synced("update", iv.ID, *iv.CalendarEventID)
}

// OnDelete removes the linked event. The caller deletes the record no
// matter what this returns.
func (c *CalendarSync) OnDelete(ctx context.Context, who auth.Identity, iv *model.Interview) SyncOutcome {
	if c == nil || iv.CalendarEventID == nil {
		return SyncSkipped
	}
	client, outcome := c.clientFor(ctx, who, "delete", iv.ID)
	if client == nil {
		return outcome
	}

	if err := client.DeleteEvent(ctx, *iv.CalendarEventID); err != nil {
		if calendar.IsNotFound(err) {
			c.logger.Info("calendar event already gone",
				slog.String("interviewID", iv.ID),
				slog.String("eventID", *iv.CalendarEventID),
			)
			return SyncSynced
		}
		return c.failed("delete", iv.ID, err)
	}
	return c.synced("delete", iv.ID, *iv.CalendarEventID)
}

// clientFor returns nil plus the outcome to report when no client can be
// built: skipped when Google is not linked, failed on any error.
func (c *CalendarSync) clientFor(ctx context.Context, who auth.Identity, op, interviewID string) (calendar.Client, SyncOutcome) {
	token, err := c.tokens.AccessToken(ctx, who.UserID)
	if err != nil {
		return nil, c.failed(op, interviewID, err)
	}
	if token == "" {
		c.logger.Debug("calendar sync skipped, no linked google account",
			slog.String("op", op),
			slog.String("userID", who.UserID),
		)
		return nil, SyncSkipped
	}

	client, err := c.resolver.ClientFor(ctx, token)
	if err != nil {
		return nil, c.failed(op, interviewID, err)
	}
	return client, SyncSynced
}

func (c *CalendarSync) buildEvent(iv *model.Interview) *calendar.Event {
	zone, loc := c.zones.Resolve()
	return calendar.BuildEvent(iv, zone, loc)
}

func (c *CalendarSync) failed(op, interviewID string, err error) SyncOutcome {
	c.logger.Warn("calendar sync failed",
		slog.String("op", op),
		slog.String("interviewID", interviewID),
		slog.String("outcome", string(SyncFailed)),
		slog.String("error", err.Error()),
	)
	return SyncFailed
}

func (c *CalendarSync) synced(op, interviewID, eventID string) SyncOutcome {
	c.logger.Info("calendar sync done",
		slog.String("op", op),
		slog.String("interviewID", interviewID),
		slog.String("eventID", eventID),
		slog.String("outcome", string(SyncSynced)),
	)
	return SyncSynced
}
