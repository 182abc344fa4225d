package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/sakif/interview-tracker/internal/model"
)

func syncedInterview(repo *fakeInterviewRepo, eventID string) *model.Interview {
	iv := model.Interview{
		ID:       "iv-1",
		UserID:   "alice",
		Company:  "Acme",
		Position: "Engineer",
		Date:     time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC),
		Status:   model.StatusScheduled,
		Round:    "technical",
	}
	if eventID != "" {
		iv.CalendarEventID = &eventID
	}
	repo.put(iv)
	return &iv
}

func TestCalendarSync_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		tokens TokenLookup
		setup  func(cal *fakeCalendar)
		op     func(s *CalendarSync, iv *model.Interview) SyncOutcome
		event  string
		want   SyncOutcome
	}{
		{
			name:   "create unlinked",
			tokens: staticTokens{},
			op:     func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnCreate(context.Background(), alice, iv) },
			want:   SyncSkipped,
		},
		{
			name:   "create linked",
			tokens: staticTokens{"alice": "tok"},
			op:     func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnCreate(context.Background(), alice, iv) },
			want:   SyncSynced,
		},
		{
			name:   "create with token lookup error",
			tokens: failingTokens{},
			op:     func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnCreate(context.Background(), alice, iv) },
			want:   SyncFailed,
		},
		{
			name:   "update without event id",
			tokens: staticTokens{"alice": "tok"},
			op:     func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnUpdate(context.Background(), alice, iv) },
			want:   SyncSkipped,
		},
		{
			name:   "update linked",
			tokens: staticTokens{"alice": "tok"},
			op:     func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnUpdate(context.Background(), alice, iv) },
			event:  "evt_1",
			want:   SyncSynced,
		},
		{
			name:   "update with event id but unlinked",
			tokens: staticTokens{},
			op:     func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnUpdate(context.Background(), alice, iv) },
			event:  "evt_1",
			want:   SyncSkipped,
		},
		{
			name:   "update fails",
			tokens: staticTokens{"alice": "tok"},
			setup:  func(cal *fakeCalendar) { cal.updateErr = errors.New("boom") },
			op:     func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnUpdate(context.Background(), alice, iv) },
			event:  "evt_1",
			want:   SyncFailed,
		},
		{
			name:   "delete fails",
			tokens: staticTokens{"alice": "tok"},
			setup:  func(cal *fakeCalendar) { cal.deleteErr = errors.New("boom") },
			op:     func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnDelete(context.Background(), alice, iv) },
			event:  "evt_1",
			want:   SyncFailed,
		},
		{
			name:   "delete of event removed on google",
			tokens: staticTokens{"alice": "tok"},
			setup: func(cal *fakeCalendar) {
				cal.deleteErr = &googleapi.Error{Code: http.StatusGone, Message: "Resource has been deleted"}
			},
			op:    func(s *CalendarSync, iv *model.Interview) SyncOutcome { return s.OnDelete(context.Background(), alice, iv) },
			event: "evt_1",
			want:  SyncSynced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeInterviewRepo()
			cal := &fakeCalendar{eventID: "evt_new"}
			if tt.setup != nil {
				tt.setup(cal)
			}
			s := NewCalendarSync(tt.tokens, cal, fixedZone{"UTC"}, repo, discardLogger())
			iv := syncedInterview(repo, tt.event)

			assert.Equal(t, tt.want, tt.op(s, iv))
		})
	}
}

func TestCalendarSync_NilIsSkipped(t *testing.T) {
	var s *CalendarSync
	iv := &model.Interview{ID: "x"}

	assert.Equal(t, SyncSkipped, s.OnCreate(context.Background(), alice, iv))
	assert.Equal(t, SyncSkipped, s.OnUpdate(context.Background(), alice, iv))
	assert.Equal(t, SyncSkipped, s.OnDelete(context.Background(), alice, iv))
}

func TestCalendarSync_CreateWritesBack(t *testing.T) {
	repo := newFakeInterviewRepo()
	cal := &fakeCalendar{eventID: "evt_new"}
	s := NewCalendarSync(staticTokens{"alice": "tok"}, cal, fixedZone{"UTC"}, repo, discardLogger())
	iv := syncedInterview(repo, "")

	s.OnCreate(context.Background(), alice, iv)

	stored, _ := repo.GetByID(context.Background(), iv.ID)
	if assert.NotNil(t, stored.CalendarEventID) {
		assert.Equal(t, "evt_new", *stored.CalendarEventID)
	}
	if assert.NotNil(t, iv.CalendarEventID) {
		assert.Equal(t, "evt_new", *iv.CalendarEventID)
	}
}

func TestCalendarSync_SameZoneForStartAndEnd(t *testing.T) {
	repo := newFakeInterviewRepo()
	cal := &fakeCalendar{eventID: "evt_new"}
	s := NewCalendarSync(staticTokens{"alice": "tok"}, cal, fixedZone{"America/New_York"}, repo, discardLogger())

	s.OnCreate(context.Background(), alice, syncedInterview(repo, ""))

	if assert.Len(t, cal.events, 1) {
		ev := cal.events[0]
		assert.Equal(t, "America/New_York", ev.TimeZone)
		assert.Equal(t, ev.Start.Location(), ev.End.Location())
		assert.Equal(t, 11, ev.Start.Hour(), "15:00Z is 11:00 EDT")
	}
}
