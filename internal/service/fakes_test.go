package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sakif/interview-tracker/internal/apperror"
	"github.com/sakif/interview-tracker/internal/calendar"
	"github.com/sakif/interview-tracker/internal/model"
)

// =========================================================================
// FAKE REPOSITORIES
// =========================================================================
//
// In-memory implementations of the repository interfaces. They store copies
// so a test cannot mutate state through a returned pointer.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[string]model.Interview
	nextID     int

	createErr error
	updateErr error
	setIDErr  error
	deleted   []string
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[string]model.Interview)}
}

func (f *fakeInterviewRepo) Create(_ context.Context, iv *model.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	iv.ID = fmt.Sprintf("iv-%d", f.nextID)
	iv.CreatedAt = time.Now()
	iv.UpdatedAt = iv.CreatedAt
	f.interviews[iv.ID] = *iv
	return nil
}

func (f *fakeInterviewRepo) GetByID(_ context.Context, id string) (*model.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.interviews[id]
	if !ok {
		return nil, apperror.NotFound("interview", id)
	}
	return &iv, nil
}

func (f *fakeInterviewRepo) ListByUser(_ context.Context, userID string) ([]model.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Interview, 0)
	for _, iv := range f.interviews {
		if iv.UserID == userID {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeInterviewRepo) Update(_ context.Context, iv *model.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.interviews[iv.ID]
	if !ok {
		return apperror.NotFound("interview", iv.ID)
	}
	// Mirrors the SQL: user_id and calendar_event_id are never written here.
	updated := *iv
	updated.UserID = stored.UserID
	updated.CalendarEventID = stored.CalendarEventID
	f.interviews[iv.ID] = updated
	return nil
}

func (f *fakeInterviewRepo) SetCalendarEventID(_ context.Context, id, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setIDErr != nil {
		return f.setIDErr
	}
	iv, ok := f.interviews[id]
	if !ok {
		return apperror.NotFound("interview", id)
	}
	iv.CalendarEventID = &eventID
	f.interviews[id] = iv
	return nil
}

func (f *fakeInterviewRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.interviews[id]; !ok {
		return apperror.NotFound("interview", id)
	}
	delete(f.interviews, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// put seeds a record directly, bypassing Create.
func (f *fakeInterviewRepo) put(iv model.Interview) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interviews[iv.ID] = iv
}

type fakeNoteRepo struct {
	notes  map[string]model.Note
	nextID int
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[string]model.Note)}
}

func (f *fakeNoteRepo) Create(_ context.Context, n *model.Note) error {
	f.nextID++
	n.ID = fmt.Sprintf("note-%d", f.nextID)
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	f.notes[n.ID] = *n
	return nil
}

func (f *fakeNoteRepo) GetByID(_ context.Context, id string) (*model.Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return nil, apperror.NotFound("note", id)
	}
	return &n, nil
}

func (f *fakeNoteRepo) ListByUser(_ context.Context, userID string) ([]model.Note, error) {
	out := make([]model.Note, 0)
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) UpdateContent(_ context.Context, n *model.Note) error {
	stored, ok := f.notes[n.ID]
	if !ok {
		return apperror.NotFound("note", n.ID)
	}
	stored.Content = n.Content
	f.notes[n.ID] = stored
	return nil
}

func (f *fakeNoteRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.notes[id]; !ok {
		return apperror.NotFound("note", id)
	}
	delete(f.notes, id)
	return nil
}

type fakeProfileRepo struct {
	byUser map[string]model.Profile
	nextID int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: make(map[string]model.Profile)}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, apperror.NotFound("profile", userID)
	}
	return &p, nil
}

func (f *fakeProfileRepo) Create(_ context.Context, p *model.Profile) error {
	if _, ok := f.byUser[p.UserID]; ok {
		return errors.New("UNIQUE constraint failed: profiles.user_id")
	}
	f.nextID++
	p.ID = fmt.Sprintf("profile-%d", f.nextID)
	f.byUser[p.UserID] = *p
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *model.Profile) error {
	if _, ok := f.byUser[p.UserID]; !ok {
		return apperror.NotFound("profile", p.UserID)
	}
	f.byUser[p.UserID] = *p
	return nil
}

type fakeAccountRepo struct {
	accounts map[string]model.Account // keyed by userID; google only
	getErr   error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]model.Account)}
}

func (f *fakeAccountRepo) Upsert(_ context.Context, a *model.Account) error {
	if a.ID == "" {
		a.ID = "acct-" + a.UserID
	}
	f.accounts[a.UserID] = *a
	return nil
}

func (f *fakeAccountRepo) GetByUserAndProvider(_ context.Context, userID, provider string) (*model.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.accounts[userID]
	if !ok || a.Provider != provider {
		return nil, apperror.NotFound(provider+" account", userID)
	}
	return &a, nil
}

type fakeUserRepo struct {
	users     map[string]*model.User // keyed by internal ID
	bySub     map[string]*model.User
	nextID    int
	upsertErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]*model.User),
		bySub: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *model.User) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if existing, ok := f.bySub[user.GoogleSub]; ok {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.AvatarURL = user.AvatarURL
		*user = *existing
		return nil
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	f.bySub[user.GoogleSub] = &copied
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

// =========================================================================
// FAKE CALENDAR
// =========================================================================

// fakeCalendar is both the Resolver and the Client. calls records every
// operation in order, e.g. "insert", "update:evt_1", "delete:evt_1".
type fakeCalendar struct {
	mu        sync.Mutex
	calls     []string
	tokens    []string
	events    []*calendar.Event
	eventID   string
	insertErr error
	updateErr error
	deleteErr error
	clientErr error
}

func (f *fakeCalendar) ClientFor(_ context.Context, accessToken string) (calendar.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, accessToken)
	if f.clientErr != nil {
		return nil, f.clientErr
	}
	return f, nil
}

func (f *fakeCalendar) InsertEvent(_ context.Context, ev *calendar.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "insert")
	f.events = append(f.events, ev)
	if f.insertErr != nil {
		return "", f.insertErr
	}
	return f.eventID, nil
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, eventID string, ev *calendar.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update:"+eventID)
	f.events = append(f.events, ev)
	return f.updateErr
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+eventID)
	return f.deleteErr
}

type fixedZone struct {
	name string
}

func (z fixedZone) Resolve() (string, *time.Location) {
	loc, err := time.LoadLocation(z.name)
	if err != nil {
		panic(err)
	}
	return z.name, loc
}

// staticTokens maps userID to a plaintext access token.
type staticTokens map[string]string

func (s staticTokens) AccessToken(_ context.Context, userID string) (string, error) {
	return s[userID], nil
}

type failingTokens struct{}

func (failingTokens) AccessToken(context.Context, string) (string, error) {
	return "", errors.New("database is locked")
}
