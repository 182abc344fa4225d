// Package model defines the data structures used throughout the application.
package model

import "time"

// Status is the lifecycle state of an interview. The set is closed.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusPending     Status = "pending"
	StatusPassed      Status = "passed"
	StatusFailed      Status = "failed"
	StatusSecondRound Status = "second_round"
	StatusFinalRound  Status = "final_round"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusScheduled:   "Scheduled",
	StatusPending:     "Pending Decision",
	StatusPassed:      "Passed",
	StatusFailed:      "Failed",
	StatusSecondRound: "Second Round",
	StatusFinalRound:  "Final Round",
	StatusCompleted:   "Completed",
	StatusCancelled:   "Cancelled",
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label, or the raw value for unknown statuses.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

var roundLabels = map[string]string{
	"screening":        "Initial Screening",
	"technical":        "Technical",
	"hr":               "HR",
	"system_design":    "System Design",
	"behavioral":       "Behavioral",
	"final":            "Final",
	"assignment":       "Take-home Assignment",
	"pair_programming": "Pair Programming",
}

// RoundLabel maps a round key to its display label. Rounds are an open set,
// so unrecognized values come back verbatim.
func RoundLabel(round string) string {
	if l, ok := roundLabels[round]; ok {
		return l
	}
	return round
}

// Interview is one interview instance owned by one user.
//
// Date is an absolute instant. It is stored in UTC and re-emitted as RFC 3339,
// never reinterpreted in another zone.
//
// CalendarEventID is a non-owning reference to a Google Calendar event. It is
// written once by the calendar sync after a successful insert and can dangle
// if the event is deleted on Google's side.
type Interview struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Company         string    `json:"company"`
	Position        string    `json:"position"`
	Date            time.Time `json:"date"`
	Status          Status    `json:"status"`
	Round           string    `json:"round"`
	Location        *string   `json:"location"`
	Notes           *string   `json:"notes"`
	Salary          *string   `json:"salary"`
	CalendarEventID *string   `json:"calendarEventId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// InterviewInput is the client payload for create and update. Update is a
// full replace, so a missing optional field clears the stored value.
type InterviewInput struct {
	Company  string  `json:"company"`
	Position string  `json:"position"`
	Date     string  `json:"date"`
	Status   string  `json:"status"`
	Round    string  `json:"round"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Salary   *string `json:"salary,omitempty"`
}
