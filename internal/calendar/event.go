package calendar

import (
	"fmt"
	"time"

	"github.com/sakif/interview-tracker/internal/model"
)

// Summary is the event title for an interview.
func Summary(iv *model.Interview) string {
	return fmt.Sprintf("%s Interview at %s", iv.Position, iv.Company)
}

// Description carries the raw round value and the notes, or "None".
func Description(iv *model.Interview) string {
	notes := "None"
	if iv.Notes != nil && *iv.Notes != "" {
		notes = *iv.Notes
	}
	return fmt.Sprintf("Round: %s\nNotes: %s", iv.Round, notes)
}

// BuildEvent renders an interview as a one-hour event. Start and end are
// both expressed in loc, whose IANA name is zone.
func BuildEvent(iv *model.Interview, zone string, loc *time.Location) *Event {
	start := iv.Date.In(loc)
	ev := &Event{
		Summary:     Summary(iv),
		Description: Description(iv),
		Start:       start,
		End:         start.Add(EventDuration),
		TimeZone:    zone,
	}
	if iv.Location != nil {
		ev.Location = *iv.Location
	}
	return ev
}
