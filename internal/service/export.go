package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/sakif/interview-tracker/internal/auth"
	"github.com/sakif/interview-tracker/internal/calendar"
	"github.com/sakif/interview-tracker/internal/model"
)

const icsProductID = "-//interview-tracker//EN"

// ErrNothingToExport is returned by ExportICS when the caller has no
// interviews; iCalendar has no valid encoding for an empty VCALENDAR.
var ErrNothingToExport = errors.New("no interviews to export")

// ExportICS writes the caller's interviews as an iCalendar feed. Events use
// the same title, description and one-hour span as the Google events, with
// times in UTC.
func (s *InterviewService) ExportICS(ctx context.Context, who auth.Identity, w io.Writer) error {
	interviews, err := s.List(ctx, who, who.UserID)
	if err != nil {
		return err
	}
	if len(interviews) == 0 {
		return ErrNothingToExport
	}

	cal := BuildICS(interviews, time.Now())
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding ics feed: %w", err)
	}
	return nil
}

// BuildICS renders interviews as a VCALENDAR, one VEVENT each.
func BuildICS(interviews []model.Interview, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	stamp := now.UTC().Truncate(time.Second)
	for i := range interviews {
		cal.Children = append(cal.Children, icsEvent(&interviews[i], stamp))
	}
	return cal
}

func icsEvent(iv *model.Interview, stamp time.Time) *ical.Component {
	ev := calendar.BuildEvent(iv, "UTC", time.UTC)

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, iv.ID+"@interview-tracker")
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)
	ve.Props.SetText(ical.PropSummary, ev.Summary)
	ve.Props.SetText(ical.PropDescription, ev.Description)
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}
	ve.Props.SetText(ical.PropStatus, icsStatus(iv.Status))
	return ve
}

// icsStatus maps interview status onto the VEVENT STATUS values.
func icsStatus(s model.Status) string {
	switch s {
	case model.StatusCancelled:
		return "CANCELLED"
	case model.StatusPending:
		return "TENTATIVE"
	default:
		return "CONFIRMED"
	}
}
