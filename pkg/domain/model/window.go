package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// AuditWindow is the half-open interval [Start, End) that scopes the tracker
// query. Derived once per run; the default policy is the previous calendar
// day in the report timezone.
type AuditWindow struct {
	Start time.Time
	End   time.Time
}

// NewAuditWindow computes the window covering the calendar day offsetDays
// before now in loc. offsetDays=1 means yesterday.
func NewAuditWindow(now time.Time, loc *time.Location, offsetDays int) AuditWindow {
	day := now.In(loc).AddDate(0, 0, -offsetDays)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return AuditWindow{
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}

// ParseAuditDate builds the window for an explicit YYYY-MM-DD override
func ParseAuditDate(date string, loc *time.Location) (AuditWindow, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return AuditWindow{}, goerr.Wrap(err, "invalid audit date, expected YYYY-MM-DD",
			goerr.V("date", date))
	}
	return AuditWindow{
		Start: day,
		End:   day.AddDate(0, 0, 1),
	}, nil
}

// Label returns the human-readable date the window covers
func (w AuditWindow) Label() string {
	return w.Start.Format("2006-01-02")
}

// StartDate and EndDate format the bounds for the tracker's date-only query
// syntax. EndDate is the exclusive bound rendered as the following day.
func (w AuditWindow) StartDate() string {
	return w.Start.Format("2006-01-02")
}

func (w AuditWindow) EndDate() string {
	return w.End.Format("2006-01-02")
}

// Contains reports whether t falls inside the window
func (w AuditWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
