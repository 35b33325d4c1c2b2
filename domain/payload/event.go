package payload

import (
	"strings"
	"time"

	"github.com/prasetyowira/qr-utils/domain/qrerr"
)

// EventTimeLayout is the floating (zone-less) iCalendar date-time layout.
const EventTimeLayout = "20060102T150405"

// EventRequest describes a calendar entry.
type EventRequest struct {
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
}

func (r EventRequest) Kind() Kind { return KindEvent }

// Format renders a VEVENT block. Times are written in their own location
// without a zone suffix.
func (r EventRequest) Format() (string, error) {
	if err := required(KindEvent, "title", r.Title); err != nil {
		return "", err
	}
	if r.StartTime.IsZero() {
		return "", qrerr.Validation(string(KindEvent), "start_time is required")
	}
	if r.EndTime.IsZero() {
		return "", qrerr.Validation(string(KindEvent), "end_time is required")
	}
	if r.EndTime.Before(r.StartTime) {
		return "", qrerr.Validation(string(KindEvent), "end_time %s is before start_time %s",
			r.EndTime.Format(EventTimeLayout), r.StartTime.Format(EventTimeLayout))
	}

	lines := []string{
		"BEGIN:VEVENT",
		"SUMMARY:" + r.Title,
		"DTSTART:" + r.StartTime.Format(EventTimeLayout),
		"DTEND:" + r.EndTime.Format(EventTimeLayout),
	}
	if r.Location != "" {
		lines = append(lines, "LOCATION:"+r.Location)
	}
	if r.Description != "" {
		lines = append(lines, "DESCRIPTION:"+r.Description)
	}
	lines = append(lines, "END:VEVENT")
	return strings.Join(lines, "\n"), nil
}
