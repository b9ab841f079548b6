// Package discovery narrows the attendee-facing event list.
package discovery

import (
	"strings"
	"time"

	"eventdesk/internal/domain/events"
)

type Query struct {
	Title string
	Venue string
}

// Filter returns, in input order, the events whose title contains q.Title and
// whose venue contains q.Venue (both case-insensitive, empty queries match
// everything) and which start at or after now.
func Filter(list []events.Event, q Query, now time.Time) []events.Event {
	title := strings.ToLower(q.Title)
	venue := strings.ToLower(q.Venue)

	out := make([]events.Event, 0, len(list))
	for _, e := range list {
		if !strings.Contains(strings.ToLower(e.Title), title) {
			continue
		}
		if venue != "" && !strings.Contains(strings.ToLower(e.Venue), venue) {
			continue
		}
		if e.StartsAt().Before(now) {
			continue
		}

		out = append(out, e)
	}

	return out
}
