// Package analytics joins events with attendee profiles and feedback into the
// per-event figures organizers and admins look at. Reports are projections;
// they are rebuilt from scratch on every refresh.
package analytics

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"eventdesk/internal/domain/events"
	"eventdesk/internal/domain/profiles"
	"eventdesk/internal/session"
)

const defaultConcurrency = 8

type ProfileResolver interface {
	GetProfile(ctx context.Context, sess session.Session, userID primitive.ObjectID) (*profiles.AttendeeProfile, error)
}

type EventReport struct {
	Event     events.Event               `json:"event"`
	Attendees []profiles.AttendeeProfile `json:"attendees"`
	AvgRating float64                    `json:"avgRating"`
	Closed    bool                       `json:"closed"`
	Sold      map[string]int             `json:"sold"`
	TotalSold int                        `json:"totalSold"`
	Revenue   float64                    `json:"revenue"`
}

type Aggregator struct {
	resolver    ProfileResolver
	concurrency int
}

func NewAggregator(resolver ProfileResolver, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Aggregator{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// Aggregate builds one report per event, in input order. Attendee lookups run
// concurrently; each report lists the profiles in the order of the event's
// attendee ids. A failed lookup is logged and its attendee left out.
func (a *Aggregator) Aggregate(ctx context.Context, sess session.Session, list []events.Event, now time.Time) []EventReport {
	resolved := make([][]*profiles.AttendeeProfile, len(list))
	for i, e := range list {
		resolved[i] = make([]*profiles.AttendeeProfile, len(e.Attendees))
	}

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, e := range list {
		for j, attendeeID := range e.Attendees {
			g.Go(func() error {
				profile, err := a.resolver.GetProfile(ctx, sess, attendeeID)
				if err != nil {
					log.FromContext(ctx).
						WithField("event_id", e.ID.Hex()).
						WithField("attendee_id", attendeeID.Hex()).
						WithError(err).
						Warn("Skipping attendee, profile lookup failed")
					return nil
				}

				resolved[i][j] = profile
				return nil
			})
		}
	}

	// lookups never return an error
	_ = g.Wait()

	reports := make([]EventReport, len(list))
	for i, e := range list {
		reports[i] = Report(e, compact(resolved[i]), now)
	}

	return reports
}

// Report computes the figures of a single event from already resolved
// attendees.
func Report(e events.Event, attendees []profiles.AttendeeProfile, now time.Time) EventReport {
	sold := make(map[string]int, len(e.TicketTypes))
	total := 0
	revenue := 0.0
	for _, t := range e.TicketTypes {
		n := t.Sold()
		sold[t.Type] = n
		total += n
		revenue += float64(n) * t.Price
	}

	if attendees == nil {
		attendees = []profiles.AttendeeProfile{}
	}

	return EventReport{
		Event:     e,
		Attendees: attendees,
		AvgRating: AverageRating(e.Feedback),
		Closed:    e.ClosedAt(now),
		Sold:      sold,
		TotalSold: total,
		Revenue:   revenue,
	}
}

// AverageRating is the mean rating, or 0 without feedback.
func AverageRating(feedback []events.Feedback) float64 {
	if len(feedback) == 0 {
		return 0
	}

	sum := 0
	for _, f := range feedback {
		sum += f.Rating
	}

	return float64(sum) / float64(len(feedback))
}

// OwnedBy keeps the events organized by organizerID, preserving order.
func OwnedBy(list []events.Event, organizerID primitive.ObjectID) []events.Event {
	out := make([]events.Event, 0, len(list))
	for _, e := range list {
		if e.Organizer == organizerID {
			out = append(out, e)
		}
	}

	return out
}

func compact(in []*profiles.AttendeeProfile) []profiles.AttendeeProfile {
	out := make([]profiles.AttendeeProfile, 0, len(in))
	for _, p := range in {
		if p != nil {
			out = append(out, *p)
		}
	}

	return out
}
