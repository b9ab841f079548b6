package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/booking"
	"eventdesk/internal/discovery"
	"eventdesk/internal/domain/events"
	"eventdesk/internal/pagination"
	"eventdesk/internal/session"
)

const (
	DefaultPageSize = 5

	loadEventsFailed = "Failed to load events"
)

var ErrEventNotFound = errors.New("event not found")

type ExploreQuery struct {
	Search       string `json:"search"`
	Location     string `json:"location"`
	DiscountCode string `json:"discountCode"`
	Page         int    `json:"page"`
}

type ExploreSnapshot struct {
	ExploreQuery
	Events    []events.Event  `json:"events"`
	Matches   int             `json:"matches"`
	PageCount int             `json:"pageCount"`
	Pages     []int           `json:"pages"`
	Loading   bool            `json:"loading"`
	Error     string          `json:"error,omitempty"`
	Booking   booking.Outcome `json:"booking"`
}

// ExploreView is the attendee's event browser: the full event list as last
// fetched, the search fields and the booking in progress.
type ExploreView struct {
	service  EventService
	flow     *booking.Flow
	pageSize int

	mu      sync.Mutex
	gen     generation
	fetched bool
	list    []events.Event
	query   ExploreQuery
	loading bool
	err     error
}

func NewExploreView(service EventService, publisher EventPublisher, pageSize int, now func() time.Time) *ExploreView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &ExploreView{
		service:  service,
		flow:     booking.NewFlow(service, publisher, now),
		pageSize: pageSize,
		query:    ExploreQuery{Page: 1},
	}
}

// Load refreshes the view unless it already holds a response.
func (v *ExploreView) Load(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	fetched := v.fetched
	v.mu.Unlock()

	if fetched {
		return nil
	}

	return v.Refresh(ctx, sess)
}

func (v *ExploreView) Refresh(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	token := v.gen.begin()
	v.loading = true
	v.mu.Unlock()

	list, err := v.service.ListEvents(ctx, sess)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.gen.current(token) {
		dropStale(ctx, "explore", token)
		return nil
	}

	v.loading = false
	v.fetched = true
	if err != nil {
		v.err = err
		return fmt.Errorf("error refreshing explore view: %w", err)
	}

	v.err = nil
	v.list = list

	return nil
}

// SetQuery replaces the search fields. A changed search or location without
// an explicit page goes back to the first page; otherwise the page is kept.
func (v *ExploreView) SetQuery(q ExploreQuery) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if q.Page < 1 {
		if q.Search != v.query.Search || q.Location != v.query.Location {
			q.Page = 1
		} else {
			q.Page = v.query.Page
		}
	}

	v.query = q
}

func (v *ExploreView) Snapshot(now time.Time) ExploreSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	matching := discovery.Filter(v.list, discovery.Query{Title: v.query.Search, Venue: v.query.Location}, now)

	snap := ExploreSnapshot{
		ExploreQuery: v.query,
		Events:       pagination.Page(matching, v.pageSize, v.query.Page),
		Matches:      len(matching),
		PageCount:    pagination.Count(len(matching), v.pageSize),
		Pages:        pagination.Numbers(len(matching), v.pageSize),
		Loading:      v.loading,
		Booking:      v.flow.Outcome(),
	}
	if v.err != nil {
		snap.Error = loadEventsFailed
	}

	return snap
}

// Book submits a booking for an event of the last fetched list. An empty
// discountCode falls back to the code typed into the view.
func (v *ExploreView) Book(
	ctx context.Context,
	sess session.Session,
	eventID primitive.ObjectID,
	ticketType string,
	discountCode string,
) (booking.Outcome, error) {
	v.mu.Lock()
	event, ok := v.find(eventID)
	if discountCode == "" {
		discountCode = v.query.DiscountCode
	}
	v.mu.Unlock()

	if !ok {
		return v.flow.Outcome(), fmt.Errorf("%w: %s", ErrEventNotFound, eventID.Hex())
	}

	return v.flow.Submit(ctx, sess, event, ticketType, discountCode)
}

// ResetBooking clears a finished booking outcome.
func (v *ExploreView) ResetBooking() {
	v.flow.Reset()
}

func (v *ExploreView) find(id primitive.ObjectID) (events.Event, bool) {
	for _, e := range v.list {
		if e.ID == id {
			return e, true
		}
	}

	return events.Event{}, false
}
