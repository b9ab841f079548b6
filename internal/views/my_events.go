package views

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/domain/events"
	"eventdesk/internal/entities"
	"eventdesk/internal/forms"
	"eventdesk/internal/idempotency"
	"eventdesk/internal/pagination"
	"eventdesk/internal/session"
)

const loadMyEventsFailed = "Error fetching events"

type MyEventsSnapshot struct {
	Events    []events.Event `json:"events"`
	Page      int            `json:"page"`
	PageCount int            `json:"pageCount"`
	Pages     []int          `json:"pages"`
	Loading   bool           `json:"loading"`
	Error     string         `json:"error,omitempty"`
}

// MyEventsView is the organizer's list of events together with the create,
// edit and cancel actions on it.
type MyEventsView struct {
	service   EventService
	publisher EventPublisher
	pageSize  int
	now       func() time.Time

	mu      sync.Mutex
	gen     generation
	fetched bool
	list    []events.Event
	page    int
	loading bool
	err     error
}

func NewMyEventsView(service EventService, publisher EventPublisher, pageSize int, now func() time.Time) *MyEventsView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if now == nil {
		now = time.Now
	}

	return &MyEventsView{
		service:   service,
		publisher: publisher,
		pageSize:  pageSize,
		now:       now,
		page:      1,
	}
}

func (v *MyEventsView) Load(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	fetched := v.fetched
	v.mu.Unlock()

	if fetched {
		return nil
	}

	return v.Refresh(ctx, sess)
}

func (v *MyEventsView) Refresh(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	token := v.gen.begin()
	v.loading = true
	v.mu.Unlock()

	list, err := v.service.ListEvents(ctx, sess)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.gen.current(token) {
		dropStale(ctx, "my_events", token)
		return nil
	}

	v.loading = false
	v.fetched = true
	if err != nil {
		v.err = err
		return fmt.Errorf("error refreshing my events view: %w", err)
	}

	v.err = nil
	v.list = list

	return nil
}

func (v *MyEventsView) SetPage(page int) {
	if page < 1 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = page
}

func (v *MyEventsView) Snapshot() MyEventsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := MyEventsSnapshot{
		Events:    pagination.Page(v.list, v.pageSize, v.page),
		Page:      v.page,
		PageCount: pagination.Count(len(v.list), v.pageSize),
		Pages:     pagination.Numbers(len(v.list), v.pageSize),
		Loading:   v.loading,
	}
	if v.err != nil {
		snap.Error = loadMyEventsFailed
	}

	return snap
}

// Draft prefills the edit form with one of the organizer's loaded events.
func (v *MyEventsView) Draft(id primitive.ObjectID) (events.Draft, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, e := range v.list {
		if e.ID == id {
			return events.DraftFromEvent(e), nil
		}
	}

	return events.Draft{}, fmt.Errorf("%w: %s", ErrEventNotFound, id.Hex())
}

// Cancel deletes the event remotely and, once that succeeded, drops it from
// the local list.
func (v *MyEventsView) Cancel(ctx context.Context, sess session.Session, id primitive.ObjectID) error {
	ctx, key := idempotency.NewSubmission(ctx)

	if err := v.service.DeleteEvent(ctx, sess, id); err != nil {
		return fmt.Errorf("error canceling event %s: %w", id.Hex(), err)
	}

	v.mu.Lock()
	kept := make([]events.Event, 0, len(v.list))
	for _, e := range v.list {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	v.list = kept
	v.mu.Unlock()

	publish(ctx, v.publisher, entities.EventCancelled_v1{
		Header:    entities.NewEventHeaderWithIdempotencyKey(key),
		SessionID: sess.ID,
		EventID:   id.Hex(),
	})

	return nil
}

// Create validates the draft, fills in defaults and submits it as an event
// organized by the session's user.
func (v *MyEventsView) Create(ctx context.Context, sess session.Session, draft events.Draft) (*events.Event, error) {
	draft.Organizer = sess.UserID

	if err := forms.ValidateDraft(draft, v.now(), forms.ModeCreate); err != nil {
		return nil, err
	}

	ctx, key := idempotency.NewSubmission(ctx)

	created, err := v.service.CreateEvent(ctx, sess, forms.PrepareForCreate(draft))
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	publish(ctx, v.publisher, entities.EventSaved_v1{
		Header:    entities.NewEventHeaderWithIdempotencyKey(key),
		SessionID: sess.ID,
		EventID:   created.ID.Hex(),
		Created:   true,
	})

	return created, nil
}

func (v *MyEventsView) Update(ctx context.Context, sess session.Session, id primitive.ObjectID, draft events.Draft) (*events.Event, error) {
	if draft.Organizer.IsZero() {
		draft.Organizer = sess.UserID
	}

	if err := forms.ValidateDraft(draft, v.now(), forms.ModeUpdate); err != nil {
		return nil, err
	}

	ctx, key := idempotency.NewSubmission(ctx)

	updated, err := v.service.UpdateEvent(ctx, sess, id, draft)
	if err != nil {
		return nil, fmt.Errorf("error updating event %s: %w", id.Hex(), err)
	}

	publish(ctx, v.publisher, entities.EventSaved_v1{
		Header:    entities.NewEventHeaderWithIdempotencyKey(key),
		SessionID: sess.ID,
		EventID:   id.Hex(),
	})

	return updated, nil
}
