package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"eventdesk/internal/domain/bookings"
	"eventdesk/internal/domain/events"
	"eventdesk/internal/entities"
	"eventdesk/internal/idempotency"
	"eventdesk/internal/infrastructure/clients"
	"eventdesk/internal/observability"
	"eventdesk/internal/session"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateRejected   State = "rejected"
)

type Reason string

const (
	ReasonDuplicateBooking  Reason = "duplicate_booking"
	ReasonServerRejection   Reason = "server_rejection"
	ReasonAuth              Reason = "auth"
	ReasonNetwork           Reason = "network"
	ReasonValidation        Reason = "validation"
	ReasonUnknownTicketType Reason = "unknown_ticket_type"
	ReasonSoldOut           Reason = "sold_out"
)

const genericFailureMessage = "Booking failed"

var (
	ErrSubmissionInFlight = errors.New("a booking is already being submitted")
	ErrUnknownTicketType  = errors.New("ticket type does not belong to event")
	ErrSoldOut            = errors.New("ticket type sold out")
)

//go:generate mockgen -destination=mocks/mock_booker.go -package=mocks eventdesk/internal/booking Booker
type Booker interface {
	BookTicket(ctx context.Context, sess session.Session, request bookings.Request) (*bookings.Confirmation, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// Outcome is what the view shows after a submission. FinalPrice is only set
// on success and always comes from the Event Service, a free ticket included;
// ExpectedPrice is the local estimate shown before confirmation.
type Outcome struct {
	State          State    `json:"state"`
	EventID        string   `json:"eventId,omitempty"`
	TicketType     string   `json:"ticketType,omitempty"`
	ExpectedPrice  float64  `json:"expectedPrice,omitempty"`
	FinalPrice     *float64 `json:"finalPrice,omitempty"`
	Reason         Reason   `json:"reason,omitempty"`
	Message        string   `json:"message,omitempty"`
	IdempotencyKey string   `json:"idempotencyKey,omitempty"`
}

// Flow runs booking submissions for one view. At most one submission is in
// flight; there are no retries.
type Flow struct {
	booker    Booker
	publisher EventPublisher
	now       func() time.Time

	mu   sync.Mutex
	last Outcome
}

func NewFlow(booker Booker, publisher EventPublisher, now func() time.Time) *Flow {
	if now == nil {
		now = time.Now
	}

	return &Flow{
		booker:    booker,
		publisher: publisher,
		now:       now,
		last:      Outcome{State: StateIdle},
	}
}

func (f *Flow) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.last
}

// Submit books one ticket of ticketType for the session's user. While a
// submission is in flight it returns ErrSubmissionInFlight without sending
// anything. Rejections are returned both as the Outcome and as an error.
func (f *Flow) Submit(
	ctx context.Context,
	sess session.Session,
	event events.Event,
	ticketType string,
	discountCode string,
) (Outcome, error) {
	f.mu.Lock()
	if f.last.State == StateSubmitting {
		current := f.last
		f.mu.Unlock()
		return current, ErrSubmissionInFlight
	}

	ctx, key := idempotency.NewSubmission(ctx)
	pending := Outcome{
		State:          StateSubmitting,
		EventID:        event.ID.Hex(),
		TicketType:     ticketType,
		IdempotencyKey: key,
	}

	tt, ok := event.TicketType(ticketType)
	if !ok {
		out := reject(pending, ReasonUnknownTicketType, "Unknown ticket type")
		f.last = out
		f.mu.Unlock()
		f.finish(ctx, sess, out)
		return out, fmt.Errorf("%w: %q", ErrUnknownTicketType, ticketType)
	}
	if tt.Remaining != nil && *tt.Remaining <= 0 {
		out := reject(pending, ReasonSoldOut, "Sold out")
		f.last = out
		f.mu.Unlock()
		f.finish(ctx, sess, out)
		return out, ErrSoldOut
	}

	pending.ExpectedPrice = f.expectedPrice(event, tt, discountCode)
	f.last = pending
	f.mu.Unlock()

	confirmation, err := f.booker.BookTicket(ctx, sess, bookings.Request{
		EventID:      event.ID,
		Attendee:     sess.UserID,
		TicketType:   tt.Type,
		DiscountCode: discountCode,
	})

	var out Outcome
	if err != nil {
		out, err = classify(pending, err)
	} else {
		out = pending
		out.State = StateSucceeded
		out.FinalPrice = pointer.To(confirmation.FinalPrice)
		out.Message = "Ticket booked successfully. Final price: $" + FormatPrice(confirmation.FinalPrice)
	}

	f.mu.Lock()
	f.last = out
	f.mu.Unlock()

	f.finish(ctx, sess, out)

	return out, err
}

// Reset returns a finished flow to idle. It is a no-op while submitting.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.last.State != StateSubmitting {
		f.last = Outcome{State: StateIdle}
	}
}

func (f *Flow) expectedPrice(event events.Event, tt events.TicketType, discountCode string) float64 {
	if discountCode == "" {
		return tt.Price
	}

	code, ok := event.DiscountCode(discountCode)
	if !ok || !code.ApplicableAt(f.now()) {
		return tt.Price
	}

	return code.Apply(tt.Price)
}

func (f *Flow) finish(ctx context.Context, sess session.Session, out Outcome) {
	observability.CountBooking(string(out.State) + reasonSuffix(out.Reason))

	if f.publisher == nil {
		return
	}

	var event any
	header := entities.NewEventHeaderWithIdempotencyKey(out.IdempotencyKey)
	if out.State == StateSucceeded {
		event = entities.TicketBooked_v1{
			Header:     header,
			SessionID:  sess.ID,
			EventID:    out.EventID,
			TicketType: out.TicketType,
			FinalPrice: pointer.Get(out.FinalPrice),
		}
	} else {
		event = entities.BookingRejected_v1{
			Header:     header,
			SessionID:  sess.ID,
			EventID:    out.EventID,
			TicketType: out.TicketType,
			Reason:     string(out.Reason),
			Message:    out.Message,
		}
	}

	if err := f.publisher.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WithError(err).Warn("Failed to publish booking outcome")
	}
}

func classify(pending Outcome, err error) (Outcome, error) {
	switch {
	case errors.Is(err, clients.ErrAuth):
		return reject(pending, ReasonAuth, "Please sign in again"), err
	case errors.Is(err, clients.ErrNetwork):
		return reject(pending, ReasonNetwork, genericFailureMessage), err
	}

	msg, ok := clients.RejectionMessage(err)
	if !ok {
		return reject(pending, ReasonServerRejection, genericFailureMessage), err
	}

	if msg == bookings.AlreadyAttendingMessage {
		return reject(pending, ReasonDuplicateBooking, "You have already booked a ticket for this event."),
			fmt.Errorf("%w: %w", bookings.ErrDuplicateBooking, err)
	}

	if msg == "" {
		msg = genericFailureMessage
	}

	return reject(pending, ReasonServerRejection, msg), err
}

func reject(pending Outcome, reason Reason, message string) Outcome {
	out := pending
	out.State = StateRejected
	out.Reason = reason
	out.Message = message
	return out
}

func reasonSuffix(r Reason) string {
	if r == "" {
		return ""
	}
	return "_" + string(r)
}

// FormatPrice prints the price the way the Event Service sent it: no trailing
// zeros, so 18 is "18" and 18.5 is "18.5".
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
