package booking_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/booking"
	"eventdesk/internal/booking/mocks"
	"eventdesk/internal/domain/bookings"
	"eventdesk/internal/domain/events"
	"eventdesk/internal/entities"
	"eventdesk/internal/infrastructure/clients"
	"eventdesk/internal/session"
)

var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func gaEvent(remaining *int) events.Event {
	return events.Event{
		ID:    primitive.NewObjectID(),
		Title: "Concert",
		Date:  events.NewDate(now.AddDate(0, 0, 7)),
		TicketTypes: []events.TicketType{
			{Type: "GA", Price: 20, Quantity: 100, Remaining: remaining},
		},
		DiscountCodes: []events.DiscountCode{
			{Code: "TEN", DiscountPercentage: 10, ExpiryDate: events.NewDate(now.AddDate(0, 0, 1))},
		},
	}
}

func testSession() session.Session {
	return session.Session{ID: "s1", UserID: primitive.NewObjectID(), Token: "opaque"}
}

func TestSubmit_UsesServerFinalPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	booker := mocks.NewMockBooker(ctrl)
	pub := &recordingPublisher{}
	flow := booking.NewFlow(booker, pub, func() time.Time { return now })

	sess := testSession()
	event := gaEvent(pointer.To(1))

	booker.EXPECT().
		BookTicket(gomock.Any(), sess, bookings.Request{
			EventID:      event.ID,
			Attendee:     sess.UserID,
			TicketType:   "GA",
			DiscountCode: "TEN",
		}).
		Return(&bookings.Confirmation{FinalPrice: 18}, nil).
		Times(1)

	out, err := flow.Submit(context.Background(), sess, event, "GA", "TEN")
	require.NoError(t, err)

	assert.Equal(t, booking.StateSucceeded, out.State)
	assert.Equal(t, pointer.To(18.0), out.FinalPrice)
	assert.Equal(t, 18.0, out.ExpectedPrice)
	assert.Equal(t, "Ticket booked successfully. Final price: $18", out.Message)
	assert.NotEmpty(t, out.IdempotencyKey)
	assert.Equal(t, out, flow.Outcome())

	// inventory is not touched locally
	assert.Equal(t, 1, *event.TicketTypes[0].Remaining)

	require.Len(t, pub.events, 1)
	booked, ok := pub.events[0].(entities.TicketBooked_v1)
	require.True(t, ok)
	assert.Equal(t, "s1", booked.SessionID)
	assert.Equal(t, 18.0, booked.FinalPrice)
}

func TestSubmit_ServerPriceWinsOverEstimate(t *testing.T) {
	ctrl := gomock.NewController(t)
	booker := mocks.NewMockBooker(ctrl)
	flow := booking.NewFlow(booker, nil, func() time.Time { return now })

	booker.EXPECT().BookTicket(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&bookings.Confirmation{FinalPrice: 17.5}, nil)

	out, err := flow.Submit(context.Background(), testSession(), gaEvent(nil), "GA", "")
	require.NoError(t, err)

	assert.Equal(t, 20.0, out.ExpectedPrice)
	assert.Equal(t, pointer.To(17.5), out.FinalPrice)
	assert.Equal(t, "Ticket booked successfully. Final price: $17.5", out.Message)
}

func TestSubmit_FreeTicketKeepsServerPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	booker := mocks.NewMockBooker(ctrl)
	flow := booking.NewFlow(booker, nil, func() time.Time { return now })

	booker.EXPECT().BookTicket(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&bookings.Confirmation{FinalPrice: 0}, nil)

	out, err := flow.Submit(context.Background(), testSession(), gaEvent(nil), "GA", "")
	require.NoError(t, err)

	require.NotNil(t, out.FinalPrice)
	assert.Zero(t, *out.FinalPrice)
	assert.Equal(t, "Ticket booked successfully. Final price: $0", out.Message)
}

func TestSubmit_SecondSubmissionWhileInFlightIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	booker := mocks.NewMockBooker(ctrl)
	flow := booking.NewFlow(booker, nil, func() time.Time { return now })

	entered := make(chan struct{})
	release := make(chan struct{})

	booker.EXPECT().BookTicket(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, session.Session, bookings.Request) (*bookings.Confirmation, error) {
			close(entered)
			<-release
			return &bookings.Confirmation{FinalPrice: 20}, nil
		}).
		Times(1)

	event := gaEvent(pointer.To(5))
	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), testSession(), event, "GA", "")
		done <- err
	}()

	<-entered
	out, err := flow.Submit(context.Background(), testSession(), event, "GA", "")
	assert.ErrorIs(t, err, booking.ErrSubmissionInFlight)
	assert.Equal(t, booking.StateSubmitting, out.State)

	flow.Reset()
	assert.Equal(t, booking.StateSubmitting, flow.Outcome().State)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, booking.StateSucceeded, flow.Outcome().State)
}

func TestSubmit_DuplicateBooking(t *testing.T) {
	ctrl := gomock.NewController(t)
	booker := mocks.NewMockBooker(ctrl)
	pub := &recordingPublisher{}
	flow := booking.NewFlow(booker, pub, func() time.Time { return now })

	booker.EXPECT().BookTicket(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &clients.RejectionError{StatusCode: http.StatusBadRequest, Message: "You are already attending this event"})

	out, err := flow.Submit(context.Background(), testSession(), gaEvent(pointer.To(3)), "GA", "")

	assert.ErrorIs(t, err, bookings.ErrDuplicateBooking)
	assert.Equal(t, booking.StateRejected, out.State)
	assert.Equal(t, booking.ReasonDuplicateBooking, out.Reason)
	assert.Equal(t, "You have already booked a ticket for this event.", out.Message)

	require.Len(t, pub.events, 1)
	rejected, ok := pub.events[0].(entities.BookingRejected_v1)
	require.True(t, ok)
	assert.Equal(t, string(booking.ReasonDuplicateBooking), rejected.Reason)
}

func TestSubmit_ServerRejectionCarriesMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	booker := mocks.NewMockBooker(ctrl)
	flow := booking.NewFlow(booker, nil, func() time.Time { return now })

	booker.EXPECT().BookTicket(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &clients.RejectionError{StatusCode: http.StatusBadRequest, Message: "Invalid discount code"})

	out, err := flow.Submit(context.Background(), testSession(), gaEvent(pointer.To(3)), "GA", "NOPE")

	var rej *clients.RejectionError
	require.True(t, errors.As(err, &rej))
	assert.False(t, errors.Is(err, bookings.ErrDuplicateBooking))
	assert.Equal(t, booking.ReasonServerRejection, out.Reason)
	assert.Equal(t, "Invalid discount code", out.Message)
}

func TestSubmit_GenericFailures(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		reason  booking.Reason
		message string
	}{
		{
			name:    "empty server message",
			err:     &clients.RejectionError{StatusCode: http.StatusInternalServerError},
			reason:  booking.ReasonServerRejection,
			message: "Booking failed",
		},
		{
			name:    "network",
			err:     errors.Join(clients.ErrNetwork, errors.New("connection refused")),
			reason:  booking.ReasonNetwork,
			message: "Booking failed",
		},
		{
			name:    "auth",
			err:     clients.ErrAuth,
			reason:  booking.ReasonAuth,
			message: "Please sign in again",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			booker := mocks.NewMockBooker(ctrl)
			flow := booking.NewFlow(booker, nil, func() time.Time { return now })

			booker.EXPECT().BookTicket(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)

			out, err := flow.Submit(context.Background(), testSession(), gaEvent(nil), "GA", "")

			require.Error(t, err)
			assert.Equal(t, booking.StateRejected, out.State)
			assert.Equal(t, tc.reason, out.Reason)
			assert.Equal(t, tc.message, out.Message)
		})
	}
}

func TestSubmit_PreconditionsSendNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	booker := mocks.NewMockBooker(ctrl)
	flow := booking.NewFlow(booker, nil, func() time.Time { return now })

	out, err := flow.Submit(context.Background(), testSession(), gaEvent(pointer.To(0)), "GA", "")
	assert.ErrorIs(t, err, booking.ErrSoldOut)
	assert.Equal(t, booking.ReasonSoldOut, out.Reason)

	out, err = flow.Submit(context.Background(), testSession(), gaEvent(pointer.To(3)), "VIP", "")
	assert.ErrorIs(t, err, booking.ErrUnknownTicketType)
	assert.Equal(t, booking.ReasonUnknownTicketType, out.Reason)
	assert.Nil(t, out.FinalPrice)
}

func TestSubmit_ExpiredDiscountNotInEstimate(t *testing.T) {
	ctrl := gomock.NewController(t)
	booker := mocks.NewMockBooker(ctrl)
	later := now.AddDate(0, 0, 5)
	flow := booking.NewFlow(booker, nil, func() time.Time { return later })

	booker.EXPECT().BookTicket(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&bookings.Confirmation{FinalPrice: 20}, nil)

	out, err := flow.Submit(context.Background(), testSession(), gaEvent(nil), "GA", "TEN")
	require.NoError(t, err)
	assert.Equal(t, 20.0, out.ExpectedPrice)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "18", booking.FormatPrice(18))
	assert.Equal(t, "18.5", booking.FormatPrice(18.5))
	assert.Equal(t, "0", booking.FormatPrice(0))
}
