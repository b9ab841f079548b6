package bookings

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlreadyAttendingMessage is the Event Service's rejection text for a second
// booking by the same attendee.
const AlreadyAttendingMessage = "You are already attending this event"

var ErrDuplicateBooking = errors.New("already attending this event")

type Request struct {
	EventID      primitive.ObjectID `json:"eventId"`
	Attendee     primitive.ObjectID `json:"attendee"`
	TicketType   string             `json:"ticketType"`
	DiscountCode string             `json:"discountCode,omitempty"`
}

type Confirmation struct {
	FinalPrice float64 `json:"finalPrice"`
}
