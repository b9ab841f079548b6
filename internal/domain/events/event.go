package events

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID            primitive.ObjectID   `json:"_id"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	Date          Date                 `json:"date"`
	Time          string               `json:"time,omitempty"`
	Venue         string               `json:"venue,omitempty"`
	Organizer     primitive.ObjectID   `json:"organizer"`
	TicketTypes   []TicketType         `json:"ticketTypes"`
	DiscountCodes []DiscountCode       `json:"discountCodes"`
	Attendees     []primitive.ObjectID `json:"attendees"`
	Feedback      []Feedback           `json:"feedback"`
}

// StartsAt combines the calendar date with the "HH:MM" time of day. When the
// time is missing or malformed the bare date is used.
func (e Event) StartsAt() time.Time {
	d := e.Date.Time()
	if d.IsZero() || e.Time == "" {
		return d
	}

	clock, err := time.Parse("15:04", strings.TrimSpace(e.Time))
	if err != nil {
		return d
	}

	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, d.Location())
}

// ClosedAt reports whether the event's calendar date lies strictly before the
// calendar date of now.
func (e Event) ClosedAt(now time.Time) bool {
	d := e.Date.Time()
	if d.IsZero() {
		return true
	}

	return dayOf(d).Before(dayOf(now.In(d.Location())))
}

func (e Event) TicketType(name string) (TicketType, bool) {
	for _, t := range e.TicketTypes {
		if t.Type == name {
			return t, true
		}
	}

	return TicketType{}, false
}

func (e Event) DiscountCode(code string) (DiscountCode, bool) {
	for _, c := range e.DiscountCodes {
		if c.Code == code {
			return c, true
		}
	}

	return DiscountCode{}, false
}

type TicketType struct {
	Type     string  `json:"type" validate:"required"`
	Price    float64 `json:"price" validate:"gt=0"`
	Quantity int     `json:"quantity" validate:"gt=0"`
	// Remaining is nil when the API omits it.
	Remaining *int `json:"remaining,omitempty"`
}

func (t TicketType) RemainingOrZero() int {
	if t.Remaining == nil || *t.Remaining < 0 {
		return 0
	}

	return *t.Remaining
}

func (t TicketType) Sold() int {
	return t.Quantity - t.RemainingOrZero()
}

type DiscountCode struct {
	Code               string  `json:"code" validate:"required"`
	DiscountPercentage float64 `json:"discountPercentage" validate:"gt=0,lte=100"`
	ExpiryDate         Date    `json:"expiryDate"`
}

// ApplicableAt is true while the calendar date of now is not after the expiry
// date.
func (c DiscountCode) ApplicableAt(now time.Time) bool {
	exp := c.ExpiryDate.Time()
	if exp.IsZero() {
		return false
	}

	return !dayOf(now.In(exp.Location())).After(dayOf(exp))
}

// Apply returns price reduced by the code's percentage, clamped to [0, 100].
func (c DiscountCode) Apply(price float64) float64 {
	pct := c.DiscountPercentage
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}

	return price - price*pct/100
}

type Feedback struct {
	Rating   int                `json:"rating"`
	Comment  string             `json:"comment,omitempty"`
	Attendee primitive.ObjectID `json:"attendee"`
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
