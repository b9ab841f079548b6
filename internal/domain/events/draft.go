package events

import "go.mongodb.org/mongo-driver/bson/primitive"

// Draft is the organizer-editable part of an Event, sent on create and update.
type Draft struct {
	Title         string             `json:"title" validate:"required"`
	Description   string             `json:"description" validate:"required"`
	Date          Date               `json:"date"`
	Time          string             `json:"time" validate:"required"`
	Venue         string             `json:"venue" validate:"required"`
	Organizer     primitive.ObjectID `json:"organizer"`
	TicketTypes   []TicketType       `json:"ticketTypes" validate:"dive"`
	DiscountCodes []DiscountCode     `json:"discountCodes" validate:"dive"`
}

func DraftFromEvent(e Event) Draft {
	return Draft{
		Title:         e.Title,
		Description:   e.Description,
		Date:          e.Date,
		Time:          e.Time,
		Venue:         e.Venue,
		Organizer:     e.Organizer,
		TicketTypes:   append([]TicketType(nil), e.TicketTypes...),
		DiscountCodes: append([]DiscountCode(nil), e.DiscountCodes...),
	}
}
