package entities

type Event interface {
	IsInternal() bool
}

// TicketBooked_v1 is published after the Event Service confirmed a booking.
// Inventory is not adjusted locally; handlers re-fetch.
type TicketBooked_v1 struct {
	Header     EventHeader `json:"header"`
	SessionID  string      `json:"session_id"`
	EventID    string      `json:"event_id"`
	TicketType string      `json:"ticket_type"`
	FinalPrice float64     `json:"final_price"`
}

func (TicketBooked_v1) IsInternal() bool {
	return true
}

type BookingRejected_v1 struct {
	Header     EventHeader `json:"header"`
	SessionID  string      `json:"session_id"`
	EventID    string      `json:"event_id"`
	TicketType string      `json:"ticket_type"`
	Reason     string      `json:"reason"`
	Message    string      `json:"message"`
}

func (BookingRejected_v1) IsInternal() bool {
	return true
}

// EventSaved_v1 covers both creation and update of an event by an organizer.
type EventSaved_v1 struct {
	Header    EventHeader `json:"header"`
	SessionID string      `json:"session_id"`
	EventID   string      `json:"event_id"`
	Created   bool        `json:"created"`
}

func (EventSaved_v1) IsInternal() bool {
	return true
}

type EventCancelled_v1 struct {
	Header    EventHeader `json:"header"`
	SessionID string      `json:"session_id"`
	EventID   string      `json:"event_id"`
}

func (EventCancelled_v1) IsInternal() bool {
	return true
}
