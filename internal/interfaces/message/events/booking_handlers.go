package events

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"eventdesk/internal/booking"
	"eventdesk/internal/entities"
)

func (h *Handler) RefreshAfterBookingHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"refresh_views_on_ticket_booked",
		func(ctx context.Context, payload *entities.TicketBooked_v1) error {
			log.FromContext(ctx).
				WithField("event_id", payload.EventID).
				WithField("ticket_type", payload.TicketType).
				Info("Ticket booked, refreshing views")

			sess, set, ok, err := h.viewsOf(ctx, payload.SessionID)
			if err != nil || !ok {
				return err
			}

			explore, _, dashboard, _ := set.Opened()

			var targets []refresher
			if explore != nil {
				targets = append(targets, explore)
			}
			if dashboard != nil {
				targets = append(targets, dashboard)
			}
			refresh(ctx, sess, targets...)

			return nil
		},
	)
}

// RefreshAfterRejectionHandler re-fetches the explore list when the Event
// Service turned a booking down for a reason the local copy may not show,
// such as inventory that ran out meanwhile.
func (h *Handler) RefreshAfterRejectionHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"refresh_views_on_booking_rejected",
		func(ctx context.Context, payload *entities.BookingRejected_v1) error {
			log.FromContext(ctx).
				WithField("event_id", payload.EventID).
				WithField("reason", payload.Reason).
				Info("Booking rejected")

			switch booking.Reason(payload.Reason) {
			case booking.ReasonServerRejection, booking.ReasonSoldOut:
			default:
				return nil
			}

			sess, set, ok, err := h.viewsOf(ctx, payload.SessionID)
			if err != nil || !ok {
				return err
			}

			if explore, _, _, _ := set.Opened(); explore != nil {
				refresh(ctx, sess, explore)
			}

			return nil
		},
	)
}
