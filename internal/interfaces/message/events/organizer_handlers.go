package events

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"eventdesk/internal/entities"
	"eventdesk/internal/session"
	"eventdesk/internal/views"
)

func (h *Handler) RefreshAfterEventSavedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"refresh_views_on_event_saved",
		func(ctx context.Context, payload *entities.EventSaved_v1) error {
			log.FromContext(ctx).
				WithField("event_id", payload.EventID).
				WithField("created", payload.Created).
				Info("Event saved, refreshing organizer views")

			return h.refreshOrganizerViews(ctx, payload.SessionID)
		},
	)
}

func (h *Handler) RefreshAfterEventCancelledHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"refresh_views_on_event_cancelled",
		func(ctx context.Context, payload *entities.EventCancelled_v1) error {
			log.FromContext(ctx).
				WithField("event_id", payload.EventID).
				Info("Event cancelled, refreshing organizer views")

			return h.refreshOrganizerViews(ctx, payload.SessionID)
		},
	)
}

func (h *Handler) refreshOrganizerViews(ctx context.Context, sessionID string) error {
	sess, set, ok, err := h.viewsOf(ctx, sessionID)
	if err != nil || !ok {
		return err
	}

	_, myEvents, _, analytics := set.Opened()

	var targets []refresher
	if myEvents != nil {
		targets = append(targets, myEvents)
	}
	for _, v := range analytics {
		if allowed(v, sess) {
			targets = append(targets, v)
		}
	}
	refresh(ctx, sess, targets...)

	return nil
}

func allowed(v *views.AnalyticsView, sess session.Session) bool {
	return v.Scope() != views.ScopeAll || sess.Role == session.RoleAdmin
}
