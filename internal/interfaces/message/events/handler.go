package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"eventdesk/internal/session"
	"eventdesk/internal/views"
)

type SessionStore interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

type ViewRegistry interface {
	Lookup(sessionID string) (*views.Set, bool)
}

type refresher interface {
	Refresh(ctx context.Context, sess session.Session) error
}

// Handler keeps the views of a session current after the session changed
// something on the Event Service.
type Handler struct {
	sessions SessionStore
	registry ViewRegistry
}

func NewHandler(sessions SessionStore, registry ViewRegistry) *Handler {
	return &Handler{
		sessions: sessions,
		registry: registry,
	}
}

// viewsOf returns ok=false when the session logged out or never opened a view;
// there is nothing to refresh then.
func (h *Handler) viewsOf(ctx context.Context, sessionID string) (session.Session, *views.Set, bool, error) {
	set, ok := h.registry.Lookup(sessionID)
	if !ok {
		return session.Session{}, nil, false, nil
	}

	sess, err := h.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return session.Session{}, nil, false, nil
	}
	if err != nil {
		return session.Session{}, nil, false, fmt.Errorf("error loading session %s: %w", sessionID, err)
	}

	return sess, set, true, nil
}

// refresh brings each view up to date. A failed refresh is recorded by the
// view itself, so it is only logged here.
func refresh(ctx context.Context, sess session.Session, targets ...refresher) {
	for _, t := range targets {
		if err := t.Refresh(ctx, sess); err != nil {
			log.FromContext(ctx).WithError(err).Warn("View refresh failed")
		}
	}
}
