package views

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/domain/bookings"
	"eventdesk/internal/domain/events"
	"eventdesk/internal/domain/profiles"
	"eventdesk/internal/session"
)

//go:generate mockgen -destination=mocks/event_service_mock.go -package=mocks . EventService
type EventService interface {
	ListEvents(ctx context.Context, sess session.Session) ([]events.Event, error)
	CreateEvent(ctx context.Context, sess session.Session, draft events.Draft) (*events.Event, error)
	UpdateEvent(ctx context.Context, sess session.Session, id primitive.ObjectID, draft events.Draft) (*events.Event, error)
	DeleteEvent(ctx context.Context, sess session.Session, id primitive.ObjectID) error
	BookTicket(ctx context.Context, sess session.Session, request bookings.Request) (*bookings.Confirmation, error)
	GetProfile(ctx context.Context, sess session.Session, userID primitive.ObjectID) (*profiles.AttendeeProfile, error)
	ListNotifications(ctx context.Context, sess session.Session) ([]profiles.Notification, error)
}

// EventPublisher receives the domain events views emit after mutations.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

func publish(ctx context.Context, publisher EventPublisher, event any) {
	if publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WithError(err).Warn("Failed to publish view event")
	}
}
