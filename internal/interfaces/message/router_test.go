package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/domain/events"
	"eventdesk/internal/entities"
	"eventdesk/internal/infrastructure/event_publisher"
	"eventdesk/internal/interfaces/message"
	msgevents "eventdesk/internal/interfaces/message/events"
	"eventdesk/internal/session"
	"eventdesk/internal/views"
	"eventdesk/internal/views/mocks"
)

func TestRouter_RefreshesViewsOfTheSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockEventService(ctrl)

	now := time.Now()
	logger := watermill.NewStdLogger(false, false)
	transport := event_publisher.NewGoChannelTransport(logger)

	bus, err := msgevents.NewEventBus(event_publisher.CorrelationPublisherDecorator{Publisher: transport.Publisher}, logger)
	require.NoError(t, err)

	sessions := session.NewMemoryStore(0, nil)
	registry := views.NewRegistry(service, bus, views.RegistryConfig{PageSize: 5})

	organizer := session.New(primitive.NewObjectID(), "token", session.RoleOrganizer, now)
	require.NoError(t, sessions.Save(context.Background(), organizer))

	router, err := message.NewRouter(
		logger,
		transport.Publisher,
		msgevents.NewHandler(sessions, registry),
		msgevents.NewEventProcessorConfig(transport.NewSubscriber, logger),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()

	created := events.Event{
		ID:        primitive.NewObjectID(),
		Title:     "Fresh",
		Date:      events.NewDate(now.AddDate(0, 0, 1)),
		Organizer: organizer.UserID,
	}

	service.EXPECT().ListEvents(gomock.Any(), organizer).Return(nil, nil).Times(1)
	service.EXPECT().ListEvents(gomock.Any(), organizer).Return([]events.Event{created}, nil).AnyTimes()

	myEvents := registry.For(organizer.ID).MyEvents()
	require.NoError(t, myEvents.Load(ctx, organizer))
	require.Empty(t, myEvents.Snapshot().Events)

	err = bus.Publish(ctx, entities.EventSaved_v1{
		Header:    entities.NewEventHeader(),
		SessionID: organizer.ID,
		EventID:   created.ID.Hex(),
		Created:   true,
	})
	require.NoError(t, err)

	require.EventuallyWithT(t, func(c *assert.CollectT) {
		snap := myEvents.Snapshot()
		if assert.Len(c, snap.Events, 1) {
			assert.Equal(c, "Fresh", snap.Events[0].Title)
		}
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRouter_IgnoresUnknownSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockEventService(ctrl)

	logger := watermill.NewStdLogger(false, false)
	transport := event_publisher.NewGoChannelTransport(logger)

	bus, err := msgevents.NewEventBus(transport.Publisher, logger)
	require.NoError(t, err)

	registry := views.NewRegistry(service, bus, views.RegistryConfig{})
	handler := msgevents.NewHandler(session.NewMemoryStore(0, nil), registry)

	router, err := message.NewRouter(logger, transport.Publisher, handler, msgevents.NewEventProcessorConfig(transport.NewSubscriber, logger))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()

	// a logged out session still has a view set but no stored session
	registry.For("gone").Explore()

	require.NoError(t, bus.Publish(ctx, entities.TicketBooked_v1{
		Header:    entities.NewEventHeader(),
		SessionID: "gone",
		EventID:   primitive.NewObjectID().Hex(),
	}))

	// the mock fails the test on any unexpected ListEvents call
	time.Sleep(200 * time.Millisecond)
}
