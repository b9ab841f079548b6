package views_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/domain/events"
	"eventdesk/internal/domain/profiles"
	"eventdesk/internal/views"
	"eventdesk/internal/views/mocks"
)

func TestDashboardView_FirstFiveUpcoming(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockEventService(ctrl)

	list := []events.Event{futureEvent("Past", "Hall", -3)}
	for i := 0; i < 7; i++ {
		list = append(list, futureEvent(fmt.Sprintf("E%d", i), "Hall", i+1))
	}

	var notifications []profiles.Notification
	for i := 0; i < 6; i++ {
		notifications = append(notifications, profiles.Notification{ID: primitive.NewObjectID(), Message: fmt.Sprintf("n%d", i)})
	}

	service.EXPECT().ListEvents(gomock.Any(), gomock.Any()).Return(list, nil)
	service.EXPECT().ListNotifications(gomock.Any(), gomock.Any()).Return(notifications, nil)

	view := views.NewDashboardView(service)
	require.NoError(t, view.Load(context.Background(), testSession()))

	snap := view.Snapshot(now)
	require.Len(t, snap.UpcomingEvents, 5)
	assert.Equal(t, "E0", snap.UpcomingEvents[0].Title)
	assert.Equal(t, "E4", snap.UpcomingEvents[4].Title)
	require.Len(t, snap.Notifications, 5)
	assert.Equal(t, "n0", snap.Notifications[0].Message)
	assert.False(t, snap.LoadingEvents)
	assert.False(t, snap.LoadingNotifications)
}

func TestDashboardView_FailuresAreIndependent(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockEventService(ctrl)

	service.EXPECT().ListEvents(gomock.Any(), gomock.Any()).Return([]events.Event{futureEvent("E", "Hall", 1)}, nil)
	service.EXPECT().ListNotifications(gomock.Any(), gomock.Any()).Return(nil, errors.New("down"))

	view := views.NewDashboardView(service)
	err := view.Refresh(context.Background(), testSession())
	require.Error(t, err)

	snap := view.Snapshot(now)
	assert.Len(t, snap.UpcomingEvents, 1)
	assert.Empty(t, snap.EventsError)
	assert.Equal(t, "Failed to load notifications", snap.NotificationsError)
	assert.Empty(t, snap.Notifications)
}
