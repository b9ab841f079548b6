package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"eventdesk/internal/discovery"
	"eventdesk/internal/domain/events"
	"eventdesk/internal/domain/profiles"
	"eventdesk/internal/session"
)

const (
	dashboardLimit = 5

	loadNotificationsFailed = "Failed to load notifications"
)

type DashboardSnapshot struct {
	UpcomingEvents       []events.Event          `json:"upcomingEvents"`
	Notifications        []profiles.Notification `json:"notifications"`
	LoadingEvents        bool                    `json:"loadingEvents"`
	LoadingNotifications bool                    `json:"loadingNotifications"`
	EventsError          string                  `json:"eventsError,omitempty"`
	NotificationsError   string                  `json:"notificationsError,omitempty"`
}

// DashboardView is the attendee's landing page. Events and notifications are
// fetched independently; a failure of one leaves the other intact.
type DashboardView struct {
	service EventService

	mu sync.Mutex

	eventsGen     generation
	eventsFetched bool
	list          []events.Event
	loadingEvents bool
	eventsErr     error

	notificationsGen     generation
	notificationsFetched bool
	notifications        []profiles.Notification
	loadingNotifications bool
	notificationsErr     error
}

func NewDashboardView(service EventService) *DashboardView {
	return &DashboardView{service: service}
}

func (v *DashboardView) Load(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	fetched := v.eventsFetched && v.notificationsFetched
	v.mu.Unlock()

	if fetched {
		return nil
	}

	return v.Refresh(ctx, sess)
}

// Refresh runs both fetches concurrently and returns their joined errors.
func (v *DashboardView) Refresh(ctx context.Context, sess session.Session) error {
	var eventsErr, notificationsErr error

	var g errgroup.Group
	g.Go(func() error {
		eventsErr = v.RefreshEvents(ctx, sess)
		return nil
	})
	g.Go(func() error {
		notificationsErr = v.RefreshNotifications(ctx, sess)
		return nil
	})
	_ = g.Wait()

	return errors.Join(eventsErr, notificationsErr)
}

func (v *DashboardView) RefreshEvents(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	token := v.eventsGen.begin()
	v.loadingEvents = true
	v.mu.Unlock()

	list, err := v.service.ListEvents(ctx, sess)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.eventsGen.current(token) {
		dropStale(ctx, "dashboard_events", token)
		return nil
	}

	v.loadingEvents = false
	v.eventsFetched = true
	if err != nil {
		v.eventsErr = err
		return fmt.Errorf("error refreshing dashboard events: %w", err)
	}

	v.eventsErr = nil
	v.list = list

	return nil
}

func (v *DashboardView) RefreshNotifications(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	token := v.notificationsGen.begin()
	v.loadingNotifications = true
	v.mu.Unlock()

	list, err := v.service.ListNotifications(ctx, sess)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.notificationsGen.current(token) {
		dropStale(ctx, "dashboard_notifications", token)
		return nil
	}

	v.loadingNotifications = false
	v.notificationsFetched = true
	if err != nil {
		v.notificationsErr = err
		return fmt.Errorf("error refreshing notifications: %w", err)
	}

	v.notificationsErr = nil
	v.notifications = list

	return nil
}

// Snapshot shows the first five events that have not started yet and the
// first five notifications.
func (v *DashboardView) Snapshot(now time.Time) DashboardSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := DashboardSnapshot{
		UpcomingEvents:       head(discovery.Filter(v.list, discovery.Query{}, now), dashboardLimit),
		Notifications:        head(v.notifications, dashboardLimit),
		LoadingEvents:        v.loadingEvents,
		LoadingNotifications: v.loadingNotifications,
	}
	if v.eventsErr != nil {
		snap.EventsError = loadEventsFailed
	}
	if v.notificationsErr != nil {
		snap.NotificationsError = loadNotificationsFailed
	}

	return snap
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}

	out := make([]T, len(items))
	copy(out, items)

	return out
}
