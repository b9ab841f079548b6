package views

import (
	"context"
	"sync"
	"time"
)

type RegistryConfig struct {
	PageSize           int
	ProfileConcurrency int
	Now                func() time.Time
}

// Set holds the views of one session. Views are created on first use.
type Set struct {
	service   EventService
	publisher EventPublisher
	cfg       RegistryConfig

	mu        sync.Mutex
	explore   *ExploreView
	myEvents  *MyEventsView
	dashboard *DashboardView
	analytics map[Scope]*AnalyticsView
}

func (s *Set) Explore() *ExploreView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.explore == nil {
		s.explore = NewExploreView(s.service, s.publisher, s.cfg.PageSize, s.cfg.Now)
	}
	return s.explore
}

func (s *Set) MyEvents() *MyEventsView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.myEvents == nil {
		s.myEvents = NewMyEventsView(s.service, s.publisher, s.cfg.PageSize, s.cfg.Now)
	}
	return s.myEvents
}

func (s *Set) Dashboard() *DashboardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dashboard == nil {
		s.dashboard = NewDashboardView(s.service)
	}
	return s.dashboard
}

func (s *Set) Analytics(scope Scope) *AnalyticsView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.analytics[scope]
	if !ok {
		v = NewAnalyticsView(s.service, scope, s.cfg.PageSize, s.cfg.ProfileConcurrency, s.cfg.Now)
		s.analytics[scope] = v
	}
	return v
}

// Opened reports which views exist without creating any. Event handlers use
// it to refresh only what a client has looked at.
func (s *Set) Opened() (explore *ExploreView, myEvents *MyEventsView, dashboard *DashboardView, analytics []*AnalyticsView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, scope := range []Scope{ScopeOrganizer, ScopeAll} {
		if v, ok := s.analytics[scope]; ok {
			analytics = append(analytics, v)
		}
	}

	return s.explore, s.myEvents, s.dashboard, analytics
}

// Registry maps session ids to their views.
type Registry struct {
	service   EventService
	publisher EventPublisher
	cfg       RegistryConfig

	mu   sync.Mutex
	sets map[string]*Set
}

func NewRegistry(service EventService, publisher EventPublisher, cfg RegistryConfig) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Registry{
		service:   service,
		publisher: publisher,
		cfg:       cfg,
		sets:      map[string]*Set{},
	}
}

func (r *Registry) For(sessionID string) *Set {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sets[sessionID]
	if !ok {
		s = &Set{
			service:   r.service,
			publisher: r.publisher,
			cfg:       r.cfg,
			analytics: map[Scope]*AnalyticsView{},
		}
		r.sets[sessionID] = s
	}

	return s
}

func (r *Registry) Lookup(sessionID string) (*Set, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sets[sessionID]
	return s, ok
}

// Drop forgets all views of a session. It is called on logout and when a
// request arrives for a session that is gone or expired.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sets, sessionID)
}

// Sweep drops the views of every session keep rejects and returns how many
// were dropped. keep runs without the registry lock held.
func (r *Registry) Sweep(ctx context.Context, keep func(ctx context.Context, sessionID string) bool) int {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sets))
	for id := range r.sets {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	dropped := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if keep(ctx, id) {
			continue
		}

		r.Drop(id)
		dropped++
	}

	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sets)
}
