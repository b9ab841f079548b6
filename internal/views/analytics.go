package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"eventdesk/internal/analytics"
	"eventdesk/internal/pagination"
	"eventdesk/internal/session"
)

const loadAnalyticsFailed = "Error fetching event data"

type Scope string

const (
	// ScopeOrganizer covers the events organized by the session's user.
	ScopeOrganizer Scope = "organizer"
	// ScopeAll covers every event and is reserved for admins.
	ScopeAll Scope = "all"
)

var (
	ErrUnknownScope = errors.New("unknown analytics scope")
	ErrForbidden    = errors.New("scope not allowed for this session")
)

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeOrganizer:
		return ScopeOrganizer, nil
	case ScopeAll:
		return ScopeAll, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

type AnalyticsSnapshot struct {
	Scope     Scope                   `json:"scope"`
	Reports   []analytics.EventReport `json:"reports"`
	Page      int                     `json:"page"`
	PageCount int                     `json:"pageCount"`
	Pages     []int                   `json:"pages"`
	Loading   bool                    `json:"loading"`
	Error     string                  `json:"error,omitempty"`
}

type AnalyticsView struct {
	service    EventService
	aggregator *analytics.Aggregator
	scope      Scope
	pageSize   int
	now        func() time.Time

	mu      sync.Mutex
	gen     generation
	fetched bool
	reports []analytics.EventReport
	page    int
	loading bool
	err     error
}

func NewAnalyticsView(
	service EventService,
	scope Scope,
	pageSize int,
	concurrency int,
	now func() time.Time,
) *AnalyticsView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if now == nil {
		now = time.Now
	}

	return &AnalyticsView{
		service:    service,
		aggregator: analytics.NewAggregator(service, concurrency),
		scope:      scope,
		pageSize:   pageSize,
		now:        now,
		page:       1,
	}
}

func (v *AnalyticsView) Scope() Scope {
	return v.scope
}

func (v *AnalyticsView) Load(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	fetched := v.fetched
	v.mu.Unlock()

	if fetched {
		return nil
	}

	return v.Refresh(ctx, sess)
}

// Refresh fetches the events of the view's scope and rebuilds every report.
// Attendee lookups that fail leave the attendee out of its report.
func (v *AnalyticsView) Refresh(ctx context.Context, sess session.Session) error {
	if v.scope == ScopeAll && sess.Role != session.RoleAdmin {
		return ErrForbidden
	}

	v.mu.Lock()
	token := v.gen.begin()
	v.loading = true
	v.mu.Unlock()

	reports, err := v.build(ctx, sess)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.gen.current(token) {
		dropStale(ctx, "analytics_"+string(v.scope), token)
		return nil
	}

	v.loading = false
	v.fetched = true
	if err != nil {
		v.err = err
		return fmt.Errorf("error refreshing %s analytics: %w", v.scope, err)
	}

	v.err = nil
	v.reports = reports

	return nil
}

func (v *AnalyticsView) build(ctx context.Context, sess session.Session) ([]analytics.EventReport, error) {
	list, err := v.service.ListEvents(ctx, sess)
	if err != nil {
		return nil, err
	}

	if v.scope == ScopeOrganizer {
		list = analytics.OwnedBy(list, sess.UserID)
	}

	return v.aggregator.Aggregate(ctx, sess, list, v.now()), nil
}

func (v *AnalyticsView) SetPage(page int) {
	if page < 1 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = page
}

func (v *AnalyticsView) Snapshot() AnalyticsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := AnalyticsSnapshot{
		Scope:     v.scope,
		Reports:   pagination.Page(v.reports, v.pageSize, v.page),
		Page:      v.page,
		PageCount: pagination.Count(len(v.reports), v.pageSize),
		Pages:     pagination.Numbers(len(v.reports), v.pageSize),
		Loading:   v.loading,
	}
	if v.err != nil {
		snap.Error = loadAnalyticsFailed
	}

	return snap
}
