package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventdesk/internal/session"
	"eventdesk/internal/views"
)

const SessionHeader = "X-Session-ID"

type ViewRegistry interface {
	For(sessionID string) *views.Set
	Drop(sessionID string)
}

type Server struct {
	e    *echo.Echo
	addr string

	sessions session.Store
	registry ViewRegistry
	now      func() time.Time
}

func NewServer(
	e *echo.Echo,
	addr string,
	sessions session.Store,
	registry ViewRegistry,
	routerIsRunning func() bool,
	now func() time.Time,
) *Server {
	if now == nil {
		now = time.Now
	}

	srv := &Server{
		e:        e,
		addr:     addr,
		sessions: sessions,
		registry: registry,
		now:      now,
	}

	e.HTTPErrorHandler = srv.handleError

	e.POST("/session", srv.CreateSessionHandler)
	e.DELETE("/session", srv.DeleteSessionHandler)

	e.GET("/explore", srv.GetExploreHandler)
	e.POST("/explore/refresh", srv.RefreshExploreHandler)
	e.POST("/explore/book", srv.BookTicketHandler)
	e.DELETE("/explore/book", srv.ResetBookingHandler)

	e.GET("/my-events", srv.GetMyEventsHandler)
	e.POST("/my-events", srv.CreateEventHandler)
	e.GET("/my-events/:id/draft", srv.GetEventDraftHandler)
	e.PUT("/my-events/:id", srv.UpdateEventHandler)
	e.DELETE("/my-events/:id", srv.CancelEventHandler)

	e.GET("/analytics", srv.GetAnalyticsHandler)
	e.POST("/analytics/refresh", srv.RefreshAnalyticsHandler)

	e.GET("/dashboard", srv.GetDashboardHandler)

	e.GET("/health", func(c echo.Context) error {
		if !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log.FromContext(c.Request().Context()).
				WithField("path", c.Request().URL.Path).
				WithField("method", c.Request().Method).
				Info("Handling a request")

			err := next(c)

			if err != nil {
				log.FromContext(c.Request().Context()).
					WithField("error", err).
					Error("Request handling error")
			}

			return err
		}
	})

	return srv
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// ServeHTTP lets tests drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}
