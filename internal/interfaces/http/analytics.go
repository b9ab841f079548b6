package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eventdesk/internal/session"
	"eventdesk/internal/views"
)

func (s *Server) analyticsView(c echo.Context, sess session.Session) (*views.AnalyticsView, error) {
	scope, err := views.ParseScope(c.QueryParam("scope"))
	if err != nil {
		return nil, err
	}

	if scope == views.ScopeAll && sess.Role != session.RoleAdmin {
		return nil, views.ErrForbidden
	}

	return s.registry.For(sess.ID).Analytics(scope), nil
}

func (s *Server) GetAnalyticsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	page, err := pageParam(c)
	if err != nil {
		return err
	}

	view, err := s.analyticsView(c, sess)
	if err != nil {
		return err
	}

	view.SetPage(page)
	_ = view.Load(ctx, sess)

	return c.JSON(http.StatusOK, view.Snapshot())
}

func (s *Server) RefreshAnalyticsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	view, err := s.analyticsView(c, sess)
	if err != nil {
		return err
	}

	if err := view.Refresh(ctx, sess); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view.Snapshot())
}
