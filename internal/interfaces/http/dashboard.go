package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) GetDashboardHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	view := s.registry.For(sess.ID).Dashboard()
	_ = view.Load(ctx, sess)

	return c.JSON(http.StatusOK, view.Snapshot(s.now()))
}
