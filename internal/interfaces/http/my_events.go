package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"eventdesk/internal/domain/events"
)

func (s *Server) GetMyEventsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	page, err := pageParam(c)
	if err != nil {
		return err
	}

	view := s.registry.For(sess.ID).MyEvents()
	view.SetPage(page)
	_ = view.Load(ctx, sess)

	return c.JSON(http.StatusOK, view.Snapshot())
}

func (s *Server) CreateEventHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	var draft events.Draft
	if err := c.Bind(&draft); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	created, err := s.registry.For(sess.ID).MyEvents().Create(ctx, sess, draft)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) GetEventDraftHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	view := s.registry.For(sess.ID).MyEvents()
	if err := view.Load(ctx, sess); err != nil {
		return err
	}

	draft, err := view.Draft(id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, draft)
}

func (s *Server) UpdateEventHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var draft events.Draft
	if err := c.Bind(&draft); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	updated, err := s.registry.For(sess.ID).MyEvents().Update(ctx, sess, id, draft)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) CancelEventHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.registry.For(sess.ID).MyEvents().Cancel(ctx, sess, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
