package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/infrastructure/clients"
	"eventdesk/internal/session"
)

type CreateSessionRequest struct {
	UserID string       `json:"userId"`
	Token  string       `json:"token"`
	Role   session.Role `json:"role"`
}

type SessionResponse struct {
	SessionID string       `json:"sessionId"`
	UserID    string       `json:"userId"`
	Role      session.Role `json:"role"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

// CreateSessionHandler opens a session for a user the external auth system
// already signed in.
func (s *Server) CreateSessionHandler(c echo.Context) error {
	var request CreateSessionRequest
	if err := c.Bind(&request); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		return fmt.Errorf("%w: userId is not a valid id", ErrBadRequest)
	}

	switch request.Role {
	case "", session.RoleAttendee, session.RoleOrganizer, session.RoleAdmin:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrBadRequest, request.Role)
	}

	sess := session.New(userID, request.Token, request.Role, s.now())
	if !sess.Usable(s.now()) {
		return clients.ErrAuth
	}

	if err := s.sessions.Save(c.Request().Context(), sess); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	response := SessionResponse{
		SessionID: sess.ID,
		UserID:    sess.UserID.Hex(),
		Role:      sess.Role,
	}
	if exp, ok := sess.ExpiresAt(); ok {
		response.ExpiresAt = &exp
	}

	return c.JSON(http.StatusCreated, response)
}

// DeleteSessionHandler logs out: the stored session and its views are gone.
func (s *Server) DeleteSessionHandler(c echo.Context) error {
	id := c.Request().Header.Get(SessionHeader)
	if id == "" {
		return ErrUnknownSession
	}

	if err := s.sessions.Delete(c.Request().Context(), id); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	s.registry.Drop(id)

	return c.NoContent(http.StatusNoContent)
}

// currentSession resolves the caller's session from the session header.
func (s *Server) currentSession(c echo.Context) (session.Session, error) {
	id := c.Request().Header.Get(SessionHeader)
	if id == "" {
		return session.Session{}, ErrUnknownSession
	}

	sess, err := s.sessions.Get(c.Request().Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		s.registry.Drop(id)
		return session.Session{}, ErrUnknownSession
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("error loading session: %w", err)
	}

	if !sess.Usable(s.now()) {
		s.registry.Drop(id)
		return session.Session{}, clients.ErrAuth
	}

	return sess, nil
}

func pageParam(c echo.Context) (int, error) {
	raw := c.QueryParam("page")
	if raw == "" {
		return 0, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive number", ErrBadRequest)
	}

	return page, nil
}

func objectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s is not a valid id", ErrBadRequest, name)
	}

	return id, nil
}
