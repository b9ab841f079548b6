package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/booking"
	"eventdesk/internal/views"
)

type BookTicketRequest struct {
	EventID      string `json:"eventId"`
	TicketType   string `json:"ticketType"`
	DiscountCode string `json:"discountCode"`
}

type BookTicketResponse struct {
	Booking booking.Outcome `json:"booking"`
}

type BookTicketErrorResponse struct {
	ErrorResponse
	Booking booking.Outcome `json:"booking"`
}

func (s *Server) GetExploreHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	page, err := pageParam(c)
	if err != nil {
		return err
	}

	view := s.registry.For(sess.ID).Explore()
	view.SetQuery(views.ExploreQuery{
		Search:       c.QueryParam("search"),
		Location:     c.QueryParam("location"),
		DiscountCode: c.QueryParam("discountCode"),
		Page:         page,
	})

	// a failed load is shown through the snapshot's error
	_ = view.Load(ctx, sess)

	return c.JSON(http.StatusOK, view.Snapshot(s.now()))
}

func (s *Server) RefreshExploreHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	view := s.registry.For(sess.ID).Explore()
	if err := view.Refresh(ctx, sess); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view.Snapshot(s.now()))
}

func (s *Server) BookTicketHandler(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	var request BookTicketRequest
	if err := c.Bind(&request); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	eventID, err := primitive.ObjectIDFromHex(request.EventID)
	if err != nil {
		return fmt.Errorf("%w: eventId is not a valid id", ErrBadRequest)
	}

	view := s.registry.For(sess.ID).Explore()
	if err := view.Load(ctx, sess); err != nil {
		return err
	}

	outcome, err := view.Book(ctx, sess, eventID, request.TicketType, request.DiscountCode)
	if errors.Is(err, views.ErrEventNotFound) {
		return err
	}
	if err != nil {
		status, body := errorResponse(err)
		if outcome.Message != "" {
			body.Message = outcome.Message
		}
		return c.JSON(status, BookTicketErrorResponse{ErrorResponse: body, Booking: outcome})
	}

	return c.JSON(http.StatusOK, BookTicketResponse{Booking: outcome})
}

// ResetBookingHandler dismisses a finished booking outcome.
func (s *Server) ResetBookingHandler(c echo.Context) error {
	sess, err := s.currentSession(c)
	if err != nil {
		return err
	}

	view := s.registry.For(sess.ID).Explore()
	view.ResetBooking()

	return c.JSON(http.StatusOK, BookTicketResponse{Booking: view.Snapshot(s.now()).Booking})
}
